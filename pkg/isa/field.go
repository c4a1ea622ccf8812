package isa

// Field is a named operand category with width bounds, referenced by zero
// or more formats. Priority is derived: the number of formats that
// reference the field as an operand.
type Field struct {
	Name     string
	Min      int
	Max      int
	Priority int
}

// assignPriorities increments each field's Priority once per format that
// references it as an operand. Fields never referenced keep Priority 0 and
// are never placed by the search engine.
func assignPriorities(desc *Description) {
	for _, f := range desc.Formats {
		for _, name := range f.Operands {
			if field := desc.field(name); field != nil {
				field.Priority++
			}
		}
	}
}

// orderedFields returns the fields with Priority > 0, sorted by descending
// priority with ties broken by declaration order. Declaration order is
// preserved by the stable stableSortByPriorityDesc operating over
// desc.Fields, which is already in input order.
func orderedFields(desc *Description) []*Field {
	out := make([]*Field, 0, len(desc.Fields))
	for _, f := range desc.Fields {
		if f.Priority > 0 {
			out = append(out, f)
		}
	}
	stableSortByPriorityDesc(out)
	return out
}

// stableSortByPriorityDesc sorts fields by descending priority, preserving
// the relative order of equal-priority fields (insertion-order tie break).
func stableSortByPriorityDesc(fields []*Field) {
	// Simple stable insertion sort: field counts are small (well under
	// 20 in practice), so this is both simplest and fast enough, and it
	// makes the stability requirement obvious by inspection rather than
	// relying on sort.SliceStable's contract.
	for i := 1; i < len(fields); i++ {
		j := i
		for j > 0 && fields[j-1].Priority < fields[j].Priority {
			fields[j-1], fields[j] = fields[j], fields[j-1]
			j--
		}
	}
}
