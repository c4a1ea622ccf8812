package isa

import "testing"

func runFixture(t *testing.T, src string) *Layout {
	t.Helper()
	desc := mustParse(t, src)
	layout, err := Run(desc, Options{}, testLogger())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return layout
}

func mustSlot(t *testing.T, bitmask []Slot, name string) Slot {
	t.Helper()
	s, ok := slotByName(bitmask, name)
	if !ok {
		t.Fatalf("no %q slot in bitmask %+v", name, bitmask)
	}
	return s
}

// Scenario A: minimal single-format, single-instruction.
func TestScenarioA(t *testing.T) {
	layout := runFixture(t, `{
      "length": 8,
      "fields": [ {"a": 3}, {"b": 2} ],
      "instructions": [
        {"format": "F0", "insns": ["nop"], "operands": ["a", "b"], "comment": ""}
      ]
    }`)

	f0 := formatByName(layout.Formats, "F0")
	if _, ok := slotByName(f0.Bitmask, NameFormat); ok {
		t.Error("single-format input should omit the F slot entirely")
	}
	if _, ok := slotByName(f0.Bitmask, NameOpcode); ok {
		t.Error("single-instruction format should omit the OPCODE slot")
	}

	a := mustSlot(t, f0.Bitmask, "a")
	if a.MSB != 7 || a.LSB != 5 {
		t.Errorf("a = [%d:%d], want [7:5]", a.MSB, a.LSB)
	}
	b := mustSlot(t, f0.Bitmask, "b")
	if b.MSB != 4 || b.LSB != 3 {
		t.Errorf("b = [%d:%d], want [4:3]", b.MSB, b.LSB)
	}
	r := mustSlot(t, f0.Bitmask, NameReserved)
	if r.MSB != 2 || r.LSB != 0 {
		t.Errorf("RESERVED = [%d:%d], want [2:0]", r.MSB, r.LSB)
	}
	if layout.UsedBits != 5 {
		t.Errorf("used_bits = %d, want 5", layout.UsedBits)
	}
}

// Scenario B: two formats, shared field rd.
func TestScenarioB(t *testing.T) {
	layout := runFixture(t, `{
      "length": 16,
      "fields": [ {"rd": 4}, {"rs": 4}, {"imm": ">=4"} ],
      "instructions": [
        {"format": "F0", "insns": ["add", "sub"], "operands": ["rd", "rs"], "comment": ""},
        {"format": "F1", "insns": ["ldi"], "operands": ["rd", "imm"], "comment": ""}
      ]
    }`)

	f0 := formatByName(layout.Formats, "F0")
	f1 := formatByName(layout.Formats, "F1")

	f0f := mustSlot(t, f0.Bitmask, NameFormat)
	f1f := mustSlot(t, f1.Bitmask, NameFormat)
	if f0f.MSB != 15 || f0f.LSB != 15 {
		t.Errorf("F0's F = [%d:%d], want [15:15]", f0f.MSB, f0f.LSB)
	}
	if f0f.MSB != f1f.MSB || f0f.LSB != f1f.LSB {
		t.Errorf("F slot position differs across formats: F0=%v F1=%v", f0f, f1f)
	}

	op := mustSlot(t, f0.Bitmask, NameOpcode)
	if op.MSB != 14 || op.LSB != 14 {
		t.Errorf("F0's OPCODE = [%d:%d], want [14:14]", op.MSB, op.LSB)
	}
	if _, ok := slotByName(f1.Bitmask, NameOpcode); ok {
		t.Error("F1 has a single instruction and should have no OPCODE slot")
	}

	rd0 := mustSlot(t, f0.Bitmask, "rd")
	rd1 := mustSlot(t, f1.Bitmask, "rd")
	if rd0.MSB != 13 || rd0.LSB != 10 {
		t.Errorf("rd in F0 = [%d:%d], want [13:10]", rd0.MSB, rd0.LSB)
	}
	if rd0.MSB != rd1.MSB || rd0.LSB != rd1.LSB {
		t.Errorf("rd position differs across formats: F0=%v F1=%v", rd0, rd1)
	}

	rs := mustSlot(t, f0.Bitmask, "rs")
	if rs.MSB != 9 || rs.LSB != 6 {
		t.Errorf("rs = [%d:%d], want [9:6]", rs.MSB, rs.LSB)
	}

	imm := mustSlot(t, f1.Bitmask, "imm")
	if imm.Width() != 10 || imm.MSB != 9 || imm.LSB != 0 {
		t.Errorf("imm = [%d:%d] (width %d), want [9:0] (width 10)", imm.MSB, imm.LSB, imm.Width())
	}

	reserved := mustSlot(t, f0.Bitmask, NameReserved)
	if reserved.MSB != 5 || reserved.LSB != 0 {
		t.Errorf("F0's RESERVED = [%d:%d], want [5:0]", reserved.MSB, reserved.LSB)
	}
}

// Scenario C: infeasible input must surface an InfeasibilityError.
func TestScenarioCInfeasible(t *testing.T) {
	desc := mustParse(t, `{
      "length": 4,
      "fields": [ {"a": 3}, {"b": 3} ],
      "instructions": [
        {"format": "F0", "insns": ["x"], "operands": ["a", "b"], "comment": ""},
        {"format": "F1", "insns": ["y"], "operands": ["a", "b"], "comment": ""}
      ]
    }`)
	_, err := Run(desc, Options{}, testLogger())
	if err == nil {
		t.Fatal("expected InfeasibilityError")
	}
	if _, ok := err.(*InfeasibilityError); !ok {
		t.Errorf("expected *InfeasibilityError, got %T: %v", err, err)
	}
}

// Scenario D: priority tie-break places the higher-priority field first.
func TestScenarioDPriorityOrdering(t *testing.T) {
	desc := mustParse(t, `{
      "length": 8,
      "fields": [ {"x": 2}, {"y": 2} ],
      "instructions": [
        {"format": "F0", "insns": ["i0"], "operands": ["x"], "comment": ""},
        {"format": "F1", "insns": ["i1"], "operands": ["x"], "comment": ""},
        {"format": "F2", "insns": ["i2"], "operands": ["x", "y"], "comment": ""}
      ]
    }`)
	order := orderedFields(desc)
	if len(order) != 2 {
		t.Fatalf("got %d ordered fields, want 2", len(order))
	}
	if order[0].Name != "x" {
		t.Errorf("first field = %q, want %q (x used by 3 formats, y by 1)", order[0].Name, "x")
	}
	if order[0].Priority <= order[1].Priority {
		t.Errorf("x.priority=%d should exceed y.priority=%d", order[0].Priority, order[1].Priority)
	}
}

// Scenario E: a >=N field is tried at every width up to L, and the best
// layout keeps it as wide as the other fields' minimums allow.
func TestScenarioEWidthEnumeration(t *testing.T) {
	layout := runFixture(t, `{
      "length": 8,
      "fields": [ {"op": 2}, {"imm": ">=1"} ],
      "instructions": [
        {"format": "F0", "insns": ["i0"], "operands": ["op", "imm"], "comment": ""}
      ]
    }`)
	f0 := formatByName(layout.Formats, "F0")
	imm := mustSlot(t, f0.Bitmask, "imm")
	if imm.Width() != 6 {
		t.Errorf("imm width = %d, want 6 (8 - 2 for op, leaving no RESERVED)", imm.Width())
	}
	if layout.UsedBits != 8 {
		t.Errorf("used_bits = %d, want 8 (a fully packed single format)", layout.UsedBits)
	}
}

// Non-overlap and coverage: every bit of every format is covered by
// exactly one slot after a run completes.
func TestPropertyCoverageAndNonOverlap(t *testing.T) {
	layout := runFixture(t, `{
      "length": 16,
      "fields": [ {"rd": 4}, {"rs": 4}, {"imm": ">=4"} ],
      "instructions": [
        {"format": "F0", "insns": ["add", "sub"], "operands": ["rd", "rs"], "comment": ""},
        {"format": "F1", "insns": ["ldi"], "operands": ["rd", "imm"], "comment": ""}
      ]
    }`)
	for _, f := range layout.Formats {
		covered := make([]bool, layout.Length)
		for _, s := range f.Bitmask {
			for b := s.LSB; b <= s.MSB; b++ {
				if covered[b] {
					t.Fatalf("format %s: bit %d covered twice", f.Name, b)
				}
				covered[b] = true
			}
		}
		for b, ok := range covered {
			if !ok {
				t.Errorf("format %s: bit %d not covered by any slot", f.Name, b)
			}
		}
	}
}

// Width bounds: every operand slot respects its field's declared min/max.
func TestPropertyWidthBounds(t *testing.T) {
	desc := mustParse(t, `{
      "length": 16,
      "fields": [ {"rd": 4}, {"rs": 4}, {"imm": ">=4"} ],
      "instructions": [
        {"format": "F0", "insns": ["add", "sub"], "operands": ["rd", "rs"], "comment": ""},
        {"format": "F1", "insns": ["ldi"], "operands": ["rd", "imm"], "comment": ""}
      ]
    }`)
	layout, err := Run(desc, Options{}, testLogger())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, f := range layout.Formats {
		for _, s := range f.Bitmask {
			field := desc.field(s.Name)
			if field == nil {
				continue
			}
			if s.Width() < field.Min || s.Width() > field.Max {
				t.Errorf("format %s field %s width %d outside [%d,%d]", f.Name, s.Name, s.Width(), field.Min, field.Max)
			}
		}
	}
}

// Backtracking purity: after placeFields returns for the whole search,
// formats carry only their pre-search header slots (every provisional
// field insertion has been undone by the time Run hands back control,
// except for the winning snapshot it deep-copied out).
func TestPropertyBacktrackingPurity(t *testing.T) {
	desc := mustParse(t, minimalValidInput)
	if err := placeHeaders(desc, testLogger()); err != nil {
		t.Fatalf("placeHeaders: %v", err)
	}
	before := cloneFormats(desc.Formats)

	order := orderedFields(desc)
	state := &searchState{length: desc.Length, formats: desc.Formats}
	placeFields(state, order, 0)

	if len(desc.Formats) != len(before) {
		t.Fatalf("format count changed: got %d, want %d", len(desc.Formats), len(before))
	}
	for i, f := range desc.Formats {
		if len(f.Bitmask) != len(before[i].Bitmask) {
			t.Fatalf("format %s: bitmask length changed to %d, want %d", f.Name, len(f.Bitmask), len(before[i].Bitmask))
		}
		for j, s := range f.Bitmask {
			want := before[i].Bitmask[j]
			if s.Name != want.Name || s.MSB != want.MSB || s.LSB != want.LSB {
				t.Errorf("format %s slot %d = %+v, want %+v (search mutated state it should have undone)", f.Name, j, s, want)
			}
		}
	}
}
