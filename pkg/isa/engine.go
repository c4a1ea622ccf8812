package isa

import "github.com/sirupsen/logrus"

// Layout is the best bit assignment discovered for a Description: every
// format's final bitmask (RESERVED spacers included) and the total
// number of bits actually used across every format's word.
type Layout struct {
	Length   int
	Formats  []*Format
	UsedBits int
}

// Options configures a search run.
type Options struct {
	// Verbose, when set, logs every candidate layout reaching a leaf of
	// the search tree at Debug level, not just improvements.
	Verbose bool

	// OnImprovement, if set, is invoked synchronously every time the
	// search finds a new best layout, before the search continues. The
	// CLI uses this to rewrite the output JSON file in place so a long
	// search leaves a valid result on disk even if interrupted.
	OnImprovement func(*Layout)
}

// Run places headers, orders fields by priority, and runs the recursive
// backtracking search over desc, returning the best layout found or an
// InfeasibilityError if none exists. Priority assignment already
// happened during parsing (input.go calls assignPriorities).
func Run(desc *Description, opts Options, log *logrus.Entry) (*Layout, error) {
	if err := placeHeaders(desc, log); err != nil {
		return nil, err
	}

	order := orderedFields(desc)
	log.WithField("field_order", fieldNames(order)).Info("starting search")

	state := &searchState{
		length:  desc.Length,
		formats: desc.Formats,
		verbose: opts.Verbose,
	}

	if opts.Verbose {
		state.onCandidate = func(formats []*Format, used int) {
			log.WithField("used_bits", used).Debug("\n" + RenderText(formats, desc.Length))
		}
	}
	state.onImprovement = func(formats []*Format, used int) {
		log.WithField("used_bits", used).Info("new best layout found")
		if opts.OnImprovement != nil {
			opts.OnImprovement(&Layout{Length: desc.Length, Formats: cloneFormats(formats), UsedBits: used})
		}
	}

	placeFields(state, order, 0)

	log.WithField("leaves_explored", state.leaves).Info("search complete")

	if state.bestFormats == nil {
		return nil, &InfeasibilityError{Msg: "no legal placement exists for the given fields and formats"}
	}

	return &Layout{Length: desc.Length, Formats: state.bestFormats, UsedBits: state.bestScore}, nil
}

func fieldNames(fields []*Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
