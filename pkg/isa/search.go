package isa

// gapInfo holds, for one format and one candidate field, the maximum
// contiguous free width starting at each bit position (gap) and the
// bitmask insertion index a new slot with that MSB would use (insertAt).
type gapInfo struct {
	gap      []int
	insertAt []int
}

// computeGapInfo walks a format's bitmask, in descending order, plus a
// virtual upper boundary at bit `length` and a virtual lower boundary at
// bit -1, and records for every bit position the maximum contiguous run
// of free bits extending downward from it, provided that run is at
// least minWidth; positions that don't clear minWidth, or that fall
// inside an already-placed slot, are left at the zero value (infeasible).
//
// Expressed as a pure function over explicit arguments rather than
// nested closures over mutable captures, so it composes cleanly with
// backtracking undo.
func computeGapInfo(bitmask []Slot, length, minWidth int) gapInfo {
	gap := make([]int, length)
	insertAt := make([]int, length)

	prevLSB := length
	ix := 0
	for j := 0; j <= len(bitmask); j++ {
		bMSB := -1
		if j < len(bitmask) {
			bMSB = bitmask[j].MSB
		}
		for i := prevLSB - 1; i > bMSB; i-- {
			w := i - bMSB
			if w >= minWidth {
				gap[i] = w
				insertAt[i] = ix
			}
		}
		if j < len(bitmask) {
			prevLSB = bitmask[j].LSB
			ix = j + 1
		}
	}
	return gapInfo{gap: gap, insertAt: insertAt}
}

// searchState carries the mutable bookkeeping threaded through the
// recursive search: the best layout discovered so far, and the hooks the
// caller wants notified as it improves.
type searchState struct {
	length        int
	formats       []*Format
	bestScore     int
	bestFormats   []*Format
	leaves        int
	verbose       bool
	onImprovement func(formats []*Format, usedBits int)
	onCandidate   func(formats []*Format, usedBits int)
}

// formatsUsing returns the formats (in declaration order) whose operand
// set contains field.
func formatsUsing(formats []*Format, fieldName string) []*Format {
	var out []*Format
	for _, f := range formats {
		if f.hasOperand(fieldName) {
			out = append(out, f)
		}
	}
	return out
}

// placeFields is the recursive backtracking core. order is the
// remaining fields to place, highest priority first; idx is the
// current position in order. At idx == len(order) every field has been
// placed and the candidate is scored.
func placeFields(state *searchState, order []*Field, idx int) {
	if idx == len(order) {
		scoreCandidate(state)
		return
	}

	field := order[idx]
	using := formatsUsing(state.formats, field.Name)
	if len(using) == 0 {
		// Priority > 0 guarantees at least one user; defensive only.
		placeFields(state, order, idx+1)
		return
	}

	infos := make([]gapInfo, len(using))
	for i, f := range using {
		infos[i] = computeGapInfo(f.Bitmask, state.length, field.Min)
	}

	for pos := state.length - 1; pos >= 0; pos-- {
		wMax := field.Max
		feasible := true
		for _, info := range infos {
			g := info.gap[pos]
			if g <= 0 {
				feasible = false
				break
			}
			if g < wMax {
				wMax = g
			}
		}
		if !feasible {
			continue
		}

		for w := field.Min; w <= wMax; w++ {
			for i, f := range using {
				ix := infos[i].insertAt[pos]
				f.insertSlot(ix, Slot{
					Name:  field.Name,
					MSB:   pos,
					LSB:   pos - w + 1,
					Value: operandValue(),
				})
			}

			placeFields(state, order, idx+1)

			for _, f := range using {
				f.removeNamed(field.Name)
			}
		}
	}
}
