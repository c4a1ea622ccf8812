package isa

// scoreCandidate is the search tree's base case: every field has been
// placed in every format that uses it. It temporarily fills the
// remaining gaps with RESERVED spacers, scores the candidate by total
// used bits, and — if that beats the best score seen so far, compared
// with strict '<' so the first-seen layout of the maximum score wins —
// deep-copies it into the best-known snapshot before stripping the
// spacers back out and returning control to the caller for further
// backtracking.
func scoreCandidate(state *searchState) {
	state.leaves++
	fillReserved(state.formats, state.length)

	used := state.length * len(state.formats)
	for _, f := range state.formats {
		for _, s := range f.Bitmask {
			if s.Name == NameReserved {
				used -= s.Width()
			}
		}
	}

	if state.onCandidate != nil {
		state.onCandidate(state.formats, used)
	}

	if state.bestScore < used {
		state.bestScore = used
		state.bestFormats = cloneFormats(state.formats)
		if state.onImprovement != nil {
			state.onImprovement(state.bestFormats, used)
		}
	}

	stripReserved(state.formats)
}
