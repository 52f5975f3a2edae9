package matcher

// maxCaptures mirrors bytecode's 16-group capture table cap.
const maxCaptures = 16

// unset marks a capture slot that SAVE_START/SAVE_END have not (yet)
// written, per group 0's implicit bounds being the only ones guaranteed to
// be set.
const unset = -1

// Match is the result of a successful match attempt: the overall span plus
// one {start,end} pair per capturing group. Group 0 is the whole match.
// Captures reference byte offsets into the caller's input slice; callers
// must not mutate that slice while a Match is still in use.
type Match struct {
	Start, End int
	captures   [maxCaptures][2]int
}

// Group returns the [start, end) byte range of the given capturing group.
// ok is false if the group never participated in the match (e.g. the
// non-taken side of an alternation, or a quantifier that matched zero
// times).
func (m *Match) Group(index int) (start, end int, ok bool) {
	if index < 0 || index >= maxCaptures {
		return 0, 0, false
	}
	pair := m.captures[index]
	if pair[0] == unset || pair[1] == unset {
		return 0, 0, false
	}
	return pair[0], pair[1], true
}

func freshCaptures() [maxCaptures][2]int {
	var caps [maxCaptures][2]int
	for i := range caps {
		caps[i] = [2]int{unset, unset}
	}
	return caps
}
