package matcher

import "github.com/chronos-tachyon/goregex/bytecode"

// findLookaroundEnd locates the *_END instruction matching the
// LOOKAHEAD/LOOKBEHIND family opener at openPC, by a forward scan tracking
// nesting depth. bytecode.Program.Validate already guarantees every opener
// has a properly nested, correctly-kinded closer, so the first closer seen
// at depth 0 is always the right one regardless of whether it is spelled
// LOOKAHEAD_END or LOOKBEHIND_END.
func (m *Matcher) findLookaroundEnd(openPC int) (int, error) {
	if end, ok := m.lookEndCache[openPC]; ok {
		return end, nil
	}

	inst, err := bytecode.Decode(m.prog.Bytes, openPC)
	if err != nil {
		return 0, err
	}
	pc := inst.NextPC()
	depth := 1
	for {
		inst, err = bytecode.Decode(m.prog.Bytes, pc)
		if err != nil {
			return 0, err
		}
		switch {
		case inst.Code.IsLookaroundStart():
			depth++
		case inst.Code.IsLookaroundEnd():
			depth--
			if depth == 0 {
				if m.lookEndCache == nil {
					m.lookEndCache = make(map[int]int)
				}
				m.lookEndCache[openPC] = pc
				return pc, nil
			}
		}
		pc = inst.NextPC()
	}
}

// matchLookahead implements `(?=X)` / `(?!X)`: the assertion is zero-width
// and consults, but never consumes, input starting at the current pos.
func (m *Matcher) matchLookahead(inst bytecode.Inst, pos, stopPC int) (bool, int, error) {
	endPC, err := m.findLookaroundEnd(inst.PC)
	if err != nil {
		return false, 0, err
	}

	snap := m.captures
	bodyOK, _, err := m.run(inst.NextPC(), pos, endPC)
	if err != nil {
		return false, 0, err
	}

	negated := inst.Code == bytecode.OpNegativeLookahead
	if bodyOK == negated {
		m.captures = snap
		return false, 0, nil
	}
	if negated {
		// A negative assertion never captures anything from its body.
		m.captures = snap
	}

	endInst, err := bytecode.Decode(m.prog.Bytes, endPC)
	if err != nil {
		return false, 0, err
	}
	return m.run(endInst.NextPC(), pos, stopPC)
}

// matchLookbehind implements `(?<=X)` / `(?<!X)`: X must match a suffix of
// the input ending exactly at pos. Candidate start positions are tried from
// pos down to pos-lookbehindWindow (pos itself covers the zero-length body
// case); the search is necessarily linear since bytecode offers no way to
// run the body backward.
func (m *Matcher) matchLookbehind(inst bytecode.Inst, pos, stopPC int) (bool, int, error) {
	endPC, err := m.findLookaroundEnd(inst.PC)
	if err != nil {
		return false, 0, err
	}

	limit := pos - lookbehindWindow
	if limit < 0 {
		limit = 0
	}

	snap := m.captures
	matched := false
	for start := pos; start >= limit; start-- {
		m.captures = snap
		ok, end, err := m.run(inst.NextPC(), start, endPC)
		if err != nil {
			return false, 0, err
		}
		if ok && end == pos {
			matched = true
			break
		}
	}

	negated := inst.Code == bytecode.OpNegativeLookbehind
	if matched == negated {
		m.captures = snap
		return false, 0, nil
	}
	if negated {
		m.captures = snap
	}

	endInst, err := bytecode.Decode(m.prog.Bytes, endPC)
	if err != nil {
		return false, 0, err
	}
	return m.run(endInst.NextPC(), pos, stopPC)
}
