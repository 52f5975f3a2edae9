package matcher

import "github.com/chronos-tachyon/goregex/bytecode"

// matchSplit dispatches a SPLIT-family instruction to the handler for the
// shape codegen recorded it as. An unrecorded PC (should not happen for a
// program this package generated, but may for hand-built test bytecode)
// falls back to bare alternation, the least presumptive of the three.
func (m *Matcher) matchSplit(inst bytecode.Inst, pos, stopPC int) (bool, int, error) {
	switch m.prog.Constructs[inst.PC] {
	case bytecode.ConstructStarLoop:
		return m.matchStarLoop(inst, pos, stopPC)
	case bytecode.ConstructQuestion:
		return m.matchQuestion(inst, pos, stopPC)
	default:
		return m.matchAlternation(inst, pos, stopPC)
	}
}

// matchAlternation is bare `a|b`: try the first branch, fall back to the
// second on failure. Capture writes made by a failed first branch are
// rolled back before the second branch runs.
func (m *Matcher) matchAlternation(inst bytecode.Inst, pos, stopPC int) (bool, int, error) {
	snap := m.captures
	t1 := inst.Target(inst.Off1)
	ok, end, err := m.run(t1, pos, stopPC)
	if err != nil {
		return false, 0, err
	}
	if ok {
		return true, end, nil
	}
	m.captures = snap
	t2 := inst.Target(inst.Off2)
	return m.run(t2, pos, stopPC)
}

// questionTargets identifies which branch is "consume" (the label codegen
// always binds immediately after the SPLIT, regardless of quantifier mode
// or which operand slot that label ended up patched into) and which is
// "skip" (the other, forward, target).
func questionTargets(inst bytecode.Inst) (consumePC, skipPC int) {
	t1, t2 := inst.Target(inst.Off1), inst.Target(inst.Off2)
	next := inst.NextPC()
	if t1 == next {
		return t1, t2
	}
	return t2, t1
}

func (m *Matcher) matchQuestion(inst bytecode.Inst, pos, stopPC int) (bool, int, error) {
	consumePC, skipPC := questionTargets(inst)

	if inst.Code == bytecode.OpSplitPossessive {
		// Probe the body alone, bounded at skipPC (the instruction just
		// past the body, the analogue of loopPC for stars). If the body
		// matches, the consume choice is committed: the continuation runs
		// exactly once from the consumed position, and a continuation
		// failure must not fall back to the skip branch.
		snap := m.captures
		ok, end, err := m.run(consumePC, pos, skipPC)
		if err != nil {
			return false, 0, err
		}
		if ok {
			return m.run(skipPC, end, stopPC)
		}
		m.captures = snap
		return m.run(skipPC, pos, stopPC)
	}

	snap := m.captures
	rc, ce, err := m.run(consumePC, pos, stopPC)
	if err != nil {
		return false, 0, err
	}
	afterConsume := m.captures

	m.captures = snap
	rs, se, err := m.run(skipPC, pos, stopPC)
	if err != nil {
		return false, 0, err
	}
	afterSkip := m.captures

	switch {
	case rc && rs:
		preferConsume := ce >= se // greedy prefers the longer match
		if inst.Code == bytecode.OpSplitLazy {
			preferConsume = ce <= se // lazy prefers the shorter
		}
		if preferConsume {
			m.captures = afterConsume
			return true, ce, nil
		}
		m.captures = afterSkip
		return true, se, nil
	case rc:
		m.captures = afterConsume
		return true, ce, nil
	case rs:
		m.captures = afterSkip
		return true, se, nil
	default:
		m.captures = snap
		return false, 0, nil
	}
}

// starLoopTargets finds the body entry point and the loop-exit PC for a
// star-loop SPLIT at inst.PC, regardless of which of the two emission
// shapes produced it:
//
//   - Star / unbounded Repeat tail: the SPLIT sits at the loop's own label,
//     so one branch target equals inst.PC itself (the body's trailing GOTO
//     jumps back to the SPLIT); the body is the SPLIT's fallthrough.
//   - Plus: the body precedes the SPLIT, so the "repeat" branch points
//     backward into the body's start (a PC less than inst.PC) and the
//     "exit" branch is the SPLIT's fallthrough.
//
// In both cases the non-loop branch is simply whichever operand isn't the
// loop one.
func starLoopTargets(inst bytecode.Inst) (bodyStart, exitPC int) {
	pc := inst.PC
	t1, t2 := inst.Target(inst.Off1), inst.Target(inst.Off2)
	switch {
	case t1 == pc:
		return inst.NextPC(), t2
	case t2 == pc:
		return inst.NextPC(), t1
	case t1 < pc:
		return t1, t2
	default:
		return t2, t1
	}
}

func (m *Matcher) matchStarLoop(inst bytecode.Inst, pos, stopPC int) (bool, int, error) {
	bodyStart, exitPC := starLoopTargets(inst)
	loopPC := inst.PC

	switch inst.Code {
	case bytecode.OpSplitPossessive:
		return m.matchPossessiveStar(bodyStart, exitPC, loopPC, pos, stopPC)
	case bytecode.OpSplitLazy:
		return m.matchLazyStar(bodyStart, exitPC, loopPC, pos, stopPC)
	default:
		return m.matchGreedyStar(bodyStart, exitPC, loopPC, pos, stopPC)
	}
}

// matchGreedyStar accumulates every position reachable by repeating the
// body zero or more times (stopping as soon as a repetition fails or makes
// no progress, to avoid looping forever on a zero-width body), then tries
// the exit branch from each accumulated position, longest first. A capture
// snapshot is kept alongside each position so that backtracking to a
// shorter repetition count restores the captures a reader would expect for
// that count, not whatever the longest attempt left behind.
func (m *Matcher) matchGreedyStar(bodyStart, exitPC, loopPC, pos, stopPC int) (bool, int, error) {
	positions := []int{pos}
	snaps := [][maxCaptures][2]int{m.captures}

	p := pos
	for {
		ok, end, err := m.run(bodyStart, p, loopPC)
		if err != nil {
			return false, 0, err
		}
		if !ok || end == p {
			break
		}
		p = end
		positions = append(positions, p)
		snaps = append(snaps, m.captures)
	}

	for i := len(positions) - 1; i >= 0; i-- {
		m.captures = snaps[i]
		ok, end, err := m.run(exitPC, positions[i], stopPC)
		if err != nil {
			return false, 0, err
		}
		if ok {
			return true, end, nil
		}
	}
	m.captures = snaps[0]
	return false, 0, nil
}

// matchLazyStar tries the exit branch first at each position; only on
// failure does it consume one more repetition and retry. Because it never
// backtracks to a smaller repetition count once it has grown, one capture
// snapshot per exit attempt (restored when that attempt fails) is
// sufficient here; no per-count snapshot list is kept.
func (m *Matcher) matchLazyStar(bodyStart, exitPC, loopPC, pos, stopPC int) (bool, int, error) {
	p := pos
	for {
		snap := m.captures
		ok, end, err := m.run(exitPC, p, stopPC)
		if err != nil {
			return false, 0, err
		}
		if ok {
			return true, end, nil
		}
		m.captures = snap

		ok2, end2, err := m.run(bodyStart, p, loopPC)
		if err != nil {
			return false, 0, err
		}
		if !ok2 || end2 == p {
			return false, 0, nil
		}
		p = end2
	}
}

// matchPossessiveStar consumes as many repetitions as possible, then
// attempts the exit branch exactly once at that final position. It never
// backtracks into a shorter repetition count even if the exit attempt
// fails.
func (m *Matcher) matchPossessiveStar(bodyStart, exitPC, loopPC, pos, stopPC int) (bool, int, error) {
	p := pos
	for {
		ok, end, err := m.run(bodyStart, p, loopPC)
		if err != nil {
			return false, 0, err
		}
		if !ok || end == p {
			break
		}
		p = end
	}
	return m.run(exitPC, p, stopPC)
}
