// Package matcher executes a bytecode.Program against input bytes. It is a
// recursive backtracking interpreter: each opcode handler recurses into the
// continuation that follows it, so "trying an alternative" is nothing more
// than calling the handler again with a different PC. Quantifier
// greedy/lazy/possessive policy and the star-loop infinite-recursion hazard
// described by the bytecode's own SPLIT-targets-itself encoding are handled
// by Program.Constructs, set once by codegen and consulted here rather than
// re-derived from instruction shape.
package matcher

import (
	"github.com/chronos-tachyon/goregex/bytecode"
)

// noStop is the sentinel "no segment boundary" stopPC value. Bytecode PCs
// are never negative, so -1 can never collide with a real target.
const noStop = -1

// lookbehindWindow bounds how far back a lookbehind body is allowed to
// search for a start position. Unbounded lookbehind over arbitrary-length
// input is unreasonably expensive; this tunable keeps it linear per
// assertion while still covering realistic patterns.
const lookbehindWindow = 100

// Matcher runs one bytecode.Program against one input buffer. A Matcher is
// not reusable across inputs; call New per match attempt (or per input, to
// reuse its find/find-all loop).
type Matcher struct {
	prog  *bytecode.Program
	input []byte

	maxRecursionDepth int
	maxSteps          int

	depth int
	steps uint64

	captures      [maxCaptures][2]int
	lookEndCache  map[int]int
}

// New returns a Matcher over prog and input. maxRecursionDepth and maxSteps
// of 0 disable the corresponding guard (matches goregex.Options semantics).
func New(prog *bytecode.Program, input []byte, maxRecursionDepth int, maxSteps int) *Matcher {
	return &Matcher{
		prog:              prog,
		input:             input,
		maxRecursionDepth: maxRecursionDepth,
		maxSteps:          maxSteps,
	}
}

// MatchFrom attempts to match prog starting exactly at byte offset pos in
// the full input (lookbehind needs the bytes before pos, so callers must
// never hand the matcher a truncated suffix slice). It returns (nil, nil)
// for "no match at pos", a *Match for success, and a non-nil error only for
// ErrStepLimitExceeded / ErrRecursionLimitExceeded (a resource abort, never
// used to signal an ordinary non-match) or for bytecode that cannot be
// decoded or executed.
func (m *Matcher) MatchFrom(pos int) (*Match, error) {
	m.captures = freshCaptures()
	m.depth = 0
	m.steps = 0

	matched, end, err := m.run(0, pos, noStop)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, nil
	}
	return &Match{Start: pos, End: end, captures: m.captures}, nil
}

func (m *Matcher) countStep() error {
	if m.maxSteps <= 0 {
		return nil
	}
	m.steps++
	if m.steps > uint64(m.maxSteps) {
		return ErrStepLimitExceeded
	}
	return nil
}

func (m *Matcher) enterFrame() error {
	if m.maxRecursionDepth <= 0 {
		return nil
	}
	m.depth++
	if m.depth > m.maxRecursionDepth {
		return ErrRecursionLimitExceeded
	}
	return nil
}

func (m *Matcher) leaveFrame() {
	if m.maxRecursionDepth > 0 {
		m.depth--
	}
}

// run is the matcher's single recursive entry point. stopPC, when not
// noStop, turns this call into a bounded sub-segment match (used for
// quantifier bodies and lookaround bodies): reaching stopPC before
// dispatching the instruction there counts as success, the same way a
// LOOKAHEAD_END reached during body execution behaves like a MATCH for the
// body. The same mechanism lets a star-loop's body be explored without the
// matcher ever re-entering the owning SPLIT's classification logic.
func (m *Matcher) run(pc, pos, stopPC int) (bool, int, error) {
	if pc == stopPC {
		return true, pos, nil
	}
	if err := m.countStep(); err != nil {
		return false, 0, err
	}
	if err := m.enterFrame(); err != nil {
		return false, 0, err
	}
	defer m.leaveFrame()

	inst, err := bytecode.Decode(m.prog.Bytes, pc)
	if err != nil {
		return false, 0, err
	}

	switch inst.Code {
	case bytecode.OpMatch:
		return true, pos, nil

	case bytecode.OpCharAny:
		if pos >= len(m.input) {
			return false, 0, nil
		}
		return m.run(inst.NextPC(), pos+1, stopPC)

	case bytecode.OpChar32:
		if pos >= len(m.input) || m.input[pos] != inst.Byte {
			return false, 0, nil
		}
		return m.run(inst.NextPC(), pos+1, stopPC)

	case bytecode.OpCharRange:
		if pos >= len(m.input) || m.input[pos] < inst.Lo || m.input[pos] > inst.Hi {
			return false, 0, nil
		}
		return m.run(inst.NextPC(), pos+1, stopPC)

	case bytecode.OpCharRangeInv:
		if pos >= len(m.input) {
			return false, 0, nil
		}
		b := m.input[pos]
		if b >= inst.Lo && b <= inst.Hi {
			return false, 0, nil
		}
		return m.run(inst.NextPC(), pos+1, stopPC)

	case bytecode.OpCharClass:
		if pos >= len(m.input) || !inst.Table.Test(m.input[pos]) {
			return false, 0, nil
		}
		return m.run(inst.NextPC(), pos+1, stopPC)

	case bytecode.OpCharClassInv:
		if pos >= len(m.input) || inst.Table.Test(m.input[pos]) {
			return false, 0, nil
		}
		return m.run(inst.NextPC(), pos+1, stopPC)

	case bytecode.OpGoto:
		return m.run(inst.Target(inst.Off1), pos, stopPC)

	case bytecode.OpSaveStart:
		return m.withCapture(inst.Group, 0, pos, inst.NextPC(), stopPC)

	case bytecode.OpSaveEnd:
		return m.withCapture(inst.Group, 1, pos, inst.NextPC(), stopPC)

	case bytecode.OpBackRef, bytecode.OpBackRefI:
		return m.matchBackref(inst, pos, stopPC)

	case bytecode.OpLineStart:
		if pos != 0 {
			return false, 0, nil
		}
		return m.run(inst.NextPC(), pos, stopPC)

	case bytecode.OpLineEnd:
		if pos != len(m.input) {
			return false, 0, nil
		}
		return m.run(inst.NextPC(), pos, stopPC)

	case bytecode.OpWordBoundary:
		if !m.atWordBoundary(pos) {
			return false, 0, nil
		}
		return m.run(inst.NextPC(), pos, stopPC)

	case bytecode.OpNotWordBoundary:
		if m.atWordBoundary(pos) {
			return false, 0, nil
		}
		return m.run(inst.NextPC(), pos, stopPC)

	case bytecode.OpLookahead, bytecode.OpNegativeLookahead:
		return m.matchLookahead(inst, pos, stopPC)

	case bytecode.OpLookbehind, bytecode.OpNegativeLookbehind:
		return m.matchLookbehind(inst, pos, stopPC)

	case bytecode.OpSplit, bytecode.OpSplitGreedy, bytecode.OpSplitLazy, bytecode.OpSplitPossessive:
		return m.matchSplit(inst, pos, stopPC)

	default:
		return false, 0, &StructuralError{Err: bytecode.ErrUnknownOpcode, PC: pc}
	}
}

func (m *Matcher) withCapture(group uint8, slot int, pos, nextPC, stopPC int) (bool, int, error) {
	old := m.captures[group][slot]
	m.captures[group][slot] = pos
	matched, end, err := m.run(nextPC, pos, stopPC)
	if err != nil {
		return false, 0, err
	}
	if !matched {
		m.captures[group][slot] = old
	}
	return matched, end, nil
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (m *Matcher) atWordBoundary(pos int) bool {
	before := pos > 0 && isWordByte(m.input[pos-1])
	after := pos < len(m.input) && isWordByte(m.input[pos])
	return before != after
}

func foldByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

func (m *Matcher) matchBackref(inst bytecode.Inst, pos, stopPC int) (bool, int, error) {
	start, end := m.captures[inst.Group][0], m.captures[inst.Group][1]
	if start == unset || end == unset {
		return false, 0, nil
	}
	n := end - start
	if pos+n > len(m.input) {
		return false, 0, nil
	}
	foldCase := inst.Code == bytecode.OpBackRefI
	for i := 0; i < n; i++ {
		a, b := m.input[start+i], m.input[pos+i]
		if foldCase {
			a, b = foldByte(a), foldByte(b)
		}
		if a != b {
			return false, 0, nil
		}
	}
	return m.run(inst.NextPC(), pos+n, stopPC)
}
