package bytecode

import (
	"fmt"
	"strings"
)

// ConstructKind classifies the shape a SPLIT instruction was emitted for.
// Matcher policy (greedy/lazy/possessive backtracking, infinite-loop
// guards) depends on this shape; rather than re-deriving it from the
// bytecode at match time by walking the control-flow graph, codegen records
// it once, at the point it already knows the answer, as Program metadata.
type ConstructKind uint8

const (
	ConstructUnknown ConstructKind = iota
	ConstructStarLoop
	ConstructQuestion
	ConstructAlternation
)

func (k ConstructKind) String() string {
	switch k {
	case ConstructStarLoop:
		return "star-loop"
	case ConstructQuestion:
		return "question"
	case ConstructAlternation:
		return "alternation"
	default:
		return "unknown"
	}
}

// Program is a finished, validated bytecode image plus the auxiliary
// metadata the matcher and disassembler need alongside the raw bytes.
type Program struct {
	Bytes           []byte
	NumCaptures     int  // number of capturing groups, excluding the implicit whole-match group 0
	CaseInsensitive bool

	// Constructs maps the PC of a SPLIT* instruction to the shape codegen
	// emitted it for. Populated by codegen, consulted by the matcher.
	Constructs map[int]ConstructKind
}

// NewProgram wraps raw bytecode with its metadata. The caller (codegen) runs
// Validate on the result; Program
// itself does not validate on construction so that intermediate, not-yet-linked
// buffers can be wrapped for inspection in tests.
func NewProgram(bytes []byte, numCaptures int, caseInsensitive bool, constructs map[int]ConstructKind) *Program {
	if constructs == nil {
		constructs = make(map[int]ConstructKind)
	}
	return &Program{
		Bytes:           bytes,
		NumCaptures:     numCaptures,
		CaseInsensitive: caseInsensitive,
		Constructs:      constructs,
	}
}

// Validate walks the entire instruction stream once, checking the
// structural invariants every program must hold before it can be handed to
// the matcher:
//
//   - every byte decodes to a known opcode (no trailing garbage, no opcode
//     whose fixed size runs past the end of the buffer)
//   - every jump/split target lands on an instruction boundary inside the
//     buffer
//   - the stream ends with MATCH
//   - LOOKAHEAD/LOOKBEHIND family openers and their *_END counterparts nest
//     correctly (every opener has a matching, correctly-ordered closer)
//   - no capture group index exceeds the 16-group cap
func (p *Program) Validate() error {
	buf := p.Bytes
	if len(buf) == 0 {
		return &ValidationError{Err: ErrNoTerminalMatch, PC: 0}
	}

	boundaries := make(map[int]bool)
	var lookDepth []OpCode

	pc := 0
	for pc < len(buf) {
		inst, err := Decode(buf, pc)
		if err != nil {
			return err
		}
		boundaries[pc] = true

		switch {
		case inst.Code == OpGoto:
			target := inst.Target(inst.Off1)
			if target < 0 || target > len(buf) {
				return &ValidationError{Err: ErrJumpOutOfRange, PC: pc}
			}
		case inst.Code.IsSplit():
			for _, off := range [2]int32{inst.Off1, inst.Off2} {
				target := inst.Target(off)
				if target < 0 || target > len(buf) {
					return &ValidationError{Err: ErrJumpOutOfRange, PC: pc}
				}
			}
		case inst.Code == OpSaveStart || inst.Code == OpSaveEnd:
			if int(inst.Group) > 15 {
				return &ValidationError{Err: ErrTooManyCaptures, PC: pc}
			}
		case inst.Code.IsLookaroundStart():
			lookDepth = append(lookDepth, inst.Code)
		case inst.Code.IsLookaroundEnd():
			if len(lookDepth) == 0 {
				return &ValidationError{Err: ErrUnbalancedLookaround, PC: pc}
			}
			opener := lookDepth[len(lookDepth)-1]
			wantEnd := OpLookaheadEnd
			if opener.IsLookbehind() {
				wantEnd = OpLookbehindEnd
			}
			if inst.Code != wantEnd {
				return &ValidationError{Err: ErrUnbalancedLookaround, PC: pc}
			}
			lookDepth = lookDepth[:len(lookDepth)-1]
		}

		pc = inst.NextPC()
	}

	if len(lookDepth) != 0 {
		return &ValidationError{Err: ErrUnbalancedLookaround, PC: len(buf)}
	}

	// Re-walk the jump targets now that every instruction boundary is known.
	pc = 0
	for pc < len(buf) {
		inst, _ := Decode(buf, pc)
		switch {
		case inst.Code == OpGoto:
			if !boundaries[inst.Target(inst.Off1)] && inst.Target(inst.Off1) != len(buf) {
				return &ValidationError{Err: ErrJumpOutOfRange, PC: pc}
			}
		case inst.Code.IsSplit():
			for _, off := range [2]int32{inst.Off1, inst.Off2} {
				t := inst.Target(off)
				if !boundaries[t] && t != len(buf) {
					return &ValidationError{Err: ErrJumpOutOfRange, PC: pc}
				}
			}
		}
		pc = inst.NextPC()
	}

	last, err := lastInst(buf)
	if err != nil {
		return err
	}
	if last.Code != OpMatch {
		return &ValidationError{Err: ErrNoTerminalMatch, PC: last.PC}
	}

	return nil
}

func lastInst(buf []byte) (Inst, error) {
	var last Inst
	err := Iterate(buf, func(inst Inst) bool {
		last = inst
		return true
	})
	return last, err
}

// Disassemble renders the program as a two-pass assembly listing: the
// first pass discovers every jump target so the second pass can print
// "-> L3" style labels instead of raw byte offsets.
func (p *Program) Disassemble() string {
	targets := make(map[int]int) // PC -> label number
	nextLabel := 0
	assignLabel := func(pc int) {
		if _, ok := targets[pc]; !ok {
			targets[pc] = nextLabel
			nextLabel++
		}
	}

	_ = Iterate(p.Bytes, func(inst Inst) bool {
		switch {
		case inst.Code == OpGoto:
			assignLabel(inst.Target(inst.Off1))
		case inst.Code.IsSplit():
			assignLabel(inst.Target(inst.Off1))
			assignLabel(inst.Target(inst.Off2))
		}
		return true
	})

	var b strings.Builder
	_ = Iterate(p.Bytes, func(inst Inst) bool {
		if label, ok := targets[inst.PC]; ok {
			fmt.Fprintf(&b, "L%d:\n", label)
		}
		fmt.Fprintf(&b, "  %04d  %s", inst.PC, inst.Code.String())
		switch {
		case inst.Code == OpChar32:
			fmt.Fprintf(&b, " %q", inst.Byte)
		case inst.Code == OpCharRange || inst.Code == OpCharRangeInv:
			fmt.Fprintf(&b, " [%q-%q]", inst.Lo, inst.Hi)
		case inst.Code == OpGoto:
			fmt.Fprintf(&b, " -> L%d", targets[inst.Target(inst.Off1)])
		case inst.Code.IsSplit():
			fmt.Fprintf(&b, " -> L%d, L%d", targets[inst.Target(inst.Off1)], targets[inst.Target(inst.Off2)])
			if kind, ok := p.Constructs[inst.PC]; ok {
				fmt.Fprintf(&b, " ; %s", kind)
			}
		case inst.Code == OpSaveStart || inst.Code == OpSaveEnd:
			fmt.Fprintf(&b, " g%d", inst.Group)
		case inst.Code == OpBackRef || inst.Code == OpBackRefI:
			fmt.Fprintf(&b, " g%d", inst.Group)
		case inst.Code.IsLookaroundStart():
			fmt.Fprintf(&b, " hint=%d", inst.Hint)
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}
