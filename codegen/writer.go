// Package codegen walks an AST and emits a bytecode.Program. Package
// writer.go provides the Writer: an output buffer plus a label counter, a
// table of bound label positions, and a deferred patch list — the same
// bookkeeping shape as an assembler with forward-reference support, just
// collapsed to a single patch pass in Finalize instead of an iterative
// fixed-point relaxation, because every operand here is fixed-width and
// never needs to grow.
package codegen

import (
	"encoding/binary"

	"github.com/chronos-tachyon/goregex/bytecode"
)

type patch struct {
	instPC int // PC of the jump/split instruction being patched
	slot   int // 0 = first operand (GOTO's only operand, or SPLIT's off1), 1 = SPLIT's off2
	label  int
}

// Writer accumulates bytecode for one compilation.
type Writer struct {
	buf        []byte
	nextLabel  int
	bound      map[int]int
	patches    []patch
	constructs map[int]bytecode.ConstructKind
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{
		bound:      make(map[int]int),
		constructs: make(map[int]bytecode.ConstructKind),
	}
}

// PC returns the current write position (the PC the next emitted
// instruction will occupy).
func (w *Writer) PC() int { return len(w.buf) }

// CreateLabel allocates a new, as-yet-unbound label id.
func (w *Writer) CreateLabel() int {
	id := w.nextLabel
	w.nextLabel++
	return id
}

// BindLabel fixes label id to the current PC. Patches referencing it are
// resolved later, in Finalize, once every label is known to be bound.
func (w *Writer) BindLabel(id int) {
	w.bound[id] = w.PC()
}

// RecordConstruct tags the SPLIT instruction at pc with the shape the
// generator emitted it for, so the matcher can dispatch on it without
// re-deriving it from the bytecode.
func (w *Writer) RecordConstruct(pc int, kind bytecode.ConstructKind) {
	w.constructs[pc] = kind
}

// EmitSimple appends a zero-operand instruction.
func (w *Writer) EmitSimple(op bytecode.OpCode) int {
	pc := w.PC()
	w.buf = bytecode.EncodeInst(w.buf, bytecode.Inst{Code: op})
	return pc
}

// EmitChar32 appends a CHAR32 instruction.
func (w *Writer) EmitChar32(b byte) int {
	pc := w.PC()
	w.buf = bytecode.EncodeInst(w.buf, bytecode.Inst{Code: bytecode.OpChar32, Byte: b})
	return pc
}

// EmitCharRange appends a CHAR_RANGE or CHAR_RANGE_INV instruction.
func (w *Writer) EmitCharRange(inverted bool, lo, hi byte) int {
	op := bytecode.OpCharRange
	if inverted {
		op = bytecode.OpCharRangeInv
	}
	pc := w.PC()
	w.buf = bytecode.EncodeInst(w.buf, bytecode.Inst{Code: op, Lo: lo, Hi: hi})
	return pc
}

// EmitCharClass appends a CHAR_CLASS or CHAR_CLASS_INV instruction.
func (w *Writer) EmitCharClass(inverted bool, table bytecode.CharClassTable) int {
	op := bytecode.OpCharClass
	if inverted {
		op = bytecode.OpCharClassInv
	}
	pc := w.PC()
	w.buf = bytecode.EncodeInst(w.buf, bytecode.Inst{Code: op, Table: table})
	return pc
}

// EmitSave appends a SAVE_START or SAVE_END instruction.
func (w *Writer) EmitSave(isEnd bool, group uint8) int {
	op := bytecode.OpSaveStart
	if isEnd {
		op = bytecode.OpSaveEnd
	}
	pc := w.PC()
	w.buf = bytecode.EncodeInst(w.buf, bytecode.Inst{Code: op, Group: group})
	return pc
}

// EmitBackRef appends a BACK_REF or BACK_REF_I instruction.
func (w *Writer) EmitBackRef(foldCase bool, group uint8) int {
	op := bytecode.OpBackRef
	if foldCase {
		op = bytecode.OpBackRefI
	}
	pc := w.PC()
	w.buf = bytecode.EncodeInst(w.buf, bytecode.Inst{Code: op, Group: group})
	return pc
}

// EmitLookaroundStart appends a LOOKAHEAD/NEGATIVE_LOOKAHEAD/LOOKBEHIND/
// NEGATIVE_LOOKBEHIND instruction with a reserved length hint (0, meaning
// "scan forward for the matching END").
func (w *Writer) EmitLookaroundStart(op bytecode.OpCode, hint int32) int {
	pc := w.PC()
	w.buf = bytecode.EncodeInst(w.buf, bytecode.Inst{Code: op, Hint: hint})
	return pc
}

// EmitLookaroundEnd appends a LOOKAHEAD_END or LOOKBEHIND_END instruction.
func (w *Writer) EmitLookaroundEnd(op bytecode.OpCode) int {
	pc := w.PC()
	w.buf = bytecode.EncodeInst(w.buf, bytecode.Inst{Code: op})
	return pc
}

// EmitJump appends a GOTO with a placeholder offset, to be patched to
// target's bound PC in Finalize.
func (w *Writer) EmitJump(target int) int {
	pc := w.PC()
	w.buf = bytecode.EncodeInst(w.buf, bytecode.Inst{Code: bytecode.OpGoto, Off1: 0})
	w.patches = append(w.patches, patch{instPC: pc, slot: 0, label: target})
	return pc
}

// EmitSplit appends a SPLIT variant with two placeholder offsets, to be
// patched to labelA's and labelB's bound PCs in Finalize. labelA is the
// first branch (tried first by the matcher for greedy/bare constructs, the
// skip/exit branch for lazy constructs per the emission rules in
// generate.go).
func (w *Writer) EmitSplit(op bytecode.OpCode, labelA, labelB int) int {
	pc := w.PC()
	w.buf = bytecode.EncodeInst(w.buf, bytecode.Inst{Code: op, Off1: 0, Off2: 0})
	w.patches = append(w.patches, patch{instPC: pc, slot: 0, label: labelA})
	w.patches = append(w.patches, patch{instPC: pc, slot: 1, label: labelB})
	return pc
}

// Finalize resolves every patch against its now-bound label and returns the
// completed byte buffer plus the construct-kind metadata recorded during
// emission. It fails if any patch's label was never bound.
func (w *Writer) Finalize() ([]byte, map[int]bytecode.ConstructKind, error) {
	for _, pt := range w.patches {
		target, ok := w.bound[pt.label]
		if !ok {
			return nil, nil, &bytecode.ValidationError{Err: bytecode.ErrUnresolvedLabels, PC: pt.instPC}
		}
		op := bytecode.OpCode(w.buf[pt.instPC])
		nextPC := pt.instPC + int(op.Size())
		offset := int32(target - nextPC)

		var at int
		switch {
		case op == bytecode.OpGoto:
			at = pt.instPC + 1
		case pt.slot == 0:
			at = pt.instPC + 1
		default:
			at = pt.instPC + 5
		}
		binary.LittleEndian.PutUint32(w.buf[at:at+4], uint32(offset))
	}
	return w.buf, w.constructs, nil
}
