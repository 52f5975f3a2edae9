package bytecode

import "encoding/binary"

// Inst is a decoded bytecode instruction. Which fields are meaningful
// depends on Code; see the table in the package comment in opcode.go.
type Inst struct {
	PC    int
	Code  OpCode
	Size  int
	Byte  byte           // CHAR32 literal value
	Lo    byte           // CHAR_RANGE[_INV] lower bound
	Hi    byte           // CHAR_RANGE[_INV] upper bound
	Table CharClassTable // CHAR_CLASS[_INV] inline bitmap
	Off1  int32          // GOTO offset, or SPLIT* first branch offset
	Off2  int32          // SPLIT* second branch offset
	Group uint8          // SAVE_START/END, BACK_REF[_I] group index
	Hint  int32          // LOOKAHEAD/LOOKBEHIND reserved length hint
}

func putU32(buf []byte, v int32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	return append(buf, tmp[:]...)
}

func getU32(buf []byte) int32 {
	return int32(binary.LittleEndian.Uint32(buf))
}

// EncodeInst appends the encoded form of inst to buf and returns the result.
// The number of bytes written is always inst.Code.Size().
func EncodeInst(buf []byte, inst Inst) []byte {
	buf = append(buf, byte(inst.Code))
	switch inst.Code {
	case OpCharAny, OpMatch, OpLineStart, OpLineEnd, OpWordBoundary,
		OpNotWordBoundary, OpLookaheadEnd, OpLookbehindEnd:
		// no operands

	case OpChar32:
		buf = putU32(buf, int32(inst.Byte))

	case OpCharRange, OpCharRangeInv:
		buf = putU32(buf, int32(inst.Lo))
		buf = putU32(buf, int32(inst.Hi))

	case OpCharClass, OpCharClassInv:
		buf = append(buf, inst.Table[:]...)

	case OpGoto:
		buf = putU32(buf, inst.Off1)

	case OpSplit, OpSplitGreedy, OpSplitLazy, OpSplitPossessive:
		buf = putU32(buf, inst.Off1)
		buf = putU32(buf, inst.Off2)

	case OpSaveStart, OpSaveEnd, OpBackRef, OpBackRefI:
		buf = append(buf, inst.Group)

	case OpLookahead, OpNegativeLookahead, OpLookbehind, OpNegativeLookbehind:
		buf = putU32(buf, inst.Hint)
	}
	return buf
}

// Decode decodes the instruction at byte offset pc in buf.
func Decode(buf []byte, pc int) (Inst, error) {
	if pc < 0 || pc >= len(buf) {
		return Inst{}, &ValidationError{Err: ErrUnexpectedEndOfStream, PC: pc}
	}
	code := OpCode(buf[pc])
	if !code.Valid() {
		return Inst{}, &ValidationError{Err: ErrUnknownOpcode, PC: pc}
	}
	size := int(code.Size())
	if pc+size > len(buf) {
		return Inst{}, &ValidationError{Err: ErrUnexpectedEndOfStream, PC: pc}
	}

	inst := Inst{PC: pc, Code: code, Size: size}
	operands := buf[pc+1 : pc+size]
	switch code {
	case OpChar32:
		inst.Byte = byte(getU32(operands))

	case OpCharRange, OpCharRangeInv:
		inst.Lo = byte(getU32(operands[0:4]))
		inst.Hi = byte(getU32(operands[4:8]))

	case OpCharClass, OpCharClassInv:
		copy(inst.Table[:], operands)

	case OpGoto:
		inst.Off1 = getU32(operands)

	case OpSplit, OpSplitGreedy, OpSplitLazy, OpSplitPossessive:
		inst.Off1 = getU32(operands[0:4])
		inst.Off2 = getU32(operands[4:8])

	case OpSaveStart, OpSaveEnd, OpBackRef, OpBackRefI:
		inst.Group = operands[0]

	case OpLookahead, OpNegativeLookahead, OpLookbehind, OpNegativeLookbehind:
		inst.Hint = getU32(operands)
	}
	return inst, nil
}

// NextPC returns the PC immediately following this instruction.
func (inst Inst) NextPC() int {
	return inst.PC + inst.Size
}

// Target resolves a jump offset relative to inst's fall-through PC, per the
// 0-means-fall-through convention: target = NextPC() + offset.
func (inst Inst) Target(offset int32) int {
	return inst.NextPC() + int(offset)
}

// Iterate calls fn once for every instruction in buf in order, stopping
// early if fn returns false. Returns an error if decoding fails partway
// through the stream.
func Iterate(buf []byte, fn func(Inst) bool) error {
	pc := 0
	for pc < len(buf) {
		inst, err := Decode(buf, pc)
		if err != nil {
			return err
		}
		if !fn(inst) {
			return nil
		}
		pc = inst.NextPC()
	}
	return nil
}
