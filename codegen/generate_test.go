package codegen

import (
	"testing"

	"github.com/chronos-tachyon/goregex/ast"
	"github.com/chronos-tachyon/goregex/bytecode"
)

func mustGenerate(t *testing.T, root ast.Node, numCaptures int, caseInsensitive bool) *bytecode.Program {
	t.Helper()
	prog, err := Generate(root, numCaptures, caseInsensitive)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return prog
}

func TestGenerateLiteralEndsWithMatch(t *testing.T) {
	prog := mustGenerate(t, &ast.Sequence{Children: []ast.Node{&ast.Char{Byte: 'a'}}}, 0, false)
	var last bytecode.Inst
	if err := bytecode.Iterate(prog.Bytes, func(inst bytecode.Inst) bool {
		last = inst
		return true
	}); err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if last.Code != bytecode.OpMatch {
		t.Errorf("last instruction = %v, want MATCH", last.Code)
	}
}

func TestGenerateCaseInsensitiveCharEmitsSplit(t *testing.T) {
	prog := mustGenerate(t, &ast.Char{Byte: 'a'}, 0, true)
	var sawSplit, sawLower, sawUpper bool
	_ = bytecode.Iterate(prog.Bytes, func(inst bytecode.Inst) bool {
		switch {
		case inst.Code == bytecode.OpSplit:
			sawSplit = true
		case inst.Code == bytecode.OpChar32 && inst.Byte == 'a':
			sawLower = true
		case inst.Code == bytecode.OpChar32 && inst.Byte == 'A':
			sawUpper = true
		}
		return true
	})
	if !sawSplit || !sawLower || !sawUpper {
		t.Errorf("case-insensitive char: split=%v lower=%v upper=%v", sawSplit, sawLower, sawUpper)
	}
}

func TestGenerateQuestionUsesDistinctLabels(t *testing.T) {
	prog := mustGenerate(t, &ast.Question{Child: &ast.Char{Byte: 'a'}, Mode: ast.Greedy}, 0, false)
	var split bytecode.Inst
	_ = bytecode.Iterate(prog.Bytes, func(inst bytecode.Inst) bool {
		if inst.Code.IsSplit() {
			split = inst
			return false
		}
		return true
	})
	if split.Off1 == split.Off2 {
		t.Fatalf("SPLIT offsets identical (%d, %d): e? would never consume", split.Off1, split.Off2)
	}
}

func TestGenerateStarRecordsConstructKind(t *testing.T) {
	prog := mustGenerate(t, &ast.Star{Child: &ast.Char{Byte: 'a'}, Mode: ast.Greedy}, 0, false)
	found := false
	for _, kind := range prog.Constructs {
		if kind == bytecode.ConstructStarLoop {
			found = true
		}
	}
	if !found {
		t.Error("expected a ConstructStarLoop entry in Program.Constructs")
	}
}

func TestGenerateCharClassPeephole(t *testing.T) {
	prog := mustGenerate(t, &ast.CharClass{Children: []ast.Node{&ast.CharRange{Lo: 'a', Hi: 'z'}}}, 0, false)
	var sawPlainRange, sawTable bool
	_ = bytecode.Iterate(prog.Bytes, func(inst bytecode.Inst) bool {
		switch inst.Code {
		case bytecode.OpCharRange:
			sawPlainRange = true
		case bytecode.OpCharClass, bytecode.OpCharClassInv:
			sawTable = true
		}
		return true
	})
	if !sawPlainRange || sawTable {
		t.Errorf("single-range class: plainRange=%v table=%v, want plainRange only", sawPlainRange, sawTable)
	}
}

func TestGenerateInvertedClassAlwaysUsesTable(t *testing.T) {
	prog := mustGenerate(t, &ast.CharClass{Children: []ast.Node{&ast.CharRange{Lo: 'a', Hi: 'z'}}, Inverted: true}, 0, false)
	var sawInvertedTable bool
	_ = bytecode.Iterate(prog.Bytes, func(inst bytecode.Inst) bool {
		if inst.Code == bytecode.OpCharClassInv {
			sawInvertedTable = true
		}
		return true
	})
	if !sawInvertedTable {
		t.Error("expected CHAR_CLASS_INV even for a single-range inverted class")
	}
}

func TestGenerateRepeatBounded(t *testing.T) {
	prog := mustGenerate(t, &ast.Repeat{Child: &ast.Char{Byte: 'a'}, Min: 2, Max: 4, Mode: ast.Greedy}, 0, false)
	charCount := 0
	_ = bytecode.Iterate(prog.Bytes, func(inst bytecode.Inst) bool {
		if inst.Code == bytecode.OpChar32 {
			charCount++
		}
		return true
	})
	if charCount != 4 {
		t.Errorf("got %d CHAR32 instructions, want 4 (2 mandatory + 2 optional)", charCount)
	}
}

func TestGenerateWholeMatchIsGroupZero(t *testing.T) {
	prog := mustGenerate(t, &ast.Char{Byte: 'a'}, 0, false)
	var firstInst bytecode.Inst
	_ = bytecode.Iterate(prog.Bytes, func(inst bytecode.Inst) bool {
		firstInst = inst
		return false
	})
	if firstInst.Code != bytecode.OpSaveStart || firstInst.Group != 0 {
		t.Errorf("first instruction = %v g%d, want SAVE_START g0", firstInst.Code, firstInst.Group)
	}
}

func TestGenerateValidatesProgram(t *testing.T) {
	// A structurally sound tree should always pass Program.Validate inside Generate.
	root := &ast.Sequence{Children: []ast.Node{
		&ast.Group{Index: 1, Child: &ast.Plus{Child: &ast.CharClass{Children: []ast.Node{
			&ast.CharRange{Lo: 'a', Hi: 'z'},
			&ast.CharRange{Lo: 'A', Hi: 'Z'},
			&ast.CharRange{Lo: '0', Hi: '9'},
			&ast.Char{Byte: '_'},
		}}, Mode: ast.Greedy}},
	}}
	prog := mustGenerate(t, root, 1, false)
	if err := prog.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}
