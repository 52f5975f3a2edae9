package codegen

import (
	"github.com/chronos-tachyon/goregex/ast"
	"github.com/chronos-tachyon/goregex/bytecode"
)

// Generate walks root and produces a validated, ready-to-run Program. The
// whole match is treated as an implicit capturing group 0: SAVE_START 0 and
// SAVE_END 0 bracket the generated body, and a terminal MATCH always
// follows, per the emission rules.
func Generate(root ast.Node, numCaptures int, caseInsensitive bool) (*bytecode.Program, error) {
	g := &generator{w: NewWriter(), caseInsensitive: caseInsensitive}

	g.w.EmitSave(false, 0)
	g.generate(root)
	g.w.EmitSave(true, 0)
	g.w.EmitSimple(bytecode.OpMatch)

	buf, constructs, err := g.w.Finalize()
	if err != nil {
		return nil, err
	}
	prog := bytecode.NewProgram(buf, numCaptures, caseInsensitive, constructs)
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	return prog, nil
}

type generator struct {
	w               *Writer
	caseInsensitive bool
}

func modeOp(mode ast.Mode) bytecode.OpCode {
	switch mode {
	case ast.Lazy:
		return bytecode.OpSplitLazy
	case ast.Possessive:
		return bytecode.OpSplitPossessive
	default:
		return bytecode.OpSplitGreedy
	}
}

// splitOrder returns the (first-tried, second-tried) label pair for a
// quantifier SPLIT, given which label represents "continue/consume" and
// which represents "exit/skip". Greedy and possessive try continue/consume
// first; lazy tries exit/skip first.
func splitOrder(mode ast.Mode, consumeOrLoop, skipOrExit int) (a, b int) {
	if mode == ast.Lazy {
		return skipOrExit, consumeOrLoop
	}
	return consumeOrLoop, skipOrExit
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func swapCase(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b - 'A' + 'a'
}

func (g *generator) generate(n ast.Node) {
	switch node := n.(type) {
	case *ast.Char:
		g.genChar(node.Byte)
	case *ast.Dot:
		g.w.EmitSimple(bytecode.OpCharAny)
	case *ast.CharRange:
		g.w.EmitCharRange(node.Inverted, node.Lo, node.Hi)
	case *ast.CharClass:
		g.genCharClass(node)
	case *ast.Sequence:
		for _, c := range node.Children {
			g.generate(c)
		}
	case *ast.Alternation:
		g.genAlternation(node)
	case *ast.Group:
		g.w.EmitSave(false, uint8(node.Index))
		g.generate(node.Child)
		g.w.EmitSave(true, uint8(node.Index))
	case *ast.NonCapturingGroup:
		g.generate(node.Child)
	case *ast.Lookahead:
		g.genLookahead(node)
	case *ast.Lookbehind:
		g.genLookbehind(node)
	case *ast.Star:
		g.genStar(node)
	case *ast.Plus:
		g.genPlus(node)
	case *ast.Question:
		g.genQuestion(node)
	case *ast.Repeat:
		g.genRepeat(node)
	case *ast.Backref:
		g.w.EmitBackRef(g.caseInsensitive, uint8(node.Index))
	case *ast.AnchorStart:
		g.w.EmitSimple(bytecode.OpLineStart)
	case *ast.AnchorEnd:
		g.w.EmitSimple(bytecode.OpLineEnd)
	case *ast.WordBoundary:
		if node.Negated {
			g.w.EmitSimple(bytecode.OpNotWordBoundary)
		} else {
			g.w.EmitSimple(bytecode.OpWordBoundary)
		}
	}
}

// genChar lowers a literal byte. In case-insensitive mode an ASCII letter
// becomes a two-branch SPLIT between its lowercase and uppercase forms
// instead of a dedicated CHAR_I opcode.
func (g *generator) genChar(b byte) {
	if !g.caseInsensitive || !isASCIILetter(b) {
		g.w.EmitChar32(b)
		return
	}

	labelA := g.w.CreateLabel()
	labelB := g.w.CreateLabel()
	labelEnd := g.w.CreateLabel()

	splitPC := g.w.EmitSplit(bytecode.OpSplit, labelA, labelB)
	g.w.RecordConstruct(splitPC, bytecode.ConstructAlternation)

	g.w.BindLabel(labelA)
	g.w.EmitChar32(b)
	g.w.EmitJump(labelEnd)

	g.w.BindLabel(labelB)
	g.w.EmitChar32(swapCase(b))

	g.w.BindLabel(labelEnd)
}

// genCharClass collapses children into a 256-bit table, applying the
// single-range peephole for uninverted classes.
func (g *generator) genCharClass(node *ast.CharClass) {
	if !node.Inverted {
		if r, ok := singleRange(node.Children); ok {
			g.w.EmitCharRange(false, r.Lo, r.Hi)
			return
		}
	}
	table := buildClassTable(node.Children)
	g.w.EmitCharClass(node.Inverted, table)
}

func (g *generator) genAlternation(node *ast.Alternation) {
	labelLeft := g.w.CreateLabel()
	labelRight := g.w.CreateLabel()
	labelEnd := g.w.CreateLabel()

	splitPC := g.w.EmitSplit(bytecode.OpSplit, labelLeft, labelRight)
	g.w.RecordConstruct(splitPC, bytecode.ConstructAlternation)

	g.w.BindLabel(labelLeft)
	g.generate(node.Left)
	g.w.EmitJump(labelEnd)

	g.w.BindLabel(labelRight)
	g.generate(node.Right)

	g.w.BindLabel(labelEnd)
}

func (g *generator) genLookahead(node *ast.Lookahead) {
	op := bytecode.OpLookahead
	if node.Negated {
		op = bytecode.OpNegativeLookahead
	}
	g.w.EmitLookaroundStart(op, 0)
	g.generate(node.Child)
	g.w.EmitLookaroundEnd(bytecode.OpLookaheadEnd)
}

func (g *generator) genLookbehind(node *ast.Lookbehind) {
	op := bytecode.OpLookbehind
	if node.Negated {
		op = bytecode.OpNegativeLookbehind
	}
	g.w.EmitLookaroundStart(op, 0)
	g.generate(node.Child)
	g.w.EmitLookaroundEnd(bytecode.OpLookbehindEnd)
}

// genStar emits `L_loop: SPLIT L_skip L_loop; <e>; GOTO L_loop; L_skip:`
// with branch order and opcode selected by mode.
func (g *generator) genStar(node *ast.Star) {
	labelLoop := g.w.CreateLabel()
	labelSkip := g.w.CreateLabel()

	g.w.BindLabel(labelLoop)
	a, b := splitOrder(node.Mode, labelLoop, labelSkip)
	splitPC := g.w.EmitSplit(modeOp(node.Mode), a, b)
	g.w.RecordConstruct(splitPC, bytecode.ConstructStarLoop)

	g.generate(node.Child)
	g.w.EmitJump(labelLoop)
	g.w.BindLabel(labelSkip)
}

// genPlus emits `L_loop: <e>; SPLIT L_loop L_end; L_end:` — the mandatory
// first iteration is folded into the loop body itself (labelLoop is bound
// before <e>), so the body always runs at least once.
func (g *generator) genPlus(node *ast.Plus) {
	labelLoop := g.w.CreateLabel()
	labelEnd := g.w.CreateLabel()

	g.w.BindLabel(labelLoop)
	g.generate(node.Child)

	a, b := splitOrder(node.Mode, labelLoop, labelEnd)
	splitPC := g.w.EmitSplit(modeOp(node.Mode), a, b)
	g.w.RecordConstruct(splitPC, bytecode.ConstructStarLoop)

	g.w.BindLabel(labelEnd)
}

// genQuestion emits `SPLIT L_skip L_consume; L_consume: <e>; L_skip:` using
// two distinct labels — using the same label for both branches would make
// e? never consume. As in genStar, operand order and opcode are selected by
// mode.
func (g *generator) genQuestion(node *ast.Question) {
	labelConsume := g.w.CreateLabel()
	labelSkip := g.w.CreateLabel()

	a, b := splitOrder(node.Mode, labelConsume, labelSkip)
	splitPC := g.w.EmitSplit(modeOp(node.Mode), a, b)
	g.w.RecordConstruct(splitPC, bytecode.ConstructQuestion)

	g.w.BindLabel(labelConsume)
	g.generate(node.Child)
	g.w.BindLabel(labelSkip)
}

// genRepeat emits n mandatory copies of <e>, then either an unbounded
// star-loop tail (for {n,}) or (m-n) nested optional blocks that all share
// one exit label (for {n,m}).
func (g *generator) genRepeat(node *ast.Repeat) {
	for i := 0; i < node.Min; i++ {
		g.generate(node.Child)
	}

	if node.Max == ast.RepeatUnbounded {
		labelLoop := g.w.CreateLabel()
		labelEnd := g.w.CreateLabel()

		g.w.BindLabel(labelLoop)
		a, b := splitOrder(node.Mode, labelLoop, labelEnd)
		splitPC := g.w.EmitSplit(modeOp(node.Mode), a, b)
		g.w.RecordConstruct(splitPC, bytecode.ConstructStarLoop)

		g.generate(node.Child)
		g.w.EmitJump(labelLoop)
		g.w.BindLabel(labelEnd)
		return
	}

	extra := node.Max - node.Min
	if extra <= 0 {
		return
	}

	labelEnd := g.w.CreateLabel()
	for i := 0; i < extra; i++ {
		labelConsume := g.w.CreateLabel()
		a, b := splitOrder(node.Mode, labelConsume, labelEnd)
		splitPC := g.w.EmitSplit(modeOp(node.Mode), a, b)
		g.w.RecordConstruct(splitPC, bytecode.ConstructQuestion)

		g.w.BindLabel(labelConsume)
		g.generate(node.Child)
	}
	g.w.BindLabel(labelEnd)
}
