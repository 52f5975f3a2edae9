// Package prefilter accelerates searching for patterns that are plain
// literal alternations (`cat|dog|bird`). For those, every match of the
// pattern is an occurrence of one of its branch literals, so an
// Aho-Corasick automaton over the branches can skip the search directly to
// the next candidate position instead of probing the matcher at every byte
// offset. The automaton only narrows where the matcher is asked to run;
// every reported match still comes from executing the bytecode.
package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/chronos-tachyon/goregex/ast"
)

// LiteralSet is a compiled multi-literal scanner over a pattern's branch
// literals.
type LiteralSet struct {
	auto *ahocorasick.Automaton
}

// Build attempts to construct a LiteralSet for root. It returns nil when
// the pattern is not a pure literal alternation (or a single literal
// sequence), or when caseInsensitive is set — the automaton matches exact
// bytes, and case-insensitive patterns are lowered to case branches the
// literal extraction here does not model.
func Build(root ast.Node, caseInsensitive bool) *LiteralSet {
	if caseInsensitive {
		return nil
	}
	literals := extractLiterals(root, nil)
	if literals == nil {
		return nil
	}

	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &LiteralSet{auto: auto}
}

// extractLiterals flattens root into its branch literals, or returns nil if
// any branch is not a non-empty plain byte sequence.
func extractLiterals(n ast.Node, acc [][]byte) [][]byte {
	switch node := n.(type) {
	case *ast.Alternation:
		acc = extractLiterals(node.Left, acc)
		if acc == nil {
			return nil
		}
		return extractLiterals(node.Right, acc)
	default:
		lit := literalBytes(n, nil)
		if len(lit) == 0 {
			return nil
		}
		return append(acc, lit)
	}
}

func literalBytes(n ast.Node, out []byte) []byte {
	switch node := n.(type) {
	case *ast.Char:
		return append(out, node.Byte)
	case *ast.Sequence:
		for _, c := range node.Children {
			out = literalBytes(c, out)
			if out == nil {
				return nil
			}
		}
		return out
	default:
		return nil
	}
}

// Next returns the start of the leftmost branch-literal occurrence at or
// after position at, or ok == false when no occurrence (and therefore no
// pattern match) exists in the rest of the input.
func (ls *LiteralSet) Next(input []byte, at int) (start int, ok bool) {
	if at > len(input) {
		return 0, false
	}
	m := ls.auto.Find(input, at)
	if m == nil {
		return 0, false
	}
	return m.Start, true
}
