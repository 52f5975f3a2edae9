package parser

import (
	"github.com/chronos-tachyon/goregex/ast"
	"github.com/chronos-tachyon/goregex/byteset"
	"github.com/chronos-tachyon/goregex/lexer"
)

// shorthandSet maps a \d \D \w \W \s \S escape to its byte set. The
// definitions live in byteset so that the positive and negated forms are
// exact complements by construction.
func shorthandSet(kind lexer.ShorthandKind) byteset.Set {
	switch kind {
	case lexer.ShorthandDigit:
		return byteset.Digit()
	case lexer.ShorthandNotDigit:
		return byteset.NotDigit()
	case lexer.ShorthandWord:
		return byteset.Word()
	case lexer.ShorthandNotWord:
		return byteset.NotWord()
	case lexer.ShorthandSpace:
		return byteset.Space()
	default: // ShorthandNotSpace
		return byteset.NotSpace()
	}
}

// positiveForm strips the negation off a shorthand kind, reporting whether
// it was negated.
func positiveForm(kind lexer.ShorthandKind) (lexer.ShorthandKind, bool) {
	switch kind {
	case lexer.ShorthandNotDigit:
		return lexer.ShorthandDigit, true
	case lexer.ShorthandNotWord:
		return lexer.ShorthandWord, true
	case lexer.ShorthandNotSpace:
		return lexer.ShorthandSpace, true
	default:
		return kind, false
	}
}

// shorthandAtom builds the AST for a shorthand escape appearing outside a
// bracket expression. Negated forms always become an Inverted CharClass over
// the positive member set, so every one of them lowers through the same
// CHAR_CLASS_INV path as a user-written `[^...]`.
func shorthandAtom(kind lexer.ShorthandKind) ast.Node {
	pos, negated := positiveForm(kind)
	return &ast.CharClass{Children: classNodes(shorthandSet(pos)), Inverted: negated}
}

// shorthandClassItems expands a shorthand escape appearing as a member of an
// enclosing bracket expression. A CharClass child may not itself carry an
// Inverted flag, so the negated forms are pre-complemented into concrete
// ranges over the full byte domain.
func shorthandClassItems(kind lexer.ShorthandKind) []ast.Node {
	return classNodes(shorthandSet(kind))
}

// classNodes renders a byte set as the Char/CharRange children a CharClass
// admits, coalescing consecutive member bytes into ranges.
func classNodes(s byteset.Set) []ast.Node {
	var nodes []ast.Node
	var lo, hi int = -1, -1
	flush := func() {
		if lo < 0 {
			return
		}
		if lo == hi {
			nodes = append(nodes, &ast.Char{Byte: byte(lo)})
		} else {
			nodes = append(nodes, &ast.CharRange{Lo: byte(lo), Hi: byte(hi)})
		}
	}
	s.ForEach(func(b byte) {
		if lo >= 0 && int(b) == hi+1 {
			hi = int(b)
			return
		}
		flush()
		lo, hi = int(b), int(b)
	})
	flush()
	return nodes
}
