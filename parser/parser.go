// Package parser is a recursive-descent parser over lexer.Token producing
// an ast.Node tree. Precedence, low to high: alternation, concatenation,
// quantifier, atom.
package parser

import (
	"github.com/chronos-tachyon/goregex/ast"
	"github.com/chronos-tachyon/goregex/lexer"
)

const maxGroups = 16

type parser struct {
	lex        lexer.Lexer
	groupCount int
}

// Parse compiles pattern into an AST, returning the root node and the
// number of capturing groups encountered (excluding implicit group 0).
func Parse(pattern string) (ast.Node, int, error) {
	p := &parser{}
	p.lex.Init(pattern)

	root, err := p.parseAlternation()
	if err != nil {
		return nil, 0, err
	}

	tok, err := p.lex.Next()
	if err != nil {
		return nil, 0, toParserError(err)
	}
	if tok.Kind != lexer.TokEOF {
		if tok.Kind == lexer.TokRParen {
			return nil, 0, &Error{Err: ErrUnmatchedParen, Pos: tok.Pos}
		}
		return nil, 0, &Error{Err: ErrUnexpectedToken, Pos: tok.Pos}
	}
	return root, p.groupCount, nil
}

// toParserError re-wraps a *lexer.Error under this package's Error type so
// callers only ever see parser.Error at the top level, while Unwrap still
// reaches the underlying sentinel.
func toParserError(err error) error {
	if lexErr, ok := err.(*lexer.Error); ok {
		return &Error{Err: lexErr, Pos: lexErr.Pos}
	}
	return err
}

func (p *parser) parseAlternation() (ast.Node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, toParserError(err)
		}
		if tok.Kind != lexer.TokPipe {
			return left, nil
		}
		if _, err := p.lex.Next(); err != nil {
			return nil, toParserError(err)
		}
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = &ast.Alternation{Left: left, Right: right}
	}
}

func (p *parser) parseConcat() (ast.Node, error) {
	var children []ast.Node
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, toParserError(err)
		}
		switch tok.Kind {
		case lexer.TokEOF, lexer.TokPipe, lexer.TokRParen:
			return &ast.Sequence{Children: children}, nil
		}

		node, err := p.parseQuantified()
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}
}

func (p *parser) parseQuantified() (ast.Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	tok, err := p.lex.Peek()
	if err != nil {
		return nil, toParserError(err)
	}

	switch tok.Kind {
	case lexer.TokQuant:
		if _, err := p.lex.Next(); err != nil {
			return nil, toParserError(err)
		}
		switch tok.Quant {
		case lexer.QuantStar:
			return &ast.Star{Child: atom, Mode: tok.Mode}, nil
		case lexer.QuantPlus:
			return &ast.Plus{Child: atom, Mode: tok.Mode}, nil
		default: // QuantQuestion
			return &ast.Question{Child: atom, Mode: tok.Mode}, nil
		}
	case lexer.TokRepeat:
		if _, err := p.lex.Next(); err != nil {
			return nil, toParserError(err)
		}
		return &ast.Repeat{Child: atom, Min: tok.Min, Max: tok.Max, Mode: tok.Mode}, nil
	default:
		return atom, nil
	}
}

func (p *parser) parseAtom() (ast.Node, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return nil, toParserError(err)
	}

	switch tok.Kind {
	case lexer.TokChar:
		return &ast.Char{Byte: tok.Byte}, nil
	case lexer.TokDot:
		return &ast.Dot{}, nil
	case lexer.TokCaret:
		return &ast.AnchorStart{}, nil
	case lexer.TokDollar:
		return &ast.AnchorEnd{}, nil
	case lexer.TokWordBoundary:
		return &ast.WordBoundary{Negated: tok.Negated}, nil
	case lexer.TokShorthand:
		return shorthandAtom(tok.Shorthand), nil
	case lexer.TokBackref:
		if tok.Index > p.groupCount {
			return nil, &Error{Err: ErrInvalidBackreference, Pos: tok.Pos}
		}
		return &ast.Backref{Index: tok.Index}, nil
	case lexer.TokLBracket:
		return p.parseClassBody(tok.Pos)
	case lexer.TokLParen:
		return p.parseGroup(tok)
	case lexer.TokQuant, lexer.TokRepeat:
		return nil, &Error{Err: ErrInvalidQuantifierTarget, Pos: tok.Pos}
	case lexer.TokRParen:
		return nil, &Error{Err: ErrUnmatchedParen, Pos: tok.Pos}
	case lexer.TokEOF:
		return nil, &Error{Err: ErrUnexpectedEOF, Pos: tok.Pos}
	default:
		return nil, &Error{Err: ErrUnexpectedToken, Pos: tok.Pos}
	}
}

func (p *parser) parseClassBody(pos int) (ast.Node, error) {
	items, negated, err := p.lex.ScanClassBody()
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok && lexErr.Err == lexer.ErrUnterminatedClass {
			return nil, &Error{Err: ErrUnmatchedBracket, Pos: pos}
		}
		return nil, toParserError(err)
	}

	var children []ast.Node
	for _, item := range items {
		switch item.Kind {
		case lexer.ClassItemRange:
			if item.Lo == item.Hi {
				children = append(children, &ast.Char{Byte: item.Lo})
			} else {
				children = append(children, &ast.CharRange{Lo: item.Lo, Hi: item.Hi})
			}
		case lexer.ClassItemShorthand:
			children = append(children, shorthandClassItems(item.Shorthand)...)
		}
	}
	return &ast.CharClass{Children: children, Inverted: negated}, nil
}

func (p *parser) parseGroup(open lexer.Token) (ast.Node, error) {
	var groupIndex int
	if open.Group == lexer.GroupCapturing {
		if p.groupCount >= maxGroups-1 {
			return nil, &Error{Err: ErrTooManyGroups, Pos: open.Pos}
		}
		p.groupCount++
		groupIndex = p.groupCount
	}

	child, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}

	tok, err := p.lex.Next()
	if err != nil {
		return nil, toParserError(err)
	}
	if tok.Kind != lexer.TokRParen {
		return nil, &Error{Err: ErrUnmatchedParen, Pos: open.Pos}
	}

	switch open.Group {
	case lexer.GroupCapturing:
		return &ast.Group{Index: groupIndex, Child: child}, nil
	case lexer.GroupNonCapturing:
		return &ast.NonCapturingGroup{Child: child}, nil
	case lexer.GroupLookahead:
		return &ast.Lookahead{Child: child}, nil
	case lexer.GroupNegLookahead:
		return &ast.Lookahead{Child: child, Negated: true}, nil
	case lexer.GroupLookbehind:
		return &ast.Lookbehind{Child: child}, nil
	default: // GroupNegLookbehind
		return &ast.Lookbehind{Child: child, Negated: true}, nil
	}
}
