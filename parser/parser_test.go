package parser

import (
	"errors"
	"testing"

	"github.com/chronos-tachyon/goregex/ast"
)

func TestParseLiteralSequence(t *testing.T) {
	root, n, err := Parse("abc")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n != 0 {
		t.Fatalf("groupCount = %d, want 0", n)
	}
	seq, ok := root.(*ast.Sequence)
	if !ok || len(seq.Children) != 3 {
		t.Fatalf("root = %#v, want 3-element Sequence", root)
	}
}

func TestParseCapturingGroup(t *testing.T) {
	root, n, err := Parse(`hello (\w+)`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n != 1 {
		t.Fatalf("groupCount = %d, want 1", n)
	}
	seq := root.(*ast.Sequence)
	var group *ast.Group
	for _, c := range seq.Children {
		if g, ok := c.(*ast.Group); ok {
			group = g
		}
	}
	if group == nil || group.Index != 1 {
		t.Fatalf("expected group with index 1, got %#v", group)
	}
	body, ok := group.Child.(*ast.Sequence)
	if !ok || len(body.Children) != 1 {
		t.Fatalf("group child = %#v, want one-element *ast.Sequence", group.Child)
	}
	if _, ok := body.Children[0].(*ast.Plus); !ok {
		t.Fatalf("group body = %#v, want *ast.Plus", body.Children[0])
	}
}

func TestParseBackreference(t *testing.T) {
	root, n, err := Parse(`(.)\1`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n != 1 {
		t.Fatalf("groupCount = %d, want 1", n)
	}
	seq := root.(*ast.Sequence)
	if len(seq.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(seq.Children))
	}
	if _, ok := seq.Children[1].(*ast.Backref); !ok {
		t.Fatalf("second child = %#v, want *ast.Backref", seq.Children[1])
	}
}

func TestParseInvalidBackreference(t *testing.T) {
	_, _, err := Parse(`a\1`)
	if !errors.Is(err, ErrInvalidBackreference) {
		t.Fatalf("err = %v, want ErrInvalidBackreference", err)
	}
}

func TestParseQuantifierModes(t *testing.T) {
	tests := []struct {
		pattern string
		mode    ast.Mode
	}{
		{"a*", ast.Greedy},
		{"a*?", ast.Lazy},
		{"a*+", ast.Possessive},
	}
	for _, tt := range tests {
		root, _, err := Parse(tt.pattern)
		if err != nil {
			t.Fatalf("%q: Parse: %v", tt.pattern, err)
		}
		seq := root.(*ast.Sequence)
		star, ok := seq.Children[0].(*ast.Star)
		if !ok {
			t.Fatalf("%q: child = %#v, want *ast.Star", tt.pattern, seq.Children[0])
		}
		if star.Mode != tt.mode {
			t.Errorf("%q: mode = %v, want %v", tt.pattern, star.Mode, tt.mode)
		}
	}
}

func TestParseCountedRepeat(t *testing.T) {
	root, _, err := Parse("a{2,4}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	seq := root.(*ast.Sequence)
	rep, ok := seq.Children[0].(*ast.Repeat)
	if !ok || rep.Min != 2 || rep.Max != 4 {
		t.Fatalf("child = %#v, want Repeat{2,4}", seq.Children[0])
	}
}

func TestParseLookaroundVariants(t *testing.T) {
	tests := []struct {
		pattern string
		check   func(t *testing.T, node ast.Node)
	}{
		{"foo(?=bar)", func(t *testing.T, node ast.Node) {
			la, ok := node.(*ast.Lookahead)
			if !ok || la.Negated {
				t.Fatalf("got %#v, want non-negated Lookahead", node)
			}
		}},
		{"foo(?!bar)", func(t *testing.T, node ast.Node) {
			la, ok := node.(*ast.Lookahead)
			if !ok || !la.Negated {
				t.Fatalf("got %#v, want negated Lookahead", node)
			}
		}},
		{`(?<=\$)\d+`, func(t *testing.T, node ast.Node) {
			lb, ok := node.(*ast.Lookbehind)
			if !ok || lb.Negated {
				t.Fatalf("got %#v, want non-negated Lookbehind", node)
			}
		}},
	}
	for _, tt := range tests {
		root, _, err := Parse(tt.pattern)
		if err != nil {
			t.Fatalf("%q: Parse: %v", tt.pattern, err)
		}
		seq := root.(*ast.Sequence)
		var found ast.Node
		for _, c := range seq.Children {
			switch c.(type) {
			case *ast.Lookahead, *ast.Lookbehind:
				found = c
			}
		}
		if found == nil {
			t.Fatalf("%q: no lookaround node found in %#v", tt.pattern, seq.Children)
		}
		tt.check(t, found)
	}
}

func TestParseCharacterClass(t *testing.T) {
	root, _, err := Parse("[a-z0-9_]")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	seq := root.(*ast.Sequence)
	cls, ok := seq.Children[0].(*ast.CharClass)
	if !ok {
		t.Fatalf("child = %#v, want *ast.CharClass", seq.Children[0])
	}
	if cls.Inverted {
		t.Error("expected non-inverted class")
	}
	if len(cls.Children) != 3 {
		t.Fatalf("got %d children, want 3", len(cls.Children))
	}
}

func TestParseNegatedShorthandStandalone(t *testing.T) {
	root, _, err := Parse(`\W`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	seq := root.(*ast.Sequence)
	cls, ok := seq.Children[0].(*ast.CharClass)
	if !ok || !cls.Inverted {
		t.Fatalf("got %#v, want inverted *ast.CharClass", seq.Children[0])
	}
}

func TestParseUnmatchedParen(t *testing.T) {
	_, _, err := Parse("(abc")
	if !errors.Is(err, ErrUnmatchedParen) {
		t.Fatalf("err = %v, want ErrUnmatchedParen", err)
	}
}

func TestParseUnmatchedBracket(t *testing.T) {
	_, _, err := Parse("[abc")
	if !errors.Is(err, ErrUnmatchedBracket) {
		t.Fatalf("err = %v, want ErrUnmatchedBracket", err)
	}
}

func TestParseInvalidQuantifierTarget(t *testing.T) {
	_, _, err := Parse("*abc")
	if !errors.Is(err, ErrInvalidQuantifierTarget) {
		t.Fatalf("err = %v, want ErrInvalidQuantifierTarget", err)
	}
}

func TestParseAlternationGroupNumbering(t *testing.T) {
	root, n, err := Parse(`(a)|(b)`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n != 2 {
		t.Fatalf("groupCount = %d, want 2", n)
	}
	alt, ok := root.(*ast.Alternation)
	if !ok {
		t.Fatalf("root = %#v, want *ast.Alternation", root)
	}
	leftSeq := alt.Left.(*ast.Sequence)
	left := leftSeq.Children[0].(*ast.Group)
	rightSeq := alt.Right.(*ast.Sequence)
	right := rightSeq.Children[0].(*ast.Group)
	if left.Index != 1 || right.Index != 2 {
		t.Fatalf("group indices = %d, %d, want 1, 2", left.Index, right.Index)
	}
}
