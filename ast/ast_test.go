package ast

import "testing"

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Greedy, "greedy"},
		{Lazy, "lazy"},
		{Possessive, "possessive"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestNodeVariantsImplementNode(t *testing.T) {
	var nodes = []Node{
		&Char{Byte: 'a'},
		&Dot{},
		&CharRange{Lo: 'a', Hi: 'z'},
		&CharClass{Children: []Node{&Char{Byte: '0'}}},
		&Sequence{},
		&Alternation{Left: &Char{Byte: 'a'}, Right: &Char{Byte: 'b'}},
		&Group{Index: 1, Child: &Dot{}},
		&NonCapturingGroup{Child: &Dot{}},
		&Lookahead{Child: &Dot{}},
		&Lookbehind{Child: &Dot{}, Negated: true},
		&Star{Child: &Dot{}, Mode: Greedy},
		&Plus{Child: &Dot{}, Mode: Lazy},
		&Question{Child: &Dot{}, Mode: Possessive},
		&Repeat{Child: &Dot{}, Min: 2, Max: RepeatUnbounded},
		&Backref{Index: 1},
		&AnchorStart{},
		&AnchorEnd{},
		&WordBoundary{Negated: true},
	}
	if len(nodes) != 18 {
		t.Fatalf("expected 18 node variants exercised, got %d", len(nodes))
	}
}
