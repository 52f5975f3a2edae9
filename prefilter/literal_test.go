package prefilter

import (
	"testing"

	"github.com/chronos-tachyon/goregex/parser"
)

func buildFor(t *testing.T, pattern string) *LiteralSet {
	t.Helper()
	root, _, err := parser.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return Build(root, false)
}

func TestBuildLiteralAlternation(t *testing.T) {
	ls := buildFor(t, "cat|dog|bird")
	if ls == nil {
		t.Fatal("Build returned nil for a pure literal alternation")
	}

	input := []byte("the bird ate the dog")
	start, ok := ls.Next(input, 0)
	if !ok || start != 4 {
		t.Errorf("Next(0) = (%d, %v), want (4, true)", start, ok)
	}
	start, ok = ls.Next(input, 5)
	if !ok || start != 17 {
		t.Errorf("Next(5) = (%d, %v), want (17, true)", start, ok)
	}
	if _, ok := ls.Next(input, 18); ok {
		t.Error("Next(18) found an occurrence past the last literal")
	}
}

func TestBuildSingleLiteral(t *testing.T) {
	ls := buildFor(t, "needle")
	if ls == nil {
		t.Fatal("Build returned nil for a single literal")
	}
	start, ok := ls.Next([]byte("hay needle hay"), 0)
	if !ok || start != 4 {
		t.Errorf("Next = (%d, %v), want (4, true)", start, ok)
	}
}

func TestBuildRejectsNonLiteralShapes(t *testing.T) {
	for _, pattern := range []string{`a+|b`, `ca?t|dog`, `(cat)|dog`, `c.t`, `a|`} {
		root, _, err := parser.Parse(pattern)
		if err != nil {
			t.Fatalf("Parse(%q): %v", pattern, err)
		}
		if Build(root, false) != nil {
			t.Errorf("Build(%q) built a prefilter for a non-literal pattern", pattern)
		}
	}
}

func TestBuildRejectsCaseInsensitive(t *testing.T) {
	root, _, err := parser.Parse("cat|dog")
	if err != nil {
		t.Fatal(err)
	}
	if Build(root, true) != nil {
		t.Error("Build should refuse case-insensitive patterns")
	}
}
