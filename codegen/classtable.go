package codegen

import (
	"github.com/chronos-tachyon/goregex/ast"
	"github.com/chronos-tachyon/goregex/byteset"
	"github.com/chronos-tachyon/goregex/bytecode"
)

// buildClassTable collapses a CharClass's Char/CharRange children into the
// inline 256-bit table CHAR_CLASS[_INV] carries, going through byteset so
// that overlapping members and ranges union cleanly.
func buildClassTable(children []ast.Node) bytecode.CharClassTable {
	sets := make([]byteset.Set, 0, len(children))
	for _, child := range children {
		switch n := child.(type) {
		case *ast.Char:
			sets = append(sets, byteset.Exactly(n.Byte))
		case *ast.CharRange:
			sets = append(sets, byteset.Ranges(byteset.Range{Lo: n.Lo, Hi: n.Hi}))
		}
	}
	return bytecode.CharClassTable(*byteset.ToBitmap(byteset.Or(sets...)))
}

// singleRange reports whether children is exactly one CharRange node,
// enabling the CHAR_RANGE peephole simplification for uninverted classes.
func singleRange(children []ast.Node) (*ast.CharRange, bool) {
	if len(children) != 1 {
		return nil, false
	}
	r, ok := children[0].(*ast.CharRange)
	return r, ok
}
