// Package goregex is a regular-expression engine with JavaScript-flavored
// syntax, built as a three-stage pipeline: a recursive-descent parser turns
// the pattern into an AST, a code generator lowers the AST to a compact
// bytecode program, and a recursive backtracking matcher executes that
// program against input bytes.
//
// The engine supports capture groups (up to 16, including the implicit
// whole-match group 0), greedy/lazy/possessive quantifiers (`a*`, `a*?`,
// `a*+` and the `+`, `?`, `{n,m}` families), alternation, character classes
// with shorthand escapes (`\d \w \s` and their negations), anchors, word
// boundaries, lookahead and lookbehind (both negatable), and
// backreferences. Matching is byte-oriented and ASCII-aware; Unicode
// property classes and multi-byte case folding are out of scope.
//
// Basic usage:
//
//	re, err := goregex.Compile(`hello (\w+)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := re.Find([]byte("hello world"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if m != nil {
//	    g, _ := m.Group(1)
//	    fmt.Printf("%s\n", g) // "world"
//	}
//
// Compiled programs are immutable and safe for concurrent use; each match
// invocation builds its own ephemeral matcher state.
//
// Runaway patterns (`(a+)+b` against a long run of 'a's) are cut off by
// step and recursion-depth caps rather than left to backtrack forever; the
// caps surface as errors distinguishable from "no match", and are
// configurable through Options.
package goregex
