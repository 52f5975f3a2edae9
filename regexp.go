package goregex

import (
	"github.com/chronos-tachyon/goregex/bytecode"
	"github.com/chronos-tachyon/goregex/codegen"
	"github.com/chronos-tachyon/goregex/matcher"
	"github.com/chronos-tachyon/goregex/parser"
	"github.com/chronos-tachyon/goregex/prefilter"
)

// Options configures compilation and the per-match resource caps.
type Options struct {
	// CaseInsensitive lowers ASCII letter matches to two-branch splits
	// between their cases and makes backreference comparison case-folded.
	CaseInsensitive bool

	// MaxRecursionDepth caps the matcher's recursion depth per match
	// attempt. 0 disables the guard (not recommended).
	MaxRecursionDepth int

	// MaxSteps caps the number of instruction dispatches per match
	// attempt. 0 disables the guard (not recommended).
	MaxSteps int
}

// DefaultOptions returns the options Compile uses: case-sensitive matching
// with both runaway-pattern guards enabled.
func DefaultOptions() Options {
	return Options{
		MaxRecursionDepth: 1000,
		MaxSteps:          1000000,
	}
}

// Regexp is a compiled pattern. It is immutable and safe for concurrent
// use; every match invocation constructs its own matcher state.
type Regexp struct {
	pattern string
	opts    Options
	prog    *bytecode.Program
	pre     *prefilter.LiteralSet
}

// Compile compiles pattern with DefaultOptions.
//
// Example:
//
//	re, err := goregex.Compile(`(?<=\$)\d+`)
func Compile(pattern string) (*Regexp, error) {
	return CompileOptions(pattern, DefaultOptions())
}

// CompileOptions compiles pattern with explicit options.
//
// Example:
//
//	re, err := goregex.CompileOptions(`(.)\1`, goregex.Options{
//		CaseInsensitive:   true,
//		MaxRecursionDepth: 1000,
//		MaxSteps:          1000000,
//	})
func CompileOptions(pattern string, opts Options) (*Regexp, error) {
	root, numCaptures, err := parser.Parse(pattern)
	if err != nil {
		return nil, newCompileError(pattern, err)
	}
	prog, err := codegen.Generate(root, numCaptures, opts.CaseInsensitive)
	if err != nil {
		return nil, newCompileError(pattern, err)
	}
	return &Regexp{
		pattern: pattern,
		opts:    opts,
		prog:    prog,
		pre:     prefilter.Build(root, opts.CaseInsensitive),
	}, nil
}

// MustCompile is Compile for patterns known to be valid; it panics on
// error.
//
// Example:
//
//	var word = goregex.MustCompile(`\w+`)
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic("goregex: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// Pattern returns the source pattern the Regexp was compiled from.
func (re *Regexp) Pattern() string { return re.pattern }

// NumCaptures returns the number of capturing groups in the pattern,
// excluding the implicit whole-match group 0.
func (re *Regexp) NumCaptures() int { return re.prog.NumCaptures }

// Program exposes the compiled bytecode, mainly for disassembly and
// debugging.
func (re *Regexp) Program() *bytecode.Program { return re.prog }

// Match is one successful match: its span within the input plus the spans
// of any capturing groups. Captures reference byte offsets into the input
// slice the match was produced from.
type Match struct {
	input []byte
	inner *matcher.Match
}

// Start returns the byte offset at which the match begins.
func (m *Match) Start() int { return m.inner.Start }

// End returns the byte offset just past the end of the match.
func (m *Match) End() int { return m.inner.End }

// Bytes returns the matched slice of the input.
func (m *Match) Bytes() []byte { return m.input[m.inner.Start:m.inner.End] }

// GroupRange returns the [start, end) byte range of capturing group index.
// Index 0 is the whole match. ok is false for groups that did not
// participate in the match.
func (m *Match) GroupRange(index int) (start, end int, ok bool) {
	return m.inner.Group(index)
}

// Group returns the slice of the input captured by group index, or ok ==
// false if the group did not participate in the match.
func (m *Match) Group(index int) ([]byte, bool) {
	start, end, ok := m.inner.Group(index)
	if !ok {
		return nil, false
	}
	return m.input[start:end], true
}

// MatchFull reports whether the pattern matches the whole of input: a match
// starting at offset 0 and consuming every byte.
func (re *Regexp) MatchFull(input []byte) (bool, error) {
	m := matcher.New(re.prog, input, re.opts.MaxRecursionDepth, re.opts.MaxSteps)
	result, err := m.MatchFrom(0)
	if err != nil {
		return false, err
	}
	return result != nil && result.End == len(input), nil
}

// Find returns the leftmost match in input, or nil if there is none. The
// matcher always sees the full input even when the attempt position is
// advanced, so lookbehind can inspect bytes before the match start.
func (re *Regexp) Find(input []byte) (*Match, error) {
	return re.findFrom(input, 0)
}

func (re *Regexp) findFrom(input []byte, from int) (*Match, error) {
	m := matcher.New(re.prog, input, re.opts.MaxRecursionDepth, re.opts.MaxSteps)
	for s := from; s <= len(input); s++ {
		if re.pre != nil {
			next, ok := re.pre.Next(input, s)
			if !ok {
				return nil, nil
			}
			s = next
		}
		result, err := m.MatchFrom(s)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return &Match{input: input, inner: result}, nil
		}
	}
	return nil, nil
}

// FindAll returns every non-overlapping match in input, leftmost first. A
// zero-length match advances the scan by one byte so iteration always
// terminates.
func (re *Regexp) FindAll(input []byte) ([]*Match, error) {
	var out []*Match
	pos := 0
	for pos <= len(input) {
		m, err := re.findFrom(input, pos)
		if err != nil {
			return nil, err
		}
		if m == nil {
			break
		}
		out = append(out, m)
		if m.End() > m.Start() {
			pos = m.End()
		} else {
			pos = m.End() + 1
		}
	}
	return out, nil
}
