// Package byteset models sets of byte values. The parser and code
// generator use it to assemble regex character classes — bracketed
// expressions, shorthand escapes, inversions — as set algebra before the
// result is lowered to the flat 256-bit table the bytecode carries.
package byteset

// Set is a predicate over byte values.
//
// Implementations must be stateless with respect to Contains: calling it
// must never mutate the set.
type Set interface {
	// Contains reports whether b is a member of the set.
	Contains(b byte) bool

	// ForEach calls f exactly once per member byte, in ascending order.
	ForEach(f func(b byte))
}

// Bytes appends each member of s to out in ascending order and returns the
// updated slice.
func Bytes(s Set, out []byte) []byte {
	s.ForEach(func(b byte) { out = append(out, b) })
	return out
}

// scanAll is the fallback ForEach: probe all 256 byte values in order.
func scanAll(s Set, f func(b byte)) {
	for i := 0; i < 256; i++ {
		if s.Contains(byte(i)) {
			f(byte(i))
		}
	}
}
