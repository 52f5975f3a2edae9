package byteset

// All returns the set containing every byte value.
func All() Set { return singletonAll }

// None returns the empty set.
func None() Set { return singletonNone }

// Exactly returns the set containing only b.
func Exactly(b byte) Set { return &sExact{b: b} }

type sAll struct{}
type sNone struct{}
type sExact struct{ b byte }

var (
	singletonAll  = &sAll{}
	singletonNone = &sNone{}
)

func (*sAll) Contains(byte) bool       { return true }
func (*sAll) ForEach(f func(b byte))   { scanAll(singletonAll, f) }
func (*sNone) Contains(byte) bool      { return false }
func (*sNone) ForEach(func(b byte))    {}
func (s *sExact) Contains(b byte) bool { return b == s.b }
func (s *sExact) ForEach(f func(b byte)) {
	f(s.b)
}
