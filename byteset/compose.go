package byteset

// Or returns the union of the given sets.
func Or(sets ...Set) Set {
	l := make([]Set, len(sets))
	copy(l, sets)
	return &sUnion{list: l}
}

// And returns the intersection of the given sets. The intersection of zero
// sets is All, matching the usual convention.
func And(sets ...Set) Set {
	l := make([]Set, len(sets))
	copy(l, sets)
	return &sIntersection{list: l}
}

// Not returns the complement of s.
func Not(s Set) Set {
	if n, ok := s.(*sComplement); ok {
		return n.inner
	}
	return &sComplement{inner: s}
}

type sUnion struct {
	list []Set
}

func (s *sUnion) Contains(b byte) bool {
	for _, sub := range s.list {
		if sub.Contains(b) {
			return true
		}
	}
	return false
}

func (s *sUnion) ForEach(f func(b byte)) {
	// Collapse to a bitmap first so overlapping members are visited once,
	// in order, without merging per-member streams.
	ToBitmap(s).ForEach(f)
}

type sIntersection struct {
	list []Set
}

func (s *sIntersection) Contains(b byte) bool {
	for _, sub := range s.list {
		if !sub.Contains(b) {
			return false
		}
	}
	return true
}

func (s *sIntersection) ForEach(f func(b byte)) {
	if len(s.list) == 0 {
		scanAll(s, f)
		return
	}
	rest := s.list[1:]
	s.list[0].ForEach(func(b byte) {
		for _, sub := range rest {
			if !sub.Contains(b) {
				return
			}
		}
		f(b)
	})
}

type sComplement struct {
	inner Set
}

func (s *sComplement) Contains(b byte) bool { return !s.inner.Contains(b) }
func (s *sComplement) ForEach(f func(b byte)) {
	scanAll(s, f)
}
