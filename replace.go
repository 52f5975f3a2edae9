package goregex

// Replace returns a copy of input with every non-overlapping match replaced
// by the literal replacement bytes. The replacement is inserted verbatim;
// it carries no backreference substitution syntax. With no matches the
// result equals input.
func (re *Regexp) Replace(input, replacement []byte) ([]byte, error) {
	matches, err := re.FindAll(input)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return append([]byte(nil), input...), nil
	}

	out := make([]byte, 0, len(input))
	prev := 0
	for _, m := range matches {
		out = append(out, input[prev:m.Start()]...)
		out = append(out, replacement...)
		prev = m.End()
	}
	out = append(out, input[prev:]...)
	return out, nil
}
