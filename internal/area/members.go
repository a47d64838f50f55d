package area

// Member indexes are 1-based. Out-of-range indexes are clamped instead of
// rejected. All editors return a modified copy.

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

// Member returns member i, clamped into [1, Len].
func (a Area) Member(i int) Pair {
	if len(a.pairs) == 0 {
		return Pair{}
	}
	return a.pairs[clamp(i, 1, len(a.pairs))-1]
}

// SetMember replaces member i, clamped into [1, Len].
func (a Area) SetMember(i int, p Pair) (Area, error) {
	if len(a.pairs) > 0 && p.Frame != a.Frame() {
		return a, ErrFrameMismatch
	}
	c := a.Clone()
	if len(c.pairs) == 0 {
		c.pairs = append(c.pairs, NewPair(p.Low, p.High, p.Frame))
		return c, nil
	}
	c.pairs[clamp(i, 1, len(c.pairs))-1] = NewPair(p.Low, p.High, p.Frame)
	return c, nil
}

// AppendMember adds p as the last member.
func (a Area) AppendMember(p Pair) (Area, error) {
	return a.AddMember(p, len(a.pairs)+1)
}

// AddMember inserts p so it becomes member i, clamped into [1, Len+1].
func (a Area) AddMember(p Pair, i int) (Area, error) {
	if len(a.pairs) > 0 && p.Frame != a.Frame() {
		return a, ErrFrameMismatch
	}
	c := a.Clone()
	n := len(c.pairs)
	i = clamp(i, 1, n+1) - 1
	c.pairs = append(c.pairs, Pair{})
	copy(c.pairs[i+1:], c.pairs[i:n])
	c.pairs[i] = NewPair(p.Low, p.High, p.Frame)
	return c, nil
}

// RemoveMember drops member i, clamped into [1, Len]. An area keeps at least
// one member.
func (a Area) RemoveMember(i int) (Area, error) {
	if len(a.pairs) <= 1 {
		return a, ErrLastMember
	}
	c := a.Clone()
	i = clamp(i, 1, len(c.pairs)) - 1
	c.pairs = append(c.pairs[:i], c.pairs[i+1:]...)
	return c, nil
}
