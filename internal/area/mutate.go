package area

// Transforms below work on a copy and, unless noted, on the first member only.

func (a Area) withFirst(p Pair) Area {
	c := a.Clone()
	if len(c.pairs) > 0 {
		c.pairs[0] = NewPair(p.Low, p.High, p.Frame)
	}
	return c
}

// Shift moves the first member by delta.
func (a Area) Shift(delta Vec3i) Area {
	p := a.First()
	return a.withFirst(Pair{Low: p.Low.Add(delta), High: p.High.Add(delta), Frame: p.Frame})
}

// Include grows the first member so it covers pt.
func (a Area) Include(pt Vec3i) Area {
	p := a.First()
	for _, ax := range [3]Axis{AxisX, AxisY, AxisZ} {
		p = growAxis(p, ax, pt.get(ax))
	}
	return a.withFirst(p)
}

// IncludeAxis grows the first member along one axis to cover value.
func (a Area) IncludeAxis(ax Axis, value int) Area {
	return a.withFirst(growAxis(a.First(), ax, value))
}

func growAxis(p Pair, ax Axis, value int) Pair {
	if value < p.Low.get(ax) {
		p.Low.set(ax, value)
	}
	if value > p.High.get(ax) {
		p.High.set(ax, value)
	}
	return p
}

// Expand grows the first member by n on every side; negative n contracts.
func (a Area) Expand(n int) Area {
	return a.ExpandVec(Vec3i{X: n, Y: n, Z: n})
}

// ExpandVec grows the first member by v on both sides of each axis.
func (a Area) ExpandVec(v Vec3i) Area {
	p := a.First()
	return a.withFirst(Pair{Low: p.Low.Sub(v), High: p.High.Add(v), Frame: p.Frame})
}

// ExpandOneSide moves only the face each component points at: negative
// components lower Low, positive ones raise High.
func (a Area) ExpandOneSide(v Vec3i) Area {
	p := a.First()
	for _, ax := range [3]Axis{AxisX, AxisY, AxisZ} {
		n := v.get(ax)
		if n < 0 {
			p.Low.set(ax, p.Low.get(ax)+n)
		} else {
			p.High.set(ax, p.High.get(ax)+n)
		}
	}
	return a.withFirst(p)
}

// WithMin rebuilds the first member from low and the existing high corner.
// If low lies above high on an axis the two swap roles.
func (a Area) WithMin(low Vec3i) Area {
	p := a.First()
	return a.withFirst(NewPair(low, p.High, p.Frame))
}

// WithMax rebuilds the first member from the existing low corner and high.
func (a Area) WithMax(high Vec3i) Area {
	p := a.First()
	return a.withFirst(NewPair(p.Low, high, p.Frame))
}

// WithFrame rebinds every member to frame without moving it.
func (a Area) WithFrame(frame string) Area {
	c := a.Clone()
	for i := range c.pairs {
		c.pairs[i].Frame = frame
	}
	return c
}

// Center is the midpoint of the first member's outer faces.
func (a Area) Center() Vec3 {
	p := a.First()
	return Vec3{
		X: (float64(p.Low.X) + float64(p.High.X) + 1) / 2,
		Y: (float64(p.Low.Y) + float64(p.High.Y) + 1) / 2,
		Z: (float64(p.Low.Z) + float64(p.High.Z) + 1) / 2,
	}
}
