package area

// Pair is one normalized box: Low <= High on every axis, both corners inclusive.
type Pair struct {
	Low   Vec3i
	High  Vec3i
	Frame string
}

// NewPair normalizes two arbitrary corners into a Pair.
func NewPair(a, b Vec3i, frame string) Pair {
	p := Pair{Low: a, High: b, Frame: frame}
	if p.Low.X > p.High.X {
		p.Low.X, p.High.X = p.High.X, p.Low.X
	}
	if p.Low.Y > p.High.Y {
		p.Low.Y, p.High.Y = p.High.Y, p.Low.Y
	}
	if p.Low.Z > p.High.Z {
		p.Low.Z, p.High.Z = p.High.Z, p.Low.Z
	}
	return p
}

func (p Pair) XDistance() int { return p.High.X - p.Low.X }
func (p Pair) YDistance() int { return p.High.Y - p.Low.Y }
func (p Pair) ZDistance() int { return p.High.Z - p.Low.Z }

// Size is the inclusive block count along each axis.
func (p Pair) Size() Vec3i {
	return Vec3i{X: p.XDistance() + 1, Y: p.YDistance() + 1, Z: p.ZDistance() + 1}
}

// Volume is the number of lattice points in the box.
func (p Pair) Volume() int64 {
	s := p.Size()
	return int64(s.X) * int64(s.Y) * int64(s.Z)
}

// Contains reports whether pos falls in a block between the corners.
func (p Pair) Contains(pos Vec3) bool {
	return float64(p.Low.X) <= pos.X && pos.X < float64(p.High.X+1) &&
		float64(p.Low.Y) <= pos.Y && pos.Y < float64(p.High.Y+1) &&
		float64(p.Low.Z) <= pos.Z && pos.Z < float64(p.High.Z+1)
}

// ContainsBlock is Contains for lattice points.
func (p Pair) ContainsBlock(b Vec3i) bool {
	return p.Low.X <= b.X && b.X <= p.High.X &&
		p.Low.Y <= b.Y && b.Y <= p.High.Y &&
		p.Low.Z <= b.Z && b.Z <= p.High.Z
}

// Overlaps is the inclusive AABB test. Frames are not compared.
func (p Pair) Overlaps(o Pair) bool {
	return o.Low.X <= p.High.X && o.Low.Y <= p.High.Y && o.Low.Z <= p.High.Z &&
		o.High.X >= p.Low.X && o.High.Y >= p.Low.Y && o.High.Z >= p.Low.Z
}

// Encloses reports whether o lies fully inside p. Frames are not compared.
func (p Pair) Encloses(o Pair) bool {
	return p.Low.X <= o.Low.X && p.Low.Y <= o.Low.Y && p.Low.Z <= o.Low.Z &&
		o.High.X <= p.High.X && o.High.Y <= p.High.Y && o.High.Z <= p.High.Z
}
