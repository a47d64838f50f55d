package area

import "math/rand/v2"

// RandomPoint picks a member uniformly, then a lattice point inside it.
// Members are not weighted by size, so small members are over-represented.
func (a Area) RandomPoint(rng *rand.Rand) Vec3i {
	if len(a.pairs) == 0 {
		return Vec3i{}
	}
	p := a.pairs[rng.IntN(len(a.pairs))]
	return Vec3i{
		X: p.Low.X + rng.IntN(p.XDistance()+1),
		Y: p.Low.Y + rng.IntN(p.YDistance()+1),
		Z: p.Low.Z + rng.IntN(p.ZDistance()+1),
	}
}

// Volume counts the first member only; other members are not summed.
func (a Area) Volume() int64 {
	if len(a.pairs) == 0 {
		return 0
	}
	return a.pairs[0].Volume()
}

// Size is the inclusive span of member i (clamped, 1-based).
func (a Area) Size(i int) Vec3i {
	if len(a.pairs) == 0 {
		return Vec3i{}
	}
	return a.Member(i).Size()
}
