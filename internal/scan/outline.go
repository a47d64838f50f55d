package scan

import "voxelcraft.ai/areas/internal/area"

// Shell lists the six faces of every member: the two Z faces (X then Y), the
// two Y faces (X then Z), then the two X faces (Y then Z). Points on shared
// edges are listed once per face.
func (s *Scanner) Shell(a area.Area) (pts []area.Vec3i, truncated bool) {
	c := newCollector(s.Limits.MaxBlocks)
	for _, p := range a.Pairs() {
		if !shellPair(c, p) {
			break
		}
	}
	observe("shell", len(c.pts), c.truncated)
	return c.pts, c.truncated
}

func shellPair(c *collector, p area.Pair) bool {
	lo, hi := p.Low, p.High
	dx, dy, dz := p.XDistance(), p.YDistance(), p.ZDistance()
	for x := 0; x <= dx; x++ {
		for y := 0; y <= dy; y++ {
			if !c.add2(lo.X+x, lo.Y+y, lo.Z, lo.X+x, lo.Y+y, hi.Z) {
				return false
			}
		}
	}
	for x := 0; x <= dx; x++ {
		for z := 0; z <= dz; z++ {
			if !c.add2(lo.X+x, lo.Y, lo.Z+z, lo.X+x, hi.Y, lo.Z+z) {
				return false
			}
		}
	}
	for y := 0; y <= dy; y++ {
		for z := 0; z <= dz; z++ {
			if !c.add2(lo.X, lo.Y+y, lo.Z+z, hi.X, lo.Y+y, lo.Z+z) {
				return false
			}
		}
	}
	return true
}

// Outline lists the twelve edges of every member followed by its high corner.
// Each edge pass stops one short of the high end, so the corner is listed
// once, last.
func (s *Scanner) Outline(a area.Area) (pts []area.Vec3i, truncated bool) {
	c := newCollector(s.Limits.MaxBlocks)
	for _, p := range a.Pairs() {
		if !outlinePair(c, p) {
			break
		}
	}
	observe("outline", len(c.pts), c.truncated)
	return c.pts, c.truncated
}

func outlinePair(c *collector, p area.Pair) bool {
	lo, hi := p.Low, p.High
	for y := 0; y < p.YDistance(); y++ {
		if !c.add2(lo.X, lo.Y+y, lo.Z, lo.X, lo.Y+y, hi.Z) ||
			!c.add2(hi.X, lo.Y+y, lo.Z, hi.X, lo.Y+y, hi.Z) {
			return false
		}
	}
	for x := 0; x < p.XDistance(); x++ {
		if !c.add2(lo.X+x, lo.Y, lo.Z, lo.X+x, lo.Y, hi.Z) ||
			!c.add2(lo.X+x, hi.Y, lo.Z, lo.X+x, hi.Y, hi.Z) {
			return false
		}
	}
	for z := 0; z < p.ZDistance(); z++ {
		if !c.add2(lo.X, lo.Y, lo.Z+z, hi.X, lo.Y, lo.Z+z) ||
			!c.add2(lo.X, hi.Y, lo.Z+z, hi.X, hi.Y, lo.Z+z) {
			return false
		}
	}
	return c.add(hi.X, hi.Y, hi.Z)
}

// Outline2D projects each member's outer rectangle onto the plane at y: the
// high corner once, then the edges along X and along Z up to but not
// including the high end.
func (s *Scanner) Outline2D(a area.Area, y int) (pts []area.Vec3i, truncated bool) {
	c := newCollector(s.Limits.MaxBlocks)
	for _, p := range a.Pairs() {
		if !outline2DPair(c, p, y) {
			break
		}
	}
	observe("outline_2d", len(c.pts), c.truncated)
	return c.pts, c.truncated
}

func outline2DPair(c *collector, p area.Pair, y int) bool {
	lo, hi := p.Low, p.High
	if !c.add(hi.X, y, hi.Z) {
		return false
	}
	for x := 0; x < p.XDistance(); x++ {
		if !c.add2(lo.X+x, y, lo.Z, lo.X+x, y, hi.Z) {
			return false
		}
	}
	for z := 0; z < p.ZDistance(); z++ {
		if !c.add2(lo.X, y, lo.Z+z, hi.X, y, lo.Z+z) {
			return false
		}
	}
	return true
}
