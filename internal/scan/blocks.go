package scan

import (
	"fmt"

	"voxelcraft.ai/areas/internal/area"
)

// Blocks lists every lattice point of every member, X outer, Y middle, Z
// inner. With a pattern only points whose material matches are listed;
// without one, points outside [MinY, MaxY] are skipped. The cap counts
// visited points.
func (s *Scanner) Blocks(a area.Area, pattern string) (pts []area.Vec3i, truncated bool, err error) {
	if pattern == "" {
		pts, truncated = s.allBlocks(a)
		observe("blocks", len(pts), truncated)
		return pts, truncated, nil
	}
	if s.Content == nil || s.Matcher == nil {
		return nil, false, ErrNoContent
	}
	var (
		out     []area.Vec3i
		visited int
		frame   = a.Frame()
	)
	for _, p := range a.Pairs() {
		for x := p.Low.X; x <= p.High.X; x++ {
			for y := p.Low.Y; y <= p.High.Y; y++ {
				for z := p.Low.Z; z <= p.High.Z; z++ {
					if s.capped(visited) {
						observe("blocks", len(out), true)
						return out, true, nil
					}
					visited++
					b := area.Vec3i{X: x, Y: y, Z: z}
					m, err := s.Content.MaterialAt(frame, b)
					if err != nil {
						s.logf("scan: blocks: material at %v in %s: %v", b, frame, err)
						return nil, false, fmt.Errorf("scan: material at %v: %w", b, err)
					}
					if s.Matcher.Matches(m, pattern) {
						out = append(out, b)
					}
				}
			}
		}
	}
	observe("blocks", len(out), false)
	return out, false, nil
}

func (s *Scanner) capped(visited int) bool {
	return s.Limits.MaxBlocks > 0 && visited >= s.Limits.MaxBlocks
}

func (s *Scanner) allBlocks(a area.Area) ([]area.Vec3i, bool) {
	c := newCollector(s.Limits.MaxBlocks)
	for _, p := range a.Pairs() {
		minY, maxY := p.Low.Y, p.High.Y
		if minY < s.Limits.MinY {
			minY = s.Limits.MinY
		}
		if maxY > s.Limits.MaxY {
			maxY = s.Limits.MaxY
		}
		for x := p.Low.X; x <= p.High.X; x++ {
			for y := minY; y <= maxY; y++ {
				for z := p.Low.Z; z <= p.High.Z; z++ {
					if !c.add(x, y, z) {
						return c.pts, true
					}
				}
			}
		}
	}
	return c.pts, false
}

// SpawnableBlocks lists points where an agent could stand: the point and the
// one above are air, and the one below is solid or matches pattern. Points
// are returned at the horizontal block center.
func (s *Scanner) SpawnableBlocks(a area.Area, pattern string) (pts []area.Vec3, truncated bool, err error) {
	if s.Content == nil {
		return nil, false, ErrNoContent
	}
	var (
		visited int
		frame   = a.Frame()
	)
	at := func(x, y, z int) (Material, error) {
		b := area.Vec3i{X: x, Y: y, Z: z}
		m, err := s.Content.MaterialAt(frame, b)
		if err != nil {
			s.logf("scan: spawnable: material at %v in %s: %v", b, frame, err)
			return m, fmt.Errorf("scan: material at %v: %w", b, err)
		}
		return m, nil
	}
	for _, p := range a.Pairs() {
		for x := p.Low.X; x <= p.High.X; x++ {
			for y := p.Low.Y; y <= p.High.Y; y++ {
				for z := p.Low.Z; z <= p.High.Z; z++ {
					if s.capped(visited) {
						observe("spawnable", len(pts), true)
						return pts, true, nil
					}
					visited++
					here, err := at(x, y, z)
					if err != nil {
						return nil, false, err
					}
					if !here.Air {
						continue
					}
					above, err := at(x, y+1, z)
					if err != nil {
						return nil, false, err
					}
					if !above.Air {
						continue
					}
					below, err := at(x, y-1, z)
					if err != nil {
						return nil, false, err
					}
					if !below.Solid && !(pattern != "" && s.Matcher != nil && s.Matcher.Matches(below, pattern)) {
						continue
					}
					pts = append(pts, area.Vec3{X: float64(x) + 0.5, Y: float64(y), Z: float64(z) + 0.5})
				}
			}
		}
	}
	observe("spawnable", len(pts), false)
	return pts, false, nil
}
