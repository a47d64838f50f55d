package scan

import "voxelcraft.ai/areas/internal/area"

// AnnotatedPoints finds points carrying annotation name inside a by asking the
// index chunk by chunk instead of probing every block.
func (s *Scanner) AnnotatedPoints(a area.Area, idx AnnotationIndex, name string) (pts []area.Vec3i, truncated bool) {
	if idx == nil || !a.Valid() {
		return nil, false
	}
	frame := a.Frame()
	chunks, truncated := a.Chunks(s.Limits.MaxBlocks)
	c := newCollector(s.Limits.MaxBlocks)
	for _, k := range chunks {
		for _, p := range idx.AnnotatedPointsInChunk(frame, k, name) {
			if !a.ContainsBlock(frame, p) {
				continue
			}
			if !c.add(p.X, p.Y, p.Z) {
				observe("annotated", len(c.pts), true)
				return c.pts, true
			}
		}
	}
	observe("annotated", len(c.pts), truncated)
	return c.pts, truncated
}
