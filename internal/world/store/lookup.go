package store

import (
	"strings"

	"voxelcraft.ai/areas/internal/area"
	"voxelcraft.ai/areas/internal/scan"
)

var (
	_ scan.ContentLookup   = (*Store)(nil)
	_ scan.AnnotationIndex = (*Store)(nil)
)

func (s *Store) MaterialAt(frameName string, p area.Vec3i) (scan.Material, error) {
	id, err := s.GetBlock(frameName, p)
	if err != nil {
		return scan.Material{}, err
	}
	return s.palette.Material(id), nil
}

func (s *Store) AnnotatedPointsInChunk(frameName string, k area.ChunkKey, name string) []area.Vec3i {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.frames[frameName]
	if !ok {
		return nil
	}
	pts := f.marks[k][strings.ToLower(strings.TrimSpace(name))]
	out := make([]area.Vec3i, len(pts))
	copy(out, pts)
	return out
}
