// Package store is an in-memory voxel world: per-frame maps of chunk
// columns plus a per-chunk index of annotated points. It serves as the
// content and annotation collaborator for scan.
package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"voxelcraft.ai/areas/internal/area"
)

var ErrUnknownFrame = errors.New("store: unknown frame")

type frame struct {
	chunks map[area.ChunkKey]*Chunk
	marks  map[area.ChunkKey]map[string][]area.Vec3i
}

// Store is safe for concurrent use.
type Store struct {
	palette *Palette
	minY    int
	height  int

	mu     sync.RWMutex
	frames map[string]*frame
}

// New creates a store whose columns span [minY, minY+height).
func New(minY, height int) *Store {
	if height <= 0 {
		height = 1
	}
	return &Store{
		palette: NewPalette(),
		minY:    minY,
		height:  height,
		frames:  map[string]*frame{},
	}
}

func (s *Store) Palette() *Palette { return s.palette }

// AddFrame makes name known. Reads from an unknown frame fail.
func (s *Store) AddFrame(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameLocked(name)
}

func (s *Store) frameLocked(name string) *frame {
	f, ok := s.frames[name]
	if !ok {
		f = &frame{
			chunks: map[area.ChunkKey]*Chunk{},
			marks:  map[area.ChunkKey]map[string][]area.Vec3i{},
		}
		s.frames[name] = f
	}
	return f
}

func (s *Store) Frames() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.frames))
	for k := range s.frames {
		out = append(out, k)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

func (s *Store) inHeight(y int) bool { return y >= s.minY && y < s.minY+s.height }

// GetBlock returns the block id at p. Unloaded chunks and points outside the
// column height read as air.
func (s *Store) GetBlock(frameName string, p area.Vec3i) (uint16, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.frames[frameName]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFrame, frameName)
	}
	if !s.inHeight(p.Y) {
		return 0, nil
	}
	ch, ok := f.chunks[area.ChunkOf(p)]
	if !ok {
		return 0, nil
	}
	return ch.get(mod(p.X, chunkSize), p.Y-s.minY, mod(p.Z, chunkSize)), nil
}

// SetBlock writes id at p, creating the frame and chunk as needed. Points
// outside the column height are ignored.
func (s *Store) SetBlock(frameName string, p area.Vec3i, id uint16) {
	if !s.inHeight(p.Y) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(s.frameLocked(frameName), p, id)
}

func (s *Store) setLocked(f *frame, p area.Vec3i, id uint16) {
	k := area.ChunkOf(p)
	ch, ok := f.chunks[k]
	if !ok {
		if id == 0 {
			return
		}
		ch = newChunk(k, s.height)
		f.chunks[k] = ch
	}
	ch.set(mod(p.X, chunkSize), p.Y-s.minY, mod(p.Z, chunkSize), id)
}

// Fill sets every block of every member of a to material and returns the
// number of blocks written.
func (s *Store) Fill(a area.Area, material string, solid bool) (int, error) {
	id, err := s.palette.Define(material, solid)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frameLocked(a.Frame())
	n := 0
	for _, p := range a.Pairs() {
		lowY, highY := max(p.Low.Y, s.minY), min(p.High.Y, s.minY+s.height-1)
		for x := p.Low.X; x <= p.High.X; x++ {
			for y := lowY; y <= highY; y++ {
				for z := p.Low.Z; z <= p.High.Z; z++ {
					s.setLocked(f, area.Vec3i{X: x, Y: y, Z: z}, id)
					n++
				}
			}
		}
	}
	return n, nil
}

// Annotate records p under name in the chunk index of frameName.
func (s *Store) Annotate(frameName, name string, p area.Vec3i) {
	name = strings.ToLower(strings.TrimSpace(name))
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frameLocked(frameName)
	k := area.ChunkOf(p)
	byName, ok := f.marks[k]
	if !ok {
		byName = map[string][]area.Vec3i{}
		f.marks[k] = byName
	}
	for _, q := range byName[name] {
		if q == p {
			return
		}
	}
	byName[name] = append(byName[name], p)
}

// LoadedChunkKeys lists the chunks holding blocks in frameName, sorted.
func (s *Store) LoadedChunkKeys(frameName string) []area.ChunkKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.frames[frameName]
	if !ok {
		return nil
	}
	keys := make([]area.ChunkKey, 0, len(f.chunks))
	for k := range f.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys
}

// ChunkDigest returns the block hash of a loaded chunk.
func (s *Store) ChunkDigest(frameName string, k area.ChunkKey) ([32]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.frames[frameName]
	if !ok {
		return [32]byte{}, false
	}
	ch, ok := f.chunks[k]
	if !ok {
		return [32]byte{}, false
	}
	return ch.Digest(), true
}
