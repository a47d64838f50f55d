package store

import (
	"crypto/sha256"
	"encoding/binary"

	"voxelcraft.ai/areas/internal/area"
)

const chunkSize = area.ChunkSize

// Chunk is one 16x16 column of blocks, height cells tall starting at minY.
type Chunk struct {
	Key    area.ChunkKey
	Blocks []uint16 // x fastest, then z, then y

	height int
	dirty  bool
	hash   [32]byte
}

func newChunk(key area.ChunkKey, height int) *Chunk {
	return &Chunk{
		Key:    key,
		Blocks: make([]uint16, chunkSize*chunkSize*height),
		height: height,
		dirty:  true,
	}
}

func (c *Chunk) index(lx, ly, lz int) int {
	return lx + lz*chunkSize + ly*chunkSize*chunkSize
}

func (c *Chunk) get(lx, ly, lz int) uint16 {
	return c.Blocks[c.index(lx, ly, lz)]
}

func (c *Chunk) set(lx, ly, lz int, b uint16) {
	i := c.index(lx, ly, lz)
	if c.Blocks[i] == b {
		return
	}
	c.Blocks[i] = b
	c.dirty = true
}

// Digest hashes the block ids; it is recomputed only after a change.
func (c *Chunk) Digest() [32]byte {
	if c.dirty {
		h := sha256.New()
		var tmp [2]byte
		for _, v := range c.Blocks {
			binary.LittleEndian.PutUint16(tmp[:], v)
			h.Write(tmp[:])
		}
		copy(c.hash[:], h.Sum(nil))
		c.dirty = false
	}
	return c.hash
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
