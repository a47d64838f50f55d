package area

import "sort"

// ChunkSize is the horizontal edge of a chunk column in blocks.
const ChunkSize = 16

// ChunkKey addresses a chunk column in one frame.
type ChunkKey struct {
	CX int
	CZ int
}

// ChunkOf returns the column holding block b.
func ChunkOf(b Vec3i) ChunkKey {
	return ChunkKey{CX: floorDiv(b.X, ChunkSize), CZ: floorDiv(b.Z, ChunkSize)}
}

func floorDiv(a, b int) int {
	// b > 0
	q := a / b
	r := a % b
	if r < 0 {
		q--
	}
	return q
}

// Chunks lists the distinct chunk columns touched by any member, sorted.
// At most limit columns are collected (limit <= 0: no limit); truncated
// reports whether the walk stopped early.
func (a Area) Chunks(limit int) (keys []ChunkKey, truncated bool) {
	seen := map[ChunkKey]struct{}{}
walk:
	for _, p := range a.pairs {
		lo, hi := ChunkOf(p.Low), ChunkOf(p.High)
		for cx := lo.CX; cx <= hi.CX; cx++ {
			for cz := lo.CZ; cz <= hi.CZ; cz++ {
				if limit > 0 && len(seen) >= limit {
					if _, ok := seen[ChunkKey{CX: cx, CZ: cz}]; !ok {
						truncated = true
						break walk
					}
				}
				seen[ChunkKey{CX: cx, CZ: cz}] = struct{}{}
			}
		}
	}
	keys = make([]ChunkKey, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys, truncated
}
