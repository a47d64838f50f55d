package area

import (
	"encoding/binary"
	"hash/fnv"
)

// Hash covers the member count and the first member's low corner, the fields
// Equal compares when either side is unnamed. Names are left out so a noted
// area and an equal plain area hash alike. Two stale copies of one note whose
// first members have diverged compare equal but can hash apart; key maps of
// noted areas by Name instead.
func (a Area) Hash() uint64 {
	var buf [16]byte
	low := a.Low()
	binary.LittleEndian.PutUint32(buf[0:], uint32(len(a.pairs)))
	binary.LittleEndian.PutUint32(buf[4:], uint32(int32(low.X)))
	binary.LittleEndian.PutUint32(buf[8:], uint32(int32(low.Y)))
	binary.LittleEndian.PutUint32(buf[12:], uint32(int32(low.Z)))
	h := fnv.New64a()
	_, _ = h.Write(buf[:])
	return h.Sum64()
}
