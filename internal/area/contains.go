package area

// Contains reports whether pos lies in a member of the given frame. Members in
// other frames are skipped.
func (a Area) Contains(frame string, pos Vec3) bool {
	for _, p := range a.pairs {
		if p.Frame != frame {
			continue
		}
		if p.Contains(pos) {
			return true
		}
	}
	return false
}

// ContainsBlock is Contains for a lattice point.
func (a Area) ContainsBlock(frame string, b Vec3i) bool {
	for _, p := range a.pairs {
		if p.Frame == frame && p.ContainsBlock(b) {
			return true
		}
	}
	return false
}
