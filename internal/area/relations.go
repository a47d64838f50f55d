package area

// Intersects reports whether any member of a overlaps any member of b.
//
// A frame mismatch between any two compared members makes the whole relation
// false, even if a later pair would overlap.
func (a Area) Intersects(b Area) bool {
	for _, pa := range a.pairs {
		for _, pb := range b.pairs {
			if pa.Frame != pb.Frame {
				return false
			}
			if pa.Overlaps(pb) {
				return true
			}
		}
	}
	return false
}

// IsWithin reports whether every member of a is enclosed by some member of b.
// Any frame mismatch met on the way makes it false.
func (a Area) IsWithin(b Area) bool {
	if len(a.pairs) == 0 || len(b.pairs) == 0 {
		return false
	}
	for _, pa := range a.pairs {
		contained := false
		for _, pb := range b.pairs {
			if pa.Frame != pb.Frame {
				return false
			}
			if pb.Encloses(pa) {
				contained = true
				break
			}
		}
		if !contained {
			return false
		}
	}
	return true
}
