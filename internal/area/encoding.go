package area

import (
	"math"
	"strconv"
	"strings"
)

// Parse decodes either encoding:
//
//	<frame>,<x1>,<y1>,<z1>,<x2>,<y2>,<z2>[,<x3>,...]
//	<x>,<y>,<z>,<frame>|<x>,<y>,<z>,<frame>[|...]
//
// Coordinates are floored. In the pipe form points are taken two at a time as
// corner pairs. Diagnostics go to rep; nil keeps parsing quiet.
func Parse(text string, rep Reporter) (Area, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		report(rep, "area: empty encoding")
		return Area{}, false
	}
	if strings.Contains(text, "|") {
		return parsePoints(text, rep)
	}
	return parseFlat(text, rep)
}

func parseFlat(text string, rep Reporter) (Area, bool) {
	parts := strings.Split(text, ",")
	frame := strings.TrimSpace(parts[0])
	coords := parts[1:]
	if frame == "" {
		report(rep, "area: missing frame in %q", text)
		return Area{}, false
	}
	if len(coords) == 0 || len(coords)%6 != 0 {
		report(rep, "area: expected a multiple of 6 coordinates, got %d in %q", len(coords), text)
		return Area{}, false
	}
	pairs := make([]Pair, 0, len(coords)/6)
	for i := 0; i < len(coords); i += 6 {
		var v [6]int
		for k := 0; k < 6; k++ {
			n, err := parseCoord(coords[i+k])
			if err != nil {
				report(rep, "area: bad coordinate %q: %v", coords[i+k], err)
				return Area{}, false
			}
			v[k] = n
		}
		pairs = append(pairs, NewPair(Vec3i{v[0], v[1], v[2]}, Vec3i{v[3], v[4], v[5]}, frame))
	}
	return New(rep, pairs...)
}

func parsePoints(text string, rep Reporter) (Area, bool) {
	raw := strings.Split(text, "|")
	if len(raw)%2 != 0 {
		report(rep, "area: uneven number of corner points (%d) in %q", len(raw), text)
		return Area{}, false
	}
	pairs := make([]Pair, 0, len(raw)/2)
	for i := 0; i < len(raw); i += 2 {
		a, fa, ok := parsePoint(raw[i], rep)
		if !ok {
			return Area{}, false
		}
		b, fb, ok := parsePoint(raw[i+1], rep)
		if !ok {
			return Area{}, false
		}
		if fa != fb {
			report(rep, "area: corners %q and %q are in different frames", raw[i], raw[i+1])
			continue
		}
		pairs = append(pairs, NewPair(a, b, fa))
	}
	return New(rep, pairs...)
}

// ParsePoint decodes "<x>,<y>,<z>,<frame>".
func ParsePoint(text string, rep Reporter) (Vec3i, string, bool) {
	return parsePoint(text, rep)
}

func parsePoint(text string, rep Reporter) (Vec3i, string, bool) {
	parts := strings.Split(strings.TrimSpace(text), ",")
	if len(parts) != 4 {
		report(rep, "area: expected x,y,z,frame in %q", text)
		return Vec3i{}, "", false
	}
	var v [3]int
	for i := 0; i < 3; i++ {
		n, err := parseCoord(parts[i])
		if err != nil {
			report(rep, "area: bad coordinate %q: %v", parts[i], err)
			return Vec3i{}, "", false
		}
		v[i] = n
	}
	frame := strings.TrimSpace(parts[3])
	if frame == "" {
		report(rep, "area: missing frame in %q", text)
		return Vec3i{}, "", false
	}
	return Vec3i{v[0], v[1], v[2]}, frame, true
}

func parseCoord(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}
	return int(math.Floor(f)), nil
}

// String is the flat encoding accepted by Parse.
func (a Area) String() string {
	if len(a.pairs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(a.Frame())
	for _, p := range a.pairs {
		for _, n := range [6]int{p.Low.X, p.Low.Y, p.Low.Z, p.High.X, p.High.Y, p.High.Z} {
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(n))
		}
	}
	return b.String()
}

// PointString is the point encoding accepted by ParsePoint.
func PointString(v Vec3i, frame string) string {
	return strconv.Itoa(v.X) + "," + strconv.Itoa(v.Y) + "," + strconv.Itoa(v.Z) + "," + frame
}

// Identify is the note name for noted areas and the encoding otherwise.
func (a Area) Identify() string {
	if a.name != "" {
		return a.name
	}
	return a.String()
}
