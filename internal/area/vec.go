package area

import "math"

// Vec3i is a lattice point (block coordinate).
type Vec3i struct {
	X int
	Y int
	Z int
}

func (v Vec3i) Add(o Vec3i) Vec3i { return Vec3i{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }
func (v Vec3i) Sub(o Vec3i) Vec3i { return Vec3i{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z} }
func (v Vec3i) ToArray() [3]int   { return [3]int{v.X, v.Y, v.Z} }

// Vec returns the position of the block's minimum corner.
func (v Vec3i) Vec() Vec3 { return Vec3{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)} }

// Vec3 is a continuous position, e.g. an agent location.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Block returns the lattice point the position falls in.
func (v Vec3) Block() Vec3i {
	return Vec3i{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y)), Z: int(math.Floor(v.Z))}
}

// Axis selects one coordinate of a point.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

func (v Vec3i) get(a Axis) int {
	switch a {
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	}
	return v.X
}

func (v *Vec3i) set(a Axis, n int) {
	switch a {
	case AxisY:
		v.Y = n
	case AxisZ:
		v.Z = n
	default:
		v.X = n
	}
}
