package area

import (
	"strings"
	"testing"
)

func TestParse_RoundTrip(t *testing.T) {
	areas := []Area{
		Single(Vec3i{5, -2, 9}, Vec3i{-1, 3, 0}, "world"),
	}
	multi, ok := New(nil,
		NewPair(Vec3i{0, 0, 0}, Vec3i{1, 1, 1}, "world_nether"),
		NewPair(Vec3i{-40, 60, 7}, Vec3i{-30, 70, -7}, "world_nether"),
		NewPair(Vec3i{3, 3, 3}, Vec3i{3, 3, 3}, "world_nether"),
	)
	if !ok {
		t.Fatalf("New failed")
	}
	areas = append(areas, multi)

	for _, a := range areas {
		got, ok := Parse(a.String(), nil)
		if !ok {
			t.Fatalf("parse %q failed", a.String())
		}
		if got.Frame() != a.Frame() || got.Len() != a.Len() {
			t.Fatalf("round trip mismatch: %s vs %s", got, a)
		}
		for i := 1; i <= a.Len(); i++ {
			if got.Member(i) != a.Member(i) {
				t.Fatalf("member %d: %+v vs %+v", i, got.Member(i), a.Member(i))
			}
		}
	}
}

func TestParse_FloorsCoordinates(t *testing.T) {
	a, ok := Parse("w,0.9,-0.5,2.0,3.7,1,-1.2", nil)
	if !ok {
		t.Fatalf("parse failed")
	}
	if a.Low() != (Vec3i{0, -1, -2}) || a.High() != (Vec3i{3, 1, 2}) {
		t.Fatalf("floored: %s", a)
	}
}

func TestParse_PointForm(t *testing.T) {
	a, ok := Parse("0,0,0,w|4,4,4,w|10,0,10,w|8,2,8,w", nil)
	if !ok {
		t.Fatalf("parse failed")
	}
	if a.Len() != 2 || a.Frame() != "w" {
		t.Fatalf("point form: %s", a)
	}
	if a.Member(2).Low != (Vec3i{8, 0, 8}) {
		t.Fatalf("member 2: %+v", a.Member(2))
	}
}

func TestParse_PointFormRejectsMixedFrames(t *testing.T) {
	rep := &captureReporter{}
	a, ok := Parse("0,0,0,w|1,1,1,w|0,0,0,nether|1,1,1,nether", rep)
	if !ok {
		t.Fatalf("parse failed")
	}
	if a.Len() != 1 || a.Frame() != "w" {
		t.Fatalf("expected only first member kept: %s", a)
	}
	if len(rep.lines) == 0 {
		t.Fatalf("expected a diagnostic")
	}
}

func TestParse_Malformed(t *testing.T) {
	bad := []string{
		"",
		"w",
		"w,1,2,3",
		"w,1,2,3,4,5,6,7",
		",1,2,3,4,5,6",
		"w,1,2,x,4,5,6",
		"0,0,0,w|1,1,1,w|2,2,2,w",
		"0,0,w|1,1,1,w",
		"0,0,0,w|1,1,1,nether",
	}
	for _, s := range bad {
		rep := &captureReporter{}
		if _, ok := Parse(s, rep); ok {
			t.Fatalf("expected %q to fail", s)
		}
		if len(rep.lines) == 0 {
			t.Fatalf("expected a diagnostic for %q", s)
		}
		if _, ok := Parse(s, nil); ok {
			t.Fatalf("expected quiet %q to fail", s)
		}
	}
}

func TestParsePoint(t *testing.T) {
	v, frame, ok := ParsePoint(PointString(Vec3i{-4, 64, 12}, "w"), nil)
	if !ok || frame != "w" || v != (Vec3i{-4, 64, 12}) {
		t.Fatalf("point: %+v %q %v", v, frame, ok)
	}
}

func TestIdentify(t *testing.T) {
	a := Single(Vec3i{}, Vec3i{1, 1, 1}, "w")
	if !strings.HasPrefix(a.Identify(), "w,") {
		t.Fatalf("identify: %q", a.Identify())
	}
	a.BindIdentity("Spawn", nil)
	if a.Identify() != "spawn" {
		t.Fatalf("identify noted: %q", a.Identify())
	}
}
