package area

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"voxelcraft.ai/areas/internal/flags"
)

type captureReporter struct{ lines []string }

func (c *captureReporter) Printf(format string, args ...any) {
	c.lines = append(c.lines, fmt.Sprintf(format, args...))
}

func mustParse(t *testing.T, s string) Area {
	t.Helper()
	a, ok := Parse(s, nil)
	if !ok {
		t.Fatalf("parse %q failed", s)
	}
	return a
}

func TestContains_SingleBlock(t *testing.T) {
	a := Single(Vec3i{}, Vec3i{}, "w")
	if !a.ContainsBlock("w", Vec3i{0, 0, 0}) {
		t.Fatalf("expected origin inside")
	}
	if a.ContainsBlock("w", Vec3i{1, 0, 0}) {
		t.Fatalf("expected (1,0,0) outside")
	}
	if !a.Contains("w", Vec3{X: 0.99, Y: 0.5, Z: 0}) {
		t.Fatalf("expected fractional position inside")
	}
	if a.Contains("w", Vec3{X: 1, Y: 0, Z: 0}) {
		t.Fatalf("expected x=1.0 outside (high is exclusive past the block)")
	}
	if a.Contains("other", Vec3{}) {
		t.Fatalf("expected other frame to miss")
	}
	if a.Volume() != 1 {
		t.Fatalf("volume: %d", a.Volume())
	}
}

func TestContains_SkipsOtherFrames(t *testing.T) {
	a, ok := New(nil,
		NewPair(Vec3i{0, 0, 0}, Vec3i{1, 1, 1}, "w"),
		NewPair(Vec3i{10, 0, 0}, Vec3i{11, 1, 1}, "w"),
	)
	if !ok {
		t.Fatalf("New failed")
	}
	if !a.ContainsBlock("w", Vec3i{11, 1, 1}) {
		t.Fatalf("expected second member to match")
	}
}

func TestScenarioA_VolumeAndSize(t *testing.T) {
	a := mustParse(t, "w,0,0,0,9,9,9")
	if a.Volume() != 1000 {
		t.Fatalf("volume: %d", a.Volume())
	}
	if got := a.Size(1); got != (Vec3i{10, 10, 10}) {
		t.Fatalf("size: %+v", got)
	}
}

func TestScenarioB_IntersectsOnSharedCorner(t *testing.T) {
	a := mustParse(t, "w,0,0,0,5,5,5")
	b := mustParse(t, "w,5,5,5,10,10,10")
	if !a.Intersects(b) || !b.Intersects(a) {
		t.Fatalf("expected corner-sharing boxes to intersect")
	}
	c := mustParse(t, "w,6,6,6,10,10,10")
	if a.Intersects(c) || c.Intersects(a) {
		t.Fatalf("expected disjoint boxes not to intersect")
	}
}

func TestIntersects_FrameMismatchShortCircuits(t *testing.T) {
	a := mustParse(t, "w,0,0,0,5,5,5")
	other := mustParse(t, "nether,0,0,0,5,5,5")
	if a.Intersects(other) {
		t.Fatalf("expected cross-frame intersects to be false")
	}
	if a.IsWithin(other) {
		t.Fatalf("expected cross-frame isWithin to be false")
	}
}

func TestIsWithin(t *testing.T) {
	outer := mustParse(t, "w,0,0,0,10,10,10")
	inner := mustParse(t, "w,1,1,1,2,2,2,5,5,5,10,10,10")
	if !inner.IsWithin(outer) {
		t.Fatalf("expected inner within outer")
	}
	if outer.IsWithin(inner) {
		t.Fatalf("expected outer not within inner")
	}
	for _, a := range []Area{outer, inner} {
		if !a.IsWithin(a) {
			t.Fatalf("expected reflexive isWithin for %s", a)
		}
	}
	spill := mustParse(t, "w,5,5,5,11,10,10")
	if spill.IsWithin(outer) {
		t.Fatalf("expected spill not within")
	}
}

func TestScenarioC_ExpandNegative(t *testing.T) {
	a := mustParse(t, "w,0,0,0,2,2,2")
	got := a.Expand(-1)
	if got.Low() != (Vec3i{1, 1, 1}) || got.High() != (Vec3i{1, 1, 1}) {
		t.Fatalf("expand -1: %s", got)
	}
	if got.Volume() != 1 {
		t.Fatalf("volume: %d", got.Volume())
	}
	if a.Low() != (Vec3i{0, 0, 0}) {
		t.Fatalf("receiver mutated: %s", a)
	}
}

func TestScenarioD_WithMinSwaps(t *testing.T) {
	a := mustParse(t, "w,0,0,0,10,10,10")
	got := a.WithMin(Vec3i{20, 0, 0})
	if got.Low() != (Vec3i{10, 0, 0}) || got.High() != (Vec3i{20, 10, 10}) {
		t.Fatalf("withMin: %s", got)
	}
	got = a.WithMax(Vec3i{-5, 3, 3})
	if got.Low() != (Vec3i{-5, 0, 0}) || got.High() != (Vec3i{0, 3, 3}) {
		t.Fatalf("withMax: %s", got)
	}
}

func TestShift_KeepsVolume(t *testing.T) {
	a := mustParse(t, "w,-3,0,2,4,7,9")
	for _, d := range []Vec3i{{0, 0, 0}, {100, -50, 3}, {-7, 0, 0}} {
		s := a.Shift(d)
		if s.Volume() != a.Volume() {
			t.Fatalf("shift %+v changed volume: %d -> %d", d, a.Volume(), s.Volume())
		}
		if s.Low() != a.Low().Add(d) {
			t.Fatalf("shift %+v: low %+v", d, s.Low())
		}
	}
}

func TestInclude(t *testing.T) {
	a := mustParse(t, "w,0,0,0,1,1,1")
	got := a.Include(Vec3i{-2, 5, 1})
	if got.Low() != (Vec3i{-2, 0, 0}) || got.High() != (Vec3i{1, 5, 1}) {
		t.Fatalf("include: %s", got)
	}
	got = a.IncludeAxis(AxisZ, 9)
	if got.High() != (Vec3i{1, 1, 9}) {
		t.Fatalf("includeAxis: %s", got)
	}
}

func TestExpandOneSide(t *testing.T) {
	a := mustParse(t, "w,0,0,0,1,1,1")
	got := a.ExpandOneSide(Vec3i{-2, 3, 0})
	if got.Low() != (Vec3i{-2, 0, 0}) || got.High() != (Vec3i{1, 4, 1}) {
		t.Fatalf("expandOneSide: %s", got)
	}
}

func TestWithFrame_AllMembers(t *testing.T) {
	a := mustParse(t, "w,0,0,0,1,1,1,5,5,5,6,6,6")
	got := a.WithFrame("end")
	for _, p := range got.Pairs() {
		if p.Frame != "end" {
			t.Fatalf("member not rebound: %+v", p)
		}
	}
	if a.Frame() != "w" {
		t.Fatalf("receiver mutated")
	}
}

func TestMutators_OnlyFirstMember(t *testing.T) {
	a := mustParse(t, "w,0,0,0,1,1,1,5,5,5,6,6,6")
	got := a.Shift(Vec3i{1, 1, 1})
	if got.Member(2) != a.Member(2) {
		t.Fatalf("second member moved: %+v", got.Member(2))
	}
}

func TestNew_RejectsForeignFrame(t *testing.T) {
	rep := &captureReporter{}
	a, ok := New(rep,
		NewPair(Vec3i{0, 0, 0}, Vec3i{1, 1, 1}, "w"),
		NewPair(Vec3i{0, 0, 0}, Vec3i{1, 1, 1}, "nether"),
		NewPair(Vec3i{2, 2, 2}, Vec3i{3, 3, 3}, "w"),
	)
	if !ok {
		t.Fatalf("New failed")
	}
	if a.Len() != 2 {
		t.Fatalf("members: %d", a.Len())
	}
	if len(rep.lines) != 1 || !strings.Contains(rep.lines[0], "nether") {
		t.Fatalf("diagnostics: %v", rep.lines)
	}
	if _, ok := New(rep); ok {
		t.Fatalf("expected empty New to fail")
	}
}

func TestEqual_Weak(t *testing.T) {
	a := mustParse(t, "w,0,0,0,1,1,1")
	b := mustParse(t, "w,0,0,0,9,9,9")
	if !a.Equal(b) || a.Hash() != b.Hash() {
		t.Fatalf("expected same-first-low areas to be equal")
	}
	c := mustParse(t, "w,0,0,0,1,1,1,4,4,4,5,5,5")
	if a.Equal(c) {
		t.Fatalf("expected different member counts to differ")
	}

	n1, n2 := a.Clone(), b.Clone()
	n1.BindIdentity("Home", flags.New(nil))
	n2.BindIdentity("spawn", flags.New(nil))
	if n1.Equal(n2) {
		t.Fatalf("expected differently named areas to differ")
	}
	n2.BindIdentity(" HOME ", flags.New(nil))
	if !n1.Equal(n2) || n1.Hash() != n2.Hash() {
		t.Fatalf("expected same name to be equal")
	}
	if !n1.Equal(a) || !a.Equal(n1) || n1.Hash() != a.Hash() {
		t.Fatalf("noted and plain area with the same first low must hash alike")
	}
	if d := mustParse(t, "w,1,0,0,1,1,1"); d.Hash() == a.Hash() {
		t.Fatalf("expected different low corners to hash apart")
	}
}

func TestFlags_RequireIdentity(t *testing.T) {
	a := mustParse(t, "w,0,0,0,1,1,1")
	if fl, reason := a.Flags(); fl != nil || reason != NotAnnotatable {
		t.Fatalf("expected not annotatable, got %v %q", fl, reason)
	}
	a.BindIdentity("x", flags.New(nil))
	if fl, reason := a.Flags(); fl == nil || reason != "" {
		t.Fatalf("expected flags, got %v %q", fl, reason)
	}
	a.ClearIdentity()
	if a.IsNoted() {
		t.Fatalf("expected cleared identity")
	}
	if c := a.Clone(); c.IsNoted() {
		t.Fatalf("clone kept identity")
	}
}

func TestRandomPoint_InsideSomeMember(t *testing.T) {
	a := mustParse(t, "w,0,0,0,3,3,3,100,0,100,101,2,101")
	rng := rand.New(rand.NewPCG(1, 2))
	hits := [2]int{}
	for i := 0; i < 500; i++ {
		p := a.RandomPoint(rng)
		if !a.ContainsBlock("w", p) {
			t.Fatalf("random point %+v outside area", p)
		}
		if p.X >= 100 {
			hits[1]++
		} else {
			hits[0]++
		}
	}
	if hits[0] == 0 || hits[1] == 0 {
		t.Fatalf("expected both members sampled: %v", hits)
	}
}

func TestCenter(t *testing.T) {
	a := mustParse(t, "w,0,0,0,9,1,0")
	if c := a.Center(); c != (Vec3{X: 5, Y: 1, Z: 0.5}) {
		t.Fatalf("center: %+v", c)
	}
}

func TestChunks(t *testing.T) {
	a := mustParse(t, "w,-1,0,0,16,5,3,0,0,0,1,1,1")
	keys, truncated := a.Chunks(0)
	if truncated {
		t.Fatalf("unexpected truncation")
	}
	want := []ChunkKey{{-1, 0}, {0, 0}, {1, 0}}
	if len(keys) != len(want) {
		t.Fatalf("chunks: %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("chunks: %v", keys)
		}
	}
	keys, truncated = a.Chunks(2)
	if !truncated || len(keys) != 2 {
		t.Fatalf("limited chunks: %v truncated=%v", keys, truncated)
	}
}
