package area

import (
	"errors"
	"strings"

	"voxelcraft.ai/areas/internal/flags"
)

var (
	ErrLastMember    = errors.New("area: cannot remove the only member")
	ErrFrameMismatch = errors.New("area: member frame does not match area frame")
)

// NotAnnotatable is the reason given when flags are requested from an area
// that has no durable identity.
const NotAnnotatable = "area is not noted; only noted areas can hold flags"

// Reporter receives parse and construction diagnostics. *log.Logger satisfies
// it. A nil Reporter means quiet mode.
type Reporter interface {
	Printf(format string, args ...any)
}

func report(r Reporter, format string, args ...any) {
	if r == nil {
		return
	}
	r.Printf(format, args...)
}

// Area is an ordered, non-empty list of boxes in one frame, optionally carrying
// a durable identity (name) and the flag store that comes with it.
//
// Area is a value. Transforms return a new unnamed Area and never touch the
// receiver's members. The zero Area has no members and is not valid.
type Area struct {
	pairs []Pair
	name  string
	flags *flags.Store
}

// New builds an area from pairs. A pair whose frame differs from the first
// accepted pair is dropped and reported; New fails only if nothing is left.
func New(rep Reporter, pairs ...Pair) (Area, bool) {
	var a Area
	for _, p := range pairs {
		if len(a.pairs) > 0 && p.Frame != a.pairs[0].Frame {
			report(rep, "area: rejected member in frame %q (area frame is %q)", p.Frame, a.pairs[0].Frame)
			continue
		}
		a.pairs = append(a.pairs, NewPair(p.Low, p.High, p.Frame))
	}
	if len(a.pairs) == 0 {
		report(rep, "area: no valid members")
		return Area{}, false
	}
	return a, true
}

// Single builds a one-member area from two arbitrary corners.
func Single(a, b Vec3i, frame string) Area {
	return Area{pairs: []Pair{NewPair(a, b, frame)}}
}

func (a Area) Valid() bool { return len(a.pairs) > 0 }
func (a Area) Len() int    { return len(a.pairs) }

// Frame is the frame shared by every member.
func (a Area) Frame() string {
	if len(a.pairs) == 0 {
		return ""
	}
	return a.pairs[0].Frame
}

// Pairs returns a copy of the members.
func (a Area) Pairs() []Pair {
	out := make([]Pair, len(a.pairs))
	copy(out, a.pairs)
	return out
}

// First is the first member; most transforms and metrics only look at it.
func (a Area) First() Pair {
	if len(a.pairs) == 0 {
		return Pair{}
	}
	return a.pairs[0]
}

func (a Area) Low() Vec3i  { return a.First().Low }
func (a Area) High() Vec3i { return a.First().High }

// Clone deep copies the members. The copy is unnamed.
func (a Area) Clone() Area {
	return Area{pairs: a.Pairs()}
}

func (a Area) Name() string  { return a.name }
func (a Area) IsNoted() bool { return a.name != "" }

// Flags returns the flag store of a noted area. For an unnamed area it
// returns nil and the reason.
func (a Area) Flags() (*flags.Store, string) {
	if a.name == "" || a.flags == nil {
		return nil, NotAnnotatable
	}
	return a.flags, ""
}

// BindIdentity attaches a durable identity. Only the note registry should
// call it.
func (a *Area) BindIdentity(name string, store *flags.Store) {
	a.name = NormalizeName(name)
	a.flags = store
}

// ClearIdentity turns a noted area back into a plain value.
func (a *Area) ClearIdentity() {
	a.name = ""
	a.flags = nil
}

// NormalizeName is the canonical form of a note name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Equal is intentionally weak: two noted areas compare by name, anything else
// compares by member count and the first member's low corner.
func (a Area) Equal(o Area) bool {
	if a.name != "" && o.name != "" {
		return a.name == o.name
	}
	if len(a.pairs) != len(o.pairs) {
		return false
	}
	if len(a.pairs) == 0 {
		return true
	}
	return a.pairs[0].Low == o.pairs[0].Low
}

