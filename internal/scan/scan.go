// Package scan walks areas: outlines, shells, block listings and the
// collaborator-backed queries built on them. Every walk is capped by
// Limits.MaxBlocks; hitting the cap returns the partial result with
// truncated=true rather than an error.
package scan

import (
	"errors"
	"log"

	"voxelcraft.ai/areas/internal/area"
)

var ErrNoContent = errors.New("scan: no content lookup configured")

// Material describes what occupies a lattice point.
type Material struct {
	Name  string
	Solid bool
	Air   bool
}

// ContentLookup answers what occupies a lattice point.
type ContentLookup interface {
	MaterialAt(frame string, p area.Vec3i) (Material, error)
}

// Matcher is an opaque predicate over materials.
type Matcher interface {
	Matches(m Material, pattern string) bool
}

type AgentKind string

const (
	KindPlayer AgentKind = "player"
	KindNPC    AgentKind = "npc"
	KindEntity AgentKind = "entity"
)

type Agent struct {
	ID    string
	Name  string
	Kind  AgentKind
	Frame string
	Pos   area.Vec3
}

// AgentLookup lists live agents in a frame.
type AgentLookup interface {
	AgentsNear(frame string) ([]Agent, error)
}

// AgentMatcher is an opaque predicate over agents.
type AgentMatcher interface {
	MatchesAgent(a Agent, pattern string) bool
}

// AnnotationIndex finds annotated points chunk by chunk.
type AnnotationIndex interface {
	AnnotatedPointsInChunk(frame string, chunk area.ChunkKey, name string) []area.Vec3i
}

type Limits struct {
	MaxBlocks int
	MinY      int
	MaxY      int
}

func DefaultLimits() Limits {
	return Limits{MaxBlocks: 1_000_000, MinY: -64, MaxY: 319}
}

type Scanner struct {
	Limits  Limits
	Content ContentLookup
	Matcher Matcher
	Agents  AgentMatcher
	Log     *log.Logger
}

func NewScanner(limits Limits, content ContentLookup, m Matcher, logger *log.Logger) *Scanner {
	s := &Scanner{Limits: limits, Content: content, Matcher: m, Log: logger}
	if am, ok := m.(AgentMatcher); ok {
		s.Agents = am
	}
	return s
}

func (s *Scanner) logf(format string, args ...any) {
	if s.Log != nil {
		s.Log.Printf(format, args...)
	}
}

type collector struct {
	max       int
	pts       []area.Vec3i
	truncated bool
}

func newCollector(max int) *collector {
	return &collector{max: max}
}

func (c *collector) full() bool {
	if c.max > 0 && len(c.pts) >= c.max {
		c.truncated = true
		return true
	}
	return false
}

func (c *collector) add(x, y, z int) bool {
	if c.full() {
		return false
	}
	c.pts = append(c.pts, area.Vec3i{X: x, Y: y, Z: z})
	return true
}

// add2 emits two points, stopping after the first if the cap is hit.
func (c *collector) add2(x1, y1, z1, x2, y2, z2 int) bool {
	return c.add(x1, y1, z1) && c.add(x2, y2, z2)
}
