// Package match implements the material and agent patterns used by scan.
//
// A pattern is a comma separated list of alternatives. Each alternative is a
// path.Match glob over the lower-cased name, or one of the keywords "solid",
// "air" and "any". A leading "!" negates an alternative; a pattern made only
// of negations matches everything they do not exclude.
package match

import (
	"path"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"voxelcraft.ai/areas/internal/scan"
)

// DefaultCacheSize bounds the compiled patterns kept per Matcher.
const DefaultCacheSize = 256

var (
	_ scan.Matcher      = (*Matcher)(nil)
	_ scan.AgentMatcher = (*Matcher)(nil)
)

type term struct {
	neg  bool
	glob string
}

type compiled struct {
	terms  []term
	hasPos bool
}

// Matcher keeps the most recently used compiled patterns.
type Matcher struct {
	cache *lru.Cache[string, compiled]
}

func New() *Matcher { return NewSize(DefaultCacheSize) }

// NewSize returns a Matcher caching at most size patterns.
func NewSize(size int) *Matcher {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, compiled](size)
	if err != nil {
		panic(err)
	}
	return &Matcher{cache: cache}
}

// Cached reports how many compiled patterns are held.
func (m *Matcher) Cached() int {
	if m.cache == nil {
		return 0
	}
	return m.cache.Len()
}

// compile parses pattern, going through the cache when there is one. A zero
// Matcher parses every call.
func (m *Matcher) compile(pattern string) compiled {
	if m.cache == nil {
		return parse(pattern)
	}
	if c, ok := m.cache.Get(pattern); ok {
		return c
	}
	c := parse(pattern)
	m.cache.Add(pattern, c)
	return c
}

func parse(pattern string) compiled {
	var c compiled
	for _, part := range strings.Split(pattern, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		t := term{}
		if strings.HasPrefix(part, "!") {
			t.neg = true
			part = strings.TrimSpace(part[1:])
		}
		if part == "" {
			continue
		}
		t.glob = part
		if !t.neg {
			c.hasPos = true
		}
		c.terms = append(c.terms, t)
	}
	return c
}

// Valid reports whether every glob in pattern is well formed.
func Valid(pattern string) bool {
	for _, part := range strings.Split(pattern, ",") {
		part = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(part)), "!")
		if _, err := path.Match(strings.TrimSpace(part), ""); err != nil {
			return false
		}
	}
	return true
}

func (m *Matcher) Matches(mat scan.Material, pattern string) bool {
	return m.eval(pattern, func(glob string) bool {
		switch glob {
		case "any":
			return true
		case "solid":
			return mat.Solid
		case "air":
			return mat.Air
		}
		return globMatch(glob, mat.Name)
	})
}

// MatchesAgent tests the agent's name, id and kind against each glob.
func (m *Matcher) MatchesAgent(a scan.Agent, pattern string) bool {
	return m.eval(pattern, func(glob string) bool {
		if glob == "any" {
			return true
		}
		return globMatch(glob, a.Name) || globMatch(glob, a.ID) || globMatch(glob, string(a.Kind))
	})
}

func (m *Matcher) eval(pattern string, hit func(glob string) bool) bool {
	c := m.compile(pattern)
	if len(c.terms) == 0 {
		return false
	}
	matched := !c.hasPos
	for _, t := range c.terms {
		if !hit(t.glob) {
			continue
		}
		if t.neg {
			return false
		}
		matched = true
	}
	return matched
}

func globMatch(glob, name string) bool {
	ok, err := path.Match(glob, strings.ToLower(name))
	return err == nil && ok
}
