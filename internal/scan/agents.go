package scan

import (
	"fmt"
	"sort"

	"voxelcraft.ai/areas/internal/area"
)

// AgentsWithin lists agents standing inside a. An empty kind accepts every
// kind; a non-empty pattern is checked with the scanner's AgentMatcher.
func (s *Scanner) AgentsWithin(a area.Area, lookup AgentLookup, kind AgentKind, pattern string) ([]Agent, error) {
	if lookup == nil {
		return nil, fmt.Errorf("scan: no agent lookup configured")
	}
	all, err := lookup.AgentsNear(a.Frame())
	if err != nil {
		s.logf("scan: agents near %s: %v", a.Frame(), err)
		return nil, fmt.Errorf("scan: agents near %s: %w", a.Frame(), err)
	}
	var out []Agent
	for _, ag := range all {
		if kind != "" && ag.Kind != kind {
			continue
		}
		if !a.Contains(ag.Frame, ag.Pos) {
			continue
		}
		if pattern != "" && (s.Agents == nil || !s.Agents.MatchesAgent(ag, pattern)) {
			continue
		}
		out = append(out, ag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
