// Package agents tracks live agent positions per frame and keeps them
// current from an observer websocket feed.
package agents

import (
	"sort"
	"sync"

	"voxelcraft.ai/areas/internal/area"
	"voxelcraft.ai/areas/internal/scan"
)

var _ scan.AgentLookup = (*Tracker)(nil)

// Tracker is an in-memory scan.AgentLookup. It is safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	byFrame map[string]map[string]scan.Agent
	ticks   map[string]uint64
}

func NewTracker() *Tracker {
	return &Tracker{
		byFrame: map[string]map[string]scan.Agent{},
		ticks:   map[string]uint64{},
	}
}

// Put inserts or moves one agent. Moving across frames drops the old entry.
func (t *Tracker) Put(a scan.Agent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for f, m := range t.byFrame {
		if f != a.Frame {
			delete(m, a.ID)
		}
	}
	m, ok := t.byFrame[a.Frame]
	if !ok {
		m = map[string]scan.Agent{}
		t.byFrame[a.Frame] = m
	}
	m[a.ID] = a
}

func (t *Tracker) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range t.byFrame {
		delete(m, id)
	}
}

// ApplyTick replaces the agents of msg's world. Ticks older than the last
// applied one for that world are ignored.
func (t *Tracker) ApplyTick(msg TickMsg) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if last, ok := t.ticks[msg.WorldID]; ok && msg.Tick < last {
		return false
	}
	t.ticks[msg.WorldID] = msg.Tick
	m := make(map[string]scan.Agent, len(msg.Agents))
	for _, st := range msg.Agents {
		if st.ID == "" {
			continue
		}
		m[st.ID] = fromState(msg.WorldID, st)
	}
	t.byFrame[msg.WorldID] = m
	return true
}

func fromState(frame string, st AgentState) scan.Agent {
	kind := scan.AgentKind(st.Kind)
	switch kind {
	case scan.KindPlayer, scan.KindNPC, scan.KindEntity:
	default:
		kind = scan.KindPlayer
	}
	return scan.Agent{
		ID:    st.ID,
		Name:  st.Name,
		Kind:  kind,
		Frame: frame,
		// Feed positions are block coordinates; agents stand at the block center.
		Pos: area.Vec3{X: float64(st.Pos[0]) + 0.5, Y: float64(st.Pos[1]), Z: float64(st.Pos[2]) + 0.5},
	}
}

// AgentsNear returns every agent known in frame, sorted by id.
func (t *Tracker) AgentsNear(frame string) ([]scan.Agent, error) {
	t.mu.RLock()
	m := t.byFrame[frame]
	out := make([]scan.Agent, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	t.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, m := range t.byFrame {
		n += len(m)
	}
	return n
}
