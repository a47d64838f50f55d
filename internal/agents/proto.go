package agents

// Messages of the observer stream the feed subscribes to. Only the fields
// needed for positions are decoded.

const (
	ProtocolVersion = "0.1"

	TypeSubscribe = "SUBSCRIBE"
	TypeTick      = "TICK"
)

// SubscribeMsg is the first message on the connection.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ChunkRadius     int    `json:"chunk_radius"`
	MaxChunks       int    `json:"max_chunks"`
}

// TickMsg carries the full agent list of one world.
type TickMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	Tick            uint64       `json:"tick"`
	WorldID         string       `json:"world_id"`
	Agents          []AgentState `json:"agents"`
	Leaves          []string     `json:"leaves,omitempty"`
}

type AgentState struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind,omitempty"`
	Connected bool   `json:"connected"`
	Pos       [3]int `json:"pos"`
}

type baseMsg struct {
	Type string `json:"type"`
}
