package spec

type PeerListRes struct {
	Peers []Peer `json:"peers"`
}

type Peer struct {
	Address  string `json:"address"`
	Time     int64  `json:"time"`
	Services uint64 `json:"services"`
	Version  int32  `json:"version"`
	Agent    string `json:"agent"`
	Height   int32  `json:"height"`
	Relay    bool   `json:"relay"`
}

type StatsRes struct {
	Peers    int          `json:"peers"`
	New      int          `json:"new"`
	Agents   []AgentCount `json:"agents"`
	Versions []VerCount   `json:"versions"`
}

type AgentCount struct {
	Agent string `json:"agent"`
	Count int    `json:"count"`
}

type VerCount struct {
	Version int32 `json:"version"`
	Count   int   `json:"count"`
}

type DecodeRes struct {
	Command string `json:"command"`
	Type    string `json:"type"`
	Size    int    `json:"size"`
	Body    any    `json:"body"`
}
