package spec

import (
	"context"
)

const SecondsPerDay = 24 * 60 * 60

// Keep peers for 3 midnights before expiry.
// Just before midnight -> 2 days.
// Just after midnight -> 3 days.
const MaxPeerDays = 3

// PeerVersion is what a peer told us in its 'version' message.
type PeerVersion struct {
	Version  int32
	Services uint64
	Agent    string
	Height   int32
	Relay    bool
}

// Store is the top-level interface (e.g. SQLiteStore)
// It is bound to a cancellable Context.
type Store interface {
	WithCtx(ctx context.Context) Store
	// common
	PeerStats() (mapSize int, newPeers int, err error)
	PeerList() (res []Peer, err error)
	AgentStats() (agents []AgentCount, versions []VerCount, err error)
	TrimPeers() (remPeers int64, err error)
	// peers
	AddPeer(address Address, time int64, services uint64) error
	UpdatePeerVersion(address Address, ver PeerVersion) error
	ChoosePeer() (Address, error)
}
