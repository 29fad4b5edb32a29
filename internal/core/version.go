package msg

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/wire"

	"code.dogecoin.org/peerwire/internal/codec"
)

// Current protocol version spoken by this library.
const ProtocolVersion = 70015

// Services we advertise by default: none, we do not serve blocks.
const LocalServices wire.ServiceFlag = 0

const UserAgent = "/peerwire:0.1.0/"

// MaxAgentLength is the capacity of the user agent (strSubVersion).
const MaxAgentLength = 256

// Services bit flags:
const (
	NodeNetwork        = wire.SFNodeNetwork        // This node can be asked for full blocks instead of just headers.
	NodeGetUTXO        = wire.SFNodeGetUTXO        // See BIP 0064
	NodeBloom          = wire.SFNodeBloom          // See BIP 0111
	NodeWitness        = wire.SFNodeWitness        // See BIP 0144
	NodeCompactFilters = wire.SFNodeCF             // See BIP 0157
	NodeNetworkLimited = wire.ServiceFlag(1 << 10) // See BIP 0159
)

// VersionMsg represents the structure of the version message
type VersionMsg struct {
	Version    int32            // PROTOCOL_VERSION
	Services   wire.ServiceFlag // Services bit flags
	Timestamp  int64            // nTime: UNIX time in seconds
	RemoteAddr NetAddr          // addrYou: network address of the node receiving this message
	// each field below may be missing on the wire (older peers)
	LocalAddr NetAddr // addrMe: network address of the node emitting this message (now ignored)
	Nonce     uint64  // nonce: randomly generated every time a version packet is sent
	Agent     string  // strSubVersion, at most MaxAgentLength bytes
	Height    int32   // nNodeStartingHeight
	NoRelay   bool    // inverse of fRelayTxs
}

// NewVersionMsg returns a version message stamped with the current time.
func NewVersionMsg() *VersionMsg {
	return &VersionMsg{
		Version:   ProtocolVersion,
		Services:  LocalServices,
		Timestamp: time.Now().Unix(),
		Agent:     UserAgent,
	}
}

func (v *VersionMsg) Size() int {
	agent := clip(v.Agent, MaxAgentLength)
	return 20 + 2*compactNetAddrSize + 8 + codec.VarBytesSize(len(agent)) + 5
}

// Encode always writes every field, including the optional tail.
func (v *VersionMsg) Encode(e *codec.Encoder) {
	e.Int32le(v.Version)
	e.UInt64le(uint64(v.Services))
	e.Int64le(v.Timestamp)
	v.RemoteAddr.encode(e, false)
	v.LocalAddr.encode(e, false)
	e.UInt64le(v.Nonce)
	e.VarString(clip(v.Agent, MaxAgentLength))
	e.Int32le(v.Height)
	e.Bool(v.NoRelay)
}

// Decode treats the fields after addrYou as optional: each is read only
// if bytes remain, regardless of the advertised version. Missing fields
// take their zero value.
func (v *VersionMsg) Decode(d *codec.Decoder) error {
	v.Version = d.Int32le()
	v.Services = wire.ServiceFlag(d.UInt64le())
	v.Timestamp = d.Int64le()
	v.RemoteAddr.decode(d, false)
	if d.More() {
		v.LocalAddr.decode(d, false)
		v.Nonce = d.UInt64le()
	} else {
		v.LocalAddr = NetAddr{}
		v.Nonce = 0
	}
	v.Agent = ""
	if d.More() {
		v.Agent = d.VarString(MaxAgentLength)
	}
	v.Height = 0
	if d.More() {
		v.Height = d.Int32le()
	}
	v.NoRelay = false
	if d.More() {
		v.NoRelay = d.Bool()
	}
	if err := d.Err(); err != nil {
		return err
	}
	if v.Version == 10300 {
		// a fixup found in dogecoin-seeder
		v.Version = 300
	}
	if v.Version < 0 {
		return fmt.Errorf("%w: protocol version %d", ErrBadValue, v.Version)
	}
	if v.Timestamp < 0 {
		return fmt.Errorf("%w: timestamp %d", ErrBadValue, v.Timestamp)
	}
	if v.Height < 0 {
		v.Height = 0
	}
	return nil
}

func (v *VersionMsg) Release() {}

func (v *VersionMsg) Clone() Body {
	c := *v
	return &c
}

func DecodeVersion(payload []byte) (v VersionMsg, err error) {
	err = DecodeBody(payload, &v)
	return
}

func EncodeVersion(v VersionMsg) []byte {
	return EncodeBody(&v)
}
