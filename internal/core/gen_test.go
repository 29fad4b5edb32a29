package msg

import (
	"math"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"pgregory.net/rapid"
)

// Generators for property tests. Every generated body is in the form
// Decode produces: empty lists are nil and fields that are not on the
// wire are zero.

func genHash(rt *rapid.T, label string) (h chainhash.Hash) {
	copy(h[:], rapid.SliceOfN(rapid.Byte(), chainhash.HashSize, chainhash.HashSize).Draw(rt, label))
	return
}

func genBytes(rt *rapid.T, max int, label string) []byte {
	b := rapid.SliceOfN(rapid.Byte(), 0, max).Draw(rt, label)
	if len(b) == 0 {
		return nil
	}
	return b
}

func genNetAddr(rt *rapid.T, withTime bool) NetAddr {
	var a NetAddr
	if withTime {
		a.Time = rapid.Uint32().Draw(rt, "time")
	}
	a.Services = wire.ServiceFlag(rapid.Uint64().Draw(rt, "services"))
	copy(a.Address[:], rapid.SliceOfN(rapid.Byte(), 16, 16).Draw(rt, "address"))
	a.Port = rapid.Uint16().Draw(rt, "port")
	return a
}

func genVersion(rt *rapid.T) *VersionMsg {
	return &VersionMsg{
		Version:    rapid.Int32Range(0, math.MaxInt32).Filter(func(v int32) bool { return v != 10300 }).Draw(rt, "version"),
		Services:   wire.ServiceFlag(rapid.Uint64().Draw(rt, "services")),
		Timestamp:  rapid.Int64Range(0, math.MaxInt64).Draw(rt, "timestamp"),
		RemoteAddr: genNetAddr(rt, false),
		LocalAddr:  genNetAddr(rt, false),
		Nonce:      rapid.Uint64().Draw(rt, "nonce"),
		Agent:      rapid.StringN(0, 64, MaxAgentLength).Draw(rt, "agent"),
		Height:     rapid.Int32Range(0, math.MaxInt32).Draw(rt, "height"),
		NoRelay:    rapid.Bool().Draw(rt, "norelay"),
	}
}

func genAddr(rt *rapid.T) *AddrMsg {
	n := rapid.IntRange(0, 20).Draw(rt, "count")
	m := &AddrMsg{}
	for i := 0; i < n; i++ {
		m.AddrList = append(m.AddrList, genNetAddr(rt, true))
	}
	return m
}

func genInv(rt *rapid.T) *InvMsg {
	n := rapid.IntRange(0, 20).Draw(rt, "count")
	m := &InvMsg{}
	for i := 0; i < n; i++ {
		m.InvList = append(m.InvList, InvVector{
			Type: InvType(rapid.Uint32().Draw(rt, "type")),
			Hash: genHash(rt, "hash"),
		})
	}
	return m
}

func genGetBlocks(rt *rapid.T) *GetBlocksMsg {
	n := rapid.IntRange(0, 20).Draw(rt, "count")
	m := &GetBlocksMsg{Version: rapid.Uint32().Draw(rt, "version")}
	for i := 0; i < n; i++ {
		m.BlockLocatorHashes = append(m.BlockLocatorHashes, genHash(rt, "locator"))
	}
	m.HashStop = genHash(rt, "stop")
	return m
}

func genBlockHeader(rt *rapid.T) wire.BlockHeader {
	return wire.BlockHeader{
		Version:    rapid.Int32().Draw(rt, "version"),
		PrevBlock:  genHash(rt, "prev"),
		MerkleRoot: genHash(rt, "merkle"),
		Timestamp:  time.Unix(int64(rapid.Uint32().Draw(rt, "timestamp")), 0),
		Bits:       rapid.Uint32().Draw(rt, "bits"),
		Nonce:      rapid.Uint32().Draw(rt, "nonce"),
	}
}

func genHeaders(rt *rapid.T) *HeadersMsg {
	n := rapid.IntRange(0, 10).Draw(rt, "count")
	m := &HeadersMsg{}
	for i := 0; i < n; i++ {
		m.Headers = append(m.Headers, genBlockHeader(rt))
	}
	return m
}

func genTx(rt *rapid.T) *wire.MsgTx {
	tx := wire.NewMsgTx(rapid.Int32Range(1, 2).Draw(rt, "version"))
	segwit := rapid.Bool().Draw(rt, "segwit")
	ins := rapid.IntRange(1, 3).Draw(rt, "inputs")
	for i := 0; i < ins; i++ {
		op := wire.NewOutPoint(&chainhash.Hash{}, rapid.Uint32().Draw(rt, "index"))
		op.Hash = genHash(rt, "prevtx")
		in := wire.NewTxIn(op, genBytes(rt, 40, "sigscript"), nil)
		in.Sequence = rapid.Uint32().Draw(rt, "sequence")
		if segwit {
			in.Witness = wire.TxWitness{
				rapid.SliceOfN(rapid.Byte(), 1, 72).Draw(rt, "sig"),
				rapid.SliceOfN(rapid.Byte(), 33, 33).Draw(rt, "pubkey"),
			}
		}
		tx.AddTxIn(in)
	}
	outs := rapid.IntRange(1, 3).Draw(rt, "outputs")
	for i := 0; i < outs; i++ {
		tx.AddTxOut(wire.NewTxOut(
			rapid.Int64Range(0, 21e14).Draw(rt, "value"),
			rapid.SliceOfN(rapid.Byte(), 1, 34).Draw(rt, "pkscript"),
		))
	}
	tx.LockTime = rapid.Uint32().Draw(rt, "locktime")
	return tx
}

func genBlock(rt *rapid.T) *BlockMsg {
	m := &BlockMsg{}
	m.Block.Header = genBlockHeader(rt)
	n := rapid.IntRange(0, 3).Draw(rt, "txs")
	for i := 0; i < n; i++ {
		m.Block.AddTransaction(genTx(rt))
	}
	return m
}

func genReject(rt *rapid.T) *RejectMsg {
	m := &RejectMsg{
		Message: rapid.SampledFrom([]string{"", "tx", "block", "version", "ping", "addr"}).Draw(rt, "message"),
		Code:    RejectCode(rapid.Uint8().Draw(rt, "code")),
		Reason:  rapid.StringN(0, 40, MaxRejectReasonLength).Draw(rt, "reason"),
	}
	if m.HasHash() {
		m.Hash = genHash(rt, "hash")
	}
	return m
}

// genBody draws a body for any message type that has one.
func genBody(rt *rapid.T, t MsgType) Body {
	switch t {
	case MsgVersion:
		return genVersion(rt)
	case MsgPing:
		return &PingMsg{Nonce: rapid.Uint64().Draw(rt, "nonce")}
	case MsgPong:
		return &PongMsg{Nonce: rapid.Uint64().Draw(rt, "nonce")}
	case MsgAddr:
		return genAddr(rt)
	case MsgInv, MsgGetData, MsgNotFound:
		return genInv(rt)
	case MsgGetBlocks, MsgGetHeaders:
		return genGetBlocks(rt)
	case MsgHeaders:
		return genHeaders(rt)
	case MsgBlock:
		return genBlock(rt)
	case MsgTx:
		return &TxMsg{Tx: *genTx(rt)}
	case MsgReject:
		return genReject(rt)
	case MsgFilterAdd:
		return &FilterAddMsg{Data: genBytes(rt, MaxFilterAddDataSize, "data")}
	case MsgFeeFilter:
		return &FeeFilterMsg{MinFee: rapid.Int64().Draw(rt, "minfee")}
	case MsgSendCmpct:
		return &SendCmpctMsg{Mode: rapid.Uint8().Draw(rt, "mode"), Version: rapid.Uint64().Draw(rt, "version")}
	default:
		return &UnknownMsg{Data: genBytes(rt, 100, "data")}
	}
}

// typesWithBody lists every type whose body is modelled or kept opaque.
func typesWithBody() []MsgType {
	var res []MsgType
	for t := MsgVersion; t <= MsgUnknown; t++ {
		if t.HasBody() {
			res = append(res, t)
		}
	}
	return res
}
