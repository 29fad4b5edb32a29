package msg

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"code.dogecoin.org/peerwire/internal/codec"
)

// MaxInvPerMsg bounds inventory lists (inv, getdata, notfound).
const MaxInvPerMsg = wire.MaxInvPerMsg

const invVectorSize = 36

type InvType uint32

const (
	InvError                InvType = 0          // ERROR
	InvTx                   InvType = 1          // MSG_TX: hash of transaction
	InvBlock                InvType = 2          // MSG_BLOCK: hash of block
	InvFilteredBlock        InvType = 3          // MSG_FILTERED_BLOCK: hash of block (BIP.37 reply merkleblock)
	InvCmpctBlock           InvType = 4          // MSG_CMPCT_BLOCK: hash of block (BIP.152 reply cmpctblock)
	InvWitnessTx            InvType = 0x40000001 // MSG_WITNESS_TX: hash of transaction with witness data (BIP.144)
	InvWitnessBlock         InvType = 0x40000002 // MSG_WITNESS_BLOCK: hash of block with witness data (BIP.144)
	InvFilteredWitnessBlock InvType = 0x40000003 // MSG_FILTERED_WITNESS_BLOCK: hash of block with witness data (BIP.144 reply merkleblock)
)

// InvMsg carries the body of 'inv', 'getdata' and 'notfound'.
type InvMsg struct {
	InvList []InvVector
}

func (m *InvMsg) Size() int {
	return codec.VarUIntSize(uint64(len(m.InvList))) + invVectorSize*len(m.InvList)
}

func (m *InvMsg) Encode(e *codec.Encoder) {
	e.VarUInt(uint64(len(m.InvList)))
	for i := range m.InvList {
		m.InvList[i].encode(e)
	}
}

func (m *InvMsg) Decode(d *codec.Decoder) error {
	m.InvList = nil
	count, err := decodeCount(d, MaxInvPerMsg, "inventory items")
	if err != nil {
		return err
	}
	var list []InvVector
	if count > 0 {
		list = make([]InvVector, 0, capFor(d, count, invVectorSize))
	}
	for i := 0; i < count; i++ {
		var inv InvVector
		inv.decode(d)
		if err := d.Err(); err != nil {
			return err
		}
		list = append(list, inv)
	}
	m.InvList = list
	return nil
}

func (m *InvMsg) Release() {
	m.InvList = nil
}

func (m *InvMsg) Clone() Body {
	return &InvMsg{InvList: append([]InvVector(nil), m.InvList...)}
}

// Add appends an item, refusing to grow past MaxInvPerMsg.
func (m *InvMsg) Add(t InvType, hash chainhash.Hash) error {
	if len(m.InvList) >= MaxInvPerMsg {
		return fmt.Errorf("%w: inventory list is full (%d)", ErrTooMany, MaxInvPerMsg)
	}
	m.InvList = append(m.InvList, InvVector{Type: t, Hash: hash})
	return nil
}

type InvVector struct {
	Type InvType
	Hash chainhash.Hash // hash of tx/block
}

func (i *InvVector) String() string {
	return fmt.Sprintf("{%s %s}", InvTypeString(i.Type), i.Hash)
}

func (i *InvVector) decode(d *codec.Decoder) {
	i.Type = InvType(d.UInt32le())
	i.Hash = d.Hash()
}

func (i *InvVector) encode(e *codec.Encoder) {
	e.UInt32le(uint32(i.Type))
	e.Hash(&i.Hash)
}

func InvTypeString(t InvType) string {
	switch t {
	case InvError:
		return "error"
	case InvTx:
		return "tx"
	case InvBlock:
		return "block"
	case InvFilteredBlock:
		return "filtered-block"
	case InvCmpctBlock:
		return "cmpct-block"
	case InvWitnessTx:
		return "witness-tx"
	case InvWitnessBlock:
		return "witness-block"
	case InvFilteredWitnessBlock:
		return "filtered-witness-block"
	}
	return "unknown"
}
