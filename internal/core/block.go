package msg

import (
	"github.com/btcsuite/btcd/wire"

	"code.dogecoin.org/peerwire/internal/codec"
)

// BlockMsg and TxMsg wrap the btcd codecs, which already meet the
// size/write/read contract (witness serialization).

type BlockMsg struct {
	Block wire.MsgBlock
}

func (m *BlockMsg) Size() int {
	return m.Block.SerializeSize()
}

func (m *BlockMsg) Encode(e *codec.Encoder) {
	m.Block.Serialize(e) // Encoder never fails
}

func (m *BlockMsg) Decode(d *codec.Decoder) error {
	if err := m.Block.Deserialize(d); err != nil {
		m.Release()
		d.Fail(err)
	}
	return d.Err()
}

func (m *BlockMsg) Release() {
	m.Block = wire.MsgBlock{}
}

func (m *BlockMsg) Clone() Body {
	c := &BlockMsg{}
	c.Block.Header = m.Block.Header
	if m.Block.Transactions != nil {
		c.Block.Transactions = make([]*wire.MsgTx, len(m.Block.Transactions))
		for i, tx := range m.Block.Transactions {
			c.Block.Transactions[i] = tx.Copy()
		}
	}
	return c
}

type TxMsg struct {
	Tx wire.MsgTx
}

func (m *TxMsg) Size() int {
	return m.Tx.SerializeSize()
}

func (m *TxMsg) Encode(e *codec.Encoder) {
	m.Tx.Serialize(e) // Encoder never fails
}

func (m *TxMsg) Decode(d *codec.Decoder) error {
	if err := m.Tx.Deserialize(d); err != nil {
		m.Release()
		d.Fail(err)
	}
	return d.Err()
}

func (m *TxMsg) Release() {
	m.Tx = wire.MsgTx{}
}

func (m *TxMsg) Clone() Body {
	return &TxMsg{Tx: *m.Tx.Copy()}
}
