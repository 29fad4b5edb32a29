package msg

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"code.dogecoin.org/peerwire/internal/codec"
)

// MaxLocatorHashes bounds the block locator; same limit as inventory.
const MaxLocatorHashes = MaxInvPerMsg

// GetBlocksMsg carries the body of 'getblocks' and 'getheaders'.
type GetBlocksMsg struct {
	Version            uint32           // the protocol version
	BlockLocatorHashes []chainhash.Hash // block locator object; newest back to genesis block (dense to start, but then sparse)
	HashStop           chainhash.Hash   // hash of the last desired block; zero to get as many blocks as possible
}

func (m *GetBlocksMsg) Size() int {
	n := len(m.BlockLocatorHashes)
	return 4 + codec.VarUIntSize(uint64(n)) + chainhash.HashSize*n + chainhash.HashSize
}

func (m *GetBlocksMsg) Encode(e *codec.Encoder) {
	e.UInt32le(m.Version)
	e.VarUInt(uint64(len(m.BlockLocatorHashes)))
	for i := range m.BlockLocatorHashes {
		e.Hash(&m.BlockLocatorHashes[i])
	}
	e.Hash(&m.HashStop)
}

func (m *GetBlocksMsg) Decode(d *codec.Decoder) error {
	m.BlockLocatorHashes = nil
	m.Version = d.UInt32le()
	count, err := decodeCount(d, MaxLocatorHashes, "locator hashes")
	if err != nil {
		return err
	}
	var locator []chainhash.Hash
	if count > 0 {
		locator = make([]chainhash.Hash, 0, capFor(d, count, chainhash.HashSize))
	}
	for i := 0; i < count; i++ {
		hash := d.Hash()
		if err := d.Err(); err != nil {
			return err
		}
		locator = append(locator, hash)
	}
	m.HashStop = d.Hash()
	if err := d.Err(); err != nil {
		return err
	}
	m.BlockLocatorHashes = locator
	return nil
}

func (m *GetBlocksMsg) Release() {
	m.BlockLocatorHashes = nil
}

func (m *GetBlocksMsg) Clone() Body {
	return &GetBlocksMsg{
		Version:            m.Version,
		BlockLocatorHashes: append([]chainhash.Hash(nil), m.BlockLocatorHashes...),
		HashStop:           m.HashStop,
	}
}
