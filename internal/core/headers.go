package msg

import (
	"github.com/btcsuite/btcd/wire"

	"code.dogecoin.org/peerwire/internal/codec"
)

// MaxHeadersPerMsg bounds the 'headers' list.
const MaxHeadersPerMsg = wire.MaxBlockHeadersPerMsg

// Each entry is a block header followed by a transaction count,
// which is always zero: headers never carry transactions.
const headerEntrySize = wire.MaxBlockHeaderPayload + 1

type HeadersMsg struct {
	Headers []wire.BlockHeader
}

func (m *HeadersMsg) Size() int {
	return codec.VarUIntSize(uint64(len(m.Headers))) + headerEntrySize*len(m.Headers)
}

func (m *HeadersMsg) Encode(e *codec.Encoder) {
	e.VarUInt(uint64(len(m.Headers)))
	for i := range m.Headers {
		m.Headers[i].Serialize(e) // Encoder never fails
		e.VarUInt(0)
	}
}

func (m *HeadersMsg) Decode(d *codec.Decoder) error {
	m.Headers = nil
	count, err := decodeCount(d, MaxHeadersPerMsg, "headers")
	if err != nil {
		return err
	}
	var list []wire.BlockHeader
	if count > 0 {
		list = make([]wire.BlockHeader, 0, capFor(d, count, headerEntrySize))
	}
	for i := 0; i < count; i++ {
		var hdr wire.BlockHeader
		if err := hdr.Deserialize(d); err != nil {
			d.Fail(err)
			return d.Err()
		}
		d.VarUInt() // tx count, ignored
		if err := d.Err(); err != nil {
			return err
		}
		list = append(list, hdr)
	}
	m.Headers = list
	return nil
}

func (m *HeadersMsg) Release() {
	m.Headers = nil
}

func (m *HeadersMsg) Clone() Body {
	return &HeadersMsg{Headers: append([]wire.BlockHeader(nil), m.Headers...)}
}
