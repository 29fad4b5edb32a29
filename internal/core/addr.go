package msg

import (
	"github.com/btcsuite/btcd/wire"

	"code.dogecoin.org/peerwire/internal/codec"
)

// MaxAddrPerMsg bounds the address list in an 'addr' message.
const MaxAddrPerMsg = wire.MaxAddrPerMsg

type AddrMsg struct {
	AddrList []NetAddr
}

func (m *AddrMsg) Size() int {
	return codec.VarUIntSize(uint64(len(m.AddrList))) + netAddrSize*len(m.AddrList)
}

func (m *AddrMsg) Encode(e *codec.Encoder) {
	e.VarUInt(uint64(len(m.AddrList)))
	for i := range m.AddrList {
		m.AddrList[i].encode(e, true)
	}
}

func (m *AddrMsg) Decode(d *codec.Decoder) error {
	m.AddrList = nil
	count, err := decodeCount(d, MaxAddrPerMsg, "addresses")
	if err != nil {
		return err
	}
	var list []NetAddr
	if count > 0 {
		list = make([]NetAddr, 0, capFor(d, count, netAddrSize))
	}
	for i := 0; i < count; i++ {
		var a NetAddr
		a.decode(d, true)
		if err := d.Err(); err != nil {
			return err
		}
		list = append(list, a)
	}
	m.AddrList = list
	return nil
}

func (m *AddrMsg) Release() {
	m.AddrList = nil
}

func (m *AddrMsg) Clone() Body {
	return &AddrMsg{AddrList: append([]NetAddr(nil), m.AddrList...)}
}
