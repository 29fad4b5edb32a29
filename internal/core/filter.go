package msg

import (
	"fmt"

	"code.dogecoin.org/peerwire/internal/codec"
)

// MaxFilterAddDataSize bounds the element added by 'filteradd'.
const MaxFilterAddDataSize = 256

// FilterAddMsg adds one data element to a peer's bloom filter (BIP 37).
type FilterAddMsg struct {
	Data []byte // at most MaxFilterAddDataSize; longer data is truncated on send
}

func (m *FilterAddMsg) SetData(data []byte) error {
	if len(data) > MaxFilterAddDataSize {
		return fmt.Errorf("filteradd: %d bytes (max %d)", len(data), MaxFilterAddDataSize)
	}
	m.Data = append([]byte(nil), data...)
	return nil
}

func (m *FilterAddMsg) data() []byte {
	if len(m.Data) > MaxFilterAddDataSize {
		return m.Data[:MaxFilterAddDataSize]
	}
	return m.Data
}

func (m *FilterAddMsg) Size() int {
	return codec.VarBytesSize(len(m.data()))
}

func (m *FilterAddMsg) Encode(e *codec.Encoder) {
	e.VarBytes(m.data())
}

func (m *FilterAddMsg) Decode(d *codec.Decoder) error {
	m.Data = d.VarBytes(MaxFilterAddDataSize)
	return d.Err()
}

func (m *FilterAddMsg) Release() {
	m.Data = nil
}

func (m *FilterAddMsg) Clone() Body {
	return &FilterAddMsg{Data: append([]byte(nil), m.Data...)}
}

// FeeFilterMsg asks the peer not to announce transactions below
// MinFee (satoshis per kilobyte). BIP 133.
type FeeFilterMsg struct {
	MinFee int64
}

func (m *FeeFilterMsg) Size() int {
	return 8
}

func (m *FeeFilterMsg) Encode(e *codec.Encoder) {
	e.Int64le(m.MinFee)
}

func (m *FeeFilterMsg) Decode(d *codec.Decoder) error {
	m.MinFee = d.Int64le()
	return d.Err()
}

func (m *FeeFilterMsg) Release() {
	m.MinFee = 0
}

func (m *FeeFilterMsg) Clone() Body {
	c := *m
	return &c
}

// SendCmpctMsg negotiates compact block relay (BIP 152).
type SendCmpctMsg struct {
	Mode    uint8 // 1: announce new blocks with 'cmpctblock'
	Version uint64
}

func NewSendCmpctMsg() *SendCmpctMsg {
	return &SendCmpctMsg{Mode: 0, Version: 1}
}

func (m *SendCmpctMsg) Size() int {
	return 9
}

func (m *SendCmpctMsg) Encode(e *codec.Encoder) {
	e.UInt8(m.Mode)
	e.UInt64le(m.Version)
}

func (m *SendCmpctMsg) Decode(d *codec.Decoder) error {
	m.Mode = d.UInt8()
	m.Version = d.UInt64le()
	return d.Err()
}

func (m *SendCmpctMsg) Release() {}

func (m *SendCmpctMsg) Clone() Body {
	c := *m
	return &c
}

// UnknownMsg keeps the raw payload of any message we do not model,
// so it can be replayed byte for byte.
type UnknownMsg struct {
	Data []byte
}

func (m *UnknownMsg) Size() int {
	return len(m.Data)
}

func (m *UnknownMsg) Encode(e *codec.Encoder) {
	e.Bytes(m.Data)
}

// Decode takes every remaining byte and never fails.
func (m *UnknownMsg) Decode(d *codec.Decoder) error {
	m.Data = d.Rest()
	return nil
}

func (m *UnknownMsg) Release() {
	m.Data = nil
}

func (m *UnknownMsg) Clone() Body {
	return &UnknownMsg{Data: append([]byte(nil), m.Data...)}
}
