package msg

import "code.dogecoin.org/peerwire/internal/codec"

// PingMsg is sent to check the connection is alive.
// A zero nonce is not sent at all (pre-BIP31 peers send empty pings).
type PingMsg struct {
	Nonce uint64 // random nonce
}

func (m *PingMsg) Size() int {
	if m.Nonce != 0 {
		return 8
	}
	return 0
}

func (m *PingMsg) Encode(e *codec.Encoder) {
	if m.Nonce != 0 {
		e.UInt64le(m.Nonce)
	}
}

func (m *PingMsg) Decode(d *codec.Decoder) error {
	m.Nonce = 0
	if d.More() {
		m.Nonce = d.UInt64le()
	}
	return d.Err()
}

func (m *PingMsg) Release() {}

func (m *PingMsg) Clone() Body {
	c := *m
	return &c
}

// PongMsg answers a ping with the same nonce; always 8 bytes.
type PongMsg struct {
	Nonce uint64
}

func (m *PongMsg) Size() int {
	return 8
}

func (m *PongMsg) Encode(e *codec.Encoder) {
	e.UInt64le(m.Nonce)
}

func (m *PongMsg) Decode(d *codec.Decoder) error {
	m.Nonce = d.UInt64le()
	return d.Err()
}

func (m *PongMsg) Release() {}

func (m *PongMsg) Clone() Body {
	c := *m
	return &c
}
