package msg

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"code.dogecoin.org/peerwire/internal/codec"
)

type RejectCode uint8

const (
	REJECT_MALFORMED       RejectCode = 0x01
	REJECT_INVALID         RejectCode = 0x10
	REJECT_OBSOLETE        RejectCode = 0x11
	REJECT_DUPLICATE       RejectCode = 0x12
	REJECT_NONSTANDARD     RejectCode = 0x40
	REJECT_DUST            RejectCode = 0x41
	REJECT_INSUFFICIENTFEE RejectCode = 0x42
	REJECT_CHECKPOINT      RejectCode = 0x43
)

const (
	MaxRejectMessageLength = CommandSize
	MaxRejectReasonLength  = 111
)

type RejectMsg struct {
	Message string         // command being rejected
	Code    RejectCode     // one of the REJECT_ codes
	Reason  string         // human-readable reason
	Hash    chainhash.Hash // block or tx hash; only on the wire for "block" and "tx"
}

func NewRejectMsg() *RejectMsg {
	return &RejectMsg{Code: REJECT_INVALID}
}

// HasHash reports whether the subject hash is part of the payload.
func (m *RejectMsg) HasHash() bool {
	cmd := clip(m.Message, MaxRejectMessageLength)
	return cmd == "block" || cmd == "tx"
}

func (m *RejectMsg) CodeName() string {
	switch m.Code {
	case REJECT_MALFORMED:
		return "malformed"
	case REJECT_INVALID:
		return "invalid"
	case REJECT_OBSOLETE:
		return "obsolete"
	case REJECT_DUPLICATE:
		return "duplicate"
	case REJECT_NONSTANDARD:
		return "nonstandard"
	case REJECT_DUST:
		return "dust"
	case REJECT_INSUFFICIENTFEE:
		return "insufficientfee"
	case REJECT_CHECKPOINT:
		return "checkpoint"
	default:
		return "invalid"
	}
}

// SetCode sets the code from its name; unknown names mean invalid.
func (m *RejectMsg) SetCode(name string) {
	switch name {
	case "malformed":
		m.Code = REJECT_MALFORMED
	case "obsolete":
		m.Code = REJECT_OBSOLETE
	case "duplicate":
		m.Code = REJECT_DUPLICATE
	case "nonstandard":
		m.Code = REJECT_NONSTANDARD
	case "dust":
		m.Code = REJECT_DUST
	case "insufficientfee":
		m.Code = REJECT_INSUFFICIENTFEE
	case "checkpoint":
		m.Code = REJECT_CHECKPOINT
	default:
		m.Code = REJECT_INVALID
	}
}

func (m *RejectMsg) Size() int {
	size := codec.VarBytesSize(len(clip(m.Message, MaxRejectMessageLength)))
	size += 1
	size += codec.VarBytesSize(len(clip(m.Reason, MaxRejectReasonLength)))
	if m.HasHash() {
		size += chainhash.HashSize
	}
	return size
}

func (m *RejectMsg) Encode(e *codec.Encoder) {
	e.VarString(clip(m.Message, MaxRejectMessageLength))
	e.UInt8(uint8(m.Code))
	e.VarString(clip(m.Reason, MaxRejectReasonLength))
	if m.HasHash() {
		e.Hash(&m.Hash)
	}
}

func (m *RejectMsg) Decode(d *codec.Decoder) error {
	m.Message = d.VarString(MaxRejectMessageLength)
	m.Code = RejectCode(d.UInt8())
	m.Reason = d.VarString(MaxRejectReasonLength)
	if d.Err() == nil && m.HasHash() {
		m.Hash = d.Hash()
	} else {
		m.Hash = chainhash.Hash{}
	}
	return d.Err()
}

func (m *RejectMsg) Release() {}

func (m *RejectMsg) Clone() Body {
	c := *m
	return &c
}

func DecodeReject(payload []byte) (rej RejectMsg, err error) {
	err = DecodeBody(payload, &rej)
	return
}
