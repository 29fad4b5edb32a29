package msg

import (
	"errors"
	"fmt"

	"code.dogecoin.org/peerwire/internal/codec"
)

var (
	ErrTooMany  = errors.New("element count exceeds protocol maximum")
	ErrBadValue = errors.New("field value out of range")
)

// Body is the payload of one message kind.
//
// Size reports exactly how many bytes Encode will append.
// Decode never reads past the end of the payload; on failure the body
// holds no partial lists and may be released again.
// Release drops everything the body owns and is safe to repeat.
type Body interface {
	Size() int
	Encode(e *codec.Encoder)
	Decode(d *codec.Decoder) error
	Release()
	Clone() Body
}

// newBody allocates the default body for a message type.
// Empty messages (verack, getaddr, sendheaders, mempool, filterclear)
// have no body.
func newBody(t MsgType) Body {
	switch t {
	case MsgVersion:
		return NewVersionMsg()
	case MsgPing:
		return &PingMsg{}
	case MsgPong:
		return &PongMsg{}
	case MsgAddr:
		return &AddrMsg{}
	case MsgInv, MsgGetData, MsgNotFound:
		return &InvMsg{}
	case MsgGetBlocks, MsgGetHeaders:
		return &GetBlocksMsg{}
	case MsgHeaders:
		return &HeadersMsg{}
	case MsgBlock:
		return &BlockMsg{}
	case MsgTx:
		return &TxMsg{}
	case MsgReject:
		return NewRejectMsg()
	case MsgFilterAdd:
		return &FilterAddMsg{}
	case MsgFeeFilter:
		return &FeeFilterMsg{}
	case MsgSendCmpct:
		return NewSendCmpctMsg()
	case MsgFilterLoad, MsgMerkleBlock, MsgCmpctBlock, MsgGetBlockTxn, MsgBlockTxn, MsgUnknown:
		// recognized but not modelled: kept as opaque bytes
		return &UnknownMsg{}
	}
	return nil
}

// EncodeBody serializes a body on its own, without an envelope.
func EncodeBody(b Body) []byte {
	e := codec.Encode(b.Size())
	b.Encode(e)
	return e.Result()
}

// DecodeBody parses payload into b, releasing b on failure.
func DecodeBody(payload []byte, b Body) error {
	err := b.Decode(codec.Decode(payload))
	if err != nil {
		b.Release()
	}
	return err
}

// decodeCount reads a vector length and rejects it before anything
// is allocated if it exceeds max.
func decodeCount(d *codec.Decoder, max int, what string) (int, error) {
	n := d.VarUInt()
	if err := d.Err(); err != nil {
		return 0, err
	}
	if n > uint64(max) {
		return 0, fmt.Errorf("%w: %d %s (max %d)", ErrTooMany, n, what, max)
	}
	return int(n), nil
}

// capFor bounds an initial slice capacity by what the payload could hold.
func capFor(d *codec.Decoder, count int, elemSize int) int {
	if most := d.Len() / elemSize; count > most {
		return most
	}
	return count
}

// clip truncates fixed-capacity string fields on the send path.
func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
