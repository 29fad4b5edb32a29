package codec

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Encoder appends primitive values to a buffer.
type Encoder struct {
	buf []byte
}

// Encode returns an Encoder with room for size bytes.
func Encode(size int) *Encoder {
	return &Encoder{buf: make([]byte, 0, size)}
}

// EncodeInto writes into the caller's buffer, starting at buf[0].
// The output stays in buf as long as it fits within cap(buf).
func EncodeInto(buf []byte) *Encoder {
	return &Encoder{buf: buf[:0]}
}

// Write implements io.Writer; it never fails.
func (e *Encoder) Write(p []byte) (int, error) {
	e.buf = append(e.buf, p...)
	return len(p), nil
}

func (e *Encoder) UInt8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) Bool(v bool) {
	if v {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

func (e *Encoder) UInt16be(v uint16) {
	e.buf = binary.BigEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) UInt32le(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) Int32le(v int32) {
	e.UInt32le(uint32(v))
}

func (e *Encoder) UInt64le(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *Encoder) Int64le(v int64) {
	e.UInt64le(uint64(v))
}

func (e *Encoder) VarUInt(v uint64) {
	wire.WriteVarInt(e, 0, v) // Write never fails
}

func (e *Encoder) Bytes(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *Encoder) Hash(h *chainhash.Hash) {
	e.buf = append(e.buf, h[:]...)
}

func (e *Encoder) VarBytes(b []byte) {
	e.VarUInt(uint64(len(b)))
	e.buf = append(e.buf, b...)
}

func (e *Encoder) VarString(s string) {
	e.VarUInt(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// Len is the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

func (e *Encoder) Result() []byte {
	return e.buf
}

// VarUIntSize is the encoded size of a variable-length integer.
func VarUIntSize(v uint64) int {
	return wire.VarIntSerializeSize(v)
}

// VarBytesSize is the encoded size of a length-prefixed byte run.
func VarBytesSize(n int) int {
	return wire.VarIntSerializeSize(uint64(n)) + n
}
