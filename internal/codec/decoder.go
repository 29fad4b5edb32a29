package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

var (
	ErrShortBuffer = errors.New("short buffer")
	ErrTooLong     = errors.New("declared length exceeds capacity")
)

// Decoder reads primitive values from a payload, left to right.
// The first failure is sticky: later reads return zero values
// and Err reports the original failure.
type Decoder struct {
	buf []byte
	pos int
	err error
}

func Decode(payload []byte) *Decoder {
	return &Decoder{buf: payload}
}

// Len is the number of unread bytes.
func (d *Decoder) Len() int {
	return len(d.buf) - d.pos
}

// Pos is the number of bytes consumed so far.
func (d *Decoder) Pos() int {
	return d.pos
}

func (d *Decoder) Err() error {
	return d.err
}

// Has reports whether n more bytes can be read.
func (d *Decoder) Has(n int) bool {
	return d.err == nil && d.Len() >= n
}

// More reports whether any bytes remain and no read has failed.
func (d *Decoder) More() bool {
	return d.err == nil && d.Len() > 0
}

// Fail records err unless a failure is already recorded.
// End of input reported by a nested codec becomes ErrShortBuffer.
func (d *Decoder) Fail(err error) {
	if d.err != nil {
		return
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = fmt.Errorf("%w at offset %d: %v", ErrShortBuffer, d.pos, err)
	}
	d.err = err
}

func (d *Decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.Len() < n {
		d.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, d.pos, d.Len())
		return nil
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b
}

// Read implements io.Reader so nested codecs (headers, transactions)
// can consume from the same cursor.
func (d *Decoder) Read(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if d.Len() == 0 {
		return 0, io.EOF
	}
	n := copy(p, d.buf[d.pos:])
	d.pos += n
	return n, nil
}

func (d *Decoder) UInt8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *Decoder) Bool() bool {
	return d.UInt8() != 0
}

func (d *Decoder) UInt16be() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (d *Decoder) UInt32le() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *Decoder) Int32le() int32 {
	return int32(d.UInt32le())
}

func (d *Decoder) UInt64le() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *Decoder) Int64le() int64 {
	return int64(d.UInt64le())
}

// VarUInt reads a protocol variable-length integer (CompactSize).
// Non-canonical encodings are rejected.
func (d *Decoder) VarUInt() uint64 {
	if d.err != nil {
		return 0
	}
	r := bytes.NewReader(d.buf[d.pos:])
	val, err := wire.ReadVarInt(r, 0)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			d.err = fmt.Errorf("%w: varint at offset %d", ErrShortBuffer, d.pos)
		} else {
			d.err = fmt.Errorf("varint at offset %d: %w", d.pos, err)
		}
		return 0
	}
	d.pos += int(r.Size()) - r.Len()
	return val
}

// Bytes returns a copy of the next n bytes.
func (d *Decoder) Bytes(n int) []byte {
	b := d.take(n)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

// ReadInto fills dst from the payload.
func (d *Decoder) ReadInto(dst []byte) {
	b := d.take(len(dst))
	if b != nil {
		copy(dst, b)
	}
}

func (d *Decoder) Hash() (h chainhash.Hash) {
	d.ReadInto(h[:])
	return
}

// VarBytes reads a length-prefixed byte run of at most max bytes.
func (d *Decoder) VarBytes(max int) []byte {
	n := d.VarUInt()
	if d.err != nil {
		return nil
	}
	if n > uint64(max) {
		d.err = fmt.Errorf("%w: %d bytes (max %d)", ErrTooLong, n, max)
		return nil
	}
	return d.Bytes(int(n))
}

// VarString reads a length-prefixed string of at most max bytes.
func (d *Decoder) VarString(max int) string {
	return string(d.VarBytes(max))
}

// Rest consumes every remaining byte; nil when none remain.
func (d *Decoder) Rest() []byte {
	if d.err != nil || d.Len() == 0 {
		return nil
	}
	return d.Bytes(d.Len())
}
