package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarsRoundTrip(t *testing.T) {
	e := Encode(32)
	e.UInt8(7)
	e.Bool(true)
	e.UInt16be(0x208d)
	e.Int32le(-5)
	e.UInt64le(0x0102030405060708)
	e.Int64le(-1)
	e.VarUInt(0xfd)
	e.VarString("abc")
	buf := e.Result()
	require.Equal(t, 1+1+2+4+8+8+3+4, len(buf))
	require.Equal(t, []byte{0x20, 0x8d}, buf[2:4], "port is big-endian")

	d := Decode(buf)
	require.Equal(t, uint8(7), d.UInt8())
	require.True(t, d.Bool())
	require.Equal(t, uint16(0x208d), d.UInt16be())
	require.Equal(t, int32(-5), d.Int32le())
	require.Equal(t, uint64(0x0102030405060708), d.UInt64le())
	require.Equal(t, int64(-1), d.Int64le())
	require.Equal(t, uint64(0xfd), d.VarUInt())
	require.Equal(t, "abc", d.VarString(16))
	require.NoError(t, d.Err())
	require.Equal(t, 0, d.Len())
	require.False(t, d.More())
}

func TestShortReadIsSticky(t *testing.T) {
	d := Decode([]byte{1, 2, 3})
	require.Equal(t, uint32(0), d.UInt32le())
	require.ErrorIs(t, d.Err(), ErrShortBuffer)
	// the cursor did not move and later reads stay failed
	require.Equal(t, 0, d.Pos())
	require.Equal(t, uint8(0), d.UInt8())
	require.False(t, d.Has(1))
}

func TestVarUIntTruncated(t *testing.T) {
	d := Decode([]byte{0xfe, 1, 2})
	d.VarUInt()
	require.ErrorIs(t, d.Err(), ErrShortBuffer)
}

func TestVarUIntNonCanonical(t *testing.T) {
	d := Decode([]byte{0xfd, 0x01, 0x00})
	d.VarUInt()
	require.Error(t, d.Err())
	require.NotErrorIs(t, d.Err(), ErrShortBuffer)
}

func TestVarStringCapacity(t *testing.T) {
	e := Encode(8)
	e.VarString("toolong")
	d := Decode(e.Result())
	require.Equal(t, "", d.VarString(4))
	require.ErrorIs(t, d.Err(), ErrTooLong)
}

func TestRest(t *testing.T) {
	d := Decode([]byte{9, 8, 7})
	d.UInt8()
	require.Equal(t, []byte{8, 7}, d.Rest())
	require.Nil(t, d.Rest())
	require.NoError(t, d.Err())
}

func TestEncodeInto(t *testing.T) {
	buf := make([]byte, 4)
	e := EncodeInto(buf)
	e.UInt32le(0xdeadbeef)
	require.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde}, buf)
	require.Equal(t, 4, e.Len())
}

func TestSizes(t *testing.T) {
	require.Equal(t, 1, VarUIntSize(0xfc))
	require.Equal(t, 3, VarUIntSize(0xfd))
	require.Equal(t, 5, VarUIntSize(0x10000))
	require.Equal(t, 9, VarUIntSize(1<<32))
	require.Equal(t, 303, VarBytesSize(300))
}
