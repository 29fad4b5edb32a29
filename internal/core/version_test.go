package msg

import (
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"code.dogecoin.org/peerwire/internal/codec"
)

// versionPrefix writes the mandatory fields of a version payload.
func versionPrefix(version int32, timestamp int64) *codec.Encoder {
	e := codec.Encode(128)
	e.Int32le(version)
	e.UInt64le(uint64(NodeNetwork))
	e.Int64le(timestamp)
	remote := NewNetAddr(net.ParseIP("192.0.2.1"), 8333, NodeNetwork)
	remote.encode(e, false)
	return e
}

func TestVersionMandatoryOnly(t *testing.T) {
	payload := versionPrefix(209, 1700000000).Result()
	require.Len(t, payload, 46)

	v, err := DecodeVersion(payload)
	require.NoError(t, err)
	require.Equal(t, int32(209), v.Version)
	require.Equal(t, int64(1700000000), v.Timestamp)
	require.Equal(t, "192.0.2.1:8333", v.RemoteAddr.String())
	require.Equal(t, NetAddr{}, v.LocalAddr)
	require.Zero(t, v.Nonce)
	require.Empty(t, v.Agent)
	require.Zero(t, v.Height)
	require.False(t, v.NoRelay)
}

func TestVersionPartialTail(t *testing.T) {
	e := versionPrefix(60002, 1700000000)
	local := NewNetAddr(net.ParseIP("::1"), 8333, 0)
	local.encode(e, false)
	e.UInt64le(42)
	e.VarString("/Satoshi:0.8.6/")
	v, err := DecodeVersion(e.Result())
	require.NoError(t, err)
	require.Equal(t, uint64(42), v.Nonce)
	require.Equal(t, "/Satoshi:0.8.6/", v.Agent)
	require.Zero(t, v.Height, "missing start height defaults to zero")
	require.False(t, v.NoRelay)
}

func TestVersionTruncatedInsideField(t *testing.T) {
	e := versionPrefix(70015, 1700000000)
	e.UInt64le(0) // half of the local address
	_, err := DecodeVersion(e.Result())
	require.ErrorIs(t, err, codec.ErrShortBuffer)
}

func TestVersionFixup(t *testing.T) {
	v, err := DecodeVersion(versionPrefix(10300, 0).Result())
	require.NoError(t, err)
	require.Equal(t, int32(300), v.Version)
}

func TestVersionNegativeValues(t *testing.T) {
	_, err := DecodeVersion(versionPrefix(-1, 0).Result())
	require.ErrorIs(t, err, ErrBadValue)

	_, err = DecodeVersion(versionPrefix(70015, -1).Result())
	require.ErrorIs(t, err, ErrBadValue)

	in := *NewVersionMsg()
	in.Height = -5
	v, err := DecodeVersion(EncodeVersion(in))
	require.NoError(t, err)
	require.Zero(t, v.Height, "negative start height is clamped")
}

func TestVersionAgentCapacity(t *testing.T) {
	in := *NewVersionMsg()
	in.Agent = strings.Repeat("x", MaxAgentLength+10)
	payload := EncodeVersion(in)
	require.Equal(t, in.Size(), len(payload))

	v, err := DecodeVersion(payload)
	require.NoError(t, err)
	require.Len(t, v.Agent, MaxAgentLength)

	e := versionPrefix(70015, 0)
	e.Bytes(make([]byte, 34)) // local address and nonce
	e.VarString(strings.Repeat("y", MaxAgentLength+1))
	_, err = DecodeVersion(e.Result())
	require.ErrorIs(t, err, codec.ErrTooLong)
}

func TestVersionWritesAllFields(t *testing.T) {
	in := *NewVersionMsg()
	in.Agent = ""
	require.Len(t, EncodeVersion(in), 20+2*compactNetAddrSize+8+1+5)
}
