package collector

import (
	"bufio"
	"bytes"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	core "code.dogecoin.org/peerwire/internal/core"
	"code.dogecoin.org/peerwire/internal/spec"
)

var regtest = core.Networks["regtest"]

func framed(t *testing.T, msgs ...*core.Message) *bufio.Reader {
	t.Helper()
	var buf bytes.Buffer
	for _, m := range msgs {
		buf.Write(core.FrameMessage(regtest.Magic, m))
	}
	return bufio.NewReader(&buf)
}

func TestMakeVersion(t *testing.T) {
	remote := spec.Address{Host: net.ParseIP("192.0.2.10"), Port: 18444}
	m := makeVersion(remote)
	require.Equal(t, core.MsgVersion, m.Type)
	require.Equal(t, "version", m.Command())
	v := m.Body.(*core.VersionMsg)
	require.Equal(t, int32(core.ProtocolVersion), v.Version)
	require.Equal(t, uint16(18444), v.RemoteAddr.Port)
	require.True(t, v.RemoteAddr.IP().Equal(remote.Host))
	require.True(t, v.NoRelay)
}

func TestExpectVersion(t *testing.T) {
	sent := makeVersion(spec.Address{Host: net.ParseIP("192.0.2.10"), Port: 18444})
	got, err := expectVersion(framed(t, sent), regtest)
	require.NoError(t, err)
	require.Equal(t, sent.Body, got)
}

func TestExpectVersionReject(t *testing.T) {
	rej := core.NewRejectMsg()
	rej.Message = "version"
	rej.SetCode("obsolete")
	rej.Reason = "Version must be 70001 or greater"
	_, err := expectVersion(framed(t, newMessage(core.MsgReject, rej)), regtest)
	require.EqualError(t, err, "reject: obsolete version Version must be 70001 or greater")
}

func TestExpectVersionWrongCommand(t *testing.T) {
	_, err := expectVersion(framed(t, newMessage(core.MsgVerack, nil)), regtest)
	require.ErrorContains(t, err, "received: verack")
}

func TestExpectVersionWrongNetwork(t *testing.T) {
	sent := makeVersion(spec.Address{Host: net.ParseIP("192.0.2.10"), Port: 18444})
	_, err := expectVersion(framed(t, sent), core.Networks["main"])
	require.ErrorContains(t, err, "invalid magic bytes")
}
