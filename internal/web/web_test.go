package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"code.dogecoin.org/peerwire/internal/spec"
)

type stubStore struct {
	peers []spec.Peer
}

var _ spec.Store = &stubStore{}

func (s *stubStore) WithCtx(ctx context.Context) spec.Store { return s }
func (s *stubStore) PeerStats() (int, int, error) { return len(s.peers), 1, nil }
func (s *stubStore) PeerList() ([]spec.Peer, error) { return s.peers, nil }
func (s *stubStore) TrimPeers() (int64, error) { return 0, nil }
func (s *stubStore) AddPeer(spec.Address, int64, uint64) error { return nil }
func (s *stubStore) UpdatePeerVersion(spec.Address, spec.PeerVersion) error { return nil }
func (s *stubStore) ChoosePeer() (spec.Address, error) { return spec.Address{}, spec.NotFoundError }
func (s *stubStore) AgentStats() ([]spec.AgentCount, []spec.VerCount, error) {
	return []spec.AgentCount{{Agent: "/Satoshi:25.0.0/", Count: 2}}, []spec.VerCount{{Version: 70016, Count: 2}}, nil
}

func newTestAPI() http.Handler {
	store := &stubStore{peers: []spec.Peer{
		{Address: "203.0.113.7:8333", Version: 70016, Agent: "/Satoshi:25.0.0/"},
		{Address: "bogus", Version: 70016},
	}}
	a := &WebAPI{_store: store, store: store}
	return a.routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetPeers(t *testing.T) {
	rec := do(t, newTestAPI(), http.MethodGet, "/peers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res spec.PeerListRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Peers, 1, "invalid address is skipped")
	require.Equal(t, "203.0.113.7:8333", res.Peers[0].Address)
}

func TestGetStats(t *testing.T) {
	rec := do(t, newTestAPI(), http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res spec.StatsRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, 2, res.Peers)
	require.Equal(t, 1, res.New)
	require.Equal(t, "/Satoshi:25.0.0/", res.Agents[0].Agent)
}

func TestDecodePing(t *testing.T) {
	rec := do(t, newTestAPI(), http.MethodPost, "/decode/ping", "0100000000000000\n")
	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Command string
		Type    string
		Size    int
		Body    struct{ Nonce uint64 }
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, "ping", res.Command)
	require.Equal(t, "ping", res.Type)
	require.Equal(t, 8, res.Size)
	require.Equal(t, uint64(1), res.Body.Nonce)
}

func TestDecodeUnknownCommand(t *testing.T) {
	rec := do(t, newTestAPI(), http.MethodPost, "/decode/wtxidrelay2", "cafe")
	require.Equal(t, http.StatusOK, rec.Code)
	var res spec.DecodeRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, "wtxidrelay2", res.Command)
	require.Equal(t, "unknown", res.Type)
	require.Equal(t, 2, res.Size)
}

func TestDecodeMalformed(t *testing.T) {
	rec := do(t, newTestAPI(), http.MethodPost, "/decode/pong", "0102")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var res WebError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, "malformed", res.Error)
}

func TestDecodeBadHex(t *testing.T) {
	rec := do(t, newTestAPI(), http.MethodPost, "/decode/ping", "zz")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeMethod(t *testing.T) {
	rec := do(t, newTestAPI(), http.MethodGet, "/decode/ping", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "POST, OPTIONS", rec.Header().Get("Allow"))
}
