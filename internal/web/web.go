package web

import (
	"context"
	"encoding/hex"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"code.dogecoin.org/gossip/dnet"
	"code.dogecoin.org/governor"
	"github.com/gorilla/mux"

	core "code.dogecoin.org/peerwire/internal/core"
	"code.dogecoin.org/peerwire/internal/spec"
)

// Largest hex payload accepted by /decode (two hex digits per byte).
const maxDecodeBody = 2*core.MaxMsgSize + 2

func New(bind spec.Address, store spec.Store) governor.Service {
	a := &WebAPI{
		_store: store,
		srv: http.Server{
			Addr: bind.String(),
		},
	}
	a.srv.Handler = a.routes()
	return a
}

func (a *WebAPI) routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/peers", a.getPeers)
	router.HandleFunc("/stats", a.getStats)
	router.HandleFunc("/decode/{command}", a.decode)
	return router
}

type WebAPI struct {
	governor.ServiceCtx
	_store spec.Store
	store  spec.Store
	srv    http.Server
}

// called on any
func (a *WebAPI) Stop() {
	// new goroutine because Shutdown() blocks
	go func() {
		// cannot use ServiceCtx here because it's already cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		a.srv.Shutdown(ctx) // blocking call
		cancel()
	}()
}

// goroutine
func (a *WebAPI) Run() {
	a.store = a._store.WithCtx(a.Context) // Service Context is first available here
	log.Printf("HTTP server listening on: %v\n", a.srv.Addr)
	if err := a.srv.ListenAndServe(); err != http.ErrServerClosed { // blocking call
		log.Printf("HTTP server: %v\n", err)
	}
}

func (a *WebAPI) getPeers(w http.ResponseWriter, r *http.Request) {
	options := "GET, OPTIONS"
	if r.Method == http.MethodGet {
		peers, err := a.store.PeerList()
		if err != nil {
			sendError(w, http.StatusInternalServerError, "query", err.Error(), options)
			return
		}
		res := spec.PeerListRes{Peers: make([]spec.Peer, 0, len(peers))}
		for _, p := range peers {
			// BUG: dnet.ParseAddress (net.ParseIP) always returns IPv6.
			addr, err := dnet.ParseAddress(p.Address)
			if err != nil {
				log.Printf("[GET /peers] invalid peer address: %v", p.Address)
				continue
			}
			p.Address = normalizeIP4(addr).String()
			res.Peers = append(res.Peers, p)
		}
		sendJson(w, res, options)
	} else {
		sendOptions(w, r, options)
	}
}

func (a *WebAPI) getStats(w http.ResponseWriter, r *http.Request) {
	options := "GET, OPTIONS"
	if r.Method == http.MethodGet {
		size, fresh, err := a.store.PeerStats()
		if err != nil {
			sendError(w, http.StatusInternalServerError, "query", err.Error(), options)
			return
		}
		agents, versions, err := a.store.AgentStats()
		if err != nil {
			sendError(w, http.StatusInternalServerError, "query", err.Error(), options)
			return
		}
		sendJson(w, spec.StatsRes{Peers: size, New: fresh, Agents: agents, Versions: versions}, options)
	} else {
		sendOptions(w, r, options)
	}
}

// decode parses a hex payload as the body of {command}.
func (a *WebAPI) decode(w http.ResponseWriter, r *http.Request) {
	options := "POST, OPTIONS"
	if r.Method != http.MethodPost {
		sendOptions(w, r, options)
		return
	}
	cmd := mux.Vars(r)["command"]
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDecodeBody))
	if err != nil {
		sendError(w, http.StatusBadRequest, "body", err.Error(), options)
		return
	}
	payload, err := hex.DecodeString(strings.TrimSpace(string(body)))
	if err != nil {
		sendError(w, http.StatusBadRequest, "hex", err.Error(), options)
		return
	}
	m, err := core.ParseMessage(cmd, payload)
	if err != nil {
		if spec.IsMalformedError(err) {
			sendError(w, http.StatusBadRequest, string(spec.Malformed), err.Error(), options)
		} else {
			sendError(w, http.StatusInternalServerError, "decode", err.Error(), options)
		}
		return
	}
	sendJson(w, spec.DecodeRes{
		Command: m.Command(),
		Type:    m.Type.String(),
		Size:    m.Size(),
		Body:    m.Body,
	}, options)
}

// normalizeIP4 normalizes an Address to IPv4 if possible.
func normalizeIP4(addr spec.Address) spec.Address {
	ipv4 := addr.Host.To4()
	if ipv4 != nil {
		return spec.Address{Host: ipv4, Port: addr.Port}
	}
	return addr
}
