package collector

import (
	"bufio"
	"fmt"
	"log"
	"math/rand"
	"net"
	"sync"
	"time"

	"code.dogecoin.org/governor"
	"github.com/philpearl/intern"

	core "code.dogecoin.org/peerwire/internal/core"
	"code.dogecoin.org/peerwire/internal/spec"
)

// Minimum height accepted by other nodes
const MinimumBlockHeight = 0

// Stop after harvesting this many addresses from one peer.
const AddrTarget = 1000

func New(store spec.Store, network core.Network, fromAddr spec.Address, maxTime time.Duration, isLocal bool) *Collector {
	c := &Collector{_store: store, network: network, Address: fromAddr, maxTime: maxTime, isLocal: isLocal}
	c.agents = intern.New(256)
	return c
}

type Collector struct {
	governor.ServiceCtx
	_store  spec.Store
	store   spec.Store
	network core.Network
	mutex   sync.Mutex
	conn    net.Conn
	agents  *intern.Intern // peers share a handful of agent strings
	Address spec.Address
	maxTime time.Duration
	isLocal bool
}

func (c *Collector) Stop() {
	c.mutex.Lock()
	conn := c.conn
	c.mutex.Unlock()

	if conn != nil {
		// must close net.Conn to interrupt blocking read/write.
		conn.Close()
	}
}

// goroutine
func (c *Collector) Run() {
	who := c.Address.String()
	for {
		c.store = c._store.WithCtx(c.Context) // Service Context is first available here
		// choose the next peer to connect to
		remoteNode := c.Address
		for !remoteNode.IsValid() {
			var err error
			remoteNode, err = c.store.ChoosePeer()
			if err != nil && !spec.IsNotFoundError(err) {
				log.Printf("[%s] ChoosePeer: %v", who, err)
			} else if remoteNode.IsValid() {
				break
			}
			// none available, wait for the local node to tell us about peers
			if c.Sleep(5 * time.Second) {
				return
			}
		}
		// collect addresses from the peer until the timeout
		c.collectAddresses(remoteNode)
		// avoid spamming on connect errors
		if c.Sleep(10 * time.Second) {
			// context was cancelled
			return
		}
	}
}

func (c *Collector) collectAddresses(nodeAddr spec.Address) {
	who := nodeAddr.String()
	magic := c.network.Magic

	d := net.Dialer{Timeout: 30 * time.Second}
	conn, err := d.DialContext(c.Context, "tcp", nodeAddr.String())
	if err != nil {
		log.Printf("[%s] Error connecting to peer: %v", who, err)
		return
	}
	defer conn.Close()

	c.mutex.Lock()
	c.conn = conn // for shutdown
	c.mutex.Unlock()

	// set a time limit on waiting for addresses per peer
	if c.maxTime != 0 {
		conn.SetReadDeadline(time.Now().Add(c.maxTime))
	}
	reader := bufio.NewReader(conn)

	// send our 'version' message
	ours := makeVersion(nodeAddr)
	if err := send(conn, c.network, ours); err != nil {
		log.Printf("[%s] Error sending version message: %v", who, err)
		return
	}

	// expect the version message from the peer
	version, err := expectVersion(reader, c.network)
	if err != nil {
		log.Printf("[%s] %v", who, err)
		return
	}
	if version.Nonce != 0 && version.Nonce == ours.Body.(*core.VersionMsg).Nonce {
		log.Printf("[%s] connected to ourselves, dropping", who)
		return
	}

	nodeVer := version.Version // other peer's version
	if nodeVer >= 209 {
		// send 'verack' in response
		if err := send(conn, c.network, newMessage(core.MsgVerack, nil)); err != nil {
			log.Printf("[%s] failed to send 'verack': %v", who, err)
			return
		}
	}

	// successful handshake: record what the peer told us.
	if !c.isLocal {
		err = c.store.UpdatePeerVersion(nodeAddr, spec.PeerVersion{
			Version:  version.Version,
			Services: uint64(version.Services),
			Agent:    c.agents.Deduplicate(version.Agent),
			Height:   version.Height,
			Relay:    !version.NoRelay,
		})
		if err != nil {
			log.Printf("[%s] UpdatePeerVersion: %v", who, err)
		}
	}

	addresses := 0
	total := 0
	for {
		m, err := core.ReadEnvelope(reader, magic)
		if err != nil {
			if spec.IsMalformedError(err) {
				// protocol violation by the remote peer
				log.Printf("[%s] Dropping peer: %v", who, err)
			} else {
				log.Printf("[%s] Error reading message: %v", who, err)
			}
			return
		}

		switch body := m.Body.(type) {
		case *core.PingMsg:
			// keep-alive: reply with the same nonce
			if err := send(conn, c.network, newMessage(core.MsgPong, &core.PongMsg{Nonce: body.Nonce})); err != nil {
				log.Printf("[%s] failed to send 'pong': %v", who, err)
				return
			}
			// request a list of known addresses
			if err := send(conn, c.network, newMessage(core.MsgGetAddr, nil)); err != nil {
				log.Printf("[%s] failed to send 'getaddr': %v", who, err)
				return
			}

		case *core.RejectMsg:
			log.Printf("[%s] Reject: %v %v %v", who, body.CodeName(), body.Message, body.Reason)

		case *core.AddrMsg:
			_, oldLen, err := c.store.PeerStats()
			if err != nil {
				log.Printf("[%s] PeerStats: %v", who, err)
				break
			}
			kept := 0
			validAfter := time.Now().Unix() - spec.MaxPeerDays*spec.SecondsPerDay
			for _, a := range body.AddrList {
				unixTimeSec := int64(a.Time)
				if unixTimeSec > validAfter {
					c.store.AddPeer(spec.Address{Host: a.IP(), Port: a.Port}, unixTimeSec, uint64(a.Services))
					kept++
				}
			}
			dbSize, newLen, err := c.store.PeerStats()
			if err != nil {
				log.Printf("[%s] PeerStats: %v", who, err)
				break
			}
			log.Printf("[%s] Addresses: %d received, %d expired, %d new, %d in DB", who, len(body.AddrList), len(body.AddrList)-kept, (newLen - oldLen), dbSize)
			addresses += len(body.AddrList)
			total += (newLen - oldLen)
			if addresses >= AddrTarget {
				// done: try the next peer (or reconnect to local node)
				// a peer will only respond once to the 'getaddr' request
				conn.Close()
				// back off as the number of kept peers falls towards zero
				wait := 60 - total
				if wait < 1 {
					wait = 1
				}
				c.Sleep(time.Duration(wait) * time.Second)
				return
			}
		}
	}
}

// makeVersion creates a version message to send to the peer
func makeVersion(remote spec.Address) *core.Message {
	version := core.NewVersionMsg()
	version.RemoteAddr = core.NewNetAddr(remote.Host, remote.Port, 0)
	// NOTE: nodes ignore the local address fields.
	version.Nonce = rand.Uint64()
	version.Height = MinimumBlockHeight
	version.NoRelay = true
	return newMessage(core.MsgVersion, version)
}

func expectVersion(reader *bufio.Reader, network core.Network) (*core.VersionMsg, error) {
	// Core Node implementation: if connection is inbound, send Version immediately.
	// This means we'll receive the peer's version before `verack` for our Version,
	// however this is undocumented, so other peers might ack first.
	m, err := core.ReadEnvelope(reader, network.Magic)
	if err != nil {
		return nil, fmt.Errorf("error reading message: %v", err)
	}
	switch body := m.Body.(type) {
	case *core.VersionMsg:
		return body, nil
	case *core.RejectMsg:
		return nil, fmt.Errorf("reject: %s %s %s", body.CodeName(), body.Message, body.Reason)
	}
	return nil, fmt.Errorf("expected 'version' message from peer, but received: %s", m.Command())
}

func newMessage(t core.MsgType, body core.Body) *core.Message {
	m, err := core.NewMessageOf(t, body)
	if err != nil {
		panic(err) // bodies are chosen by this file
	}
	return m
}

func send(conn net.Conn, network core.Network, m *core.Message) error {
	_, err := conn.Write(core.FrameMessage(network.Magic, m))
	return err
}
