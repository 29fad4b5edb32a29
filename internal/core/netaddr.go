package msg

import (
	"net"
	"strconv"

	"github.com/btcsuite/btcd/wire"

	"code.dogecoin.org/peerwire/internal/codec"
)

// NetAddr represents the structure of a network address
type NetAddr struct {
	Time     uint32           // Unix epoch time seconds; only present in 'addr' messages
	Services wire.ServiceFlag // Services bit flags
	Address  [16]byte         // network byte order (BE); IPv4-mapped IPv6 address
	Port     uint16           // network byte order (BE)
}

const (
	compactNetAddrSize = 26 // services, address, port (version message)
	netAddrSize        = 30 // with leading time (addr message)
)

// NewNetAddr builds an address from an IPv4 or IPv6 host.
func NewNetAddr(ip net.IP, port uint16, services wire.ServiceFlag) (a NetAddr) {
	copy(a.Address[:], ip.To16())
	a.Port = port
	a.Services = services
	return
}

func (a *NetAddr) IP() net.IP {
	return net.IP(append([]byte(nil), a.Address[:]...))
}

func (a *NetAddr) String() string {
	return net.JoinHostPort(a.IP().String(), strconv.Itoa(int(a.Port)))
}

// NB. the version message carries addresses without the Time field.
func (a *NetAddr) decode(d *codec.Decoder, withTime bool) {
	if withTime {
		a.Time = d.UInt32le()
	} else {
		a.Time = 0
	}
	a.Services = wire.ServiceFlag(d.UInt64le())
	d.ReadInto(a.Address[:])
	a.Port = d.UInt16be()
}

func (a *NetAddr) encode(e *codec.Encoder, withTime bool) {
	if withTime {
		e.UInt32le(a.Time)
	}
	e.UInt64le(uint64(a.Services))
	e.Bytes(a.Address[:])
	e.UInt16be(a.Port)
}
