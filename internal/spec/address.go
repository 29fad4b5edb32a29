package spec

import (
	"code.dogecoin.org/gossip/dnet"
)

type Address = dnet.Address

// PeerKey is the store key for a peer: 16-byte IP and big-endian port.
func PeerKey(a Address) []byte {
	return a.ToBytes()
}

// AddressFromKey is the inverse of PeerKey.
func AddressFromKey(key []byte) (Address, error) {
	return dnet.AddressFromBytes(key)
}
