package msg

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const HeaderSize = 24
const MaxMsgSize = 0x2000000 // 32MB

// Network selects the magic bytes that start every message.
type Network struct {
	Name  string
	Magic wire.BitcoinNet
	Port  uint16 // default P2P port
}

var Networks = map[string]Network{
	"main":     {Name: "main", Magic: wire.MainNet, Port: 8333},
	"testnet":  {Name: "testnet", Magic: wire.TestNet3, Port: 18333},
	"regtest":  {Name: "regtest", Magic: wire.TestNet, Port: 18444},
	"dogecoin": {Name: "dogecoin", Magic: 0xc0c0c0c0, Port: 22556},
}

// https://en.bitcoin.it/wiki/Protocol_documentation#Message_structure
type MessageHeader struct {
	Magic    wire.BitcoinNet
	Command  string
	Length   uint32
	Checksum [4]byte
}

func checksum(payload []byte) (sum [4]byte) {
	copy(sum[:], chainhash.DoubleHashB(payload)[:4])
	return
}

func putHeader(buf []byte, magic wire.BitcoinNet, cmd Command, payload []byte) {
	binary.LittleEndian.PutUint32(buf[:4], uint32(magic))
	copy(buf[4:16], cmd[:])
	binary.LittleEndian.PutUint32(buf[16:20], uint32(len(payload)))
	sum := checksum(payload)
	copy(buf[20:24], sum[:])
}

// EncodeMessage frames a raw payload under cmd.
func EncodeMessage(magic wire.BitcoinNet, cmd string, payload []byte) ([]byte, error) {
	c, err := NewCommand(cmd)
	if err != nil {
		return nil, err
	}
	msg := make([]byte, HeaderSize+len(payload))
	copy(msg[HeaderSize:], payload)
	putHeader(msg, magic, c, msg[HeaderSize:])
	return msg, nil
}

// FrameMessage serializes m directly behind its header, using a buffer
// sized from m.Size().
func FrameMessage(magic wire.BitcoinNet, m *Message) []byte {
	msg := make([]byte, HeaderSize+m.Size())
	m.Write(msg[HeaderSize:])
	putHeader(msg, magic, m.Cmd, msg[HeaderSize:])
	return msg
}

func DecodeHeader(buf [HeaderSize]byte) (hdr MessageHeader) {
	hdr.Magic = wire.BitcoinNet(binary.LittleEndian.Uint32(buf[:4]))
	hdr.Command = string(bytes.TrimRight(buf[4:16], "\x00"))
	hdr.Length = binary.LittleEndian.Uint32(buf[16:20])
	copy(hdr.Checksum[:], buf[20:24])
	return
}

func ReadMessage(reader *bufio.Reader, magic wire.BitcoinNet) (cmd string, payload []byte, err error) {
	// Read the message header
	buf := [HeaderSize]byte{}
	n, err := io.ReadFull(reader, buf[:])
	if err != nil {
		return "", nil, fmt.Errorf("short header: received %d bytes: %v", n, err)
	}
	// Decode the header
	hdr := DecodeHeader(buf)
	if hdr.Magic != magic {
		return "", nil, fmt.Errorf("invalid magic bytes: %08x", uint32(hdr.Magic))
	}
	if hdr.Length > MaxMsgSize {
		return "", nil, fmt.Errorf("payload too large: '%s' %d bytes", hdr.Command, hdr.Length)
	}
	// Read the message payload
	payload = make([]byte, hdr.Length)
	n, err = io.ReadFull(reader, payload)
	if err != nil {
		return "", nil, fmt.Errorf("short payload: received %d bytes: %v", n, err)
	}
	// Verify checksum
	if sum := checksum(payload); sum != hdr.Checksum {
		return "", nil, fmt.Errorf("checksum mismatch: %v vs %v", hdr.Checksum, sum)
	}
	return hdr.Command, payload, nil
}

// ReadEnvelope reads one framed message and parses its payload.
func ReadEnvelope(reader *bufio.Reader, magic wire.BitcoinNet) (*Message, error) {
	cmd, payload, err := ReadMessage(reader, magic)
	if err != nil {
		return nil, err
	}
	return ParseMessage(cmd, payload)
}
