package msg

import (
	"fmt"
	"reflect"

	"code.dogecoin.org/peerwire/internal/codec"
	"code.dogecoin.org/peerwire/internal/spec"
)

// Message is the envelope shared by every message kind.
//
// Type and Cmd always agree: SetType derives the command name and
// SetCommand derives the type. Body is either nil or the body that
// newBody(Type) would allocate; the type never comes from the body.
type Message struct {
	Type MsgType
	Cmd  Command
	Body Body
}

func NewMessage() *Message {
	return &Message{Type: MsgInternal}
}

// NewMessageOf binds a type and a body in one step.
func NewMessageOf(t MsgType, body Body) (*Message, error) {
	m := NewMessage()
	m.SetType(t)
	want := newBody(t)
	if reflect.TypeOf(want) != reflect.TypeOf(body) {
		return nil, fmt.Errorf("body %T does not belong to '%s' message", body, t.Command())
	}
	m.Body = body
	return m, nil
}

// ParseMessage decodes a payload received under the command cmd.
func ParseMessage(cmd string, payload []byte) (*Message, error) {
	m := NewMessage()
	if err := m.SetCommand(cmd); err != nil {
		return nil, spec.WrapErr(spec.Malformed, "bad command", err)
	}
	m.Alloc()
	if err := m.Read(payload); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Message) Command() string {
	return m.Cmd.String()
}

// SetType binds the message to t. Any existing body is released first.
func (m *Message) SetType(t MsgType) {
	m.Release()
	if t < 0 || int(t) >= len(commandNames) {
		t = MsgUnknown
	}
	m.Type = t
	m.Cmd, _ = NewCommand(t.Command()) // table names always fit
}

// SetCommand binds the message to the type named by cmd. Unrecognized
// names map to MsgUnknown and are kept verbatim.
func (m *Message) SetCommand(cmd string) error {
	c, err := NewCommand(cmd)
	if err != nil {
		return err
	}
	m.Release()
	m.Type = MsgTypeOf(cmd)
	m.Cmd = c
	return nil
}

// Alloc installs a default body for the bound type.
func (m *Message) Alloc() {
	m.Release()
	m.Body = newBody(m.Type)
}

// Release frees the body. The type and command stay bound.
func (m *Message) Release() {
	if m.Body != nil {
		m.Body.Release()
		m.Body = nil
	}
}

// Size is the exact number of payload bytes Write produces.
func (m *Message) Size() int {
	if m.Body == nil {
		return 0
	}
	return m.Body.Size()
}

// Write serializes the payload into buf and returns the rest of buf.
// buf must hold at least Size() bytes.
func (m *Message) Write(buf []byte) []byte {
	size := m.Size()
	if len(buf) < size {
		panic(fmt.Sprintf("msg: '%s' needs %d bytes, buffer has %d", m.Command(), size, len(buf)))
	}
	if m.Body == nil {
		return buf
	}
	e := codec.EncodeInto(buf[:size:size])
	m.Body.Encode(e)
	if e.Len() != size {
		panic(fmt.Sprintf("msg: '%s' wrote %d bytes, Size() said %d", m.Command(), e.Len(), size))
	}
	return buf[size:]
}

// Encode returns the serialized payload.
func (m *Message) Encode() []byte {
	buf := make([]byte, m.Size())
	m.Write(buf)
	return buf
}

// Read parses payload into the body, allocating it if needed.
// Every failure is reported as a spec.Malformed error; the body is
// released so no partial lists survive.
func (m *Message) Read(payload []byte) error {
	if m.Type == MsgInternal {
		return spec.NewErr(spec.Malformed, "message type not set")
	}
	if m.Body == nil {
		m.Body = newBody(m.Type)
		if m.Body == nil {
			return nil // empty message: nothing to read
		}
	}
	err := m.Body.Decode(codec.Decode(payload))
	if err != nil {
		m.Body.Release()
		return spec.WrapErr(spec.Malformed, fmt.Sprintf("malformed '%s' payload", m.Command()), err)
	}
	return nil
}

// Clone deep-copies the message; no buffers are shared.
func (m *Message) Clone() *Message {
	c := &Message{Type: m.Type, Cmd: m.Cmd}
	if m.Body != nil {
		c.Body = m.Body.Clone()
	}
	return c
}

func (m *Message) String() string {
	return fmt.Sprintf("%s (%d bytes)", m.Command(), m.Size())
}
