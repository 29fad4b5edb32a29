package msg

import (
	"bytes"
	"fmt"
)

// CommandSize is the fixed size of the command field in the message header.
const CommandSize = 12

// Command is a NUL-padded ASCII command name.
type Command [CommandSize]byte

// NewCommand rejects names longer than CommandSize or containing NUL,
// since either would not survive a trip through the header.
func NewCommand(name string) (cmd Command, err error) {
	if len(name) > CommandSize {
		return cmd, fmt.Errorf("command too long: %q (max %d bytes)", name, CommandSize)
	}
	if bytes.IndexByte([]byte(name), 0) >= 0 {
		return cmd, fmt.Errorf("command contains NUL: %q", name)
	}
	copy(cmd[:], name)
	return cmd, nil
}

func (c Command) String() string {
	return string(bytes.TrimRight(c[:], "\x00"))
}

func (c Command) IsEmpty() bool {
	return c[0] == 0
}
