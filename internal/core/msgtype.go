package msg

// MsgType identifies the kind of a Message body.
type MsgType int

const (
	MsgInternal MsgType = iota // not bound to any command yet
	MsgVersion
	MsgVerack
	MsgPing
	MsgPong
	MsgGetAddr
	MsgAddr
	MsgInv
	MsgGetData
	MsgNotFound
	MsgGetBlocks
	MsgGetHeaders
	MsgHeaders
	MsgSendHeaders
	MsgBlock
	MsgTx
	MsgReject
	MsgMempool
	MsgFilterLoad
	MsgFilterAdd
	MsgFilterClear
	MsgMerkleBlock
	MsgFeeFilter
	MsgSendCmpct
	MsgCmpctBlock
	MsgGetBlockTxn
	MsgBlockTxn
	MsgUnknown // command not recognized; the literal name is kept in Message.Cmd
)

var commandNames = [...]string{
	MsgInternal:    "",
	MsgVersion:     "version",
	MsgVerack:      "verack",
	MsgPing:        "ping",
	MsgPong:        "pong",
	MsgGetAddr:     "getaddr",
	MsgAddr:        "addr",
	MsgInv:         "inv",
	MsgGetData:     "getdata",
	MsgNotFound:    "notfound",
	MsgGetBlocks:   "getblocks",
	MsgGetHeaders:  "getheaders",
	MsgHeaders:     "headers",
	MsgSendHeaders: "sendheaders",
	MsgBlock:       "block",
	MsgTx:          "tx",
	MsgReject:      "reject",
	MsgMempool:     "mempool",
	MsgFilterLoad:  "filterload",
	MsgFilterAdd:   "filteradd",
	MsgFilterClear: "filterclear",
	MsgMerkleBlock: "merkleblock",
	MsgFeeFilter:   "feefilter",
	MsgSendCmpct:   "sendcmpct",
	MsgCmpctBlock:  "cmpctblock",
	MsgGetBlockTxn: "getblocktxn",
	MsgBlockTxn:    "blocktxn",
	MsgUnknown:     "unknown",
}

var commandTypes = func() map[string]MsgType {
	m := make(map[string]MsgType, len(commandNames))
	for t, name := range commandNames {
		if MsgType(t) != MsgInternal && MsgType(t) != MsgUnknown {
			m[name] = MsgType(t)
		}
	}
	return m
}()

// Command is the wire command for the type; "unknown" for anything
// outside the table.
func (t MsgType) Command() string {
	if t < 0 || int(t) >= len(commandNames) {
		return commandNames[MsgUnknown]
	}
	return commandNames[t]
}

func (t MsgType) String() string {
	if t == MsgInternal {
		return "internal"
	}
	return t.Command()
}

// HasBody is false for the intrinsically empty messages.
func (t MsgType) HasBody() bool {
	return newBody(t) != nil
}

// MsgTypeOf maps a command name to its type, or MsgUnknown.
func MsgTypeOf(cmd string) MsgType {
	if t, ok := commandTypes[cmd]; ok {
		return t
	}
	return MsgUnknown
}
