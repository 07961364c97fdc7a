package protocol

// BodyType is the wire discriminator carried in the "type" field of every body.
type BodyType string

const (
	TypeEcho        BodyType = "echo"
	TypeEchoOk      BodyType = "echo_ok"
	TypeInit        BodyType = "init"
	TypeInitOk      BodyType = "init_ok"
	TypeGenerate    BodyType = "generate"
	TypeGenerateOk  BodyType = "generate_ok"
	TypeBroadcast   BodyType = "broadcast"
	TypeBroadcastOk BodyType = "broadcast_ok"
	TypeRead        BodyType = "read"
	TypeReadOk      BodyType = "read_ok"
	TypeTopology    BodyType = "topology"
	TypeTopologyOk  BodyType = "topology_ok"
	TypeError       BodyType = "error"
)

// Body is the closed set of payloads an Envelope can carry.
// Only the types declared in this package implement it.
type Body interface {
	Type() BodyType
	sealed()
}

// Echo asks the node to send the echo string back.
type Echo struct {
	MsgID int    `json:"msg_id"`
	Echo  string `json:"echo"`
}

// EchoOk answers an Echo.
type EchoOk struct {
	MsgID     int    `json:"msg_id"`
	Echo      string `json:"echo"`
	InReplyTo int    `json:"in_reply_to"`
}

// Init assigns the node its identity and the ids of every node in the cluster.
type Init struct {
	MsgID   int      `json:"msg_id"`
	NodeID  string   `json:"node_id"`
	NodeIDs []string `json:"node_ids"`
}

type InitOk struct {
	InReplyTo int `json:"in_reply_to"`
}

// Generate asks for a cluster-wide unique id.
type Generate struct {
	MsgID int `json:"msg_id"`
}

type GenerateOk struct {
	ID        string `json:"id"`
	InReplyTo int    `json:"in_reply_to"`
}

// Broadcast carries a value to disseminate. A nil MsgID marks a relay between
// peers, which is never acknowledged.
type Broadcast struct {
	MsgID   *int `json:"msg_id,omitempty"`
	Message int  `json:"message"`
}

// RequestID returns the caller assigned msg_id, if any.
func (b Broadcast) RequestID() (int, bool) {
	if b.MsgID == nil {
		return 0, false
	}
	return *b.MsgID, true
}

type BroadcastOk struct {
	InReplyTo int `json:"in_reply_to"`
}

// Read asks for every broadcast value the node has accepted.
type Read struct {
	MsgID int `json:"msg_id"`
}

// ReadOk lists accepted values. The list has set semantics.
type ReadOk struct {
	InReplyTo int   `json:"in_reply_to"`
	Messages  []int `json:"messages"`
}

// Topology maps every node id to its neighbors in the gossip overlay.
type Topology struct {
	MsgID    int                 `json:"msg_id"`
	Topology map[string][]string `json:"topology"`
}

type TopologyOk struct {
	InReplyTo int `json:"in_reply_to"`
}

// Error reports a request that could not be served.
type Error struct {
	InReplyTo int       `json:"in_reply_to"`
	Code      ErrorCode `json:"code"`
	Text      string    `json:"text,omitempty"`
}

// ErrorCode values follow the harness error registry.
type ErrorCode int

const (
	ErrorCodeTimeout                ErrorCode = 0
	ErrorCodeNodeNotFound           ErrorCode = 1
	ErrorCodeNotSupported           ErrorCode = 10
	ErrorCodeTemporarilyUnavailable ErrorCode = 11
	ErrorCodeMalformedRequest       ErrorCode = 12
	ErrorCodeCrash                  ErrorCode = 13
	ErrorCodeAbort                  ErrorCode = 14
	ErrorCodePreconditionFailed     ErrorCode = 22
)

func (Echo) Type() BodyType        { return TypeEcho }
func (EchoOk) Type() BodyType      { return TypeEchoOk }
func (Init) Type() BodyType        { return TypeInit }
func (InitOk) Type() BodyType      { return TypeInitOk }
func (Generate) Type() BodyType    { return TypeGenerate }
func (GenerateOk) Type() BodyType  { return TypeGenerateOk }
func (Broadcast) Type() BodyType   { return TypeBroadcast }
func (BroadcastOk) Type() BodyType { return TypeBroadcastOk }
func (Read) Type() BodyType        { return TypeRead }
func (ReadOk) Type() BodyType      { return TypeReadOk }
func (Topology) Type() BodyType    { return TypeTopology }
func (TopologyOk) Type() BodyType  { return TypeTopologyOk }
func (Error) Type() BodyType       { return TypeError }

func (Echo) sealed()        {}
func (EchoOk) sealed()      {}
func (Init) sealed()        {}
func (InitOk) sealed()      {}
func (Generate) sealed()    {}
func (GenerateOk) sealed()  {}
func (Broadcast) sealed()   {}
func (BroadcastOk) sealed() {}
func (Read) sealed()        {}
func (ReadOk) sealed()      {}
func (Topology) sealed()    {}
func (TopologyOk) sealed()  {}
func (Error) sealed()       {}

// IsResponse reports whether b answers a request rather than making one.
func IsResponse(b Body) bool {
	switch b.(type) {
	case EchoOk, InitOk, GenerateOk, BroadcastOk, ReadOk, TopologyOk, Error:
		return true
	default:
		return false
	}
}

// RequestID returns the msg_id a reply to b must reference. Responses and
// broadcast relays have none.
func RequestID(b Body) (int, bool) {
	switch body := b.(type) {
	case Echo:
		return body.MsgID, true
	case Init:
		return body.MsgID, true
	case Generate:
		return body.MsgID, true
	case Broadcast:
		return body.RequestID()
	case Read:
		return body.MsgID, true
	case Topology:
		return body.MsgID, true
	default:
		return 0, false
	}
}

// IntPtr is a helper for building Broadcast requests.
func IntPtr(v int) *int {
	return &v
}
