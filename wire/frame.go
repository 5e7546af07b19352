package wire

// Frame discriminant order, fixed by the wire format.
const (
	tagFrameRequest uint32 = iota
	tagFrameResponse
	tagFrameUpdate
	tagFrameUpdateReply
)

// Frame is the wire-level unit exchanged between client and server.
// It is one of the four concrete *Frame types below.
type Frame interface {
	frameTag() uint32
}

// RequestFrame travels client to server.
type RequestFrame struct {
	Sequence SeqNum
	// ResponseAck is the lowest server sequence number this client
	// has not yet delivered to its application, or nil before any
	// response has been received.
	ResponseAck *uint64
	// Cookie must be absent iff Action is ActionConnect.
	Cookie *string
	Action RequestAction
}

// ResponseFrame travels server to client.
type ResponseFrame struct {
	Sequence SeqNum
	// RequestAck is the lowest client request sequence number this
	// server has not yet delivered, or nil before any request has been
	// received.
	RequestAck *uint64
	Code       ResponseCode
}

// UpdateFrame is the server's broadcast game-state channel. Chats and
// GameUpdates are nil when absent, non-nil (possibly empty) when
// present, which round-trips the wire format's "optional list"
// correctly.
type UpdateFrame struct {
	Chats          *[]ChatMsg
	GameUpdates    *[]GameUpdate
	UniverseUpdate UniUpdate
}

// UpdateReplyFrame is the client's cumulative acknowledgement of an
// UpdateFrame.
type UpdateReplyFrame struct {
	Cookie            string
	LastChatSeq       *uint64
	LastGameUpdateSeq *uint64
	LastGen           *uint64
}

func (*RequestFrame) frameTag() uint32     { return tagFrameRequest }
func (*ResponseFrame) frameTag() uint32    { return tagFrameResponse }
func (*UpdateFrame) frameTag() uint32      { return tagFrameUpdate }
func (*UpdateReplyFrame) frameTag() uint32 { return tagFrameUpdateReply }

// SequenceNumber lets a *RequestFrame be stored directly in a
// netqueue.Queue keyed by its own sequence number.
func (f *RequestFrame) SequenceNumber() SeqNum { return f.Sequence }

// SequenceNumber lets a *ResponseFrame be stored directly in a
// netqueue.Queue keyed by its own sequence number.
func (f *ResponseFrame) SequenceNumber() SeqNum { return f.Sequence }
