package session

import (
	"time"

	"github.com/conwayste/netwayste/internal/netqueue"
	"github.com/conwayste/netwayste/wire"
)

// Timeout is how long a Session tolerates silence from its peer while
// Connected before it is reset, per the reference implementation's
// TIMEOUT_IN_MS.
const Timeout = 5 * time.Second

// State is a Session's position in the connection lifecycle.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Disconnecting
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disconnecting:
		return "disconnecting"
	default:
		return "unknown"
	}
}

// Role distinguishes which side of the connection a Session tracks.
// The bookkeeping is otherwise identical; only the Dispatcher
// interprets RequestAction/ResponseCode payloads differently per
// Role.
type Role int

const (
	ClientRole Role = iota
	ServerRole
)

func (r Role) String() string {
	if r == ServerRole {
		return "server"
	}
	return "client"
}

// Outbound is a frame buffered in TxQueue awaiting acknowledgement.
type Outbound struct {
	Seq   wire.SeqNum
	Frame wire.Frame
}

// SequenceNumber satisfies netqueue.Sequenced.
func (o Outbound) SequenceNumber() wire.SeqNum { return o.Seq }

// Inbound is a frame buffered in RxQueue, received but not yet
// delivered to the application because an earlier sequence number is
// still missing.
type Inbound struct {
	Seq   wire.SeqNum
	Frame wire.Frame
}

// SequenceNumber satisfies netqueue.Sequenced.
func (in Inbound) SequenceNumber() wire.SeqNum { return in.Seq }

// Session is the per-peer state machine. A client holds one Session
// per server it has dialed; a server holds one Session per endpoint
// it has heard from.
type Session struct {
	Role     Role
	Endpoint wire.Endpoint
	State    State

	// Name is the player name this Session was (or is being) opened
	// under. Preserved across Reset, matching the reference
	// implementation's ClientNetState.reset() leaving `name` alone.
	Name string

	// Cookie is assigned by the server on a successful Connect and
	// echoed by the client on every subsequent Request.
	Cookie string

	// Room is empty when the peer is in the lobby.
	Room string

	sendSeq   wire.SeqNum
	watermark wire.SeqNum

	chatWatermark     uint64
	haveChatWatermark bool

	haveReceived bool

	// ChatSeq is the server-side counter used to stamp the ChatMsgs
	// sent to this endpoint. GameUpdateSeq is cleared by Reset but not
	// otherwise used: the Dispatcher stamps GameUpdates with a per-room
	// counter. Both are meaningless on a client-role Session.
	GameUpdateSeq uint64
	ChatSeq       uint64

	lastReceived time.Time
	tick         int

	TxQueue *netqueue.Queue[Outbound]
	RxQueue *netqueue.Queue[Inbound]
}

// New creates a Session in the Disconnected state.
func New(role Role, endpoint wire.Endpoint) *Session {
	return &Session{
		Role:     role,
		Endpoint: endpoint,
		State:    Disconnected,
		TxQueue:  netqueue.New[Outbound](),
		RxQueue:  netqueue.New[Inbound](),
	}
}

// Reset clears connection-scoped state: cookie, room, queues, chat
// watermark, and tick count. Endpoint, Role, and Name survive, the
// same fields the reference implementation's reset() leaves alone by
// destructuring every other field explicitly.
func (s *Session) Reset() {
	s.State = Disconnected
	s.Cookie = ""
	s.Room = ""
	s.sendSeq = 0
	s.watermark = 0
	s.chatWatermark = 0
	s.haveChatWatermark = false
	s.haveReceived = false
	s.GameUpdateSeq = 0
	s.ChatSeq = 0
	s.lastReceived = time.Time{}
	s.tick = 0
	s.TxQueue.Clear()
	s.RxQueue.Clear()
}

// IncrementTick advances the Session's tick counter. The Dispatcher
// calls this once per scheduling pass.
func (s *Session) IncrementTick() {
	s.tick++
}

// Tick returns the current tick count.
func (s *Session) Tick() int {
	return s.tick
}

// AssignSequence returns the sequence number for the next outbound
// frame. The counter only advances when the peer is already known
// (the Session holds a cookie) or the frame being sent is the Connect
// that establishes it -- matching the contract that Connect always
// goes out as sequence 0.
func (s *Session) AssignSequence(isConnect bool) wire.SeqNum {
	seq := s.sendSeq
	if isConnect || s.Cookie != "" {
		s.sendSeq = s.sendSeq.Next()
	}
	return seq
}

// ResponseAck returns the value a Request frame's ResponseAck field
// should carry: the lowest inbound sequence number not yet delivered
// to the application, or nil before anything has been received.
func (s *Session) ResponseAck() *uint64 {
	if !s.haveReceived {
		return nil
	}
	v := uint64(s.watermark)
	return &v
}

// EnqueueOutbound buffers frame for retransmission tracking under
// seq, which must have come from AssignSequence.
func (s *Session) EnqueueOutbound(seq wire.SeqNum, frame wire.Frame, now time.Time) {
	s.TxQueue.BufferItem(Outbound{Seq: seq, Frame: frame}, now)
}

// AckThrough discards every buffered outbound frame at or before ack.
// The peer's cumulative acknowledgement (RequestAck on a Response,
// ResponseAck on a Request) names the first sequence number it has not
// yet delivered, so the Dispatcher passes one less than that value.
func (s *Session) AckThrough(ack uint64) {
	for {
		head, ok := s.TxQueue.HeadSequence()
		if !ok || !head.AtOrBefore(wire.SeqNum(ack)) {
			return
		}
		s.TxQueue.Remove(head)
	}
}

// Deliver buffers an inbound frame received at seq and returns, in
// order, every frame now deliverable to the application -- the
// contiguous run starting at the current watermark. duplicate is true
// when seq was already delivered or already buffered, in which case
// delivered is always empty.
func (s *Session) Deliver(seq wire.SeqNum, frame wire.Frame, now time.Time) (delivered []wire.Frame, duplicate bool) {
	s.lastReceived = now

	if s.haveReceived && seq.OlderThan(s.watermark) {
		return nil, true
	}
	if dup := s.RxQueue.BufferItem(Inbound{Seq: seq, Frame: frame}, now); dup {
		return nil, true
	}
	s.haveReceived = true

	for s.RxQueue.GetContiguousPacketsCount(s.watermark) > 0 {
		head := s.RxQueue.ItemAt(0)
		s.RxQueue.Remove(head.Seq)
		delivered = append(delivered, head.Frame)
		s.watermark = s.watermark.Next()
	}
	return delivered, false
}

// DeliverChats filters chats down to those newer than the chat
// watermark, in the order given, advancing the watermark as it goes
// so that every chat this method returns across repeated calls has a
// strictly increasing ChatSeq. Chats with a nil ChatSeq are always
// delivered (they were never assigned one, e.g. synthesized locally).
func (s *Session) DeliverChats(chats []wire.ChatMsg) []wire.ChatMsg {
	var delivered []wire.ChatMsg
	for _, c := range chats {
		if c.ChatSeq == nil {
			delivered = append(delivered, c)
			continue
		}
		if s.haveChatWatermark && *c.ChatSeq <= s.chatWatermark {
			continue
		}
		delivered = append(delivered, c)
		s.chatWatermark = *c.ChatSeq
		s.haveChatWatermark = true
	}
	return delivered
}

// LastChatSeq returns the value an UpdateReply's LastChatSeq field
// should carry, or nil if no chat has been delivered yet.
func (s *Session) LastChatSeq() *uint64 {
	if !s.haveChatWatermark {
		return nil
	}
	v := s.chatWatermark
	return &v
}

// LastReceived returns the time of the most recent inbound frame.
func (s *Session) LastReceived() time.Time {
	return s.lastReceived
}

// DueForKeepAlive reports whether this Session should send a
// keepalive on this tick: it is Connected and has heard from its peer
// within Timeout.
func (s *Session) DueForKeepAlive(now time.Time) bool {
	return s.State == Connected && now.Sub(s.lastReceived) < Timeout
}

// TimedOut reports whether this Session has gone silent for Timeout
// while Connected and should be reset.
func (s *Session) TimedOut(now time.Time) bool {
	return s.State == Connected && now.Sub(s.lastReceived) >= Timeout
}
