package dispatcher

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/conwayste/netwayste/internal/netqueue"
	"github.com/conwayste/netwayste/internal/session"
	"github.com/conwayste/netwayste/logging"
	"github.com/conwayste/netwayste/wire"
)

// ErrInvalidCommand names a Command that is illegal in the Session's
// current state (e.g. NewRoom while already in a room). The Dispatcher
// reports such a command as a NotifyBadRequest notification and does
// not return this error itself.
var ErrInvalidCommand = errors.New("dispatcher: command invalid in current session state")

// maxDatagramSize is the largest UDP payload the reader pump accepts.
const maxDatagramSize = 65507

type inboundDatagram struct {
	addr net.Addr
	data []byte
}

type room struct {
	name          string
	members       map[wire.Endpoint]bool
	gameUpdateSeq uint64
}

// Dispatcher is the single-threaded event loop described in package
// doc.go. One Dispatcher serves either one client-to-server
// connection or one server's whole listening socket.
type Dispatcher struct {
	role session.Role
	conn net.PacketConn
	cfg  Config

	// peer is the one server a client-role Dispatcher talks to. It is
	// the zero Endpoint for a server-role Dispatcher, which instead
	// tracks every endpoint it has heard from in sessions.
	peer wire.Endpoint

	sessions  map[wire.Endpoint]*session.Session
	peerAddrs map[wire.Endpoint]net.Addr
	rooms     map[string]*room

	commands chan Command
	notify   chan Notification
	pending  []Notification

	stats Stats
}

// NewClient returns a Dispatcher that talks to a single server at
// peerAddr over conn. The caller owns conn and must Close it after Run
// returns.
func NewClient(conn net.PacketConn, peerAddr net.Addr, opts ...Option) *Dispatcher {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	peer := wire.NewEndpoint(peerAddr)
	d := &Dispatcher{
		role:      session.ClientRole,
		conn:      conn,
		cfg:       *cfg,
		peer:      peer,
		sessions:  make(map[wire.Endpoint]*session.Session),
		peerAddrs: map[wire.Endpoint]net.Addr{peer: peerAddr},
		commands:  make(chan Command, 8),
		notify:    make(chan Notification, 32),
	}
	d.sessions[peer] = session.New(session.ClientRole, peer)
	return d
}

// NewServer returns a Dispatcher that listens for arbitrary clients on
// conn. The caller owns conn and must Close it after Run returns.
func NewServer(conn net.PacketConn, opts ...Option) *Dispatcher {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Dispatcher{
		role:      session.ServerRole,
		conn:      conn,
		cfg:       *cfg,
		sessions:  make(map[wire.Endpoint]*session.Session),
		peerAddrs: make(map[wire.Endpoint]net.Addr),
		rooms:     make(map[string]*room),
		commands:  make(chan Command, 8),
		notify:    make(chan Notification, 32),
	}
}

// Commands returns the channel the application above sends Commands
// on. Only meaningful for a client-role Dispatcher; closing it
// initiates graceful shutdown.
func (d *Dispatcher) Commands() chan<- Command {
	return d.commands
}

// Notifications returns the channel Run delivers Notifications on.
func (d *Dispatcher) Notifications() <-chan Notification {
	return d.notify
}

// Stats returns a snapshot of the running counters. Safe to call
// after Run has returned; racy if called concurrently with Run.
func (d *Dispatcher) Stats() Stats {
	return d.stats
}

// Run drives the event loop until ctx is cancelled or the command
// channel is closed, coordinating the socket reader pump with the
// main loop via errgroup the way the teacher coordinates goroutines
// in internal/protocol.
func (d *Dispatcher) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	datagrams := make(chan inboundDatagram, 32)

	group.Go(func() error {
		return d.readPump(ctx, datagrams)
	})
	group.Go(func() error {
		return d.loop(ctx, datagrams)
	})

	return group.Wait()
}

func (d *Dispatcher) readPump(ctx context.Context, out chan<- inboundDatagram) error {
	buf := make([]byte, maxDatagramSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := d.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond)); err != nil {
			return errors.Wrap(err, "dispatcher: set read deadline")
		}
		n, addr, err := d.conn.ReadFrom(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return errors.Wrap(err, "dispatcher: socket read failed")
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		select {
		case out <- inboundDatagram{addr: addr, data: data}:
		case <-ctx.Done():
			return nil
		}
	}
}

func (d *Dispatcher) loop(ctx context.Context, datagrams <-chan inboundDatagram) error {
	tick := time.NewTicker(d.cfg.Tick)
	defer tick.Stop()
	sweep := time.NewTicker(d.cfg.RetransmitSweep)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			d.shutdown()
			return nil
		case dg := <-datagrams:
			d.handleDatagram(dg)
		case cmd, ok := <-d.commands:
			if !ok {
				d.shutdown()
				return nil
			}
			d.handleCommand(cmd)
		case now := <-tick.C:
			d.handleTick(now)
		case now := <-sweep.C:
			d.handleSweep(now)
		}
	}
}

func (d *Dispatcher) sessionFor(ep wire.Endpoint) *session.Session {
	return d.sessions[ep]
}

func (d *Dispatcher) log(level logging.Level, format string, args ...any) {
	d.cfg.Log(level, format, args...)
}

func (d *Dispatcher) emit(n Notification) {
	d.pending = append(d.pending, n)
	d.flushNotifications()
}

func (d *Dispatcher) flushNotifications() {
	for len(d.pending) > 0 {
		select {
		case d.notify <- d.pending[0]:
			d.pending = d.pending[1:]
		default:
			return
		}
	}
}

func strPtr(s string) *string { return &s }

func (d *Dispatcher) transmit(ep wire.Endpoint, frame wire.Frame) {
	addr, ok := d.peerAddrs[ep]
	if !ok {
		d.log(logging.Error, "dispatcher: no known address for %s", ep)
		return
	}
	data, err := wire.Encode(frame)
	if err != nil {
		d.log(logging.Error, "dispatcher: encode failed: %v", err)
		return
	}
	if _, err := d.conn.WriteTo(data, addr); err != nil {
		d.stats.TxPacketsFailed++
		d.log(logging.Warn, "dispatcher: send to %s failed: %v", ep, err)
		return
	}
	d.stats.TxPacketsSuccess++
}

func (d *Dispatcher) shutdown() {
	for _, sess := range d.sessions {
		if d.role == session.ClientRole && sess.State == session.Connected {
			seq := sess.AssignSequence(false)
			cookie := sess.Cookie
			req := &wire.RequestFrame{
				Sequence:    seq,
				ResponseAck: sess.ResponseAck(),
				Cookie:      &cookie,
				Action:      wire.ActionDisconnect{},
			}
			d.transmit(sess.Endpoint, req)
		}
		sess.Reset()
	}
}

func (d *Dispatcher) handleTick(now time.Time) {
	for _, sess := range d.sessions {
		sess.IncrementTick()
		if sess.TimedOut(now) {
			sess.Reset()
			d.emit(NotifyServerError{Msg: strPtr("session timed out")})
			continue
		}
		if sess.State != session.Connected {
			continue
		}
		if d.role == session.ClientRole {
			ack := sess.ResponseAck()
			var v uint64
			if ack != nil {
				v = *ack
			}
			d.sendRequestUnbuffered(sess, wire.ActionKeepAlive{LatestResponseAck: v})
		} else {
			d.sendResponseUnbuffered(sess, wire.RespKeepAlive{})
		}
	}
	d.flushNotifications()
}

func (d *Dispatcher) handleSweep(now time.Time) {
	for _, sess := range d.sessions {
		if sess.TxQueue.Len() == 0 {
			continue
		}
		if sess.TxQueue.Len() > netqueue.Cap {
			d.stats.QueueCapExceeded++
			d.log(logging.Warn, "dispatcher: transmit queue for %s exceeds advisory cap (%d items)", sess.Endpoint, sess.TxQueue.Len())
		}
		for _, idx := range sess.TxQueue.GetRetransmitIndices(now) {
			item := sess.TxQueue.ItemAt(idx)
			sends := sess.TxQueue.RecordTransmission(idx, now)
			frame := d.refreshAck(sess, item.Frame)
			for i := 0; i < sends; i++ {
				d.transmit(sess.Endpoint, frame)
			}
		}
	}
}

// refreshAck updates a buffered frame's piggybacked ack field to the
// Session's current inbound watermark before a retransmission, per
// spec.md §4.4's "refreshing response_ack".
func (d *Dispatcher) refreshAck(sess *session.Session, frame wire.Frame) wire.Frame {
	switch f := frame.(type) {
	case *wire.RequestFrame:
		f.ResponseAck = sess.ResponseAck()
		return f
	case *wire.ResponseFrame:
		f.RequestAck = sess.ResponseAck()
		return f
	default:
		return frame
	}
}

func (d *Dispatcher) sendRequest(sess *session.Session, action wire.RequestAction) {
	seq := sess.AssignSequence(false)
	cookie := sess.Cookie
	req := &wire.RequestFrame{
		Sequence:    seq,
		ResponseAck: sess.ResponseAck(),
		Cookie:      &cookie,
		Action:      action,
	}
	sess.EnqueueOutbound(seq, req, time.Now())
	d.transmit(sess.Endpoint, req)
}

func (d *Dispatcher) sendResponse(sess *session.Session, code wire.ResponseCode) {
	seq := sess.AssignSequence(false)
	resp := &wire.ResponseFrame{
		Sequence:   seq,
		RequestAck: sess.ResponseAck(),
		Code:       code,
	}
	sess.EnqueueOutbound(seq, resp, time.Now())
	d.transmit(sess.Endpoint, resp)
}

// sendRequestUnbuffered transmits a Request without buffering it in
// TxQueue, for traffic the spec says is fire-and-forget (KeepAlive):
// it still consumes a sequence number so the peer's watermark
// bookkeeping stays consistent, but a drop is never retransmitted.
func (d *Dispatcher) sendRequestUnbuffered(sess *session.Session, action wire.RequestAction) {
	seq := sess.AssignSequence(false)
	cookie := sess.Cookie
	req := &wire.RequestFrame{
		Sequence:    seq,
		ResponseAck: sess.ResponseAck(),
		Cookie:      &cookie,
		Action:      action,
	}
	d.transmit(sess.Endpoint, req)
}

// sendResponseUnbuffered is sendRequestUnbuffered's Response-side
// counterpart, used for the server's KeepAlive reply.
func (d *Dispatcher) sendResponseUnbuffered(sess *session.Session, code wire.ResponseCode) {
	seq := sess.AssignSequence(false)
	resp := &wire.ResponseFrame{
		Sequence:   seq,
		RequestAck: sess.ResponseAck(),
		Code:       code,
	}
	d.transmit(sess.Endpoint, resp)
}
