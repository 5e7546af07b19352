package dispatcher

import (
	"net"
	"testing"
	"time"

	"github.com/conwayste/netwayste/internal/session"
	"github.com/conwayste/netwayste/wire"
)

type fakeAddr string

func (a fakeAddr) Network() string { return "udp" }
func (a fakeAddr) String() string  { return string(a) }

type sentPacket struct {
	addr net.Addr
	data []byte
}

// fakeConn is a net.PacketConn that records every WriteTo and never
// produces inbound data on its own; tests drive the Dispatcher's
// internal handlers directly instead of running the reader pump.
type fakeConn struct {
	sent []sentPacket
}

func (c *fakeConn) ReadFrom(p []byte) (int, net.Addr, error) { select {} }
func (c *fakeConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	data := make([]byte, len(p))
	copy(data, p)
	c.sent = append(c.sent, sentPacket{addr: addr, data: data})
	return len(p), nil
}
func (c *fakeConn) Close() error                     { return nil }
func (c *fakeConn) LocalAddr() net.Addr              { return fakeAddr("local:0") }
func (c *fakeConn) SetDeadline(time.Time) error      { return nil }
func (c *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) lastFrame(t *testing.T) wire.Frame {
	t.Helper()
	if len(c.sent) == 0 {
		t.Fatal("no packet was sent")
	}
	f, ok := wire.Decode(c.sent[len(c.sent)-1].data)
	if !ok {
		t.Fatal("sent packet did not decode")
	}
	return f
}

func drainNotification(t *testing.T, d *Dispatcher) Notification {
	t.Helper()
	select {
	case n := <-d.notify:
		return n
	default:
		t.Fatal("expected a notification, got none")
		return nil
	}
}

func TestHandleCommandRejectsInvalidState(t *testing.T) {
	conn := &fakeConn{}
	d := NewClient(conn, fakeAddr("server:2016"))

	d.handleCommand(CmdNewRoom{Name: "arena"})

	n := drainNotification(t, d)
	if _, ok := n.(NotifyBadRequest); !ok {
		t.Fatalf("expected NotifyBadRequest, got %T", n)
	}
	if len(conn.sent) != 0 {
		t.Fatal("an invalid command should not transmit anything")
	}
}

func TestClientConnectFlow(t *testing.T) {
	conn := &fakeConn{}
	d := NewClient(conn, fakeAddr("server:2016"))
	sess := d.sessionFor(d.peer)

	d.handleCommand(CmdConnect{Name: "alice", Version: "1.0"})
	if sess.State != session.Connecting {
		t.Fatalf("expected Connecting after CmdConnect, got %v", sess.State)
	}
	req, ok := conn.lastFrame(t).(*wire.RequestFrame)
	if !ok {
		t.Fatal("expected a RequestFrame to have been sent")
	}
	if req.Sequence != 0 {
		t.Fatalf("Connect should be sequence 0, got %d", req.Sequence)
	}
	if _, ok := req.Action.(wire.ActionConnect); !ok {
		t.Fatalf("expected ActionConnect, got %T", req.Action)
	}

	resp := &wire.ResponseFrame{Sequence: 0, Code: wire.RespLoggedIn{Cookie: "c00k1e", ServerVersion: "srv-1.0"}}
	d.handleClientFrame(resp)

	if sess.State != session.Connected {
		t.Fatalf("expected Connected after LoggedIn, got %v", sess.State)
	}
	if sess.Cookie != "c00k1e" {
		t.Fatalf("expected cookie to be recorded, got %q", sess.Cookie)
	}
	n := drainNotification(t, d)
	login, ok := n.(NotifyLoggedIn)
	if !ok || login.ServerVersion != "srv-1.0" {
		t.Fatalf("expected NotifyLoggedIn{srv-1.0}, got %+v", n)
	}
}

func TestServerConnectAndRoomLifecycle(t *testing.T) {
	conn := &fakeConn{}
	d := NewServer(conn)
	ep := wire.NewEndpoint(fakeAddr("client:4000"))
	d.peerAddrs[ep] = fakeAddr("client:4000")

	d.handleServerFrame(ep, &wire.RequestFrame{
		Sequence: 0,
		Action:   wire.ActionConnect{Name: "bob", ClientVersion: "1.0"},
	})

	sess, exists := d.sessions[ep]
	if !exists {
		t.Fatal("expected a session to be created on Connect")
	}
	if sess.State != session.Connected || sess.Cookie == "" {
		t.Fatalf("expected Connected with a cookie, got state=%v cookie=%q", sess.State, sess.Cookie)
	}
	loginResp, ok := conn.lastFrame(t).(*wire.ResponseFrame)
	if !ok {
		t.Fatal("expected a ResponseFrame")
	}
	loggedIn, ok := loginResp.Code.(wire.RespLoggedIn)
	if !ok {
		t.Fatalf("expected RespLoggedIn, got %T", loginResp.Code)
	}
	cookie := loggedIn.Cookie

	// A request without the right cookie is rejected.
	d.handleServerFrame(ep, &wire.RequestFrame{
		Sequence: 1,
		Cookie:   strPtr("wrong"),
		Action:   wire.ActionNewRoom{Name: "arena"},
	})
	unauth, ok := conn.lastFrame(t).(*wire.ResponseFrame)
	if !ok {
		t.Fatal("expected a ResponseFrame")
	}
	if _, ok := unauth.Code.(wire.RespUnauthorized); !ok {
		t.Fatalf("expected RespUnauthorized, got %T", unauth.Code)
	}

	// The rejected request above must not have advanced the
	// session's watermark, so retrying sequence 1 with the correct
	// cookie should still be accepted.
	d.handleServerFrame(ep, &wire.RequestFrame{
		Sequence: 1,
		Cookie:   &cookie,
		Action:   wire.ActionNewRoom{Name: "arena"},
	})
	// NewRoom also broadcasts the refreshed roster to the room as an
	// Update, so the JoinedRoom response is the packet sent just before
	// the last one.
	joinedFrame, ok := wire.Decode(conn.sent[len(conn.sent)-2].data)
	if !ok {
		t.Fatal("JoinedRoom packet did not decode")
	}
	joined, ok := joinedFrame.(*wire.ResponseFrame)
	if !ok {
		t.Fatal("expected a ResponseFrame")
	}
	if _, ok := joined.Code.(wire.RespJoinedRoom); !ok {
		t.Fatalf("expected RespJoinedRoom, got %T", joined.Code)
	}
	if sess.Room != "arena" {
		t.Fatalf("expected session to have joined arena, got %q", sess.Room)
	}
	if _, exists := d.rooms["arena"]; !exists {
		t.Fatal("expected room arena to exist")
	}
}

func TestHandleSweepRetransmitsDueItems(t *testing.T) {
	conn := &fakeConn{}
	d := NewClient(conn, fakeAddr("server:2016"))
	sess := d.sessionFor(d.peer)
	sess.Cookie = "known"

	base := time.Unix(1000, 0)
	req := &wire.RequestFrame{Sequence: 0, Action: wire.ActionListRooms{}}
	sess.EnqueueOutbound(0, req, base)

	// Not yet due.
	d.handleSweep(base)
	if len(conn.sent) != 0 {
		t.Fatal("should not retransmit before RTXTime elapses")
	}

	due := base.Add(500 * time.Millisecond)
	d.handleSweep(due)
	if len(conn.sent) != 1 {
		t.Fatalf("expected exactly one retransmission, got %d", len(conn.sent))
	}
}

func TestHandleTickKeepAliveNotBuffered(t *testing.T) {
	conn := &fakeConn{}
	d := NewClient(conn, fakeAddr("server:2016"))
	sess := d.sessionFor(d.peer)
	sess.State = session.Connected
	sess.Cookie = "known"

	base := time.Unix(3000, 0)
	sess.Deliver(0, &wire.ResponseFrame{Sequence: 0}, base)

	d.handleTick(base.Add(time.Millisecond))

	req, ok := conn.lastFrame(t).(*wire.RequestFrame)
	if !ok {
		t.Fatal("expected a RequestFrame to have been sent")
	}
	if _, ok := req.Action.(wire.ActionKeepAlive); !ok {
		t.Fatalf("expected ActionKeepAlive, got %T", req.Action)
	}
	if sess.TxQueue.Len() != 0 {
		t.Fatalf("keepalive must not be buffered for retransmit, TxQueue has %d items", sess.TxQueue.Len())
	}
}

func TestHandleTickServerKeepAliveNotBuffered(t *testing.T) {
	conn := &fakeConn{}
	d := NewServer(conn)
	ep := wire.NewEndpoint(fakeAddr("client:4000"))
	d.peerAddrs[ep] = fakeAddr("client:4000")

	d.handleServerFrame(ep, &wire.RequestFrame{
		Sequence: 0,
		Action:   wire.ActionConnect{Name: "bob", ClientVersion: "1.0"},
	})
	sess := d.sessions[ep]
	// The LoggedIn response is already buffered awaiting its ack.
	buffered := sess.TxQueue.Len()

	d.handleTick(sess.LastReceived().Add(time.Millisecond))

	resp, ok := conn.lastFrame(t).(*wire.ResponseFrame)
	if !ok {
		t.Fatal("expected a ResponseFrame to have been sent")
	}
	if _, ok := resp.Code.(wire.RespKeepAlive); !ok {
		t.Fatalf("expected RespKeepAlive, got %T", resp.Code)
	}
	if sess.TxQueue.Len() != buffered {
		t.Fatalf("keepalive reply must not be buffered for retransmit, TxQueue went from %d to %d items", buffered, sess.TxQueue.Len())
	}
}

func TestHandleTickResetsTimedOutSession(t *testing.T) {
	conn := &fakeConn{}
	d := NewClient(conn, fakeAddr("server:2016"))
	sess := d.sessionFor(d.peer)
	sess.State = session.Connected
	sess.Cookie = "known"

	base := time.Unix(2000, 0)
	sess.Deliver(0, &wire.ResponseFrame{Sequence: 0}, base)

	d.handleTick(base.Add(session.Timeout))

	if sess.State != session.Disconnected {
		t.Fatalf("expected session reset after timeout, got %v", sess.State)
	}
	n := drainNotification(t, d)
	if _, ok := n.(NotifyServerError); !ok {
		t.Fatalf("expected NotifyServerError on timeout, got %T", n)
	}
}
