package dispatcher

import (
	"time"

	"github.com/conwayste/netwayste/internal/session"
	"github.com/conwayste/netwayste/logging"
	"github.com/conwayste/netwayste/wire"
)

func (d *Dispatcher) handleCommand(cmd Command) {
	sess := d.sessionFor(d.peer)
	if sess == nil {
		return
	}

	switch c := cmd.(type) {
	case CmdNone:
	case CmdConnect:
		if sess.State != session.Disconnected {
			d.emit(NotifyBadRequest{Msg: strPtr("already connected or connecting")})
			return
		}
		sess.Name = c.Name
		sess.State = session.Connecting
		seq := sess.AssignSequence(true)
		req := &wire.RequestFrame{
			Sequence: seq,
			Action:   wire.ActionConnect{Name: c.Name, ClientVersion: c.Version},
		}
		sess.EnqueueOutbound(seq, req, time.Now())
		d.transmit(sess.Endpoint, req)
	case CmdDisconnect:
		if sess.State == session.Disconnected {
			return
		}
		d.sendRequest(sess, wire.ActionDisconnect{})
		sess.Reset()
		d.emit(NotifyLeftRoom{})
	case CmdList:
		if sess.State != session.Connected {
			d.emit(NotifyBadRequest{Msg: strPtr("not connected")})
			return
		}
		if sess.Room == "" {
			d.sendRequest(sess, wire.ActionListRooms{})
		} else {
			d.sendRequest(sess, wire.ActionListPlayers{})
		}
	case CmdChatMessage:
		if sess.State != session.Connected || sess.Room == "" {
			d.emit(NotifyBadRequest{Msg: strPtr("not in a room")})
			return
		}
		d.sendRequest(sess, wire.ActionChatMessage{Text: c.Text})
	case CmdNewRoom:
		if sess.State != session.Connected || sess.Room != "" {
			d.emit(NotifyBadRequest{Msg: strPtr("already in a room")})
			return
		}
		d.sendRequest(sess, wire.ActionNewRoom{Name: c.Name})
	case CmdJoinRoom:
		if sess.State != session.Connected || sess.Room != "" {
			d.emit(NotifyBadRequest{Msg: strPtr("already in a room")})
			return
		}
		d.sendRequest(sess, wire.ActionJoinRoom{Name: c.Name})
	case CmdLeaveRoom:
		if sess.State != session.Connected || sess.Room == "" {
			d.emit(NotifyBadRequest{Msg: strPtr("not in a room")})
			return
		}
		d.sendRequest(sess, wire.ActionLeaveRoom{})
	}
}

func (d *Dispatcher) handleClientFrame(frame wire.Frame) {
	sess := d.sessionFor(d.peer)
	if sess == nil {
		return
	}

	switch f := frame.(type) {
	case *wire.ResponseFrame:
		delivered, dup := sess.Deliver(f.Sequence, f, time.Now())
		if dup {
			return
		}
		if f.RequestAck != nil {
			sess.AckThrough(*f.RequestAck - 1)
		}
		for _, item := range delivered {
			resp, ok := item.(*wire.ResponseFrame)
			if !ok {
				continue
			}
			d.processResponse(sess, resp)
		}
	case *wire.UpdateFrame:
		d.processUpdate(sess, f)
	default:
		d.log(logging.Warn, "dispatcher: unexpected frame type %T from server", f)
	}
}

func (d *Dispatcher) processResponse(sess *session.Session, resp *wire.ResponseFrame) {
	switch code := resp.Code.(type) {
	case wire.RespOK:
	case wire.RespLoggedIn:
		sess.Cookie = code.Cookie
		sess.State = session.Connected
		d.emit(NotifyLoggedIn{ServerVersion: code.ServerVersion})
	case wire.RespJoinedRoom:
		sess.Room = code.Name
		d.emit(NotifyJoinedRoom{Name: code.Name})
	case wire.RespLeaveRoom:
		sess.Room = ""
		d.emit(NotifyLeftRoom{})
	case wire.RespPlayerList:
		d.emit(NotifyPlayerList{Names: code.Names})
	case wire.RespRoomList:
		d.emit(NotifyRoomList{Rooms: code.Rooms})
	case wire.RespBadRequest:
		d.emit(NotifyBadRequest{Msg: code.Msg})
	case wire.RespUnauthorized:
		sess.Reset()
		d.emit(NotifyServerError{Msg: code.Msg})
	case wire.RespTooManyRequests:
		d.emit(NotifyBadRequest{Msg: code.Msg})
	case wire.RespServerError:
		d.emit(NotifyServerError{Msg: code.Msg})
	case wire.RespNotConnected:
		sess.Reset()
		d.emit(NotifyServerError{Msg: code.Msg})
	case wire.RespKeepAlive:
	}
}

func (d *Dispatcher) processUpdate(sess *session.Session, f *wire.UpdateFrame) {
	if f.Chats != nil {
		if delivered := sess.DeliverChats(*f.Chats); len(delivered) > 0 {
			lines := make([]ChatLine, len(delivered))
			for i, c := range delivered {
				lines[i] = ChatLine{Sender: c.PlayerName, Text: c.Text}
			}
			d.emit(NotifyChatMessages{Messages: lines})
		}
	}
	if _, noChange := f.UniverseUpdate.(wire.UniNoChange); !noChange {
		d.emit(NotifyUniverseUpdate{Update: f.UniverseUpdate})
	}

	reply := &wire.UpdateReplyFrame{
		Cookie:      sess.Cookie,
		LastChatSeq: sess.LastChatSeq(),
	}
	if f.GameUpdates != nil && len(*f.GameUpdates) > 0 {
		last := (*f.GameUpdates)[len(*f.GameUpdates)-1]
		reply.LastGameUpdateSeq = last.Seq
	}
	if gen, ok := currentGen(f.UniverseUpdate); ok {
		reply.LastGen = &gen
	}
	d.transmit(sess.Endpoint, reply)
}

func currentGen(u wire.UniUpdate) (uint64, bool) {
	switch v := u.(type) {
	case wire.GenState:
		return v.Gen, true
	case wire.GenStateDiff:
		return v.NewGen, true
	default:
		return 0, false
	}
}
