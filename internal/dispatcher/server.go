package dispatcher

import (
	"time"

	"github.com/conwayste/netwayste/internal/session"
	"github.com/conwayste/netwayste/logging"
	"github.com/conwayste/netwayste/wire"
)

func (d *Dispatcher) handleDatagram(dg inboundDatagram) {
	frame, ok := wire.Decode(dg.data)
	if !ok {
		d.log(logging.Warn, "dispatcher: dropping malformed datagram from %s", dg.addr)
		return
	}

	switch d.role {
	case session.ClientRole:
		d.handleClientFrame(frame)
	case session.ServerRole:
		ep := wire.NewEndpoint(dg.addr)
		d.peerAddrs[ep] = dg.addr
		d.handleServerFrame(ep, frame)
	}
}

func (d *Dispatcher) handleServerFrame(ep wire.Endpoint, frame wire.Frame) {
	req, ok := frame.(*wire.RequestFrame)
	if !ok {
		// Unknown endpoint sending non-Request (or a Request-role peer
		// receiving Update/Reply traffic meant for a client): drop
		// silently, per the failure-policy table.
		return
	}

	_, isConnect := req.Action.(wire.ActionConnect)
	sess, exists := d.sessions[ep]
	if !exists {
		if !isConnect {
			return
		}
		sess = session.New(session.ServerRole, ep)
		d.sessions[ep] = sess
	}

	if !isConnect {
		if sess.Cookie == "" || req.Cookie == nil || *req.Cookie != sess.Cookie {
			d.log(logging.Warn, "dispatcher: unauthorized request from %s", ep)
			d.sendResponse(sess, wire.RespUnauthorized{})
			return
		}
	}

	delivered, dup := sess.Deliver(req.Sequence, req, time.Now())
	if dup {
		return
	}
	if req.ResponseAck != nil {
		sess.AckThrough(*req.ResponseAck - 1)
	}
	for _, item := range delivered {
		r, ok := item.(*wire.RequestFrame)
		if !ok {
			continue
		}
		d.handleRequest(sess, r)
	}
}

func (d *Dispatcher) handleRequest(sess *session.Session, req *wire.RequestFrame) {
	switch a := req.Action.(type) {
	case wire.ActionNone:
		d.sendResponse(sess, wire.RespOK{})
	case wire.ActionConnect:
		sess.Name = a.Name
		sess.Cookie = newCookie()
		sess.State = session.Connected
		d.sendResponse(sess, wire.RespLoggedIn{Cookie: sess.Cookie, ServerVersion: d.cfg.ServerVersion})
	case wire.ActionDisconnect:
		d.leaveRoom(sess)
		d.sendResponse(sess, wire.RespOK{})
		sess.Reset()
	case wire.ActionKeepAlive:
		d.sendResponse(sess, wire.RespKeepAlive{})
	case wire.ActionListPlayers:
		if sess.Room == "" {
			d.sendResponse(sess, wire.RespBadRequest{Msg: strPtr("not in a room")})
			return
		}
		d.sendResponse(sess, wire.RespPlayerList{Names: d.roomRoster(sess.Room)})
	case wire.ActionChatMessage:
		if sess.Room == "" {
			d.sendResponse(sess, wire.RespBadRequest{Msg: strPtr("not in a room")})
			return
		}
		d.broadcastChat(sess.Room, wire.ChatMsg{PlayerName: sess.Name, Text: a.Text})
		d.sendResponse(sess, wire.RespOK{})
	case wire.ActionListRooms:
		d.sendResponse(sess, wire.RespRoomList{Rooms: d.roomList()})
	case wire.ActionNewRoom:
		if sess.Room != "" {
			d.sendResponse(sess, wire.RespBadRequest{Msg: strPtr("already in a room")})
			return
		}
		if _, exists := d.rooms[a.Name]; exists {
			d.sendResponse(sess, wire.RespBadRequest{Msg: strPtr("room already exists")})
			return
		}
		d.rooms[a.Name] = &room{name: a.Name, members: map[wire.Endpoint]bool{sess.Endpoint: true}}
		sess.Room = a.Name
		d.sendResponse(sess, wire.RespJoinedRoom{Name: a.Name})
		d.broadcastRoster(a.Name)
	case wire.ActionJoinRoom:
		if sess.Room != "" {
			d.sendResponse(sess, wire.RespBadRequest{Msg: strPtr("already in a room")})
			return
		}
		r, exists := d.rooms[a.Name]
		if !exists {
			d.sendResponse(sess, wire.RespBadRequest{Msg: strPtr("no such room")})
			return
		}
		r.members[sess.Endpoint] = true
		sess.Room = a.Name
		d.sendResponse(sess, wire.RespJoinedRoom{Name: a.Name})
		d.broadcastRoster(a.Name)
	case wire.ActionLeaveRoom:
		if sess.Room == "" {
			d.sendResponse(sess, wire.RespBadRequest{Msg: strPtr("not in a room")})
			return
		}
		left := sess.Room
		d.leaveRoom(sess)
		d.sendResponse(sess, wire.RespLeaveRoom{})
		d.broadcastRoster(left)
	}
}

// Rooms returns the names of every room currently open. Used by a
// Server's universe-broadcast scheduler to know which rooms to poll.
func (d *Dispatcher) Rooms() []string {
	names := make([]string, 0, len(d.rooms))
	for name := range d.rooms {
		names = append(names, name)
	}
	return names
}

// PublishUniverseUpdate sends update to every member of room in an
// Update frame that carries no chats and no game updates. A
// non-existent room is a silent no-op: the room may have closed
// between the scheduler's poll and this call.
func (d *Dispatcher) PublishUniverseUpdate(roomName string, update wire.UniUpdate) {
	r, exists := d.rooms[roomName]
	if !exists {
		return
	}
	for ep := range r.members {
		member, ok := d.sessions[ep]
		if !ok {
			continue
		}
		d.transmit(member.Endpoint, &wire.UpdateFrame{UniverseUpdate: update})
	}
}

func (d *Dispatcher) leaveRoom(sess *session.Session) {
	if sess.Room == "" {
		return
	}
	if r, exists := d.rooms[sess.Room]; exists {
		delete(r.members, sess.Endpoint)
		if len(r.members) == 0 {
			delete(d.rooms, sess.Room)
		}
	}
	sess.Room = ""
}

func (d *Dispatcher) roomRoster(name string) []string {
	r, exists := d.rooms[name]
	if !exists {
		return nil
	}
	names := make([]string, 0, len(r.members))
	for ep := range r.members {
		if member, ok := d.sessions[ep]; ok {
			names = append(names, member.Name)
		}
	}
	return names
}

func (d *Dispatcher) roomList() []wire.RoomInfo {
	rooms := make([]wire.RoomInfo, 0, len(d.rooms))
	for _, r := range d.rooms {
		rooms = append(rooms, wire.RoomInfo{Name: r.name, Players: uint64(len(r.members))})
	}
	return rooms
}

// broadcastRoster sends every member of room a GameUpdate carrying the
// refreshed player list, stamped with the room's own GameUpdate
// sequence counter (distinct from any one session's sequence state,
// since it is a property of the room, not of a single peer).
func (d *Dispatcher) broadcastRoster(roomName string) {
	r, exists := d.rooms[roomName]
	if !exists {
		return
	}
	r.gameUpdateSeq++
	seq := r.gameUpdateSeq
	updates := []wire.GameUpdate{{Seq: &seq, Kind: wire.NewUserList{Names: d.roomRoster(roomName)}}}
	for ep := range r.members {
		member, ok := d.sessions[ep]
		if !ok {
			continue
		}
		d.transmit(member.Endpoint, &wire.UpdateFrame{
			GameUpdates:    &updates,
			UniverseUpdate: wire.UniNoChange{},
		})
	}
}

// broadcastChat queues a chat message for every member of room by
// sending each an Update frame carrying just the chat, stamped with
// that member's own ChatSeq counter so each client sees a strictly
// increasing chat sequence whoever sent the chat. A full
// implementation would coalesce this with pending universe updates on
// the next scheduled broadcast; here every chat gets its own Update
// for simplicity, since batching policy belongs to the game-rules
// engine the Dispatcher doesn't own.
func (d *Dispatcher) broadcastChat(roomName string, chat wire.ChatMsg) {
	r, exists := d.rooms[roomName]
	if !exists {
		return
	}
	for ep := range r.members {
		member, ok := d.sessions[ep]
		if !ok {
			continue
		}
		member.ChatSeq++
		seq := member.ChatSeq
		stamped := chat
		stamped.ChatSeq = &seq
		chats := []wire.ChatMsg{stamped}
		update := &wire.UpdateFrame{
			Chats:          &chats,
			UniverseUpdate: wire.UniNoChange{},
		}
		d.transmit(member.Endpoint, update)
	}
}
