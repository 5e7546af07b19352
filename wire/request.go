package wire

// RequestAction discriminant order, fixed by the wire format: the
// uint32 tag on a Request frame's action is the variant's position in
// this list.
const (
	tagActionNone uint32 = iota
	tagActionConnect
	tagActionDisconnect
	tagActionKeepAlive
	tagActionListPlayers
	tagActionChatMessage
	tagActionListRooms
	tagActionNewRoom
	tagActionJoinRoom
	tagActionLeaveRoom
)

// RequestAction is the payload a client Request frame carries. It is
// one of the concrete Action* types below.
type RequestAction interface {
	requestActionTag() uint32
}

// ActionNone is never actually sent; it exists so RequestAction has a
// zero-ish default matching the wire discriminant 0.
type ActionNone struct{}

// ActionConnect asks the server to start a session for name running
// protocol-compatible client version clientVersion.
type ActionConnect struct {
	Name          string
	ClientVersion string
}

// ActionDisconnect ends the session gracefully.
type ActionDisconnect struct{}

// ActionKeepAlive is the client's periodic liveness ping, carrying the
// lowest response sequence number the client has not yet delivered (0
// before any response has arrived).
type ActionKeepAlive struct {
	LatestResponseAck uint64
}

// ActionListPlayers asks for the roster of the room the client is in.
type ActionListPlayers struct{}

// ActionChatMessage sends free text to the current room.
type ActionChatMessage struct {
	Text string
}

// ActionListRooms asks for the lobby's room list.
type ActionListRooms struct{}

// ActionNewRoom creates a room and joins it.
type ActionNewRoom struct {
	Name string
}

// ActionJoinRoom joins an existing room.
type ActionJoinRoom struct {
	Name string
}

// ActionLeaveRoom returns the client to the lobby.
type ActionLeaveRoom struct{}

func (ActionNone) requestActionTag() uint32        { return tagActionNone }
func (ActionConnect) requestActionTag() uint32     { return tagActionConnect }
func (ActionDisconnect) requestActionTag() uint32  { return tagActionDisconnect }
func (ActionKeepAlive) requestActionTag() uint32   { return tagActionKeepAlive }
func (ActionListPlayers) requestActionTag() uint32 { return tagActionListPlayers }
func (ActionChatMessage) requestActionTag() uint32 { return tagActionChatMessage }
func (ActionListRooms) requestActionTag() uint32   { return tagActionListRooms }
func (ActionNewRoom) requestActionTag() uint32     { return tagActionNewRoom }
func (ActionJoinRoom) requestActionTag() uint32    { return tagActionJoinRoom }
func (ActionLeaveRoom) requestActionTag() uint32   { return tagActionLeaveRoom }

func encodeRequestAction(w *writer, a RequestAction) error {
	w.putDiscriminant(a.requestActionTag())
	switch v := a.(type) {
	case ActionNone:
	case ActionConnect:
		if err := w.putString(v.Name); err != nil {
			return err
		}
		if err := w.putString(v.ClientVersion); err != nil {
			return err
		}
	case ActionDisconnect:
	case ActionKeepAlive:
		w.putUint64(v.LatestResponseAck)
	case ActionListPlayers:
	case ActionChatMessage:
		if err := w.putString(v.Text); err != nil {
			return err
		}
	case ActionListRooms:
	case ActionNewRoom:
		if err := w.putString(v.Name); err != nil {
			return err
		}
	case ActionJoinRoom:
		if err := w.putString(v.Name); err != nil {
			return err
		}
	case ActionLeaveRoom:
	}
	return nil
}

func decodeRequestAction(r *reader) (RequestAction, bool) {
	tag, ok := r.getDiscriminant()
	if !ok {
		return nil, false
	}
	switch tag {
	case tagActionNone:
		return ActionNone{}, true
	case tagActionConnect:
		name, ok := r.getString()
		if !ok {
			return nil, false
		}
		version, ok := r.getString()
		if !ok {
			return nil, false
		}
		return ActionConnect{Name: name, ClientVersion: version}, true
	case tagActionDisconnect:
		return ActionDisconnect{}, true
	case tagActionKeepAlive:
		ack, ok := r.getUint64()
		if !ok {
			return nil, false
		}
		return ActionKeepAlive{LatestResponseAck: ack}, true
	case tagActionListPlayers:
		return ActionListPlayers{}, true
	case tagActionChatMessage:
		text, ok := r.getString()
		if !ok {
			return nil, false
		}
		return ActionChatMessage{Text: text}, true
	case tagActionListRooms:
		return ActionListRooms{}, true
	case tagActionNewRoom:
		name, ok := r.getString()
		if !ok {
			return nil, false
		}
		return ActionNewRoom{Name: name}, true
	case tagActionJoinRoom:
		name, ok := r.getString()
		if !ok {
			return nil, false
		}
		return ActionJoinRoom{Name: name}, true
	case tagActionLeaveRoom:
		return ActionLeaveRoom{}, true
	default:
		return nil, false
	}
}
