package wire

// ResponseCode discriminant order, fixed by the wire format.
const (
	tagRespOK uint32 = iota
	tagRespLoggedIn
	tagRespJoinedRoom
	tagRespLeaveRoom
	tagRespPlayerList
	tagRespRoomList
	tagRespBadRequest
	tagRespUnauthorized
	tagRespTooManyRequests
	tagRespServerError
	tagRespNotConnected
	tagRespKeepAlive
)

// ResponseCode is the payload a server Response frame carries. It is
// one of the concrete Resp* types below, loosely modeled after HTTP
// status semantics the way the original protocol does.
type ResponseCode interface {
	responseCodeTag() uint32
}

// RespOK is a bare 200-equivalent: request succeeded, no data.
type RespOK struct{}

// RespLoggedIn answers a successful Connect with the session cookie
// and the server's own version string.
type RespLoggedIn struct {
	Cookie        string
	ServerVersion string
}

// RespJoinedRoom confirms a JoinRoom or NewRoom.
type RespJoinedRoom struct {
	Name string
}

// RespLeaveRoom confirms a LeaveRoom.
type RespLeaveRoom struct{}

// RespPlayerList answers ListPlayers.
type RespPlayerList struct {
	Names []string
}

// RoomInfo describes one lobby room.
type RoomInfo struct {
	Name    string
	Players uint64
	Started bool
}

// RespRoomList answers ListRooms.
type RespRoomList struct {
	Rooms []RoomInfo
}

// RespBadRequest is a 400-equivalent: the client's fault.
type RespBadRequest struct {
	Msg *string
}

// RespUnauthorized is a 401-equivalent: missing or invalid cookie.
type RespUnauthorized struct {
	Msg *string
}

// RespTooManyRequests is a 429-equivalent.
type RespTooManyRequests struct {
	Msg *string
}

// RespServerError is a 500-equivalent.
type RespServerError struct {
	Msg *string
}

// RespNotConnected has no HTTP equivalent: it means the request
// arrived before any successful Connect.
type RespNotConnected struct {
	Msg *string
}

// RespKeepAlive is the server's heartbeat reply.
type RespKeepAlive struct{}

func (RespOK) responseCodeTag() uint32              { return tagRespOK }
func (RespLoggedIn) responseCodeTag() uint32        { return tagRespLoggedIn }
func (RespJoinedRoom) responseCodeTag() uint32      { return tagRespJoinedRoom }
func (RespLeaveRoom) responseCodeTag() uint32       { return tagRespLeaveRoom }
func (RespPlayerList) responseCodeTag() uint32      { return tagRespPlayerList }
func (RespRoomList) responseCodeTag() uint32        { return tagRespRoomList }
func (RespBadRequest) responseCodeTag() uint32      { return tagRespBadRequest }
func (RespUnauthorized) responseCodeTag() uint32    { return tagRespUnauthorized }
func (RespTooManyRequests) responseCodeTag() uint32 { return tagRespTooManyRequests }
func (RespServerError) responseCodeTag() uint32     { return tagRespServerError }
func (RespNotConnected) responseCodeTag() uint32    { return tagRespNotConnected }
func (RespKeepAlive) responseCodeTag() uint32       { return tagRespKeepAlive }

func encodeResponseCode(w *writer, c ResponseCode) error {
	w.putDiscriminant(c.responseCodeTag())
	switch v := c.(type) {
	case RespOK:
	case RespLoggedIn:
		if err := w.putString(v.Cookie); err != nil {
			return err
		}
		if err := w.putString(v.ServerVersion); err != nil {
			return err
		}
	case RespJoinedRoom:
		if err := w.putString(v.Name); err != nil {
			return err
		}
	case RespLeaveRoom:
	case RespPlayerList:
		if err := w.putStringList(v.Names); err != nil {
			return err
		}
	case RespRoomList:
		w.putUint64(uint64(len(v.Rooms)))
		for _, room := range v.Rooms {
			if err := w.putString(room.Name); err != nil {
				return err
			}
			w.putUint64(room.Players)
			w.putBool(room.Started)
		}
	case RespBadRequest:
		if err := w.putOptionalString(v.Msg); err != nil {
			return err
		}
	case RespUnauthorized:
		if err := w.putOptionalString(v.Msg); err != nil {
			return err
		}
	case RespTooManyRequests:
		if err := w.putOptionalString(v.Msg); err != nil {
			return err
		}
	case RespServerError:
		if err := w.putOptionalString(v.Msg); err != nil {
			return err
		}
	case RespNotConnected:
		if err := w.putOptionalString(v.Msg); err != nil {
			return err
		}
	case RespKeepAlive:
	}
	return nil
}

func decodeResponseCode(r *reader) (ResponseCode, bool) {
	tag, ok := r.getDiscriminant()
	if !ok {
		return nil, false
	}
	switch tag {
	case tagRespOK:
		return RespOK{}, true
	case tagRespLoggedIn:
		cookie, ok := r.getString()
		if !ok {
			return nil, false
		}
		version, ok := r.getString()
		if !ok {
			return nil, false
		}
		return RespLoggedIn{Cookie: cookie, ServerVersion: version}, true
	case tagRespJoinedRoom:
		name, ok := r.getString()
		if !ok {
			return nil, false
		}
		return RespJoinedRoom{Name: name}, true
	case tagRespLeaveRoom:
		return RespLeaveRoom{}, true
	case tagRespPlayerList:
		names, ok := r.getStringList()
		if !ok {
			return nil, false
		}
		return RespPlayerList{Names: names}, true
	case tagRespRoomList:
		n, ok := r.getUint64()
		if !ok || n > uint64(r.remaining()) {
			return nil, false
		}
		rooms := make([]RoomInfo, 0, n)
		for i := uint64(0); i < n; i++ {
			name, ok := r.getString()
			if !ok {
				return nil, false
			}
			players, ok := r.getUint64()
			if !ok {
				return nil, false
			}
			started, ok := r.getBool()
			if !ok {
				return nil, false
			}
			rooms = append(rooms, RoomInfo{Name: name, Players: players, Started: started})
		}
		return RespRoomList{Rooms: rooms}, true
	case tagRespBadRequest:
		msg, ok := r.getOptionalString()
		if !ok {
			return nil, false
		}
		return RespBadRequest{Msg: msg}, true
	case tagRespUnauthorized:
		msg, ok := r.getOptionalString()
		if !ok {
			return nil, false
		}
		return RespUnauthorized{Msg: msg}, true
	case tagRespTooManyRequests:
		msg, ok := r.getOptionalString()
		if !ok {
			return nil, false
		}
		return RespTooManyRequests{Msg: msg}, true
	case tagRespServerError:
		msg, ok := r.getOptionalString()
		if !ok {
			return nil, false
		}
		return RespServerError{Msg: msg}, true
	case tagRespNotConnected:
		msg, ok := r.getOptionalString()
		if !ok {
			return nil, false
		}
		return RespNotConnected{Msg: msg}, true
	case tagRespKeepAlive:
		return RespKeepAlive{}, true
	default:
		return nil, false
	}
}
