package dispatcher

import "github.com/conwayste/netwayste/wire"

// Notification is something the Dispatcher reports to the application
// above. It is one of the concrete Notify* types below.
type Notification interface {
	isNotification()
}

// ChatLine is one delivered chat message, already stripped of its
// wire-level sequence bookkeeping.
type ChatLine struct {
	Sender string
	Text   string
}

// NotifyLoggedIn reports a successful Connect.
type NotifyLoggedIn struct {
	ServerVersion string
}

// NotifyJoinedRoom reports a successful NewRoom or JoinRoom.
type NotifyJoinedRoom struct {
	Name string
}

// NotifyLeftRoom reports a successful LeaveRoom.
type NotifyLeftRoom struct{}

// NotifyPlayerList answers a List command issued from within a room.
type NotifyPlayerList struct {
	Names []string
}

// NotifyRoomList answers a List command issued from the lobby.
type NotifyRoomList struct {
	Rooms []wire.RoomInfo
}

// NotifyChatMessages delivers newly received chat lines, in order.
type NotifyChatMessages struct {
	Messages []ChatLine
}

// NotifyUniverseUpdate forwards one Update frame's universe payload
// (a GenState or GenStateDiff) to the application; an Update carrying
// UniNoChange produces no NotifyUniverseUpdate. Interpreting the
// payload is the game-rules engine's job.
type NotifyUniverseUpdate struct {
	Update wire.UniUpdate
}

// NotifyBadRequest reports a rejected command or a server 4xx-style
// response. Msg is nil when the peer gave no detail.
type NotifyBadRequest struct {
	Msg *string
}

// NotifyServerError reports a server 5xx-style response, an
// unauthorized response, or a local session reset (e.g. timeout).
type NotifyServerError struct {
	Msg *string
}

func (NotifyLoggedIn) isNotification()       {}
func (NotifyJoinedRoom) isNotification()     {}
func (NotifyLeftRoom) isNotification()       {}
func (NotifyPlayerList) isNotification()     {}
func (NotifyRoomList) isNotification()       {}
func (NotifyChatMessages) isNotification()   {}
func (NotifyUniverseUpdate) isNotification() {}
func (NotifyBadRequest) isNotification()     {}
func (NotifyServerError) isNotification()    {}
