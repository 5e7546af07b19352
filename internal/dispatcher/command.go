package dispatcher

// Command is something the application above asks the Dispatcher to
// do. It is one of the concrete Cmd* types below.
type Command interface {
	isCommand()
}

// CmdNone does nothing; it exists so Command has a harmless zero
// value for collaborators that build commands conditionally.
type CmdNone struct{}

// CmdConnect starts a session under name, advertising version as the
// client's protocol version.
type CmdConnect struct {
	Name    string
	Version string
}

// CmdDisconnect ends the session, best-effort notifying the peer.
type CmdDisconnect struct{}

// CmdList asks for the room list (in the lobby) or the player list
// (in a room).
type CmdList struct{}

// CmdChatMessage sends text to the current room.
type CmdChatMessage struct {
	Text string
}

// CmdNewRoom creates and joins a room, valid only from the lobby.
type CmdNewRoom struct {
	Name string
}

// CmdJoinRoom joins an existing room, valid only from the lobby.
type CmdJoinRoom struct {
	Name string
}

// CmdLeaveRoom returns to the lobby, valid only from within a room.
type CmdLeaveRoom struct{}

func (CmdNone) isCommand()        {}
func (CmdConnect) isCommand()     {}
func (CmdDisconnect) isCommand()  {}
func (CmdList) isCommand()        {}
func (CmdChatMessage) isCommand() {}
func (CmdNewRoom) isCommand()     {}
func (CmdJoinRoom) isCommand()    {}
func (CmdLeaveRoom) isCommand()   {}
