package netwayste

import "github.com/conwayste/netwayste/internal/dispatcher"

// The Command and Notification vocabulary is defined in
// internal/dispatcher, which an external module cannot import
// directly (it sits under internal/). These aliases re-export it
// under the public facade so a caller can type-switch on
// notifications using only this package.

type (
	Command      = dispatcher.Command
	Notification = dispatcher.Notification
	Stats        = dispatcher.Stats
	ChatLine     = dispatcher.ChatLine

	CmdNone        = dispatcher.CmdNone
	CmdConnect     = dispatcher.CmdConnect
	CmdDisconnect  = dispatcher.CmdDisconnect
	CmdList        = dispatcher.CmdList
	CmdChatMessage = dispatcher.CmdChatMessage
	CmdNewRoom     = dispatcher.CmdNewRoom
	CmdJoinRoom    = dispatcher.CmdJoinRoom
	CmdLeaveRoom   = dispatcher.CmdLeaveRoom

	NotifyLoggedIn       = dispatcher.NotifyLoggedIn
	NotifyJoinedRoom     = dispatcher.NotifyJoinedRoom
	NotifyLeftRoom       = dispatcher.NotifyLeftRoom
	NotifyPlayerList     = dispatcher.NotifyPlayerList
	NotifyRoomList       = dispatcher.NotifyRoomList
	NotifyChatMessages   = dispatcher.NotifyChatMessages
	NotifyUniverseUpdate = dispatcher.NotifyUniverseUpdate
	NotifyBadRequest     = dispatcher.NotifyBadRequest
	NotifyServerError    = dispatcher.NotifyServerError
)
