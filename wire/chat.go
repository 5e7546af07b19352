package wire

// ChatMsg is a single chat line broadcast to a room. ChatSeq is
// assigned by the server and is monotonic per room per client; it is
// nil for chats that exist only inside the server (never yet sent to
// a client).
type ChatMsg struct {
	ChatSeq    *uint64
	PlayerName string
	Text       string
}

func encodeChatMsg(w *writer, c ChatMsg) error {
	w.putOptionalUint64(c.ChatSeq)
	if err := w.putString(c.PlayerName); err != nil {
		return err
	}
	return w.putString(c.Text)
}

func decodeChatMsg(r *reader) (ChatMsg, bool) {
	seq, ok := r.getOptionalUint64()
	if !ok {
		return ChatMsg{}, false
	}
	name, ok := r.getString()
	if !ok {
		return ChatMsg{}, false
	}
	text, ok := r.getString()
	if !ok {
		return ChatMsg{}, false
	}
	return ChatMsg{ChatSeq: seq, PlayerName: name, Text: text}, true
}

func encodeChatList(w *writer, chats *[]ChatMsg) error {
	if chats == nil {
		w.putUint8(0)
		return nil
	}
	w.putUint8(1)
	w.putUint64(uint64(len(*chats)))
	for _, c := range *chats {
		if err := encodeChatMsg(w, c); err != nil {
			return err
		}
	}
	return nil
}

func decodeChatList(r *reader) (*[]ChatMsg, bool) {
	present, ok := r.getBool()
	if !ok {
		return nil, false
	}
	if !present {
		return nil, true
	}
	n, ok := r.getUint64()
	if !ok || n > uint64(r.remaining()) {
		return nil, false
	}
	chats := make([]ChatMsg, 0, n)
	for i := uint64(0); i < n; i++ {
		c, ok := decodeChatMsg(r)
		if !ok {
			return nil, false
		}
		chats = append(chats, c)
	}
	return &chats, true
}
