package wire

// Encode serializes f into its wire representation. It returns an
// error only for pathological inputs (a string too large to
// length-prefix); ordinary frames always succeed.
func Encode(f Frame) ([]byte, error) {
	w := newWriter()
	w.putDiscriminant(f.frameTag())
	switch v := f.(type) {
	case *RequestFrame:
		if err := encodeRequestFrame(w, v); err != nil {
			return nil, err
		}
	case *ResponseFrame:
		if err := encodeResponseFrame(w, v); err != nil {
			return nil, err
		}
	case *UpdateFrame:
		if err := encodeUpdateFrame(w, v); err != nil {
			return nil, err
		}
	case *UpdateReplyFrame:
		if err := encodeUpdateReplyFrame(w, v); err != nil {
			return nil, err
		}
	}
	return w.bytes(), nil
}

// Decode parses data into a Frame. It reports ok=false rather than an
// error on any malformed or truncated input: a bad datagram from the
// network is silently dropped by the caller, never a crash.
func Decode(data []byte) (Frame, bool) {
	r := newReader(data)
	tag, ok := r.getDiscriminant()
	if !ok {
		return nil, false
	}
	switch tag {
	case tagFrameRequest:
		return decodeRequestFrame(r)
	case tagFrameResponse:
		return decodeResponseFrame(r)
	case tagFrameUpdate:
		return decodeUpdateFrame(r)
	case tagFrameUpdateReply:
		return decodeUpdateReplyFrame(r)
	default:
		return nil, false
	}
}

func encodeRequestFrame(w *writer, f *RequestFrame) error {
	w.putUint64(uint64(f.Sequence))
	w.putOptionalUint64(f.ResponseAck)
	if err := w.putOptionalString(f.Cookie); err != nil {
		return err
	}
	return encodeRequestAction(w, f.Action)
}

func decodeRequestFrame(r *reader) (Frame, bool) {
	seq, ok := r.getUint64()
	if !ok {
		return nil, false
	}
	responseAck, ok := r.getOptionalUint64()
	if !ok {
		return nil, false
	}
	cookie, ok := r.getOptionalString()
	if !ok {
		return nil, false
	}
	action, ok := decodeRequestAction(r)
	if !ok {
		return nil, false
	}
	return &RequestFrame{
		Sequence:    SeqNum(seq),
		ResponseAck: responseAck,
		Cookie:      cookie,
		Action:      action,
	}, true
}

func encodeResponseFrame(w *writer, f *ResponseFrame) error {
	w.putUint64(uint64(f.Sequence))
	w.putOptionalUint64(f.RequestAck)
	return encodeResponseCode(w, f.Code)
}

func decodeResponseFrame(r *reader) (Frame, bool) {
	seq, ok := r.getUint64()
	if !ok {
		return nil, false
	}
	requestAck, ok := r.getOptionalUint64()
	if !ok {
		return nil, false
	}
	code, ok := decodeResponseCode(r)
	if !ok {
		return nil, false
	}
	return &ResponseFrame{
		Sequence:   SeqNum(seq),
		RequestAck: requestAck,
		Code:       code,
	}, true
}

func encodeUpdateFrame(w *writer, f *UpdateFrame) error {
	if err := encodeChatList(w, f.Chats); err != nil {
		return err
	}
	if err := encodeGameUpdateList(w, f.GameUpdates); err != nil {
		return err
	}
	return encodeUniUpdate(w, f.UniverseUpdate)
}

func decodeUpdateFrame(r *reader) (Frame, bool) {
	chats, ok := decodeChatList(r)
	if !ok {
		return nil, false
	}
	gameUpdates, ok := decodeGameUpdateList(r)
	if !ok {
		return nil, false
	}
	uni, ok := decodeUniUpdate(r)
	if !ok {
		return nil, false
	}
	return &UpdateFrame{
		Chats:          chats,
		GameUpdates:    gameUpdates,
		UniverseUpdate: uni,
	}, true
}

func encodeUpdateReplyFrame(w *writer, f *UpdateReplyFrame) error {
	if err := w.putString(f.Cookie); err != nil {
		return err
	}
	w.putOptionalUint64(f.LastChatSeq)
	w.putOptionalUint64(f.LastGameUpdateSeq)
	w.putOptionalUint64(f.LastGen)
	return nil
}

func decodeUpdateReplyFrame(r *reader) (Frame, bool) {
	cookie, ok := r.getString()
	if !ok {
		return nil, false
	}
	lastChatSeq, ok := r.getOptionalUint64()
	if !ok {
		return nil, false
	}
	lastGameUpdateSeq, ok := r.getOptionalUint64()
	if !ok {
		return nil, false
	}
	lastGen, ok := r.getOptionalUint64()
	if !ok {
		return nil, false
	}
	return &UpdateReplyFrame{
		Cookie:            cookie,
		LastChatSeq:       lastChatSeq,
		LastGameUpdateSeq: lastGameUpdateSeq,
		LastGen:           lastGen,
	}, true
}
