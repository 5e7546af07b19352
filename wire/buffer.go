package wire

import (
	"bytes"
	"encoding/binary"
	"math"
)

// writer accumulates an encoded Frame. It mirrors the put* helpers
// the teacher's generated request encoders call (putUint64, putString,
// ...), generalized to this protocol's length-prefixed encoding
// instead of the teacher's word-aligned one.
type writer struct {
	buf bytes.Buffer
}

func newWriter() *writer {
	return &writer{}
}

func (w *writer) bytes() []byte {
	return w.buf.Bytes()
}

func (w *writer) putUint8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *writer) putBool(v bool) {
	if v {
		w.putUint8(1)
	} else {
		w.putUint8(0)
	}
}

func (w *writer) putUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) putUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) putString(s string) error {
	if uint64(len(s)) > math.MaxUint64 {
		return ErrStringTooLarge
	}
	w.putUint64(uint64(len(s)))
	w.buf.WriteString(s)
	return nil
}

func (w *writer) putOptionalUint64(v *uint64) {
	if v == nil {
		w.putUint8(0)
		return
	}
	w.putUint8(1)
	w.putUint64(*v)
}

func (w *writer) putOptionalString(s *string) error {
	if s == nil {
		w.putUint8(0)
		return nil
	}
	w.putUint8(1)
	return w.putString(*s)
}

func (w *writer) putDiscriminant(d uint32) {
	w.putUint32(d)
}

func (w *writer) putStringList(items []string) error {
	w.putUint64(uint64(len(items)))
	for _, s := range items {
		if err := w.putString(s); err != nil {
			return err
		}
	}
	return nil
}

// reader consumes an encoded Frame, failing closed: any short read or
// out-of-range length is reported via ok=false rather than a panic or
// error, since Decode's contract is a silent drop on malformed input.
type reader struct {
	data []byte
	off  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) getUint8() (uint8, bool) {
	if r.remaining() < 1 {
		return 0, false
	}
	v := r.data[r.off]
	r.off++
	return v, true
}

func (r *reader) getBool() (bool, bool) {
	v, ok := r.getUint8()
	return v != 0, ok
}

func (r *reader) getUint32() (uint32, bool) {
	if r.remaining() < 4 {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, true
}

func (r *reader) getUint64() (uint64, bool) {
	if r.remaining() < 8 {
		return 0, false
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v, true
}

// getString rejects a length prefix bigger than the remaining
// datagram: Decode "never allocates more than the input size", so
// such a prefix is always bogus. getStringList applies the same bound.
func (r *reader) getString() (string, bool) {
	n, ok := r.getUint64()
	if !ok || n > uint64(r.remaining()) {
		return "", false
	}
	s := string(r.data[r.off : r.off+int(n)])
	r.off += int(n)
	return s, true
}

func (r *reader) getOptionalUint64() (*uint64, bool) {
	present, ok := r.getBool()
	if !ok {
		return nil, false
	}
	if !present {
		return nil, true
	}
	v, ok := r.getUint64()
	if !ok {
		return nil, false
	}
	return &v, true
}

func (r *reader) getOptionalString() (*string, bool) {
	present, ok := r.getBool()
	if !ok {
		return nil, false
	}
	if !present {
		return nil, true
	}
	s, ok := r.getString()
	if !ok {
		return nil, false
	}
	return &s, true
}

func (r *reader) getDiscriminant() (uint32, bool) {
	return r.getUint32()
}

func (r *reader) getStringList() ([]string, bool) {
	n, ok := r.getUint64()
	if !ok || n > uint64(r.remaining()) {
		return nil, false
	}
	items := make([]string, 0, n)
	for i := uint64(0); i < n; i++ {
		s, ok := r.getString()
		if !ok {
			return nil, false
		}
		items = append(items, s)
	}
	return items, true
}
