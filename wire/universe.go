package wire

// UniUpdate discriminant order, fixed by the wire format.
const (
	tagUniState uint32 = iota
	tagUniDiff
	tagUniNoChange
)

// UniUpdate is the universe-update payload of an Update frame: a full
// snapshot, a diff against a known generation, or nothing changed.
type UniUpdate interface {
	uniUpdateTag() uint32
}

// GenState is a full universe snapshot at generation Gen, encoded as
// an RLE pattern (see package rle).
type GenState struct {
	Gen     uint64
	Pattern string
}

// GenStateDiff is the set of cell changes between OldGen and NewGen,
// encoded as an RLE pattern.
type GenStateDiff struct {
	OldGen  uint64
	NewGen  uint64
	Pattern string
}

// UniNoChange means the universe hasn't advanced since the last
// Update the client acknowledged.
type UniNoChange struct{}

func (GenState) uniUpdateTag() uint32     { return tagUniState }
func (GenStateDiff) uniUpdateTag() uint32 { return tagUniDiff }
func (UniNoChange) uniUpdateTag() uint32  { return tagUniNoChange }

func encodeUniUpdate(w *writer, u UniUpdate) error {
	w.putDiscriminant(u.uniUpdateTag())
	switch v := u.(type) {
	case GenState:
		w.putUint64(v.Gen)
		if err := w.putString(v.Pattern); err != nil {
			return err
		}
	case GenStateDiff:
		w.putUint64(v.OldGen)
		w.putUint64(v.NewGen)
		if err := w.putString(v.Pattern); err != nil {
			return err
		}
	case UniNoChange:
	}
	return nil
}

func decodeUniUpdate(r *reader) (UniUpdate, bool) {
	tag, ok := r.getDiscriminant()
	if !ok {
		return nil, false
	}
	switch tag {
	case tagUniState:
		gen, ok := r.getUint64()
		if !ok {
			return nil, false
		}
		pattern, ok := r.getString()
		if !ok {
			return nil, false
		}
		return GenState{Gen: gen, Pattern: pattern}, true
	case tagUniDiff:
		oldGen, ok := r.getUint64()
		if !ok {
			return nil, false
		}
		newGen, ok := r.getUint64()
		if !ok {
			return nil, false
		}
		pattern, ok := r.getString()
		if !ok {
			return nil, false
		}
		return GenStateDiff{OldGen: oldGen, NewGen: newGen, Pattern: pattern}, true
	case tagUniNoChange:
		return UniNoChange{}, true
	default:
		return nil, false
	}
}
