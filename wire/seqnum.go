package wire

// SeqNum is a 64-bit sequence number that wraps. Comparisons are
// wrap-aware using the "half-space" rule: a is considered older than
// b when (b - a) mod 2^64 < 2^63. This lets a sequence counter wrap
// from 2^64-1 back to 0 without the receiver mistaking the wrap for
// the peer going backwards.
type SeqNum uint64

// halfSpace is 2^63: the boundary past which a forward distance is
// reinterpreted as the other sequence number being older instead.
const halfSpace = uint64(1) << 63

// OlderThan reports whether s is wrap-aware older than other.
func (s SeqNum) OlderThan(other SeqNum) bool {
	return uint64(other-s) < halfSpace && s != other
}

// AtOrBefore reports whether s is other or wrap-aware older than it.
func (s SeqNum) AtOrBefore(other SeqNum) bool {
	return s == other || s.OlderThan(other)
}

// Next returns the sequence number following s, wrapping from
// 2^64-1 to 0.
func (s SeqNum) Next() SeqNum {
	return s + 1
}

// Distance returns the wrap-aware forward distance from s to other,
// i.e. how many increments of s reach other, assuming other is not
// wrap-older than s.
func (s SeqNum) Distance(other SeqNum) uint64 {
	return uint64(other - s)
}

// FarFrom reports whether s differs from other by more than half the
// sequence space -- the signal that inserting s next to other in an
// ordered queue would straddle the 2^64 boundary and needs a wrap
// marker rather than a plain ordered insert.
func (s SeqNum) FarFrom(other SeqNum) bool {
	var diff uint64
	if s > other {
		diff = uint64(s - other)
	} else {
		diff = uint64(other - s)
	}
	return diff > halfSpace
}
