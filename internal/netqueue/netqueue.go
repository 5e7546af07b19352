// Package netqueue implements the per-endpoint ordered buffer used by
// the Dispatcher to track unacknowledged outbound frames and
// out-of-order inbound ones. Sequence numbers wrap; see
// github.com/conwayste/netwayste/wire.SeqNum for the comparison rule
// this package relies on throughout.
package netqueue

import (
	"sort"
	"time"

	"github.com/conwayste/netwayste/wire"
)

// Retransmission tuning constants, grounded in the reference
// implementation's NETWORK_QUEUE_LENGTH / RETRANSMISSION_* constants.
const (
	// RTXTime is how long an unacknowledged item waits before it
	// becomes eligible for retransmission.
	RTXTime = 400 * time.Millisecond
	// RetryStep is the retry count past which a sweep resends an item
	// twice instead of once.
	RetryStep = 2
	// RetryAggressive is the retry count past which a sweep resends an
	// item three times instead of twice.
	RetryAggressive = 5
	// RTXBatch caps how many items a single retransmit sweep considers.
	RTXBatch = 32
	// Cap is the advisory soft cap on queue length; it is logged, not
	// enforced.
	Cap = 600
)

// Sequenced is anything a Queue can order and retransmit.
type Sequenced interface {
	SequenceNumber() wire.SeqNum
}

type attempt struct {
	lastTx  time.Time
	retries int
}

// Queue is a wrap-aware ordered buffer of T. Items are kept sorted by
// wire.SeqNum.OlderThan, which implements the half-space wraparound
// rule directly, so a single binary search over one slice keeps the
// queue ordered correctly across a sequence-number wrap without the
// two-half bookkeeping a fixed-layout ring buffer would need.
type Queue[T Sequenced] struct {
	items    []T
	attempts []attempt
}

// New returns an empty Queue.
func New[T Sequenced]() *Queue[T] {
	return &Queue[T]{}
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// HeadSequence returns the oldest buffered sequence number.
func (q *Queue[T]) HeadSequence() (wire.SeqNum, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	return q.items[0].SequenceNumber(), true
}

// TailSequence returns the newest buffered sequence number.
func (q *Queue[T]) TailSequence() (wire.SeqNum, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	return q.items[len(q.items)-1].SequenceNumber(), true
}

// Clear empties the queue.
func (q *Queue[T]) Clear() {
	q.items = nil
	q.attempts = nil
}

// ItemAt returns the item at position i, for callers iterating
// retransmit indices.
func (q *Queue[T]) ItemAt(i int) T {
	return q.items[i]
}

// insertionIndex returns the position at which seq belongs and
// whether it is already present, via binary search under the
// wrap-aware ordering.
func (q *Queue[T]) insertionIndex(seq wire.SeqNum) (index int, exists bool) {
	i := sort.Search(len(q.items), func(i int) bool {
		return !q.items[i].SequenceNumber().OlderThan(seq)
	})
	if i < len(q.items) && q.items[i].SequenceNumber() == seq {
		return i, true
	}
	return i, false
}

// BufferItem inserts item, keeping the queue in wrap-aware sequence
// order, and reports whether item was already present (in which case
// it was not inserted).
func (q *Queue[T]) BufferItem(item T, now time.Time) bool {
	idx, exists := q.insertionIndex(item.SequenceNumber())
	if exists {
		return true
	}
	q.insertAt(idx, item, now)
	return false
}

func (q *Queue[T]) insertAt(i int, item T, now time.Time) {
	var zeroItem T
	q.items = append(q.items, zeroItem)
	copy(q.items[i+1:], q.items[i:])
	q.items[i] = item

	var zeroAttempt attempt
	q.attempts = append(q.attempts, zeroAttempt)
	copy(q.attempts[i+1:], q.attempts[i:])
	q.attempts[i] = attempt{lastTx: now}
}

// Remove deletes the item with the given sequence number, if present,
// along with its attempt record.
func (q *Queue[T]) Remove(seq wire.SeqNum) (T, bool) {
	idx, exists := q.insertionIndex(seq)
	if !exists {
		var zero T
		return zero, false
	}
	item := q.items[idx]
	q.items = append(q.items[:idx], q.items[idx+1:]...)
	q.attempts = append(q.attempts[:idx], q.attempts[idx+1:]...)
	return item, true
}

// GetRetransmitIndices returns, in queue order, up to RTXBatch
// positions whose attempt record is due for a resend: either RTXTime
// has elapsed since the last send, or the item has already been
// retried at least RetryStep times.
func (q *Queue[T]) GetRetransmitIndices(now time.Time) []int {
	var indices []int
	for i, a := range q.attempts {
		if now.Sub(a.lastTx) >= RTXTime || a.retries >= RetryStep {
			indices = append(indices, i)
			if len(indices) >= RTXBatch {
				break
			}
		}
	}
	return indices
}

// RecordTransmission bumps the retry count and last-send time for the
// item at index i and returns how many physical sends this sweep
// should perform for it, per the escalating-retry schedule.
func (q *Queue[T]) RecordTransmission(i int, now time.Time) int {
	q.attempts[i].retries++
	q.attempts[i].lastTx = now
	switch r := q.attempts[i].retries; {
	case r < RetryStep:
		return 1
	case r < RetryAggressive:
		return 2
	default:
		return 3
	}
}

// GetContiguousPacketsCount counts how many items starting from the
// front form the unbroken run start, start+1, start+2, ...
func (q *Queue[T]) GetContiguousPacketsCount(start wire.SeqNum) int {
	count := 0
	want := start
	for _, item := range q.items {
		if item.SequenceNumber() != want {
			break
		}
		count++
		want = want.Next()
	}
	return count
}
