package netqueue

import (
	"testing"
	"time"

	"github.com/conwayste/netwayste/wire"
)

type item struct {
	seq wire.SeqNum
}

func (i item) SequenceNumber() wire.SeqNum { return i.seq }

func seqsOf[T Sequenced](q *Queue[T]) []wire.SeqNum {
	var out []wire.SeqNum
	for i := 0; i < q.Len(); i++ {
		out = append(out, q.ItemAt(i).SequenceNumber())
	}
	return out
}

func assertOrder(t *testing.T, got []wire.SeqNum, want ...uint64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != wire.SeqNum(w) {
			t.Fatalf("at position %d: got %d, want %d (full: %v)", i, got[i], w, got)
		}
	}
}

func TestBufferItemEmptyQueue(t *testing.T) {
	q := New[item]()
	now := time.Unix(0, 0)
	if dup := q.BufferItem(item{5}, now); dup {
		t.Fatal("first insert should never be a duplicate")
	}
	assertOrder(t, seqsOf(q), 5)
}

func TestBufferItemInOrderInsertion(t *testing.T) {
	q := New[item]()
	now := time.Unix(0, 0)
	for _, s := range []uint64{3, 1, 4, 1, 5, 9, 2, 6} {
		q.BufferItem(item{wire.SeqNum(s)}, now)
	}
	assertOrder(t, seqsOf(q), 1, 2, 3, 4, 5, 6, 9)
}

func TestBufferItemRejectsDuplicates(t *testing.T) {
	q := New[item]()
	now := time.Unix(0, 0)
	q.BufferItem(item{10}, now)
	if dup := q.BufferItem(item{10}, now); !dup {
		t.Fatal("re-inserting an existing sequence should report a duplicate")
	}
	if q.Len() != 1 {
		t.Fatalf("duplicate insert should not grow the queue, got len %d", q.Len())
	}
}

func TestBufferItemOrderedInvariantAfterWrap(t *testing.T) {
	q := New[item]()
	now := time.Unix(0, 0)
	max := ^uint64(0)
	for _, s := range []uint64{max - 2, max - 1, max, 0, 1, 2} {
		q.BufferItem(item{wire.SeqNum(s)}, now)
	}
	seqs := seqsOf(q)
	for i := 0; i+1 < len(seqs); i++ {
		if !seqs[i].OlderThan(seqs[i+1]) {
			t.Fatalf("position %d (%d) is not wrap-older than position %d (%d): %v", i, seqs[i], i+1, seqs[i+1], seqs)
		}
	}
}

func TestRemove(t *testing.T) {
	q := New[item]()
	now := time.Unix(0, 0)
	for _, s := range []uint64{1, 2, 3} {
		q.BufferItem(item{wire.SeqNum(s)}, now)
	}
	got, ok := q.Remove(2)
	if !ok || got.seq != 2 {
		t.Fatalf("Remove(2) = %v, %v", got, ok)
	}
	assertOrder(t, seqsOf(q), 1, 3)

	if _, ok := q.Remove(2); ok {
		t.Fatal("removing an already-removed sequence should report absent")
	}
}

func TestGetContiguousPacketsCount(t *testing.T) {
	q := New[item]()
	now := time.Unix(0, 0)
	for _, s := range []uint64{10, 11, 12, 14, 16} {
		q.BufferItem(item{wire.SeqNum(s)}, now)
	}
	if n := q.GetContiguousPacketsCount(10); n != 3 {
		t.Fatalf("got %d, want 3", n)
	}
	if n := q.GetContiguousPacketsCount(11); n != 0 {
		t.Fatalf("got %d, want 0 (11 isn't the head)", n)
	}
}

func TestGetRetransmitIndicesHonorsRTXTimeAndBatch(t *testing.T) {
	q := New[item]()
	base := time.Unix(0, 0)
	for s := uint64(0); s < uint64(RTXBatch+5); s++ {
		q.BufferItem(item{wire.SeqNum(s)}, base)
	}
	later := base.Add(RTXTime)
	indices := q.GetRetransmitIndices(later)
	if len(indices) != RTXBatch {
		t.Fatalf("got %d indices, want %d (capped at RTXBatch)", len(indices), RTXBatch)
	}

	tooSoon := base.Add(RTXTime / 2)
	if indices := q.GetRetransmitIndices(tooSoon); len(indices) != 0 {
		t.Fatalf("expected no retransmit candidates before RTXTime elapses, got %d", len(indices))
	}
}

func TestRecordTransmissionEscalatesSendCount(t *testing.T) {
	q := New[item]()
	now := time.Unix(0, 0)
	q.BufferItem(item{1}, now)

	if n := q.RecordTransmission(0, now); n != 1 {
		t.Fatalf("retry 1: got %d sends, want 1", n)
	}
	if n := q.RecordTransmission(0, now); n != 2 {
		t.Fatalf("retry 2: got %d sends, want 2", n)
	}
	for i := 0; i < 2; i++ {
		q.RecordTransmission(0, now)
	}
	if n := q.RecordTransmission(0, now); n != 3 {
		t.Fatalf("retry 5: got %d sends, want 3", n)
	}
}

func TestClear(t *testing.T) {
	q := New[item]()
	now := time.Unix(0, 0)
	q.BufferItem(item{1}, now)
	q.BufferItem(item{2}, now)
	q.Clear()
	if q.Len() != 0 {
		t.Fatalf("got len %d after Clear, want 0", q.Len())
	}
	if _, ok := q.HeadSequence(); ok {
		t.Fatal("HeadSequence should report absent on an empty queue")
	}
}

func TestHeadAndTailSequence(t *testing.T) {
	q := New[item]()
	now := time.Unix(0, 0)
	for _, s := range []uint64{5, 3, 8, 1} {
		q.BufferItem(item{wire.SeqNum(s)}, now)
	}
	head, ok := q.HeadSequence()
	if !ok || head != 1 {
		t.Fatalf("HeadSequence() = %d, %v; want 1, true", head, ok)
	}
	tail, ok := q.TailSequence()
	if !ok || tail != 8 {
		t.Fatalf("TailSequence() = %d, %v; want 8, true", tail, ok)
	}
}
