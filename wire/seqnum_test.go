package wire

import "testing"

func TestSeqNumOlderThan(t *testing.T) {
	if !SeqNum(1).OlderThan(SeqNum(2)) {
		t.Error("1 should be older than 2")
	}
	if SeqNum(2).OlderThan(SeqNum(1)) {
		t.Error("2 should not be older than 1")
	}
	if SeqNum(5).OlderThan(SeqNum(5)) {
		t.Error("a sequence number is not older than itself")
	}
}

func TestSeqNumOlderThanWrapsAround(t *testing.T) {
	max := SeqNum(^uint64(0))
	if !max.OlderThan(0) {
		t.Error("max value should be older than 0 after wraparound")
	}
	if SeqNum(0).OlderThan(max) {
		t.Error("0 should not be older than max value")
	}
}

func TestSeqNumNextWraps(t *testing.T) {
	max := SeqNum(^uint64(0))
	if max.Next() != 0 {
		t.Errorf("got %d, want 0", max.Next())
	}
}

func TestSeqNumFarFrom(t *testing.T) {
	if SeqNum(0).FarFrom(1) {
		t.Error("adjacent sequence numbers should not be far from each other")
	}
	if !SeqNum(0).FarFrom(halfSpace + 1) {
		t.Error("sequence numbers more than half the space apart should be far")
	}
}

func TestSeqNumAtOrBefore(t *testing.T) {
	if !SeqNum(3).AtOrBefore(3) {
		t.Error("a sequence number is at-or-before itself")
	}
	if !SeqNum(3).AtOrBefore(4) {
		t.Error("3 should be at-or-before 4")
	}
	if SeqNum(4).AtOrBefore(3) {
		t.Error("4 should not be at-or-before 3")
	}
}
