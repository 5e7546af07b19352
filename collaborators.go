package netwayste

import (
	"time"
)

// GridSource is the game-rules engine a Server embeds to answer
// universe-update broadcasts. The protocol core never simulates
// Game-of-Life generations itself; it only transports whatever
// GridSource hands it, RLE-encoded, to every member of a room.
type GridSource interface {
	// Snapshot returns the full state of room's universe as an
	// RLE-encoded pattern at generation gen. ok is false if room has
	// no universe yet (e.g. the game hasn't started).
	Snapshot(room string) (gen uint64, pattern string, ok bool)

	// Diff returns an RLE-encoded diff from oldGen to the universe's
	// current generation. ok is false if no such diff is available
	// (too old, or oldGen unknown), in which case the caller should
	// fall back to Snapshot.
	Diff(room string, oldGen uint64) (newGen uint64, pattern string, ok bool)
}

// EventSink receives Notifications from a Client, for an embedder
// that wants a callback instead of reading the Notifications channel
// directly.
type EventSink interface {
	HandleNotification(n Notification)
}

// Clock abstracts time so the universe-broadcast scheduler in Server
// can be driven by a fake clock in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
