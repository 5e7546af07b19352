package netwayste

import (
	"time"

	"github.com/conwayste/netwayste/internal/dispatcher"
	"github.com/conwayste/netwayste/logging"
)

// Option tweaks a Config at construction time, following the
// teacher's functional-options convention (client.Option).
type Option func(*Config)

// Config holds everything NewClient/NewServer need beyond the socket
// address: the protocol-core timing knobs internal/dispatcher.Config
// already exposes, plus the collaborators a Server needs to answer
// universe-update broadcasts.
type Config struct {
	Tick            time.Duration
	RetransmitSweep time.Duration
	ServerVersion   string
	ClientVersion   string
	Log             logging.Func

	// UniverseBroadcastInterval is how often a Server polls GridSource
	// for each room it owns and pushes a UniUpdate to that room's
	// members. Zero disables universe broadcasting (a pure chat/room
	// relay).
	UniverseBroadcastInterval time.Duration

	// Grid answers universe snapshot/diff queries for a Server. Nil
	// means no universe broadcasting regardless of
	// UniverseBroadcastInterval.
	Grid GridSource

	// Sink, if set, receives every Notification a Client emits via a
	// callback. It drains the same channel Notifications() returns, so
	// each Notification reaches either the Sink or a reader of that
	// channel, not both.
	Sink EventSink

	// Clock is substitutable so a Server's broadcast scheduler can be
	// driven by a fake clock in tests. Defaults to the real wall clock.
	Clock Clock
}

func defaultConfig() *Config {
	return &Config{
		Tick:                      100 * time.Millisecond,
		RetransmitSweep:           1 * time.Second,
		ServerVersion:             "netwayste-0",
		ClientVersion:             "netwayste-0",
		Log:                       logging.Discard,
		UniverseBroadcastInterval: 0,
		Clock:                     realClock{},
	}
}

// WithTick overrides the keepalive/timeout tick period.
func WithTick(d time.Duration) Option {
	return func(c *Config) { c.Tick = d }
}

// WithRetransmitSweep overrides the retransmit sweep period.
func WithRetransmitSweep(d time.Duration) Option {
	return func(c *Config) { c.RetransmitSweep = d }
}

// WithServerVersion overrides the version string a Server reports on
// LoggedIn.
func WithServerVersion(v string) Option {
	return func(c *Config) { c.ServerVersion = v }
}

// WithClientVersion overrides the version string a Client reports on
// Connect.
func WithClientVersion(v string) Option {
	return func(c *Config) { c.ClientVersion = v }
}

// WithLogFunc overrides the diagnostics sink.
func WithLogFunc(log logging.Func) Option {
	return func(c *Config) { c.Log = log }
}

// WithUniverseBroadcast enables a Server's broadcast scheduler,
// polling source every interval for each room it owns.
func WithUniverseBroadcast(interval time.Duration, source GridSource) Option {
	return func(c *Config) {
		c.UniverseBroadcastInterval = interval
		c.Grid = source
	}
}

// WithEventSink registers a callback-style receiver for a Client's
// Notifications, in place of draining the Notifications() channel.
func WithEventSink(sink EventSink) Option {
	return func(c *Config) { c.Sink = sink }
}

// WithClock substitutes the wall clock a Server's broadcast scheduler
// uses, for deterministic tests.
func WithClock(clock Clock) Option {
	return func(c *Config) { c.Clock = clock }
}

func (c *Config) dispatcherOptions() []dispatcher.Option {
	return []dispatcher.Option{
		dispatcher.WithTick(c.Tick),
		dispatcher.WithRetransmitSweep(c.RetransmitSweep),
		dispatcher.WithServerVersion(c.ServerVersion),
		dispatcher.WithLogFunc(c.Log),
	}
}
