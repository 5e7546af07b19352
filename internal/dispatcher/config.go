package dispatcher

import (
	"time"

	"github.com/conwayste/netwayste/logging"
)

// Option tweaks a Dispatcher's Config at construction time, following
// the teacher's functional-options convention (client.Option,
// internal/shell.Option).
type Option func(*Config)

// Config holds the tunables spec.md §3 fixes as constants; exposing
// them as a struct keeps the protocol-core timing testable without a
// real clock or socket.
type Config struct {
	// Tick is how often the loop drives keepalive/timeout checks.
	// Must be at least 100ms per spec.md §4.4.
	Tick time.Duration
	// RetransmitSweep is how often the loop scans transmit queues for
	// retransmission. Must be at least 1s per spec.md §4.4.
	RetransmitSweep time.Duration
	// ServerVersion is echoed back on a successful Connect when the
	// Dispatcher is acting as a server.
	ServerVersion string
	// Log receives diagnostics for soft failures (decode errors,
	// unauthorized requests, queue-cap overruns). Defaults to
	// logging.Discard.
	Log logging.Func
}

func defaultConfig() *Config {
	return &Config{
		Tick:            100 * time.Millisecond,
		RetransmitSweep: 1 * time.Second,
		ServerVersion:   "netwayste-0",
		Log:             logging.Discard,
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

// WithServerVersion overrides the version string a server Dispatcher
// reports on LoggedIn.
func WithServerVersion(v string) Option {
	return func(c *Config) { c.ServerVersion = v }
}

// WithLogFunc overrides the diagnostics sink.
func WithLogFunc(log logging.Func) Option {
	return func(c *Config) { c.Log = log }
}
