package netwayste

import (
	"context"
	"net"

	"github.com/conwayste/netwayste/internal/dispatcher"
)

// Client is one player's connection to a single server. It owns the
// UDP socket and the Dispatcher driving the wire protocol over it.
type Client struct {
	conn *net.UDPConn
	d    *dispatcher.Dispatcher
	cfg  *Config
	stop context.CancelFunc
	done chan error
}

// NewClient resolves serverAddr (host:port) and opens a UDP socket to
// it. The returned Client does nothing until Run is called.
func NewClient(serverAddr string, opts ...Option) (*Client, error) {
	raddr, err := net.ResolveUDPAddr("udp", serverAddr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	d := dispatcher.NewClient(conn, raddr, cfg.dispatcherOptions()...)
	return &Client{conn: conn, d: d, cfg: cfg}, nil
}

// Run drives the Client's event loop until ctx is cancelled or Close
// is called. It blocks; call it from its own goroutine.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.stop = cancel
	if c.cfg.Sink != nil {
		go c.forwardToSink(ctx)
	}
	return c.d.Run(ctx)
}

func (c *Client) forwardToSink(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-c.d.Notifications():
			if !ok {
				return
			}
			c.cfg.Sink.HandleNotification(n)
		}
	}
}

// Commands returns the channel commands are sent on. Closing it
// begins a graceful shutdown (an ActionDisconnect is sent first if
// connected).
func (c *Client) Commands() chan<- Command {
	return c.d.Commands()
}

// Notifications returns the channel Notifications arrive on. If a
// Sink was configured via WithEventSink, this channel is drained
// internally to feed the sink instead and will not yield anything;
// use one or the other, not both.
func (c *Client) Notifications() <-chan Notification {
	return c.d.Notifications()
}

// Stats returns a snapshot of the running network counters.
func (c *Client) Stats() Stats {
	return c.d.Stats()
}

// Connect sends a CmdConnect using the version configured via
// WithClientVersion (or the default if none was set).
func (c *Client) Connect(name string) {
	c.Commands() <- CmdConnect{Name: name, Version: c.cfg.ClientVersion}
}

// Close stops the event loop and closes the underlying socket.
func (c *Client) Close() error {
	if c.stop != nil {
		c.stop()
	}
	return c.conn.Close()
}
