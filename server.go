package netwayste

import (
	"context"
	"net"
	"time"

	"github.com/conwayste/netwayste/internal/dispatcher"
	"github.com/conwayste/netwayste/wire"
)

// Server listens for any number of clients on a single UDP socket.
type Server struct {
	conn *net.UDPConn
	d    *dispatcher.Dispatcher
	cfg  *Config
	stop context.CancelFunc

	// generations tracks the last generation broadcast to each room, so
	// the scheduler can ask GridSource for a diff instead of a full
	// snapshot once a room has one.
	generations map[string]uint64
}

// NewServer opens a UDP socket bound to listenAddr (host:port; an
// empty host binds all interfaces).
func NewServer(listenAddr string, opts ...Option) (*Server, error) {
	laddr, err := net.ResolveUDPAddr("udp", listenAddr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	d := dispatcher.NewServer(conn, cfg.dispatcherOptions()...)
	return &Server{conn: conn, d: d, cfg: cfg, generations: make(map[string]uint64)}, nil
}

// Run drives the Server's event loop, and its universe-broadcast
// scheduler if WithUniverseBroadcast was configured, until ctx is
// cancelled or Close is called. It blocks; call it from its own
// goroutine.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.stop = cancel
	defer cancel()
	if s.cfg.UniverseBroadcastInterval > 0 && s.cfg.Grid != nil {
		go s.broadcastLoop(ctx)
	}
	return s.d.Run(ctx)
}

// broadcastLoop polls GridSource for every open room on
// UniverseBroadcastInterval and publishes whatever it returns.
func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.UniverseBroadcastInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcastOnce()
		}
	}
}

func (s *Server) broadcastOnce() {
	for _, room := range s.d.Rooms() {
		if last, haveLast := s.generations[room]; haveLast {
			if newGen, pattern, ok := s.cfg.Grid.Diff(room, last); ok {
				s.generations[room] = newGen
				s.d.PublishUniverseUpdate(room, wire.GenStateDiff{OldGen: last, NewGen: newGen, Pattern: pattern})
				continue
			}
		}
		gen, pattern, ok := s.cfg.Grid.Snapshot(room)
		if !ok {
			continue
		}
		s.generations[room] = gen
		s.d.PublishUniverseUpdate(room, wire.GenState{Gen: gen, Pattern: pattern})
	}
}

// Commands returns the channel commands are sent on (server-role
// Dispatchers accept none today, but the channel exists so a future
// admin command surface has somewhere to send).
func (s *Server) Commands() chan<- Command {
	return s.d.Commands()
}

// Stats returns a snapshot of the running network counters.
func (s *Server) Stats() Stats {
	return s.d.Stats()
}

// Close stops the event loop and closes the underlying socket.
func (s *Server) Close() error {
	if s.stop != nil {
		s.stop()
	}
	return s.conn.Close()
}
