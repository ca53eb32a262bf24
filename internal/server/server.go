// Package server wires the hub, the TCP listener, and the operator console
// into one runnable unit via the Server type.
package server

import (
	"context"
	"log/slog"
	"net"

	"github.com/jonboulle/clockwork"

	"github.com/matematikaadit/fake-irc-server/internal/console"
	"github.com/matematikaadit/fake-irc-server/internal/metrics"
	"github.com/matematikaadit/fake-irc-server/internal/wire"
)

// Server owns the connection-and-broadcast engine: the hub tracking live
// clients, the TCP listener feeding it, and (optionally) the operator web
// console mirroring broadcast traffic.
type Server struct {
	cfg      *Config
	log      *slog.Logger
	hub      *Hub
	listener *Listener
	console  *console.Console
}

// New builds a Server from the configuration. The clock is injected so tests
// can drive keep-alive timing with a fake clock.
func New(cfg *Config, clock clockwork.Clock, log *slog.Logger) *Server {
	hub := NewHub(log)
	s := &Server{
		cfg: cfg,
		log: log,
		hub: hub,
	}
	s.listener = NewListener(cfg, hub, clock, log)

	if cfg.ConsoleEnabled {
		s.console = console.New(console.Config{
			Addr:           cfg.ConsoleAddr,
			AllowedOrigins: cfg.ConsoleOriginList(),
		}, func(line string) { s.Inject(line, "console") }, log)
	}

	return s
}

// Hub returns the server's client registry.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Addr returns the address the TCP listener is bound to, or nil before Start.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Inject broadcasts one operator line to every connected client and mirrors
// it to the console. The line is normalized (terminators stripped) but
// otherwise delivered verbatim.
func (s *Server) Inject(line, source string) {
	line = wire.TrimLine(line)
	metrics.BroadcastLines.WithLabelValues(source).Inc()
	s.hub.Broadcast(line)
	if s.console != nil {
		s.console.Mirror(line)
	}
}

// Start binds the TCP endpoint and launches the hub, accept loop, and
// console. A bind failure is returned immediately and is fatal; console
// startup failures are logged but do not take the server down.
func (s *Server) Start() error {
	if err := s.listener.Listen(); err != nil {
		return err
	}

	go s.hub.Run()
	go s.listener.Serve()

	if s.console != nil {
		go func() {
			if err := s.console.Start(); err != nil {
				s.log.Error("console server failed", "error", err)
			}
		}()
	}

	return nil
}

// Shutdown stops accepting connections, detaches console clients, and closes
// all client sessions, waiting up to the configured timeout.
func (s *Server) Shutdown() {
	if err := s.listener.Close(); err != nil && !isExpectedCloseError(err) {
		s.log.Warn("error closing listener", "error", err)
	}

	if s.console != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.console.Shutdown(ctx); err != nil {
			s.log.Warn("console shutdown error", "error", err)
		}
	}

	if err := s.hub.Shutdown(s.cfg.ShutdownTimeout); err != nil {
		s.log.Warn("hub shutdown incomplete", "error", err)
	}
}
