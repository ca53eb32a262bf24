// Package server accepts incoming TCP connections and hands them to the hub.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/jonboulle/clockwork"
)

// Listener binds the configured TCP endpoint and accepts IRC client
// connections, wrapping each in a Client and registering it with the hub.
type Listener struct {
	cfg   *Config
	hub   *Hub
	clock clockwork.Clock
	log   *slog.Logger
	ln    net.Listener
}

// NewListener creates a Listener. Call Listen before Serve.
func NewListener(cfg *Config, hub *Hub, clock clockwork.Clock, log *slog.Logger) *Listener {
	return &Listener{
		cfg:   cfg,
		hub:   hub,
		clock: clock,
		log:   log.With("component", "listener"),
	}
}

// Listen binds the configured endpoint. A bind failure (for example the port
// already being in use) is fatal and reported to the caller.
func (l *Listener) Listen() error {
	ln, err := net.Listen("tcp", l.cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("can't listen on %s: %w", l.cfg.ListenAddr(), err)
	}
	l.ln = ln
	l.log.Info("listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address. Useful when the configured port is 0.
func (l *Listener) Addr() net.Addr {
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Serve accepts connections until the listener is closed. Accept errors on
// individual connection attempts are logged and do not stop the loop.
func (l *Listener) Serve() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				l.log.Info("listener closed")
				return
			}
			l.log.Warn("error accepting connection", "error", err)
			continue
		}

		l.log.Info("incoming connection", "addr", conn.RemoteAddr().String())
		client := NewClient(conn, l.hub, l.cfg, l.clock, l.log)
		l.hub.Register(client)
	}
}

// Close stops accepting new connections.
func (l *Listener) Close() error {
	if l.ln == nil {
		return nil
	}
	return l.ln.Close()
}
