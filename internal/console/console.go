// Package console exposes the operator web console: a small HTTP server with
// a WebSocket endpoint that mirrors every broadcast line and lets the
// operator inject lines from a browser, next to health and metrics endpoints.
package console

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const sessionSendBuffer = 16

// Config holds the console server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
}

// Console is the operator-facing web console. Attached WebSocket clients see
// every line the server broadcasts, and any text frame they send is injected
// exactly like a line typed on stdin.
type Console struct {
	cfg      Config
	log      *slog.Logger
	inject   func(line string)
	upgrader websocket.Upgrader
	server   *http.Server

	mu       sync.RWMutex
	sessions map[*session]bool

	allowAll bool
	allowed  map[string]struct{}
}

// New creates a Console. inject receives every line sent by an attached
// console client.
func New(cfg Config, inject func(line string), log *slog.Logger) *Console {
	c := &Console{
		cfg:      cfg,
		log:      log.With("component", "console"),
		inject:   inject,
		sessions: make(map[*session]bool),
	}
	c.allowed, c.allowAll = normalizeOrigins(cfg.AllowedOrigins, c.log)
	c.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     c.checkOrigin,
	}
	c.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           c.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return c
}

// Handler returns the console's HTTP handler, exposed for tests.
func (c *Console) Handler() http.Handler {
	return c.server.Handler
}

// Start runs the console HTTP server and blocks until it is shut down.
func (c *Console) Start() error {
	c.log.Info("console listening", "addr", c.cfg.Addr)
	if err := c.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the console server and detaches all console clients.
func (c *Console) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	sessions := make([]*session, 0, len(c.sessions))
	for s := range c.sessions {
		sessions = append(sessions, s)
		delete(c.sessions, s)
	}
	c.mu.Unlock()

	for _, s := range sessions {
		s.stop()
	}

	return c.server.Shutdown(ctx)
}

// Mirror delivers a broadcast line to every attached console client. A slow
// console client is detached rather than allowed to block the caller.
func (c *Console) Mirror(line string) {
	c.mu.RLock()
	sessions := make([]*session, 0, len(c.sessions))
	for s := range c.sessions {
		sessions = append(sessions, s)
	}
	c.mu.RUnlock()

	var slow []*session
	for _, s := range sessions {
		select {
		case s.send <- line:
		default:
			slow = append(slow, s)
		}
	}

	for _, s := range slow {
		c.log.Warn("detaching slow console client")
		c.detach(s)
	}
}

func (c *Console) attach(s *session) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s] = true
	return len(c.sessions)
}

func (c *Console) detach(s *session) {
	c.mu.Lock()
	_, ok := c.sessions[s]
	if ok {
		delete(c.sessions, s)
	}
	c.mu.Unlock()

	if ok {
		s.stop()
	}
}

// session owns the write side of one attached console WebSocket.
type session struct {
	conn     *websocket.Conn
	send     chan string
	done     chan struct{}
	stopOnce sync.Once
}

func newSession(conn *websocket.Conn) *session {
	s := &session{
		conn: conn,
		send: make(chan string, sessionSendBuffer),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *session) run() {
	for {
		select {
		case line := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := s.conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *session) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}
