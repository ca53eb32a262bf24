// Package server manages individual IRC client connections, handling the
// read/write pumps, flood limiting, and lifecycle control for each socket.
package server

import (
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
	irc "gopkg.in/irc.v3"

	"github.com/matematikaadit/fake-irc-server/internal/metrics"
	"github.com/matematikaadit/fake-irc-server/internal/wire"
)

const writeTimeout = 10 * time.Second

// Client represents one accepted IRC connection. It owns the socket, carries
// the buffered outbound channel drained by the write pump, and tracks the
// registration handshake state.
type Client struct {
	id      string
	conn    net.Conn
	hub     *Hub
	send    chan string
	addr    string
	closed  bool
	limiter *rate.Limiter
	clock   clockwork.Clock
	log     *slog.Logger

	serverName   string
	listenAddr   string
	pingInterval time.Duration

	// Registration handshake state, touched only by the read pump.
	nick       string
	user       string
	realname   string
	registered bool
}

// NewClient creates a new Client for the given connection. The send channel
// is buffered so a burst of broadcasts does not block the dispatcher.
func NewClient(conn net.Conn, hub *Hub, cfg *Config, clock clockwork.Clock, log *slog.Logger) *Client {
	addr := ""
	if conn != nil {
		addr = conn.RemoteAddr().String()
	}
	id := uuid.NewString()

	return &Client{
		id:           id,
		conn:         conn,
		hub:          hub,
		send:         make(chan string, cfg.SendBufferSize),
		addr:         addr,
		closed:       false,
		limiter:      rate.NewLimiter(rate.Limit(cfg.FloodLimitPerSecond), cfg.FloodLimitBurst),
		clock:        clock,
		log:          log.With("component", "session", "id", id, "addr", addr),
		serverName:   cfg.ServerName,
		listenAddr:   cfg.ListenAddr(),
		pingInterval: cfg.PingInterval,
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string {
	return c.id
}

// Addr returns the remote address of the client's connection.
func (c *Client) Addr() string {
	return c.addr
}

// readPump consumes inbound lines until the peer disconnects or a read error
// occurs, then unregisters the client. Inbound traffic is mostly discarded;
// only the registration handshake and PING probes get replies.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			c.log.Warn("error closing connection in readPump", "error", err)
		}
	}()

	reader := wire.NewReader(c.conn)
	for {
		line, err := reader.ReadLine()
		if err != nil {
			if isExpectedCloseError(err) {
				c.log.Info("client disconnected")
			} else {
				c.log.Warn("read error", "error", err)
			}
			return
		}

		if line == "" {
			continue
		}

		if !c.limiter.Allow() {
			c.log.Warn("flood limit exceeded; discarding line")
			continue
		}

		msg, err := irc.ParseMessage(line)
		if err != nil {
			c.log.Debug("ignoring unparseable line", "line", line, "error", err)
			continue
		}

		metrics.MessagesIn.WithLabelValues(metrics.CommandLabel(strings.ToUpper(msg.Command))).Inc()
		c.handleMessage(msg)
	}
}

// handleMessage reacts to a single inbound message. Everything beyond the
// NICK/USER handshake and PING probes is logged and dropped.
func (c *Client) handleMessage(msg *irc.Message) {
	switch strings.ToUpper(msg.Command) {
	case "NICK":
		if len(msg.Params) > 0 {
			c.nick = msg.Params[0]
		}
		c.log.Debug("message", "command", "NICK", "params", msg.Params)

	case "USER":
		if len(msg.Params) > 0 {
			c.user = msg.Params[0]
		}
		if len(msg.Params) > 3 {
			c.realname = msg.Params[3]
		}
		c.log.Debug("message", "command", "USER", "params", msg.Params)

	case "PING":
		token := ""
		if len(msg.Params) > 0 {
			token = msg.Params[0]
		}
		c.reply(&irc.Message{
			Prefix:  &irc.Prefix{Name: c.serverName},
			Command: "PONG",
			Params:  []string{token},
		})

	default:
		c.log.Debug("message", "command", msg.Command, "params", msg.Params)
	}

	if !c.registered && c.nick != "" && c.user != "" && c.realname != "" {
		c.sendWelcome()
		c.registered = true
	}
}

// reply enqueues a server-originated message for this client only.
func (c *Client) reply(msg *irc.Message) {
	if !c.hub.safeSend(c, msg.String()) {
		c.log.Warn("dropping reply; client closed or buffer full", "command", msg.Command)
	}
}

// writePump drains the send channel onto the socket and emits periodic
// server-side PINGs so idle clients do not time out the link. It is the only
// goroutine that writes to the connection.
func (c *Client) writePump() {
	ticker := c.clock.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			c.log.Warn("error closing connection in writePump", "error", err)
		}
	}()

	writer := wire.NewWriter(c.conn)
	for {
		select {
		case line, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.writeLine(writer, line); err != nil {
				if !isExpectedCloseError(err) {
					c.log.Warn("write error", "error", err)
				}
				return
			}

		case <-ticker.Chan():
			ping := &irc.Message{
				Prefix:  &irc.Prefix{Name: c.serverName},
				Command: "PING",
				Params:  []string{c.serverName},
			}
			if err := c.writeLine(writer, ping.String()); err != nil {
				if !isExpectedCloseError(err) {
					c.log.Warn("keep-alive write error", "error", err)
				}
				return
			}

		case <-c.hub.ctx.Done():
			return
		}
	}
}

func (c *Client) writeLine(writer *wire.Writer, line string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return writer.WriteLine(line)
}
