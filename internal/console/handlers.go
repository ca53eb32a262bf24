// Package console exposes the HTTP handlers of the operator console,
// including the WebSocket attach endpoint and health check.
package console

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routes configures the console's HTTP ServeMux: the console page, the
// WebSocket endpoint, health check, and prometheus metrics.
func (c *Console) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", c.pageHandler)
	mux.HandleFunc("/ws", c.wsHandler)
	mux.HandleFunc("/healthz", c.healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// wsHandler upgrades the request and attaches the console client. Inbound
// text frames are injected as broadcast lines; the read loop doubles as
// disconnect detection.
func (c *Console) wsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	s := newSession(conn)
	total := c.attach(s)
	c.log.Info("console client attached", "addr", r.RemoteAddr, "total", total)

	defer func() {
		c.detach(s)
		c.log.Info("console client detached", "addr", r.RemoteAddr)
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType == websocket.TextMessage {
			c.inject(string(data))
		}
	}
}

// healthHandler provides a simple health check endpoint.
func (c *Console) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "fake-irc-server console is running!")
}

// pageHandler serves the HTML console page.
func (c *Console) pageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	if _, err := fmt.Fprint(w, consolePage); err != nil {
		c.log.Warn("error writing console page", "error", err)
	}
}
