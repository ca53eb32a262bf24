// Package server coordinates client registration, line broadcast, and
// connection cleanup for the fake IRC server via the Hub type.
package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/matematikaadit/fake-irc-server/internal/metrics"
)

// Hub tracks all connected IRC clients and fans operator lines out to them.
// It maintains client registration/unregistration and ensures thread-safe
// operations through mutex protection. The client map is the single point of
// truth for who receives broadcasts.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan string
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	log        *slog.Logger
}

// NewHub creates and initializes a new Hub instance with all necessary
// channels and client map. The returned Hub is ready to track connections
// once Run is started.
func NewHub(log *slog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan string),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		log:        log.With("component", "hub"),
	}
}

// Register hands a freshly accepted client to the hub, which adds it to the
// client map and launches its session goroutines.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub. Safe to call for a client that
// has already been removed.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// Broadcast delivers one already-framed line to every currently registered
// client. Blocks until the hub's run loop has picked the line up, which
// preserves the operator's input order.
func (h *Hub) Broadcast(line string) {
	select {
	case h.broadcast <- line:
	case <-h.ctx.Done():
	}
}

// Count returns the number of currently registered clients.
func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// safeSend enqueues a line on the client's send channel. It reports false if
// the client is no longer registered, already closed, or its buffer is full.
func (h *Hub) safeSend(client *Client, line string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	// The closed flag and map membership are both guarded by the mutex, so a
	// concurrent unregister cannot close the channel out from under us.
	_, exists := h.clients[client]
	if !exists || client.closed {
		return false
	}

	select {
	case client.send <- line:
		return true
	default:
		return false
	}
}

// Run starts the hub's main event loop, handling client registration,
// unregistration, and line broadcasting. This method should be called in a
// separate goroutine as it runs indefinitely.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				h.log.Warn("received nil client registration; skipping")
				continue
			}

			h.mutex.Lock()
			client.closed = false
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mutex.Unlock()

			metrics.ConnectionsTotal.Inc()
			metrics.ConnectionsActive.Set(float64(clientCount))
			h.log.Info("client registered", "id", client.id, "addr", client.addr, "total", clientCount)

			h.wg.Add(2)
			go func() {
				defer h.wg.Done()
				client.writePump()
			}()
			go func() {
				defer h.wg.Done()
				client.readPump()
			}()

		case client := <-h.unregister:
			h.removeClient(client, "session ended")

		case line := <-h.broadcast:
			h.handleBroadcast(line)
		}
	}
}

// removeClient deletes a client from the map and closes its send channel.
// Idempotent: removing an already-removed client is a no-op.
func (h *Hub) removeClient(client *Client, reason string) {
	h.mutex.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mutex.Unlock()
		return
	}
	delete(h.clients, client)
	client.closed = true
	clientCount := len(h.clients)
	h.mutex.Unlock()

	// Close the channel after releasing the lock.
	close(client.send)
	metrics.ConnectionsActive.Set(float64(clientCount))
	h.log.Info("client unregistered", "id", client.id, "addr", client.addr, "reason", reason, "total", clientCount)
}

// handleBroadcast delivers a line to a snapshot of the current clients.
// Delivery failure to one client never aborts delivery to the rest; failed
// clients are removed afterwards.
func (h *Hub) handleBroadcast(line string) {
	clients := h.snapshot()
	h.log.Debug("broadcasting line", "line", line, "clients", len(clients))

	var failed []*Client
	for _, client := range clients {
		if h.safeSend(client, line) {
			metrics.BroadcastDeliveries.Inc()
		} else {
			metrics.BroadcastFailures.Inc()
			failed = append(failed, client)
		}
	}

	for _, client := range failed {
		h.removeClient(client, "delivery failed")
	}
}

// snapshot returns a consistent point-in-time view of the current clients.
func (h *Hub) snapshot() []*Client {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

// shutdownClients closes all active client connections.
func (h *Hub) shutdownClients() {
	clients := h.snapshot()

	for _, client := range clients {
		if client.conn != nil {
			if err := client.conn.Close(); err != nil && !isExpectedCloseError(err) {
				h.log.Warn("error closing client connection", "addr", client.addr, "error", err)
			}
		}
	}

	h.log.Info("closed client connections", "count", len(clients))
}

// Shutdown initiates graceful shutdown of the hub and waits for all session
// goroutines to complete, or until the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.log.Info("initiating hub shutdown")

	h.cancel()

	// Wait for Run() to complete.
	<-h.done

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.log.Info("hub shutdown completed")
		return nil
	case <-time.After(timeout):
		h.log.Warn("hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
