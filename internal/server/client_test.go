package server

import (
	"bufio"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// registerHandshake drives the NICK/USER handshake from the peer end and
// returns the five welcome numerics.
func registerHandshake(t *testing.T, peer net.Conn, reader *bufio.Reader, nick, user, realname string) []string {
	t.Helper()

	if _, err := fmt.Fprintf(peer, "NICK %s\r\nUSER %s 0 * :%s\r\n", nick, user, realname); err != nil {
		t.Fatalf("failed to write handshake: %v", err)
	}

	lines := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		lines = append(lines, readLine(t, reader))
	}
	return lines
}

// TestRegistrationBurst verifies that completing the NICK/USER handshake
// produces the 001-005 welcome numerics a real client expects.
func TestRegistrationBurst(t *testing.T) {
	hub := startHub(t)
	_, peer := pipeClient(t, hub)
	reader := bufio.NewReader(peer)

	lines := registerHandshake(t, peer, reader, "tester", "tuser", "Tess Ter")

	want := ":localhost 001 tester :Welcome to the Local Network, tester!tuser@localhost\r\n"
	if lines[0] != want {
		t.Errorf("001 numeric was %q, want %q", lines[0], want)
	}

	for i, command := range []string{"001", "002", "003", "004", "005"} {
		prefix := ":localhost " + command + " tester"
		if len(lines[i]) < len(prefix) || lines[i][:len(prefix)] != prefix {
			t.Errorf("Numeric %d was %q, want prefix %q", i+1, lines[i], prefix)
		}
	}

	want = ":localhost 005 tester NICKLEN=30 :are supported by this server\r\n"
	if lines[4] != want {
		t.Errorf("005 numeric was %q, want %q", lines[4], want)
	}
}

// TestRegistrationBurstSentOnce verifies that repeating NICK after
// registration does not resend the welcome numerics.
func TestRegistrationBurstSentOnce(t *testing.T) {
	hub := startHub(t)
	_, peer := pipeClient(t, hub)
	reader := bufio.NewReader(peer)

	registerHandshake(t, peer, reader, "tester", "tuser", "Tess Ter")

	if _, err := fmt.Fprintf(peer, "NICK again\r\nPING probe\r\n"); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	// The next line must be the PONG, not another 001.
	line := readLine(t, reader)
	if line != ":localhost PONG probe\r\n" {
		t.Errorf("Got %q after re-NICK, want PONG", line)
	}
}

// TestPingPong verifies that a client PING is answered with a PONG carrying
// the same token.
func TestPingPong(t *testing.T) {
	hub := startHub(t)
	_, peer := pipeClient(t, hub)
	reader := bufio.NewReader(peer)

	if _, err := fmt.Fprintf(peer, "PING :token123\r\n"); err != nil {
		t.Fatalf("failed to write PING: %v", err)
	}

	line := readLine(t, reader)
	if line != ":localhost PONG token123\r\n" {
		t.Errorf("PONG was %q, want %q", line, ":localhost PONG token123\r\n")
	}
}

// TestUnparseableLinesAreIgnored verifies that garbage input does not kill
// the session or block later replies.
func TestUnparseableLinesAreIgnored(t *testing.T) {
	hub := startHub(t)
	_, peer := pipeClient(t, hub)
	reader := bufio.NewReader(peer)

	if _, err := fmt.Fprintf(peer, "@@@\r\n\r\nPING ok\r\n"); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	line := readLine(t, reader)
	if line != ":localhost PONG ok\r\n" {
		t.Errorf("Got %q, want PONG after garbage input", line)
	}

	if hub.Count() != 1 {
		t.Errorf("Expected client to stay registered, count is %d", hub.Count())
	}
}

// TestPeerDisconnectUnregisters verifies that a peer hangup removes the
// client from the hub exactly once and releases the connection.
func TestPeerDisconnectUnregisters(t *testing.T) {
	hub := startHub(t)
	_, peer := pipeClient(t, hub)

	_ = peer.Close()

	waitFor(t, time.Second, func() bool { return hub.Count() == 0 })
}

// TestServerKeepAlivePing verifies that an idle client receives a
// server-initiated PING once the ping interval elapses.
func TestServerKeepAlivePing(t *testing.T) {
	hub := startHub(t)

	clock := clockwork.NewFakeClock()
	serverEnd, peer := net.Pipe()
	t.Cleanup(func() { _ = peer.Close() })

	cfg := testConfig()
	client := NewClient(serverEnd, hub, cfg, clock, testLogger())
	hub.Register(client)
	waitFor(t, time.Second, func() bool { return hub.Count() == 1 })

	// Wait until the write pump has created its ticker, then advance past
	// the ping interval.
	clock.BlockUntil(1)
	clock.Advance(cfg.PingInterval)

	reader := bufio.NewReader(peer)
	line := readLine(t, reader)
	if line != ":localhost PING localhost\r\n" {
		t.Errorf("Keep-alive was %q, want %q", line, ":localhost PING localhost\r\n")
	}
}

// TestFloodLimitDiscardsExcessLines verifies that a client exceeding the
// flood limit has the excess discarded while the connection stays up.
func TestFloodLimitDiscardsExcessLines(t *testing.T) {
	hub := startHub(t)

	cfg := testConfig()
	cfg.FloodLimitPerSecond = 1
	cfg.FloodLimitBurst = 1

	serverEnd, peer := net.Pipe()
	t.Cleanup(func() { _ = peer.Close() })
	client := NewClient(serverEnd, hub, cfg, clockwork.NewFakeClock(), testLogger())
	hub.Register(client)
	waitFor(t, time.Second, func() bool { return hub.Count() == 1 })

	// The first PING fits in the burst, the second is dropped.
	if _, err := fmt.Fprintf(peer, "PING one\r\nPING two\r\n"); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	reader := bufio.NewReader(peer)
	line := readLine(t, reader)
	if line != ":localhost PONG one\r\n" {
		t.Errorf("Got %q, want PONG for first PING", line)
	}

	_ = peer.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if extra, err := reader.ReadString('\n'); err == nil {
		t.Errorf("Expected no reply for flooded PING, got %q", extra)
	}

	if hub.Count() != 1 {
		t.Errorf("Flooding client should stay connected, count is %d", hub.Count())
	}
}
