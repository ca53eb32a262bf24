// Package server turns the operator's line-oriented input stream into
// broadcasts via the Dispatcher type.
package server

import (
	"bufio"
	"io"
	"log/slog"

	"github.com/matematikaadit/fake-irc-server/internal/wire"
)

// Dispatcher reads one line at a time from the operator input stream and
// hands each line to the inject callback. This is the only intentionally
// blocking, single-goroutine loop in the system.
type Dispatcher struct {
	in     io.Reader
	inject func(line string)
	log    *slog.Logger
}

// NewDispatcher creates a Dispatcher reading from in. Each complete line is
// passed to inject with line terminators stripped; the payload is otherwise
// untouched.
func NewDispatcher(in io.Reader, inject func(line string), log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		in:     in,
		inject: inject,
		log:    log.With("component", "dispatcher"),
	}
}

// Run blocks reading operator lines until end-of-input, which terminates the
// dispatcher and signals overall shutdown to the caller.
func (d *Dispatcher) Run() {
	scanner := bufio.NewScanner(d.in)
	for scanner.Scan() {
		d.inject(wire.TrimLine(scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		d.log.Warn("operator input error", "error", err)
		return
	}
	d.log.Info("operator input closed")
}
