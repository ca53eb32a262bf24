// Command fake-irc-server runs a minimal interactive IRC server for client
// debugging: every line typed on stdin is broadcast verbatim to all connected
// clients.
//
// Usage: fake-irc-server [PORT]
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/matematikaadit/fake-irc-server/internal/logging"
	"github.com/matematikaadit/fake-irc-server/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := server.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := logging.Init(cfg.LogLevel, cfg.LogFormat)

	srv := server.New(cfg, clockwork.NewRealClock(), log)
	if err := srv.Start(); err != nil {
		log.Error("startup failed", "error", err)
		return 1
	}

	// The dispatcher owns stdin; its end-of-input is one of the two ways the
	// process shuts down, the other being a signal.
	inputDone := make(chan struct{})
	dispatcher := server.NewDispatcher(os.Stdin, func(line string) {
		srv.Inject(line, "stdin")
	}, log)
	go func() {
		dispatcher.Run()
		close(inputDone)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-inputDone:
		log.Info("shutting down: operator input ended")
	case s := <-sig:
		log.Info("shutting down: signal received", "signal", s.String())
	}

	srv.Shutdown()
	return 0
}
