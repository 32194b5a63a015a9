// bridle - bridge standard streams to a child process
//
// Usage:
//
//	bridle [flags] -- <command> [args...]
//
// bridle spawns the command, forwards its own stdin to the child and the
// child's stdout/stderr back out line by line, and exits with the
// child's exit code. SIGINT/SIGTERM send the child a termination request
// and exit immediately. The typical use is wrapping a line-oriented
// stdio server (an MCP server, a language server) behind a launcher that
// only knows how to start one executable.
//
// Without positional arguments the command is taken from BRIDLE_COMMAND,
// split on whitespace.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/mbrock/bridle/internal/bridge"
	"github.com/mbrock/bridle/internal/eventlog"
	"github.com/mbrock/bridle/internal/executor"
)

// Global flags
var (
	logFileFlag string
	journalFlag bool
)

func main() {
	flag.StringVar(&logFileFlag, "log", os.Getenv("BRIDLE_LOG"), "Append diagnostics to this file (overrides BRIDLE_LOG)")
	flag.BoolVar(&journalFlag, "journal", false, "Send lifecycle events to systemd-journald")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `bridle - bridge standard streams to a child process

Usage:
  bridle [flags] -- <command> [args...]

The command may instead come from the BRIDLE_COMMAND environment
variable, split on whitespace. The bridge exits with the child's exit
code, or 0 when interrupted.

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	command, err := bridge.ResolveCommand(flag.Args(), os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n\n", err)
		flag.Usage()
		os.Exit(2)
	}

	logger := newLogger()
	events := newEventLog(logger)
	defer events.Close()

	b := bridge.New(bridge.Config{
		Command:  command,
		Env:      os.Environ(),
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Executor: executor.Default(),
		Events:   events,
		Logger:   logger,
	})

	// Fire-and-forget shutdown: ask the child to stop, then leave
	// without waiting for it or for the relays.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("signal received, terminating child", "signal", sig.String())
		if err := eventlog.EmitSignaled(events, sig.String()); err != nil {
			logger.Debug("emitting signaled event", "error", err)
		}
		b.Terminate()
		events.Close()
		os.Exit(0)
	}()

	code, err := b.Run(context.Background())
	if err != nil {
		fatal("%v", err)
	}
	os.Exit(code)
}

// newLogger builds the diagnostics logger. The bridge's stderr belongs
// to the child once relaying starts, so diagnostics only go there when
// it is an interactive terminal; otherwise they go to the --log file or
// nowhere.
func newLogger() *slog.Logger {
	var w io.Writer
	switch {
	case logFileFlag != "":
		f, err := os.OpenFile(logFileFlag, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			fatal("opening log file: %v", err)
		}
		w = f
	case term.IsTerminal(int(os.Stderr.Fd())):
		w = os.Stderr
	default:
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newEventLog picks the lifecycle event sink.
func newEventLog(logger *slog.Logger) eventlog.EventLog {
	if journalFlag {
		ev, err := eventlog.OpenJournal()
		if err == nil {
			return ev
		}
		logger.Warn("journald unavailable, lifecycle events go to the log", "error", err)
	}
	return eventlog.NewSlogLog(logger)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
