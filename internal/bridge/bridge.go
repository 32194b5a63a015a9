// Package bridge owns a single child process for the life of the
// program: it spawns the configured command, relays the three standard
// streams line-by-line, and reports the child's exit code.
package bridge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mbrock/bridle/internal/eventlog"
	"github.com/mbrock/bridle/internal/executor"
	"github.com/mbrock/bridle/internal/relay"
)

// Config holds everything a Bridge needs. Zero-value stream and
// collaborator fields fall back to the process's own stdio, the real
// executor, and discarding sinks.
type Config struct {
	// Command is the child's executable path and argument list.
	Command []string

	// Env is the child's environment in os.Environ() form.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Executor executor.Executor
	Events   eventlog.EventLog
	Logger   *slog.Logger
}

// Bridge runs one child process and plumbs its streams.
type Bridge struct {
	command []string
	env     []string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer

	exec   executor.Executor
	events eventlog.EventLog
	log    *slog.Logger

	mu      sync.Mutex
	proc    executor.Process
	running bool
}

// New creates a Bridge from cfg, filling in defaults.
func New(cfg Config) *Bridge {
	b := &Bridge{
		command: cfg.Command,
		env:     cfg.Env,
		stdin:   cfg.Stdin,
		stdout:  cfg.Stdout,
		stderr:  cfg.Stderr,
		exec:    cfg.Executor,
		events:  cfg.Events,
		log:     cfg.Logger,
	}
	if b.stdin == nil {
		b.stdin = os.Stdin
	}
	if b.stdout == nil {
		b.stdout = os.Stdout
	}
	if b.stderr == nil {
		b.stderr = os.Stderr
	}
	if b.exec == nil {
		b.exec = executor.Default()
	}
	if b.events == nil {
		b.events = eventlog.Discard{}
	}
	if b.log == nil {
		b.log = slog.New(slog.DiscardHandler)
	}
	return b
}

// Run spawns the child and blocks until it exits, returning the child's
// exit code. A spawn failure is the only error; everything after a
// successful spawn is best-effort stream plumbing. Cancelling ctx kills
// the child; the exit code is then reported as 0, since none was
// obtained.
func (b *Bridge) Run(ctx context.Context) (int, error) {
	if len(b.command) == 0 {
		return 0, fmt.Errorf("empty command")
	}

	stdinRead, stdinWrite, err := os.Pipe()
	if err != nil {
		return 0, fmt.Errorf("creating stdin pipe: %w", err)
	}
	stdoutRead, stdoutWrite, err := os.Pipe()
	if err != nil {
		stdinRead.Close()
		stdinWrite.Close()
		return 0, fmt.Errorf("creating stdout pipe: %w", err)
	}
	stderrRead, stderrWrite, err := os.Pipe()
	if err != nil {
		stdinRead.Close()
		stdinWrite.Close()
		stdoutRead.Close()
		stdoutWrite.Close()
		return 0, fmt.Errorf("creating stderr pipe: %w", err)
	}

	proc, err := b.exec.Start(b.command, b.env, stdinRead, stdoutWrite, stderrWrite)
	if err != nil {
		stdinRead.Close()
		stdinWrite.Close()
		stdoutRead.Close()
		stdoutWrite.Close()
		stderrRead.Close()
		stderrWrite.Close()
		return 0, fmt.Errorf("starting %s: %w", b.command[0], err)
	}

	// The child owns its ends of the pipes now.
	stdinRead.Close()
	stdoutWrite.Close()
	stderrWrite.Close()

	b.mu.Lock()
	b.proc = proc
	b.running = true
	b.mu.Unlock()

	if err := eventlog.EmitStarted(b.events, b.command, proc.Pid()); err != nil {
		b.log.Debug("emitting started event", "error", err)
	}
	b.log.Info("child started", "pid", proc.Pid(), "command", b.command)

	// Input relay. Runs detached and is never joined: it blocks on our
	// own stdin, which stays open for as long as the caller keeps it
	// open, regardless of the child's fate. Closing the write end after
	// EOF lets the child see end-of-input.
	go func() {
		if err := relay.Lines(stdinWrite, b.stdin); err != nil {
			b.log.Debug("stdin relay ended", "error", err)
		}
		stdinWrite.Close()
	}()

	// Output relays. These end when the child's pipes close, so they
	// can be drained after the exit wait without risk of hanging.
	var relays errgroup.Group
	relays.Go(func() error {
		if err := relay.Lines(b.stdout, stdoutRead); err != nil {
			b.log.Debug("stdout relay ended", "error", err)
		}
		stdoutRead.Close()
		return nil
	})
	relays.Go(func() error {
		if err := relay.Lines(b.stderr, stderrRead); err != nil {
			b.log.Debug("stderr relay ended", "error", err)
		}
		stderrRead.Close()
		return nil
	})

	done := make(chan int, 1)
	go func() {
		code, err := proc.Wait()
		if err != nil {
			b.log.Debug("waiting for child", "error", err)
		}
		done <- code
	}()

	var code int
	interrupted := false
	select {
	case code = <-done:
	case <-ctx.Done():
		_ = proc.Kill()
		<-done
		code = 0
		interrupted = true
	}

	relays.Wait()

	b.mu.Lock()
	b.running = false
	b.mu.Unlock()

	if err := eventlog.EmitExited(b.events, b.command, code); err != nil {
		b.log.Debug("emitting exited event", "error", err)
	}
	b.log.Info("child exited", "code", code)

	if interrupted {
		return 0, ctx.Err()
	}
	return code, nil
}

// Terminate sends a graceful termination request to the child if one is
// still running. The request is best-effort: the child may ignore it or
// may already be gone. Terminate never waits for the child to stop.
func (b *Bridge) Terminate() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running || b.proc == nil {
		return
	}
	if err := b.proc.Terminate(); err != nil {
		b.log.Debug("termination request failed", "error", err)
	}
}

// Running reports whether the child is currently running.
func (b *Bridge) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}
