// Package eventlog records bridge lifecycle events.
//
// The bridge's stdout and stderr carry the child's streams, so its own
// observability has to live somewhere else entirely. Events go to a
// pluggable sink: the process logger by default, or systemd-journald
// when requested. Emitting an event must never disturb the data plane;
// all sinks are best-effort.
package eventlog

import (
	"log/slog"
	"strconv"
	"strings"
)

// EventLog is a sink for structured lifecycle events.
type EventLog interface {
	// Write sends a structured entry to the backing store.
	Write(message string, fields map[string]string) error

	// Close releases any resources.
	Close() error
}

// Lifecycle event constants.
const (
	EventStarted  = "started"
	EventExited   = "exited"
	EventSignaled = "signaled"
)

// Event field names for bridle events.
const (
	FieldEvent    = "BRIDLE_EVENT"
	FieldCommand  = "BRIDLE_COMMAND"
	FieldPID      = "BRIDLE_PID"
	FieldExitCode = "BRIDLE_EXIT_CODE"
	FieldSignal   = "BRIDLE_SIGNAL"
)

// EmitStarted writes a child-started event to the log.
func EmitStarted(log EventLog, command []string, pid int) error {
	return log.Write("Child started", map[string]string{
		FieldEvent:   EventStarted,
		FieldCommand: strings.Join(command, " "),
		FieldPID:     strconv.Itoa(pid),
	})
}

// EmitExited writes a child-exited event to the log.
func EmitExited(log EventLog, command []string, exitCode int) error {
	return log.Write("Child exited", map[string]string{
		FieldEvent:    EventExited,
		FieldCommand:  strings.Join(command, " "),
		FieldExitCode: strconv.Itoa(exitCode),
	})
}

// EmitSignaled writes a signal-received event to the log.
func EmitSignaled(log EventLog, signal string) error {
	return log.Write("Termination signal received", map[string]string{
		FieldEvent:  EventSignaled,
		FieldSignal: signal,
	})
}

// Discard is an EventLog that drops everything.
type Discard struct{}

func (Discard) Write(message string, fields map[string]string) error { return nil }
func (Discard) Close() error                                         { return nil }

// SlogLog writes events through a slog.Logger, with fields as attributes.
type SlogLog struct {
	logger *slog.Logger
}

// NewSlogLog creates an EventLog backed by the given logger.
func NewSlogLog(logger *slog.Logger) *SlogLog {
	return &SlogLog{logger: logger}
}

func (l *SlogLog) Write(message string, fields map[string]string) error {
	attrs := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		attrs = append(attrs, strings.ToLower(k), v)
	}
	l.logger.Info(message, attrs...)
	return nil
}

func (l *SlogLog) Close() error { return nil }
