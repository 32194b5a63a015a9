package eventlog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// fakeLog records writes for assertions.
type fakeLog struct {
	messages []string
	fields   []map[string]string
}

func (f *fakeLog) Write(message string, fields map[string]string) error {
	f.messages = append(f.messages, message)
	f.fields = append(f.fields, fields)
	return nil
}

func (f *fakeLog) Close() error { return nil }

func TestEmitStarted(t *testing.T) {
	f := &fakeLog{}
	if err := EmitStarted(f, []string{"node", "server.js"}, 1234); err != nil {
		t.Fatalf("EmitStarted: %v", err)
	}
	if len(f.fields) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.fields))
	}
	fields := f.fields[0]
	if fields[FieldEvent] != EventStarted {
		t.Errorf("event kind: got %q, want %q", fields[FieldEvent], EventStarted)
	}
	if fields[FieldCommand] != "node server.js" {
		t.Errorf("command: got %q", fields[FieldCommand])
	}
	if fields[FieldPID] != "1234" {
		t.Errorf("pid: got %q", fields[FieldPID])
	}
}

func TestEmitExited(t *testing.T) {
	f := &fakeLog{}
	if err := EmitExited(f, []string{"true"}, 3); err != nil {
		t.Fatalf("EmitExited: %v", err)
	}
	fields := f.fields[0]
	if fields[FieldEvent] != EventExited {
		t.Errorf("event kind: got %q", fields[FieldEvent])
	}
	if fields[FieldExitCode] != "3" {
		t.Errorf("exit code: got %q", fields[FieldExitCode])
	}
}

func TestEmitSignaled(t *testing.T) {
	f := &fakeLog{}
	if err := EmitSignaled(f, "terminated"); err != nil {
		t.Fatalf("EmitSignaled: %v", err)
	}
	if f.fields[0][FieldSignal] != "terminated" {
		t.Errorf("signal: got %q", f.fields[0][FieldSignal])
	}
}

func TestSlogLog_WritesFieldsAsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	l := NewSlogLog(logger)
	if err := EmitExited(l, []string{"echo"}, 0); err != nil {
		t.Fatalf("write via slog sink: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Child exited") {
		t.Errorf("message missing from log output: %q", out)
	}
	if !strings.Contains(out, "bridle_exit_code=0") {
		t.Errorf("exit code attr missing from log output: %q", out)
	}
}

func TestDiscard(t *testing.T) {
	var d Discard
	if err := d.Write("anything", nil); err != nil {
		t.Errorf("Discard.Write: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Discard.Close: %v", err)
	}
}
