package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestFakeExecutor_RunsRegisteredCommand(t *testing.T) {
	exec := NewFakeExecutor()
	exec.RegisterCommand("echo-cmd", func(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) int {
		fmt.Fprintln(stdout, "hello")
		return 0
	})

	var out bytes.Buffer
	proc, err := exec.Start([]string{"echo-cmd"}, nil, strings.NewReader(""), &out, io.Discard)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	code, err := proc.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code: got %d, want 0", code)
	}
	if out.String() != "hello\n" {
		t.Errorf("stdout: got %q, want %q", out.String(), "hello\n")
	}
}

func TestFakeExecutor_ExitCodePassthrough(t *testing.T) {
	exec := NewFakeExecutor()
	exec.RegisterCommand("fail-cmd", func(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) int {
		return 42
	})

	proc, err := exec.Start([]string{"fail-cmd"}, nil, strings.NewReader(""), io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	code, _ := proc.Wait()
	if code != 42 {
		t.Errorf("exit code: got %d, want 42", code)
	}
}

func TestFakeExecutor_UnknownExecutable(t *testing.T) {
	exec := NewFakeExecutor()
	_, err := exec.Start([]string{"no-such-cmd"}, nil, strings.NewReader(""), io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected error for unregistered command")
	}
}

func TestFakeExecutor_TerminateCancelsCommand(t *testing.T) {
	exec := NewFakeExecutor()
	exec.RegisterCommand("sleep-cmd", func(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) int {
		<-ctx.Done()
		return 143
	})

	proc, err := exec.Start([]string{"sleep-cmd"}, nil, strings.NewReader(""), io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := proc.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	done := make(chan int, 1)
	go func() {
		code, _ := proc.Wait()
		done <- code
	}()
	select {
	case code := <-done:
		if code != 143 {
			t.Errorf("exit code: got %d, want 143", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("process did not exit after Terminate")
	}
}

func TestFakeExecutor_RecordsEnv(t *testing.T) {
	exec := NewFakeExecutor()
	exec.RegisterCommand("env-cmd", func(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) int {
		return 0
	})

	env := []string{"FOO=bar"}
	proc, err := exec.Start([]string{"env-cmd"}, env, strings.NewReader(""), io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	proc.Wait()

	got := exec.LastEnv()
	if len(got) != 1 || got[0] != "FOO=bar" {
		t.Errorf("LastEnv: got %v, want %v", got, env)
	}
}

func TestExecExecutor_RealProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}

	exec := Default()

	var out bytes.Buffer
	proc, err := exec.Start([]string{"sh", "-c", "echo real; exit 7"}, nil, strings.NewReader(""), &out, io.Discard)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if proc.Pid() == 0 {
		t.Error("expected non-zero pid for a real process")
	}

	code, err := proc.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if code != 7 {
		t.Errorf("exit code: got %d, want 7", code)
	}
	if out.String() != "real\n" {
		t.Errorf("stdout: got %q, want %q", out.String(), "real\n")
	}
}

func TestExecExecutor_SpawnFailure(t *testing.T) {
	exec := Default()
	_, err := exec.Start([]string{"/nonexistent/definitely-not-here"}, nil, strings.NewReader(""), io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected spawn error for missing executable")
	}
}

func TestExecExecutor_EmptyCommand(t *testing.T) {
	exec := Default()
	_, err := exec.Start(nil, nil, strings.NewReader(""), io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected error for empty command")
	}
}
