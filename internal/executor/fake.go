package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"
)

// FakeCommand is a function that simulates a command execution.
// It receives stdin, stdout, stderr and the full argument vector and
// returns an exit code. The context is cancelled when the process is
// terminated or killed.
type FakeCommand func(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) int

// FakeExecutor is a test implementation of Executor that runs registered
// fake commands in goroutines.
type FakeExecutor struct {
	mu       sync.RWMutex
	commands map[string]FakeCommand
	lastEnv  []string
}

// NewFakeExecutor creates a new FakeExecutor.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{
		commands: make(map[string]FakeCommand),
	}
}

// RegisterCommand registers a fake command implementation.
// The name should match the first element of the command slice.
func (e *FakeExecutor) RegisterCommand(name string, handler FakeCommand) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands[name] = handler
}

// LastEnv returns the environment passed to the most recent Start.
func (e *FakeExecutor) LastEnv() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastEnv
}

// fakeProcess implements Process for FakeExecutor.
type fakeProcess struct {
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
	exitCode int
}

func (p *fakeProcess) Pid() int { return 0 }

func (p *fakeProcess) Wait() (int, error) {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode, nil
}

func (p *fakeProcess) Terminate() error {
	p.cancel()
	return nil
}

func (p *fakeProcess) Kill() error {
	p.cancel()
	return nil
}

// Start implements Executor.Start for FakeExecutor.
func (e *FakeExecutor) Start(cmdArgs []string, env []string, stdin io.Reader, stdout, stderr io.Writer) (Process, error) {
	if len(cmdArgs) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	e.mu.Lock()
	handler, ok := e.commands[cmdArgs[0]]
	e.lastEnv = env
	e.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("executable %q not found", cmdArgs[0])
	}

	// Dup file descriptors if the streams are *os.File, since the caller
	// closes its copies after Start returns but the handler goroutine
	// needs to keep using them.
	var files []*os.File
	dup := func(f *os.File, name string) (*os.File, error) {
		newFd, err := syscall.Dup(int(f.Fd()))
		if err != nil {
			return nil, fmt.Errorf("dup %s: %w", name, err)
		}
		nf := os.NewFile(uintptr(newFd), name)
		files = append(files, nf)
		return nf, nil
	}
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	stdinReader := stdin
	stdoutWriter := stdout
	stderrWriter := stderr

	if f, ok := stdin.(*os.File); ok {
		nf, err := dup(f, "stdin")
		if err != nil {
			closeAll()
			return nil, err
		}
		stdinReader = nf
	}
	if f, ok := stdout.(*os.File); ok {
		nf, err := dup(f, "stdout")
		if err != nil {
			closeAll()
			return nil, err
		}
		stdoutWriter = nf
	}
	if f, ok := stderr.(*os.File); ok {
		nf, err := dup(f, "stderr")
		if err != nil {
			closeAll()
			return nil, err
		}
		stderrWriter = nf
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	proc := &fakeProcess{
		cancel: cancel,
		done:   done,
	}

	go func() {
		defer closeAll()

		exitCode := handler(ctx, stdinReader, stdoutWriter, stderrWriter, cmdArgs)
		proc.mu.Lock()
		proc.exitCode = exitCode
		proc.mu.Unlock()
		close(done)
	}()

	return proc, nil
}
