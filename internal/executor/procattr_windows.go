//go:build windows

package executor

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// spawnAttr returns the platform spawn attributes. CREATE_NO_WINDOW
// keeps the child from popping up a console window when the bridge is
// launched from a GUI host.
func spawnAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NO_WINDOW,
		HideWindow:    true,
	}
}

// Terminate on Windows has no graceful signal to send, so the request
// degrades to TerminateProcess.
func (p *execProcess) Terminate() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}
