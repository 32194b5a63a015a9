//go:build !windows

package executor

import "syscall"

// spawnAttr returns the platform spawn attributes. Nothing special is
// needed on Unix; the child stays in the bridge's process group so a
// terminal-generated SIGINT reaches both.
func spawnAttr() *syscall.SysProcAttr {
	return nil
}

// Terminate sends SIGTERM, leaving the process free to ignore it.
func (p *execProcess) Terminate() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Signal(syscall.SIGTERM)
}
