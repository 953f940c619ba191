//go:build unix

package main

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup places the CLI child in its own process group so
// that timeout termination also reaches any helpers the CLI spawned
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// terminateProcessGroup sends SIGTERM to the child's process group
func terminateProcessGroup(pid int) error {
	return syscall.Kill(-pid, syscall.SIGTERM)
}

// forceKillProcessGroup sends SIGKILL to the child's process group
func forceKillProcessGroup(pid int) error {
	return syscall.Kill(-pid, syscall.SIGKILL)
}
