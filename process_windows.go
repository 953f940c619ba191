//go:build windows

package main

import (
	"fmt"
	"os/exec"
	"syscall"
)

// configureProcessGroup sets up the CLI child process (Windows-specific).
// Windows has no Unix-style process groups; HideWindow avoids spawning a
// console window for the child.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow: true,
	}
}

// terminateProcessGroup has no SIGTERM equivalent on Windows; the caller
// falls back to process.Kill()
func terminateProcessGroup(pid int) error {
	return fmt.Errorf("windows termination requires process.Kill()")
}

// forceKillProcessGroup has no SIGKILL equivalent on Windows; the caller
// falls back to process.Kill()
func forceKillProcessGroup(pid int) error {
	return fmt.Errorf("windows force kill requires process.Kill()")
}
