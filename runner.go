package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

// killGracePeriod is how long a timed-out process group gets between the
// termination request and a forced kill.
const killGracePeriod = 5 * time.Second

// RunResult holds the captured output of a successfully completed command.
type RunResult struct {
	Stdout string
	Stderr string
}

// ExitStatusError reports a command that ran to completion with a non-zero
// exit code.
type ExitStatusError struct {
	Code   int
	Stdout string
	Stderr string
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("command exited with code %d. Stdout: %s Stderr: %s",
		e.Code, strings.TrimSpace(e.Stdout), strings.TrimSpace(e.Stderr))
}

// TimeoutError reports a command that was terminated because it exceeded
// its deadline.
type TimeoutError struct {
	After  time.Duration
	Stdout string
	Stderr string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %ds", int(e.After.Seconds()))
}

// StartError reports a command that never ran to completion on its own:
// it could not be launched at all, or it was terminated by a signal.
type StartError struct {
	Cause  error
	Signal string
	Stdout string
	Stderr string
}

func (e *StartError) Error() string {
	if e.Signal != "" {
		return fmt.Sprintf("command terminated by signal %s: %v", e.Signal, e.Cause)
	}
	return fmt.Sprintf("command failed to run: %v", e.Cause)
}

func (e *StartError) Unwrap() error { return e.Cause }

// runFunc is the process-runner contract, injectable for tests.
type runFunc func(ctx context.Context, name string, args []string, workDir string, timeout time.Duration) (*RunResult, error)

// runCommand executes a command with no shell interpretation, captures its
// stdout and stderr in full, and classifies any failure. One attempt per
// call. The child runs in its own process group so that a timeout takes
// its descendants down with it.
func runCommand(ctx context.Context, name string, args []string, workDir string, timeout time.Duration) (*RunResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	configureProcessGroup(cmd)
	var killMu sync.Mutex
	var killTimer *time.Timer
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		pid := cmd.Process.Pid
		if err := terminateProcessGroup(pid); err != nil {
			// If platform-specific termination fails, use standard process.Kill()
			return cmd.Process.Kill()
		}
		// Escalate if the group ignores the termination request
		killMu.Lock()
		killTimer = time.AfterFunc(killGracePeriod, func() {
			_ = forceKillProcessGroup(pid)
		})
		killMu.Unlock()
		return nil
	}
	cmd.WaitDelay = killGracePeriod

	if err := cmd.Start(); err != nil {
		return nil, &StartError{Cause: err}
	}

	err := cmd.Wait()

	// Once the leader is reaped its pid can be recycled, so the delayed
	// group kill must not stay armed. If it had not fired yet, sweep any
	// group members that outlived the leader right now instead.
	killMu.Lock()
	if killTimer != nil && killTimer.Stop() {
		_ = forceKillProcessGroup(cmd.Process.Pid)
	}
	killMu.Unlock()

	if err == nil {
		return &RunResult{Stdout: stdout.String(), Stderr: stderr.String()}, nil
	}

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, &TimeoutError{After: timeout, Stdout: stdout.String(), Stderr: stderr.String()}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return nil, &StartError{
				Cause:  err,
				Signal: status.Signal().String(),
				Stdout: stdout.String(),
				Stderr: stderr.String(),
			}
		}
		return nil, &ExitStatusError{Code: exitErr.ExitCode(), Stdout: stdout.String(), Stderr: stderr.String()}
	}

	return nil, &StartError{Cause: err, Stdout: stdout.String(), Stderr: stderr.String()}
}
