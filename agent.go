package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// agentRunTimeout is the fixed upper bound for one CLI invocation. Agentic
// runs can legitimately take a long time; anything beyond this is stuck.
const agentRunTimeout = 30 * time.Minute

// agentBridge forwards tool calls to the Claude CLI: it builds the
// argument vector, runs the process, reduces the stream-json output to
// plain text, and tracks the session ID for conversation continuation.
type agentBridge struct {
	binary   string
	config   *ConfigStore
	sessions SessionStore
	run      runFunc
}

func newAgentBridge(binary string, config *ConfigStore, sessions SessionStore) *agentBridge {
	return &agentBridge{
		binary:   binary,
		config:   config,
		sessions: sessions,
		run:      runCommand,
	}
}

// handleAgent is the single tool entry point.
func (b *agentBridge) handleAgent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil || strings.TrimSpace(prompt) == "" {
		return mcp.NewToolResultError("Missing or empty 'prompt' argument"), nil
	}

	clearContext := false
	if arguments, ok := request.Params.Arguments.(map[string]any); ok {
		if v, exists := arguments["clearContext"]; exists {
			if flag, ok := v.(bool); ok {
				clearContext = flag
			}
		}
	}

	// Short per-call ID so interleaved calls can be told apart in the log
	callID := uuid.New().String()[:8]

	if clearContext {
		b.sessions.Clear()
		LogInfo("Agent", "conversation context cleared", "call "+callID)
	}

	cfg := b.config.Current()
	workDir := resolveWorkDir(cfg.Workspace)
	args := buildAgentArgs(cfg, prompt, b.sessions)

	LogDebug("Agent", "invoking CLI",
		fmt.Sprintf("call %s: %s (workdir %s, %d args)", callID, b.binary, workDir, len(args)))

	started := time.Now()
	result, err := b.run(ctx, b.binary, args, workDir, agentRunTimeout)
	if err != nil {
		LogError("Agent", "CLI run failed", fmt.Sprintf("call %s: %v", callID, err))
		return mcp.NewToolResultError(classifyRunError(err)), nil
	}

	reduction := reduceStreamOutput(result.Stdout)
	if reduction.SessionID != "" {
		b.sessions.Update(reduction.SessionID)
		LogDebug("Agent", "session ID updated", fmt.Sprintf("call %s: %s", callID, reduction.SessionID))
	}

	LogDebug("Agent", "CLI run completed",
		fmt.Sprintf("call %s: %d bytes of result text in %s", callID, len(reduction.Text), time.Since(started).Round(time.Millisecond)))

	return mcp.NewToolResultText(reduction.Text), nil
}

// buildAgentArgs assembles the CLI argument vector in a fixed order. The
// prompt is passed as a discrete argument, so no shell escaping applies.
func buildAgentArgs(cfg Config, prompt string, sessions SessionStore) []string {
	args := []string{
		"--dangerously-skip-permissions",
		"-p", prompt,
		"--output-format", "stream-json",
		"--verbose",
	}
	if cfg.Model != "" {
		args = append(args, "--model", cfg.Model)
	}
	if cfg.SystemPrompt != "" {
		args = append(args, "--system-prompt", cfg.SystemPrompt)
	}
	if cfg.AppendSystemPrompt != "" {
		args = append(args, "--append-system-prompt", cfg.AppendSystemPrompt)
	}
	if cfg.MCPConfig != "" {
		args = append(args, "--mcp-config", cfg.MCPConfig)
	}
	if id, ok := sessions.Get(); ok {
		args = append(args, "--resume", id)
	}
	return args
}

// resolveWorkDir picks the configured workspace when it exists on disk,
// falling back to the process working directory. A missing workspace is
// logged, never an error.
func resolveWorkDir(workspace string) string {
	if workspace != "" {
		if info, err := os.Stat(workspace); err == nil && info.IsDir() {
			return workspace
		}
		LogWarn("Agent", "configured workspace does not exist, using current directory", workspace)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}

// classifyRunError turns a runner failure into the single user-visible
// error message for the tool response.
func classifyRunError(err error) string {
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return fmt.Sprintf("Agent run timed out after %ds. The CLI process was terminated.",
			int(timeoutErr.After.Seconds()))
	}

	var exitErr *ExitStatusError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("Agent run failed: %s", exitErr.Error())
	}

	var startErr *StartError
	if errors.As(err, &startErr) {
		if startErr.Signal != "" {
			return fmt.Sprintf("Agent process was terminated by signal %s.", startErr.Signal)
		}
		return fmt.Sprintf("Agent process could not be started: %v. Check that the Claude CLI is installed and on PATH.", startErr.Cause)
	}

	return fmt.Sprintf("Agent run failed: %v", err)
}
