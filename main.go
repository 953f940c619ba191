package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version can be set at build time using -ldflags "-X main.version=x.x.x"
var version = "dev"

func main() {
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("claudebridge %s\n", version)
		os.Exit(0)
	}

	// Load configuration: environment wins over the optional JSONC file
	configStore, err := LoadConfig(os.Getenv(envConfigFile))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v\n", err)
	}
	defer configStore.Close()

	// Tool name and CLI binary are fixed at startup; everything else is
	// re-read from the config snapshot on every call
	cfg := configStore.Current()
	SetDebugLogging(cfg.Debug)

	if err := configStore.Watch(); err != nil {
		LogWarn("Server", "config live reload unavailable", err.Error())
	}

	// Locating the CLI is the only per-call dependency worth validating at
	// startup; a relative-path override is a configuration error
	binary, err := resolveBinary(cfg.CLIName)
	if err != nil {
		log.Fatalf("Invalid CLI configuration: %v\n", err)
	}
	LogInfo("Server", "using Claude CLI", binary)

	s := server.NewMCPServer(
		"Claude Bridge",
		version,
		server.WithToolCapabilities(false),
	)

	bridge := newAgentBridge(binary, configStore, sessions)

	agentTool := mcp.NewTool(
		cfg.ToolName,
		mcp.WithDescription("Run a natural-language task with the Claude agent CLI. "+
			"The agent can read and edit files, run commands, and answer questions about the workspace. "+
			"Conversation context carries over between calls until clearContext is set."),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The task or question for the agent"),
		),
		mcp.WithBoolean("clearContext",
			mcp.Description("Start a fresh conversation, discarding the tracked session (default: false)"),
		),
	)
	s.AddTool(agentTool, bridge.handleAgent)
	s.AddTool(newLogsTool(), handleGetLogs)

	// Shutdown on signal is immediate. An in-flight CLI call runs in its
	// own process group and is not waited on or killed here.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		LogInfo("Server", "shutting down")
		configStore.Close()
		os.Exit(0)
	}()

	LogInfo("Server", "serving MCP over stdio", fmt.Sprintf("tool %q", cfg.ToolName))
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
	}
}
