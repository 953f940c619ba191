package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/tidwall/jsonc"
)

const (
	defaultToolName   = "agent"
	defaultBinaryName = "claude"
)

// Environment variables consumed by the server. Environment values always
// win over the optional config file.
const (
	envCLIName            = "CLAUDE_CLI_NAME"
	envWorkspace          = "CLAUDE_WORKSPACE"
	envModel              = "CLAUDE_MODEL"
	envSystemPrompt       = "CLAUDE_SYSTEM_PROMPT"
	envAppendSystemPrompt = "CLAUDE_APPEND_SYSTEM_PROMPT"
	envMCPConfig          = "CLAUDE_MCP_CONFIG"
	envToolName           = "CLAUDE_TOOL_NAME"
	envDebug              = "MCP_CLAUDE_DEBUG"
	envConfigFile         = "CLAUDE_BRIDGE_CONFIG"
)

// Config is one immutable snapshot of the server's settings. Handlers take
// a snapshot per call so a concurrent reload never changes a call midway.
type Config struct {
	CLIName            string
	Workspace          string
	Model              string
	SystemPrompt       string
	AppendSystemPrompt string
	MCPConfig          string
	ToolName           string
	Debug              bool
}

// fileConfig mirrors the optional JSONC config file. Every field supplies
// a default only; unset fields fall through.
type fileConfig struct {
	CLIName            string `json:"cliName"`
	Workspace          string `json:"workspace"`
	Model              string `json:"model"`
	SystemPrompt       string `json:"systemPrompt"`
	AppendSystemPrompt string `json:"appendSystemPrompt"`
	MCPConfig          string `json:"mcpConfig"`
	ToolName           string `json:"toolName"`
	Debug              *bool  `json:"debug"`
}

// ConfigStore holds the current Config and re-reads the backing file when
// it changes on disk.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	current  Config
	watcher  *fsnotify.Watcher
}

// LoadConfig builds the initial configuration from the environment and the
// optional JSONC file at filePath (empty means no file). An explicitly
// configured file that cannot be read or parsed is a startup error.
func LoadConfig(filePath string) (*ConfigStore, error) {
	cfg, err := buildConfig(filePath)
	if err != nil {
		return nil, err
	}
	return &ConfigStore{filePath: filePath, current: cfg}, nil
}

// Current returns a snapshot of the active configuration.
func (cs *ConfigStore) Current() Config {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.current
}

// Watch starts re-reading the config file whenever it changes on disk.
// No-op when no file is configured. The watcher follows the parent
// directory because editors typically replace the file rather than write
// it in place.
func (cs *ConfigStore) Watch() error {
	if cs.filePath == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(cs.filePath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch config directory: %w", err)
	}
	cs.watcher = watcher

	go func() {
		target := filepath.Clean(cs.filePath)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				cs.reload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				LogWarn("Config", "config watcher error", err.Error())
			}
		}
	}()

	LogInfo("Config", "watching config file for changes", cs.filePath)
	return nil
}

// Close stops the config file watcher, if one is running.
func (cs *ConfigStore) Close() {
	if cs.watcher != nil {
		cs.watcher.Close()
	}
}

func (cs *ConfigStore) reload() {
	cfg, err := buildConfig(cs.filePath)
	if err != nil {
		LogWarn("Config", "config reload failed, keeping previous settings", err.Error())
		return
	}

	cs.mu.Lock()
	cs.current = cfg
	cs.mu.Unlock()

	SetDebugLogging(cfg.Debug)
	LogInfo("Config", "config file reloaded", cs.filePath)
}

// buildConfig layers defaults, then file values, then environment values.
func buildConfig(filePath string) (Config, error) {
	cfg := Config{ToolName: defaultToolName}
	var fileDebug *bool

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", filePath, err)
		}
		var fc fileConfig
		if err := json.Unmarshal(jsonc.ToJSON(data), &fc); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", filePath, err)
		}
		applyFileConfig(&cfg, fc)
		fileDebug = fc.Debug
	}

	applyEnv(&cfg.CLIName, envCLIName)
	applyEnv(&cfg.Workspace, envWorkspace)
	applyEnv(&cfg.Model, envModel)
	applyEnv(&cfg.SystemPrompt, envSystemPrompt)
	applyEnv(&cfg.AppendSystemPrompt, envAppendSystemPrompt)
	applyEnv(&cfg.MCPConfig, envMCPConfig)
	applyEnv(&cfg.ToolName, envToolName)

	if raw, ok := os.LookupEnv(envDebug); ok {
		cfg.Debug = raw == "1" || strings.EqualFold(raw, "true")
	} else if fileDebug != nil {
		cfg.Debug = *fileDebug
	}

	return cfg, nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	setIfPresent(&cfg.CLIName, fc.CLIName)
	setIfPresent(&cfg.Workspace, fc.Workspace)
	setIfPresent(&cfg.Model, fc.Model)
	setIfPresent(&cfg.SystemPrompt, fc.SystemPrompt)
	setIfPresent(&cfg.AppendSystemPrompt, fc.AppendSystemPrompt)
	setIfPresent(&cfg.MCPConfig, fc.MCPConfig)
	setIfPresent(&cfg.ToolName, fc.ToolName)
}

func setIfPresent(dst *string, val string) {
	if strings.TrimSpace(val) != "" {
		*dst = val
	}
}

func applyEnv(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

// resolveBinary locates the Claude CLI. Preference order: explicit
// override, well-known local install, PATH lookup of the default name.
// A relative-path override is a configuration error; an override that is
// simply missing from PATH is deferred to spawn time so the failure
// surfaces as a per-call SpawnFailure rather than aborting startup.
func resolveBinary(override string) (string, error) {
	if override != "" {
		if filepath.IsAbs(override) {
			return override, nil
		}
		if strings.ContainsAny(override, `/\`) {
			return "", fmt.Errorf("%s must be an absolute path or a bare command name, got %q", envCLIName, override)
		}
		if path, err := exec.LookPath(override); err == nil {
			LogDebug("Config", "resolved CLI override via PATH", path)
			return path, nil
		}
		LogWarn("Config", "CLI override not found on PATH, deferring to spawn time", override)
		return override, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		local := filepath.Join(home, ".claude", "local", defaultBinaryName)
		if info, err := os.Stat(local); err == nil && !info.IsDir() {
			LogDebug("Config", "resolved CLI from local install", local)
			return local, nil
		}
	}

	if path, err := exec.LookPath(defaultBinaryName); err == nil {
		LogDebug("Config", "resolved CLI via PATH", path)
		return path, nil
	}

	LogWarn("Config", "claude CLI not found locally or on PATH, relying on spawn-time lookup")
	return defaultBinaryName, nil
}
