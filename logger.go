package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// LogLevel represents the severity of a log entry
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders the level as its name so retrieved entries stay
// readable without the LogLevel numbering.
func (l LogLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"` // Optional additional details
}

// Logger keeps a bounded in-memory log and optionally echoes entries to
// stderr. Stdout is owned by the MCP stdio transport and must never
// receive log output.
type Logger struct {
	mu         sync.RWMutex
	entries    []LogEntry
	maxEntries int
	debug      bool // Whether to echo Debug/Info entries to stderr
}

// Global logger instance
var logger = &Logger{
	entries:    make([]LogEntry, 0),
	maxEntries: 1000,
}

// SetDebug enables or disables verbose stderr output
func (l *Logger) SetDebug(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = enabled
}

// Log adds a new log entry
func (l *Logger) Log(level LogLevel, source, message string, details ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Source:    source,
		Message:   message,
	}

	if len(details) > 0 {
		entry.Details = details[0]
	}

	l.entries = append(l.entries, entry)

	// Trim if exceeds max entries
	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}

	// Warnings and errors always reach stderr; lower levels only in debug mode
	if l.debug || level >= LogLevelWarn {
		timestamp := entry.Timestamp.Format("15:04:05")
		output := fmt.Sprintf("[%s] %s [%s] %s", timestamp, entry.Level.String(), source, message)
		if entry.Details != "" {
			output += fmt.Sprintf(" - %s", entry.Details)
		}
		fmt.Fprintln(os.Stderr, output)
	}
}

// Debug logs a debug level message
func (l *Logger) Debug(source, message string, details ...string) {
	l.Log(LogLevelDebug, source, message, details...)
}

// Info logs an info level message
func (l *Logger) Info(source, message string, details ...string) {
	l.Log(LogLevelInfo, source, message, details...)
}

// Warn logs a warning level message
func (l *Logger) Warn(source, message string, details ...string) {
	l.Log(LogLevelWarn, source, message, details...)
}

// Error logs an error level message
func (l *Logger) Error(source, message string, details ...string) {
	l.Log(LogLevelError, source, message, details...)
}

// GetEntries returns a copy of all log entries
func (l *Logger) GetEntries() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Return a copy to prevent external modification
	entries := make([]LogEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// GetRecentEntries returns the most recent n entries
func (l *Logger) GetRecentEntries(n int) []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}

	start := len(l.entries) - n
	entries := make([]LogEntry, n)
	copy(entries, l.entries[start:])
	return entries
}

// Clear removes all log entries
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make([]LogEntry, 0)
}

// Helper functions for global logger

// LogDebug logs a debug message to the global logger
func LogDebug(source, message string, details ...string) {
	logger.Debug(source, message, details...)
}

// LogInfo logs an info message to the global logger
func LogInfo(source, message string, details ...string) {
	logger.Info(source, message, details...)
}

// LogWarn logs a warning message to the global logger
func LogWarn(source, message string, details ...string) {
	logger.Warn(source, message, details...)
}

// LogError logs an error message to the global logger
func LogError(source, message string, details ...string) {
	logger.Error(source, message, details...)
}

// SetDebugLogging enables or disables verbose output for the global logger
func SetDebugLogging(enabled bool) {
	logger.SetDebug(enabled)
}
