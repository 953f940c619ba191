package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// decodeLogResult parses the handler's JSON payload without depending on
// the LogLevel wire form.
func decodeLogResult(t *testing.T, result *mcp.CallToolResult) []map[string]any {
	t.Helper()
	text := resultText(t, result)
	var entries []map[string]any
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		t.Fatalf("log payload is not a JSON array: %v\n%s", err, text)
	}
	return entries
}

func TestHandleGetLogsReturnsRecentEntries(t *testing.T) {
	logger.Clear()
	LogInfo("Test", "first")
	LogInfo("Test", "second")
	LogWarn("Test", "third")

	result, err := handleGetLogs(context.Background(), newToolRequest(map[string]any{"limit": float64(2)}))
	if err != nil {
		t.Fatalf("handleGetLogs returned error: %v", err)
	}
	entries := decodeLogResult(t, result)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0]["message"] != "second" || entries[1]["message"] != "third" {
		t.Errorf("limit must keep the most recent entries, got %v", entries)
	}
	if entries[1]["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entries[1]["level"])
	}
}

func TestHandleGetLogsDefaultLimit(t *testing.T) {
	logger.Clear()
	LogInfo("Test", "only")

	result, err := handleGetLogs(context.Background(), newToolRequest(nil))
	if err != nil {
		t.Fatalf("handleGetLogs returned error: %v", err)
	}
	entries := decodeLogResult(t, result)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if !strings.Contains(resultText(t, result), "only") {
		t.Error("payload should carry the logged message")
	}
}

func TestHandleGetLogsClear(t *testing.T) {
	logger.Clear()
	LogInfo("Test", "ephemeral")

	result, err := handleGetLogs(context.Background(), newToolRequest(map[string]any{"clear": true}))
	if err != nil {
		t.Fatalf("handleGetLogs returned error: %v", err)
	}
	if entries := decodeLogResult(t, result); len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if remaining := logger.GetEntries(); len(remaining) != 0 {
		t.Errorf("ring should be empty after clear, has %d entries", len(remaining))
	}
}

func TestLoggerRingTrimsOldestEntries(t *testing.T) {
	l := &Logger{maxEntries: 3}
	for _, msg := range []string{"a", "b", "c", "d"} {
		l.Info("Test", msg)
	}

	entries := l.GetEntries()
	if len(entries) != 3 {
		t.Fatalf("ring holds %d entries, want 3", len(entries))
	}
	if entries[0].Message != "b" || entries[2].Message != "d" {
		t.Errorf("ring must drop the oldest entries first, got %+v", entries)
	}
}
