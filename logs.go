package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

const defaultLogLimit = 50

// newLogsTool describes the diagnostics tool exposing the in-memory log
// ring. The ring keeps the last 1000 entries regardless of debug mode, so
// a client can pull history that never reached stderr.
func newLogsTool() mcp.Tool {
	return mcp.NewTool(
		"get_logs",
		mcp.WithDescription("Retrieve recent server log entries for diagnostics. "+
			"Entries are returned oldest first as a JSON array."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (default: 50)"),
		),
		mcp.WithBoolean("clear",
			mcp.Description("Clear the log ring after returning the entries (default: false)"),
		),
	)
}

func handleGetLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := defaultLogLimit
	clearAfter := false
	if arguments, ok := request.Params.Arguments.(map[string]any); ok {
		if v, exists := arguments["limit"]; exists {
			if vFloat, ok := v.(float64); ok && vFloat > 0 {
				limit = int(vFloat)
			}
		}
		if v, ok := arguments["clear"].(bool); ok {
			clearAfter = v
		}
	}

	entries := logger.GetRecentEntries(limit)
	if clearAfter {
		logger.Clear()
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode log entries: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
