package main

import (
	"encoding/json"
	"strings"
)

// streamReduction is the outcome of folding over a stream-json transcript.
type streamReduction struct {
	// Text is every successful result payload, in line order, joined
	// with newlines. Empty when the run produced no textual result.
	Text string
	// SessionID is the last session_id observed in the stream, or ""
	SessionID string
}

// reduceStreamOutput parses raw CLI stdout as newline-delimited JSON events
// and keeps only what the caller cares about: successful result text and
// the session ID for conversation continuation.
//
// The stream is expected to contain noise: partial lines, progress events,
// tool-use records. Lines that fail to parse and events of any other shape
// are skipped, never treated as errors.
func reduceStreamOutput(raw string) streamReduction {
	var reduction streamReduction
	var results []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var event map[string]any
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			LogDebug("Stream", "skipping unparseable line", truncateForLog(line, 120))
			continue
		}

		if id, ok := event["session_id"].(string); ok && id != "" {
			reduction.SessionID = id
		}

		eventType, _ := event["type"].(string)
		subtype, _ := event["subtype"].(string)
		if eventType == "result" && subtype == "success" {
			if text, ok := event["result"].(string); ok {
				results = append(results, text)
			}
		}
	}

	reduction.Text = strings.Join(results, "\n")
	return reduction
}

func truncateForLog(input string, limit int) string {
	if limit <= 0 || len(input) <= limit {
		return input
	}
	return input[:limit] + "..."
}
