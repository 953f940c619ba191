package main

import "testing"

func TestReduceStreamOutput(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantText    string
		wantSession string
	}{
		{
			name:     "two results joined in line order",
			raw:      `{"type":"result","subtype":"success","result":"A"}` + "\n" + `{"type":"result","subtype":"success","result":"B"}`,
			wantText: "A\nB",
		},
		{
			name:     "unparseable lines are skipped",
			raw:      "not-json\n" + `{"type":"result","subtype":"success","result":"ok"}`,
			wantText: "ok",
		},
		{
			name:     "empty and whitespace lines are skipped",
			raw:      "\n   \n\t\n" + `{"type":"result","subtype":"success","result":"ok"}` + "\n\n",
			wantText: "ok",
		},
		{
			name:     "no qualifying events yields empty text",
			raw:      `{"type":"system","subtype":"init"}` + "\n" + `{"type":"assistant","message":{}}`,
			wantText: "",
		},
		{
			name:     "empty input yields empty text",
			raw:      "",
			wantText: "",
		},
		{
			name:        "session id extracted from any event",
			raw:         `{"type":"system","subtype":"init","session_id":"sess-1"}`,
			wantSession: "sess-1",
		},
		{
			name: "last session id wins",
			raw: `{"session_id":"first"}` + "\n" +
				`{"session_id":"second"}`,
			wantSession: "second",
		},
		{
			name:        "session id and result on the same line",
			raw:         `{"type":"result","subtype":"success","result":"done","session_id":"sess-2"}`,
			wantText:    "done",
			wantSession: "sess-2",
		},
		{
			name:     "non-success result subtype is ignored",
			raw:      `{"type":"result","subtype":"error_during_execution","result":"oops"}`,
			wantText: "",
		},
		{
			name:        "non-string result is ignored but session id still counts",
			raw:         `{"type":"result","subtype":"success","result":42,"session_id":"sess-3"}`,
			wantText:    "",
			wantSession: "sess-3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reduceStreamOutput(tt.raw)
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.SessionID != tt.wantSession {
				t.Errorf("SessionID = %q, want %q", got.SessionID, tt.wantSession)
			}
		})
	}
}

func TestReduceStreamOutputIsIdempotent(t *testing.T) {
	raw := `{"session_id":"s1"}` + "\n" +
		"garbage line\n" +
		`{"type":"result","subtype":"success","result":"A"}` + "\n" +
		`{"type":"result","subtype":"success","result":"B"}`

	first := reduceStreamOutput(raw)
	second := reduceStreamOutput(raw)

	if first.Text != second.Text {
		t.Errorf("reduction is not idempotent: %q vs %q", first.Text, second.Text)
	}
	if first.SessionID != second.SessionID {
		t.Errorf("session extraction is not idempotent: %q vs %q", first.SessionID, second.SessionID)
	}
}
