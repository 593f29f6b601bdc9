package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	got := formatError(errors.New("no disk image"))
	if !strings.Contains(got, "Error:") || !strings.Contains(got, "no disk image") {
		t.Errorf("formatError() = %q, expected to contain 'Error:' and the message", got)
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	view := syncResult{Base: "/tmp/disk", Reason: "run once complete", Iterations: 0}

	if err := outputJSON(&buf, view); err != nil {
		t.Fatalf("outputJSON() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("outputJSON() produced invalid JSON: %v", err)
	}
	if got["reason"] != "run once complete" {
		t.Errorf("reason = %v, want %q", got["reason"], "run once complete")
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Errorf("expected trailing newline, got %q", buf.String())
	}
}
