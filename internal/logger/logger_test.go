package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", "json")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	l.Info("hidden")
	l.Warn("shown", "requestId", "r-1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if rec["msg"] != "shown" || rec["requestId"] != "r-1" {
		t.Errorf("record = %v", rec)
	}
}

func TestNew_Invalid(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(&buf, "loud", "json"); err == nil {
		t.Error("New(bad level) error = nil")
	}
	if _, err := New(&buf, "info", "xml"); err == nil {
		t.Error("New(bad format) error = nil")
	}
}
