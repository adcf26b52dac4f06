package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("New with unknown format should fail")
	}
}

func TestJSONHandlerShape(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl, false))

	logger.Info("loaded manifest", slog.Int("records", 3))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if payload["msg"] != "loaded manifest" {
		t.Errorf("msg = %v, want loaded manifest", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Errorf("level = %v, want info", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Error("expected ts key")
	}
	if payload["records"] != float64(3) {
		t.Errorf("records = %v, want 3", payload["records"])
	}
}

func TestConsoleHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.With(slog.String(FieldComponent, "manifest")).Warn("skipped line", slog.Int("line", 7))

	out := buf.String()
	if !strings.Contains(out, "WARN") {
		t.Errorf("output missing level tag: %q", out)
	}
	if !strings.Contains(out, "[manifest]") {
		t.Errorf("output missing component header: %q", out)
	}
	if !strings.Contains(out, "line=7") {
		t.Errorf("output missing attr: %q", out)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Info("msg", slog.String("path", "with space.wav"))

	if !strings.Contains(buf.String(), `path="with space.wav"`) {
		t.Errorf("value with space should be quoted: %q", buf.String())
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	ctx := WithSessionID(context.Background(), "abc123")
	ctx = WithUtteranceID(ctx, 42)
	WithContext(ctx, logger).Info("inspect")

	out := buf.String()
	if !strings.Contains(out, "session_id=abc123") {
		t.Errorf("missing session id: %q", out)
	}
	if !strings.Contains(out, "utterance_id=42") {
		t.Errorf("missing utterance id: %q", out)
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must report everything disabled.
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("nop logger should be disabled at error level")
	}
	logger.Error("discarded")
}
