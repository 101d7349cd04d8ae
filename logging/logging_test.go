package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "info"}, &buf)

	logger.Debug("hidden")
	logger.Info("visible", zap.String("kid", "k1"))
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if entry["msg"] != "visible" || entry["kid"] != "k1" || entry["logger"] != "gojwe" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatalf("expected time key in %v", entry)
	}
}

func TestLevelMapping(t *testing.T) {
	cases := map[string]string{
		"debug":  "debug",
		" WARN ": "warn",
		"bogus":  "info",
		"":       "info",
		"error":  "error",
	}
	for in, want := range cases {
		if got := (Config{Level: in}).level().String(); got != want {
			t.Fatalf("level(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestConsoleEncoding(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "debug", Mode: "development", Encoding: "console"}, &buf)
	logger.Debug("hello")
	_ = logger.Sync()

	if !strings.Contains(buf.String(), "hello") || strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected console output, got %q", buf.String())
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected nop logger")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Fatal("expected same logger")
	}
}
