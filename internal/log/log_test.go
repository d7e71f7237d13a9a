package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateLevel(t *testing.T) {
	for _, lvl := range []string{"trace", "debug", "info", "warn", "error"} {
		if err := ValidateLevel(lvl); err != nil {
			t.Errorf("ValidateLevel(%q) error: %v", lvl, err)
		}
	}
	for _, lvl := range []string{"", "WARN", "verbose"} {
		if err := ValidateLevel(lvl); err == nil {
			t.Errorf("ValidateLevel(%q) should fail", lvl)
		}
	}
}

func TestNewJSONLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, "info")

	l.Debug().Msg("hidden")
	l.Info().Str("fingerprint", "ea8f163d").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["message"] != "shown" || entry["fingerprint"] != "ea8f163d" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Error("entry should carry a timestamp")
	}
}

func TestInit_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mnemonic.log")
	if err := Init("info", true, path); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer func() {
		Close()
		Init(DefaultLevel, false, "")
	}()

	Wallet.Info().Str("wallet", "main").Msg("created")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log file is not JSON: %v (%q)", err, data)
	}
	if entry["component"] != "wallet" {
		t.Errorf("component = %v, want wallet", entry["component"])
	}
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	if err := Init("loud", false, ""); err == nil {
		t.Error("Init() with unknown level should fail")
	}
}
