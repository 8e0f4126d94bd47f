package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupWriter(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	if err := SetupWriter(&buf, "WARN", false); err != nil {
		t.Fatalf("SetupWriter() error = %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Str("user", "alice").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "shown" || entry["user"] != "alice" || entry["level"] != "warn" {
		t.Errorf("entry = %v", entry)
	}
}

func TestSetupWriter_Console(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	if err := SetupWriter(&buf, "", true); err != nil {
		t.Fatalf("SetupWriter() error = %v", err)
	}
	log.Info().Msg("hello")
	if !strings.Contains(buf.String(), "hello") || strings.HasPrefix(buf.String(), "{") {
		t.Errorf("console output = %q", buf.String())
	}
}

func TestSetupWriter_BadLevel(t *testing.T) {
	if err := SetupWriter(&bytes.Buffer{}, "loud", false); err == nil {
		t.Error("SetupWriter() should reject an unknown level")
	}
}
