package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter("production", &buf)
	logger.Debug().Msg("hidden")
	logger.Info().Int("clubs", 3).Msg("build done")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("not a single json line: %q (%v)", buf.String(), err)
	}
	if entry["message"] != "build done" || entry["clubs"] != float64(3) {
		t.Fatalf("entry=%v", entry)
	}
}

func TestDevelopmentLoggerIsVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter("development", &buf)
	logger.Debug().Msg("visible")
	if !bytes.Contains(buf.Bytes(), []byte("visible")) {
		t.Fatalf("debug line missing: %q", buf.String())
	}
}
