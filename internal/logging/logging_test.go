package logging

import (
	"bytes"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestSetup_Production(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := Setup(&buf, true, "")

	logger.Debug("hidden")
	logger.Info("redirect rejected", "reason", "protocol_relative")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "redirect rejected", entry["msg"])
	assert.Equal(t, "protocol_relative", entry["reason"])
	assert.Contains(t, entry, "ts")
	assert.NotContains(t, entry, "time")
}

func TestSetup_RoutesStdLog(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})

	var buf bytes.Buffer
	Setup(&buf, true, "info")
	log.Printf("starting on %s", ":8080")

	assert.Contains(t, buf.String(), "starting on :8080")
}

func TestSetup_DevelopmentLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := Setup(&buf, false, "warn")

	logger.Info("hidden")
	logger.Warn("suspicious redirect")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "suspicious redirect")
}
