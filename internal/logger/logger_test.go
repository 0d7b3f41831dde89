package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatJSON, Level: slog.LevelInfo})

	log.Info("scan finished", "tracks", 12)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "scan finished", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.EqualValues(t, 12, record["tracks"])
}

func TestNew_PrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Level: slog.LevelDebug, NoColor: true})

	log.Debug("extracting", "path", "/music/01 - intro.flac")

	out := buf.String()
	assert.Contains(t, out, "DBG extracting")
	assert.Contains(t, out, `path="/music/01 - intro.flac"`)
	assert.NotContains(t, out, "\033[")
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Level: slog.LevelWarn, NoColor: true})

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WRN shown")
}

func TestPrettyHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, NoColor: true})

	log.Component("scanner").WithGroup("album").Info("done", "tracks", 3)

	out := buf.String()
	assert.Contains(t, out, "component=scanner")
	assert.Contains(t, out, "album.tracks=3")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, NoColor: true})

	log.WithError(errors.New("boom")).Error("failed")
	assert.True(t, strings.Contains(buf.String(), "error=boom"))

	assert.Same(t, log, log.WithError(nil))
}
