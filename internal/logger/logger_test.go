package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production", Level: slog.LevelInfo})

	log.Info("synced product", "product_id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "synced product", line["msg"])
	assert.Equal(t, float64(7), line["product_id"])
}

func TestNew_PrettyInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "development", Level: slog.LevelInfo})

	log.Info("category created", "slug", "technology")

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "category created")
	assert.Contains(t, out, "slug=technology")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestPrettyHandler_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestPrettyHandler_GroupsQualifyKeys(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil)).
		With("component", "github").
		WithGroup("repo")

	log.Info("fetched", "owner", "acme", slog.Group("stats", "stars", 42))

	out := buf.String()
	assert.Contains(t, out, "component=github")
	assert.Contains(t, out, "repo.owner=acme")
	assert.Contains(t, out, "repo.stats.stars=42")
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "json", Level: slog.LevelDebug})

	log.WithError(errors.New("boom")).
		WithField("product_id", 3).
		WithFields(map[string]any{"status": 502}).
		Warn("fetch failed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, float64(3), line["product_id"])
	assert.Equal(t, float64(502), line["status"])
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "json"})

	log.Component("taxonomy").Info("cache miss")

	assert.Contains(t, buf.String(), `"component":"taxonomy"`)
}
