package obs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn")

	log.Info("purchase_resolved", "sale_id", "999")
	assert.Zero(t, buf.Len())

	log.Warn("sale_event_skipped", "sale_id", "999", "reason", "no email on file")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "sale_event_skipped", line["msg"])
	assert.Equal(t, "999", line["sale_id"])
	assert.Equal(t, "WARN", line["level"])
}

func TestInitLogger(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	var buf bytes.Buffer
	log := InitLogger(&buf, "info")
	assert.Same(t, log, Logger)

	Logger.Info("sale_event_sent", "sale_id", "999")
	assert.Contains(t, buf.String(), `"msg":"sale_event_sent"`)
}
