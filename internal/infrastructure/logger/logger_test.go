package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/qa-api/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("chatty"))
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{ServiceName: "qa-api", Environment: "test", LogLevel: "info", LogFormat: "json"}

	log := NewWithWriter(cfg, &buf)
	log.Debug().Msg("hidden")
	log.Info().Msg("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "qa-api", entry["service"])
	assert.Equal(t, "test", entry["environment"])
}

func TestNewWithWriterDebugAddsCaller(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{ServiceName: "qa-api", LogLevel: "debug", LogFormat: "JSON"}

	log := NewWithWriter(cfg, &buf)
	log.Debug().Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}
