package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})

	l.Debug().Msg("hidden")
	l.Info().Str("component", "placement").Msg("placed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "placed", entry["message"])
	assert.Equal(t, "placement", entry["component"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Pretty: true, Output: &buf})
	l.Debug().Msg("drag started")
	assert.Contains(t, buf.String(), "drag started")
	assert.Contains(t, buf.String(), "DBG")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qcompose.log")
	l, closer, err := OpenFile(Config{Level: "info"}, path)
	require.NoError(t, err)
	l.Info().Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")

	_, _, err = OpenFile(Config{}, filepath.Join(t.TempDir(), "missing", "x.log"))
	assert.Error(t, err)
}

func TestSetGlobalLogger(t *testing.T) {
	prev := log.Logger
	defer func() { log.Logger = prev }()

	var buf bytes.Buffer
	SetGlobalLogger(New(Config{Output: &buf}))
	log.Info().Msg("global")
	assert.Contains(t, buf.String(), "global")
}
