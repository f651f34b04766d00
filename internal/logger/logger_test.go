package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smsclassifier/internal/config"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := NewWithWriter(config.LogConfig{Level: "info", Format: "json"}, &buf)
		require.NoError(t, err)

		log.Info("classified")
		log.Debug("hidden")
		require.NoError(t, log.Sync())

		var entry map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
		assert.Equal(t, "classified", entry["message"])
		assert.Equal(t, "info", entry["level"])
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("console format", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := NewWithWriter(config.LogConfig{Level: "debug", Format: "console"}, &buf)
		require.NoError(t, err)

		log.Debug("visible")
		assert.Contains(t, buf.String(), "visible")
	})

	t.Run("defaults to info level for invalid level", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := NewWithWriter(config.LogConfig{Level: "invalid", Format: "json"}, &buf)
		require.NoError(t, err)

		log.Debug("hidden")
		assert.Empty(t, buf.String())
	})
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, closer, err := NewFile(config.LogConfig{Level: "info", File: path})
	require.NoError(t, err)

	log.Info("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNew(t *testing.T) {
	log, err := New(config.LogConfig{Level: "warn", Format: "console"})
	assert.NoError(t, err)
	assert.NotNil(t, log)
}
