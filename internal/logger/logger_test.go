package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "profiler.log")
	log, err := New(Options{Level: "info", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	log.Info("result recorded", zap.String("profile", "storyteller"))
	log.Debug("dropped below level")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "result recorded", entry["msg"])
	assert.Equal(t, "storyteller", entry["profile"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	log, err := newWithConsole(Options{Level: "debug", Format: "json", Console: true}, &buf)
	require.NoError(t, err)

	log.Debug("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestNoSinksIsNop(t *testing.T) {
	log, err := New(Options{})
	require.NoError(t, err)
	assert.NotNil(t, log)
	log.Info("nowhere")
}

func TestInvalidOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = newWithConsole(Options{Format: "xml", Console: true}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	opts := FromConfig(config.LogConfig{Level: "warn", Format: "console", File: "x.log", MaxBackups: 2}, true)
	assert.Equal(t, "warn", opts.Level)
	assert.Equal(t, "x.log", opts.File)
	assert.Equal(t, 2, opts.MaxBackups)
	assert.True(t, opts.Console)
}

func TestDefaultFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/state")
	p, err := DefaultFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/var/state", "profiler", "profiler.log"), p)
}
