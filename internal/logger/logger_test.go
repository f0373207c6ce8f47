package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "agendu.log")

	log, closeFn, err := New(Config{Level: "debug", Encoding: "json", Path: path})
	require.NoError(t, err)

	log.Info("storage fault")
	require.NoError(t, log.Sync())
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "storage fault", entry["msg"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agendu.log")

	log, closeFn, err := New(Config{Level: "verbose", Path: path})
	require.NoError(t, err)
	defer closeFn()

	assert.False(t, log.Core().Enabled(zapcore.DebugLevel), "debug must be disabled at info level")
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}
