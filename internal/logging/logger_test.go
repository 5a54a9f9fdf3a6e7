package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"silicon.com/app/internal/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, logging.ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, logging.ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, logging.ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, logging.ParseLevel("nonsense"))
}

func TestNewWriterLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewWriter(&buf, "warn")
	l.Info("dropped")
	l.Warn("kept", zap.String("request_id", "abc"))
	require.NoError(t, l.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "abc", entry["request_id"])
}

func TestNewFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, flush := logging.New(logging.Options{Level: "info", File: path})
	l.Info("hello")
	flush()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
}

func TestNewWithoutOutputsIsNop(t *testing.T) {
	l, flush := logging.New(logging.Options{})
	defer flush()
	assert.NotPanics(t, func() { l.Info("nowhere") })
}
