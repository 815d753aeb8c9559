package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{Level: "trace"}.Validate())
	assert.Error(t, Config{MaxBackups: -1}.Validate())
}

func TestNew_StdoutOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := newLogger(Config{Level: "warn"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("store: dropped")
	logger.Warn("api: slow request", "path", "/api/v1/health")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "api: slow request", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "/api/v1/health", rec["path"])
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "propdash.log")
	var buf bytes.Buffer
	logger, closer, err := newLogger(Config{File: path}, &buf)
	require.NoError(t, err)

	logger.Info("server: started", "port", 8080)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"server: started"`)
	assert.Contains(t, buf.String(), `"msg":"server: started"`)
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}
