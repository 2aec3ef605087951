package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/articlereader/config"
)

func TestLogOutput_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	out, closer := logOutput(config.LogConfig{}, &console)

	assert.Nil(t, closer)
	_, err := out.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", console.String())
}

func TestLogOutput_TeesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reader.log")
	var console bytes.Buffer
	out, closer := logOutput(config.LogConfig{File: path, MaxSizeMB: 1}, &console)
	require.NotNil(t, closer)

	logger := slog.New(newLogHandler(config.LogConfig{Format: "json"}, out))
	logger.Info("content fetched", "url", "https://example.com")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"content fetched"`)
	assert.Equal(t, console.String(), string(data))
}

func TestNewLogHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLogHandler(config.LogConfig{Level: "warn", Format: "text"}, &buf))

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}
