package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      slog.Level
		wantError string
	}{
		{name: "empty: ok", input: "", want: slog.LevelInfo},
		{name: "debug: ok", input: "debug", want: slog.LevelDebug},
		{name: "upper case warn: ok", input: " WARN ", want: slog.LevelWarn},
		{name: "error: ok", input: "error", want: slog.LevelError},
		{name: "trace: fail", input: "trace", wantError: `invalid log level: "trace"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer

	l, err := Init("test", Options{
		Level:  "debug",
		File:   filepath.Join(t.TempDir(), "logs", "app.log"),
		Writer: &buf,
	})
	require.NoError(t, err)

	l.Debug("hello", "key", "value")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "test", line["component"])
	assert.Equal(t, "value", line["key"])

	_, err = Init("test", Options{Level: "loud"})
	require.EqualError(t, err, `invalid log level: "loud"`)

	require.NoError(t, Close())
}

func TestInit_FileOnly(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "shell.log")

	l, err := Init("shell", Options{Level: "info", File: path, Writer: &buf, FileOnly: true})
	require.NoError(t, err)

	l.Info("from the shell")
	require.NoError(t, Close())
	require.NoError(t, Close(), "second close is a no-op")

	assert.Empty(t, buf.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "from the shell", line["msg"])
}

func TestInit_FileOnlyWithoutFile(t *testing.T) {
	var buf bytes.Buffer

	l, err := Init("shell", Options{Level: "info", Writer: &buf, FileOnly: true})
	require.NoError(t, err)

	l.Info("no file configured")
	assert.Contains(t, buf.String(), "no file configured")
}

func TestFromCtx(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithCtx(context.Background(), l)
	assert.Same(t, l, FromCtx(ctx))

	assert.NotNil(t, FromCtx(context.Background()))
}
