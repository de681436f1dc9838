package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"trace", zerolog.TraceLevel, false},
		{"loud", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func forceInteractive(t *testing.T, on bool) {
	t.Helper()
	orig := interactive
	interactive = func() bool { return on }
	t.Cleanup(func() { interactive = orig })
}

func TestSetupConsole(t *testing.T) {
	forceInteractive(t, true)
	var buf bytes.Buffer
	logger, closer, err := Setup(Options{Level: "info", Console: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.WithName("poll").Info("fetched", "device", "ABC")
	logger.V(1).Info("hidden at info")

	out := buf.String()
	assert.Contains(t, out, "fetched")
	assert.Contains(t, out, "ABC")
	assert.NotContains(t, out, "hidden at info")
}

func TestSetupDebugEnablesV1(t *testing.T) {
	forceInteractive(t, true)
	var buf bytes.Buffer
	logger, closer, err := Setup(Options{Level: "debug", Console: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.V(1).Info("iteration detail")
	assert.Contains(t, buf.String(), "iteration detail")
}

func TestSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gaposa.log")
	logger, closer, err := Setup(Options{Level: "info", File: path})
	require.NoError(t, err)

	logger.Info("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file"`)
}

func TestSetupRejectsLevel(t *testing.T) {
	_, _, err := Setup(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestServiceModeUsesFile(t *testing.T) {
	forceInteractive(t, false)
	t.Setenv("JOURNAL_STREAM", "")
	t.Setenv("INVOCATION_ID", "")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	logger, closer, err := Setup(Options{Console: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("service line")
	assert.Empty(t, buf.String())
}
