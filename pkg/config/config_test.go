package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/gaposa/pkg/model"
)

func TestDefaults(t *testing.T) {
	v := New()
	v.Set("emulate", true)

	cfg, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 5, cfg.Poll.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.Poll.FetchTimeout)
	assert.Equal(t, 2*time.Second, cfg.Command.GraceDelay)
	assert.Equal(t, "0.0.0.0:8080", cfg.API.Address)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Location.IsSet())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaposa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
email: me@example.com
password: secret
api_key: key
poll:
  interval: 500ms
  max_retries: 3
command:
  grace_delay: 1s
location:
  latitude: 51.5
  longitude: -0.12
  timezone: Europe/London
`), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", cfg.Email)
	assert.Equal(t, 500*time.Millisecond, cfg.Poll.Interval)
	assert.Equal(t, 3, cfg.Poll.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.Poll.FetchTimeout)
	assert.Equal(t, time.Second, cfg.Command.GraceDelay)

	require.True(t, cfg.Location.IsSet())
	r := cfg.Location.Resolver()
	assert.Equal(t, model.GeoPoint{Latitude: 51.5, Longitude: -0.12}, r.Point)
	assert.Equal(t, "Europe/London", r.TimeZone)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GAPOSA_EMULATE", "true")
	t.Setenv("GAPOSA_POLL_MAX_RETRIES", "9")
	t.Setenv("GAPOSA_API_ADDRESS", "127.0.0.1:9000")
	t.Setenv("GAPOSA_COMMAND_GRACE_DELAY", "250ms")

	cfg, err := Decode(New())
	require.NoError(t, err)
	assert.True(t, cfg.Emulate)
	assert.Equal(t, 9, cfg.Poll.MaxRetries)
	assert.Equal(t, "127.0.0.1:9000", cfg.API.Address)
	assert.Equal(t, 250*time.Millisecond, cfg.Command.GraceDelay)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]any
		want error
	}{
		{"missing credentials", nil, ErrMissingCredentials},
		{"negative retries", map[string]any{"emulate": true, "poll.max_retries": -1}, nil},
		{"zero fetch timeout", map[string]any{"emulate": true, "poll.fetch_timeout": "0s"}, nil},
		{"negative grace", map[string]any{"emulate": true, "command.grace_delay": "-1s"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Decode(v)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
