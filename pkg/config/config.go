// Package config loads settings from a file and GAPOSA_ environment
// variables through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/urmzd/gaposa/pkg/geo"
	"github.com/urmzd/gaposa/pkg/model"
	"github.com/urmzd/gaposa/pkg/poll"
)

// EnvPrefix prefixes every environment override, e.g. GAPOSA_POLL_INTERVAL.
const EnvPrefix = "GAPOSA"

// ErrMissingCredentials is returned when the cloud service is selected
// without an account.
var ErrMissingCredentials = errors.New("email, password and api_key are required unless emulate is set")

type Config struct {
	Email     string        `mapstructure:"email"`
	Password  string        `mapstructure:"password"`
	APIKey    string        `mapstructure:"api_key"`
	ServerURL string        `mapstructure:"server_url"`
	Emulate   bool          `mapstructure:"emulate"`
	Poll      poll.Config   `mapstructure:"poll"`
	Command   CommandConfig `mapstructure:"command"`
	API       APIConfig     `mapstructure:"api"`
	Log       LogConfig     `mapstructure:"log"`
	DB        DBConfig      `mapstructure:"db"`
	Location  Location      `mapstructure:"location"`
}

type CommandConfig struct {
	GraceDelay time.Duration `mapstructure:"grace_delay"`
}

type APIConfig struct {
	Address string `mapstructure:"address"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// Location overrides geocoding of the account address.
type Location struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	TimeZone  string  `mapstructure:"timezone"`
}

// IsSet reports whether coordinates were configured.
func (l Location) IsSet() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// Resolver returns a fixed resolver for the configured location.
func (l Location) Resolver() geo.Static {
	return geo.Static{
		Point:    model.GeoPoint{Latitude: l.Latitude, Longitude: l.Longitude},
		TimeZone: l.TimeZone,
	}
}

// New returns a viper instance with defaults and environment overrides.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	pc := poll.DefaultConfig()
	v.SetDefault("email", "")
	v.SetDefault("password", "")
	v.SetDefault("api_key", "")
	v.SetDefault("server_url", "")
	v.SetDefault("emulate", false)
	v.SetDefault("poll.interval", pc.Interval)
	v.SetDefault("poll.max_retries", pc.MaxRetries)
	v.SetDefault("poll.fetch_timeout", pc.FetchTimeout)
	v.SetDefault("command.grace_delay", 2*time.Second)
	v.SetDefault("api.address", "0.0.0.0:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("db.path", "")
	v.SetDefault("location.latitude", 0.0)
	v.SetDefault("location.longitude", 0.0)
	v.SetDefault("location.timezone", "")
}

// Load reads path, when set, into v and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return Decode(v)
}

// Decode unmarshals v without reading any file.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, cfg.Validate()
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.Poll.MaxRetries < 0 {
		return fmt.Errorf("poll.max_retries must not be negative, got %d", c.Poll.MaxRetries)
	}
	if c.Poll.FetchTimeout <= 0 {
		return fmt.Errorf("poll.fetch_timeout must be positive, got %s", c.Poll.FetchTimeout)
	}
	if c.Command.GraceDelay < 0 {
		return fmt.Errorf("command.grace_delay must not be negative, got %s", c.Command.GraceDelay)
	}
	if !c.Emulate && (c.Email == "" || c.Password == "" || c.APIKey == "") {
		return ErrMissingCredentials
	}
	return nil
}
