package poll

import "time"

// Default polling parameters.
const (
	DefaultInterval     = 2 * time.Second
	DefaultMaxRetries   = 5
	DefaultFetchTimeout = 10 * time.Second
)

// Config controls the fetch loop.
type Config struct {
	// Interval is the pause between iterations. Zero polls back to back.
	Interval time.Duration `mapstructure:"interval" json:"interval" yaml:"interval"`
	// MaxRetries is the number of consecutive iterations without progress
	// tolerated before all waiters are released.
	MaxRetries int `mapstructure:"max_retries" json:"max_retries" yaml:"max_retries"`
	// FetchTimeout bounds a single fetch attempt.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" json:"fetch_timeout" yaml:"fetch_timeout"`
}

// DefaultConfig returns the default polling parameters.
func DefaultConfig() Config {
	return Config{
		Interval:     DefaultInterval,
		MaxRetries:   DefaultMaxRetries,
		FetchTimeout: DefaultFetchTimeout,
	}
}

func (c Config) normalized() Config {
	if c.Interval < 0 {
		c.Interval = 0
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	return c
}
