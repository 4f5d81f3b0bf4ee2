// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8118".
	Addr string `koanf:"addr"`

	// DataDir is the directory the dataset files are resolved against. When
	// empty, a file next to the executable wins over the working directory.
	DataDir string `koanf:"data_dir"`

	// PassesFile and MatchesFile name the pass-event and match tables.
	PassesFile  string `koanf:"passes_file"`
	MatchesFile string `koanf:"matches_file"`

	// PitchMargin is how far (pitch units) a coordinate may fall outside
	// the 120x80 pitch before the row is rejected as malformed.
	PitchMargin float64 `koanf:"pitch_margin"`

	// XTRangeMin, XTRangeMax and XTRangeStep configure the xT range slider.
	XTRangeMin  float64 `koanf:"xt_range_min"`
	XTRangeMax  float64 `koanf:"xt_range_max"`
	XTRangeStep float64 `koanf:"xt_range_step"`

	// SessionCacheSize bounds the number of live dashboard sessions.
	SessionCacheSize int `koanf:"session_cache_size"`

	// WSMaxMessageBytes caps inbound websocket frames.
	WSMaxMessageBytes int64 `koanf:"ws_max_message_bytes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8118",
		DataDir:           "",
		PassesFile:        "passDF.csv",
		MatchesFile:       "gameDF.csv",
		PitchMargin:       5,
		XTRangeMin:        -0.25,
		XTRangeMax:        0.25,
		XTRangeStep:       0.05,
		SessionCacheSize:  64,
		WSMaxMessageBytes: 64 << 10,
	}
}

// PassesPath returns the pass table location.
func (c *Config) PassesPath() string { return c.resolve(c.PassesFile) }

// MatchesPath returns the match table location.
func (c *Config) MatchesPath() string { return c.resolve(c.MatchesFile) }

// executable is swapped in tests.
var executable = os.Executable

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if c.DataDir != "" {
		return filepath.Join(c.DataDir, name)
	}
	if exe, err := executable(); err == nil {
		beside := filepath.Join(filepath.Dir(exe), name)
		if _, err := os.Stat(beside); err == nil {
			return beside
		}
	}
	return name
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.PassesFile == "" || c.MatchesFile == "":
		return fmt.Errorf("%w: passes_file and matches_file must be set", ErrInvalidConfig)
	case c.XTRangeMin >= c.XTRangeMax:
		return fmt.Errorf("%w: xt_range_min must be below xt_range_max", ErrInvalidConfig)
	case c.XTRangeStep <= 0:
		return fmt.Errorf("%w: xt_range_step must be positive", ErrInvalidConfig)
	case c.PitchMargin < 0:
		return fmt.Errorf("%w: pitch_margin must not be negative", ErrInvalidConfig)
	case c.SessionCacheSize < 1:
		return fmt.Errorf("%w: session_cache_size must be at least 1", ErrInvalidConfig)
	case c.WSMaxMessageBytes < 1:
		return fmt.Errorf("%w: ws_max_message_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
