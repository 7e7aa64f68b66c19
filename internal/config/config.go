// Package config loads the fsmdemo settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
	// ErrInvalidConfig is returned when parsed values are out of range
	ErrInvalidConfig = errors.New("invalid config")
)

type Demo struct {
	Name          string        `env:"FSM_NAME" envDefault:"game"`
	Frames        int           `env:"FSM_FRAMES" envDefault:"240"`
	FrameInterval time.Duration `env:"FSM_FRAME_INTERVAL" envDefault:"16ms"`
	MaxChained    int           `env:"FSM_MAX_CHAINED" envDefault:"8"`
	Async         bool          `env:"FSM_ASYNC" envDefault:"false"`
	LogLevel      string        `env:"FSM_LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"FSM_LOG_FORMAT" envDefault:"text"`
	Trace         bool          `env:"FSM_TRACE" envDefault:"false"`
	Diagram       bool          `env:"FSM_DIAGRAM" envDefault:"false"`
}

// Load reads the given .env files, or ./.env when none are named, then parses the
// environment. A missing default .env file is not an error; a missing named file is.
// Variables already set in the environment win over file values.
func Load(paths ...string) (Demo, error) {
	if err := godotenv.Load(paths...); err != nil {
		if len(paths) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Demo{}, fmt.Errorf("load env files: %w", err)
		}
	}
	var cfg Demo
	if err := env.Parse(&cfg); err != nil {
		return Demo{}, errors.Join(ErrParsingConfig, err)
	}
	if cfg.Frames < 0 {
		return Demo{}, fmt.Errorf("%w: FSM_FRAMES must not be negative, got %d", ErrInvalidConfig, cfg.Frames)
	}
	if cfg.MaxChained <= 0 {
		return Demo{}, fmt.Errorf("%w: FSM_MAX_CHAINED must be positive, got %d", ErrInvalidConfig, cfg.MaxChained)
	}
	return cfg, nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad(paths ...string) Demo {
	cfg, err := Load(paths...)
	if err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
	return cfg
}
