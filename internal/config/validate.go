package config

import (
	"fmt"

	"github.com/rileyhilliard/litemon/internal/errors"
)

// ColorModes are the accepted values for the color key.
var ColorModes = []string{"auto", "always", "never"}

// Validate checks the config for values the dashboard cannot run with.
func Validate(cfg *Config) error {
	if cfg.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval %s is too short", cfg.Interval),
			fmt.Sprintf("Use at least %s", MinInterval))
	}

	if cfg.HistorySize < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history_size must be at least 1, got %d", cfg.HistorySize),
			fmt.Sprintf("The default is %d samples", DefaultHistorySize))
	}

	if cfg.PollTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			"poll_timeout must be positive",
			fmt.Sprintf("The default is %s", DefaultPollTimeout))
	}

	if cfg.GPUInterval <= 0 {
		return errors.New(errors.ErrConfig,
			"gpu_interval must be positive",
			fmt.Sprintf("The default is %s", DefaultGPUInterval))
	}

	if !validColor(cfg.Color) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown color mode %q", cfg.Color),
			"Use one of: auto, always, never")
	}

	return nil
}

func validColor(mode string) bool {
	for _, m := range ColorModes {
		if mode == m {
			return true
		}
	}
	return false
}
