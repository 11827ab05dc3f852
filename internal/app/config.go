package app

import (
	"errors"

	"github.com/specialistvlad/unroll/internal/config"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	InputPath string // assembly source

	ConfigPath     string // project file
	ConfigOptional bool   // a missing ConfigPath is not an error

	// Overrides holds the settings given on the command line. Only fields
	// marked in Overrides.Set take effect.
	Overrides config.Settings

	Watch     bool
	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
