package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/specialistvlad/unroll/internal/config"
	"github.com/specialistvlad/unroll/internal/ctxlog"
	"github.com/specialistvlad/unroll/internal/unroll"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	stdout   io.Writer
	logger   *slog.Logger
	config   *Config
	settings config.Settings
	opts     unroll.Options

	// debounce collapses bursts of file events in watch mode.
	debounce time.Duration
}

// NewApp is the constructor for the main application. Logs go to logW;
// expanded source goes to stdout unless an output file is configured.
func NewApp(stdout, logW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	settings := config.Defaults()
	if appConfig.ConfigPath != "" {
		fileSettings, err := loader.Load(ctx, appConfig.ConfigPath)
		switch {
		case err == nil:
			settings = settings.Merge(*fileSettings)
			logger.Debug("Project file loaded.", "path", appConfig.ConfigPath)
		case appConfig.ConfigOptional && errors.Is(err, fs.ErrNotExist):
			logger.Debug("No project file found, using defaults.", "path", appConfig.ConfigPath)
		default:
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}
	settings = settings.Merge(appConfig.Overrides)

	opts, err := settings.Options()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if settings.Output != "" {
		same, err := samePath(appConfig.InputPath, settings.Output)
		if err != nil {
			return nil, err
		}
		if same {
			return nil, fmt.Errorf("output %s would overwrite the input file", settings.Output)
		}
	}
	if appConfig.Watch && settings.Output == "" {
		return nil, errors.New("watch mode requires an output file")
	}

	logger.Debug("Configuration resolved.",
		"input", appConfig.InputPath,
		"output", settings.Output,
		"keyword", settings.Keyword,
		"unterminated", opts.Unterminated.String(),
		"max_repeat", opts.MaxRepeat,
	)

	return &App{
		stdout:   stdout,
		logger:   logger,
		config:   appConfig,
		settings: settings,
		opts:     opts,
		debounce: 100 * time.Millisecond,
	}, nil
}

// Settings returns the resolved settings. This is primarily for testing.
func (a *App) Settings() config.Settings {
	return a.settings
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", b, err)
	}
	return absA == absB, nil
}
