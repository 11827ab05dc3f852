package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/specialistvlad/unroll/internal/ctxlog"
	"github.com/specialistvlad/unroll/internal/fsutil"
	"github.com/specialistvlad/unroll/internal/unroll"
)

// Run performs one expansion of the input file. The whole result is built in
// memory first, so on error nothing is written to stdout or the output file.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "input", a.config.InputPath)
	start := time.Now()

	info, err := os.Stat(a.config.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("failed to read input: %s is a directory", a.config.InputPath)
	}
	src, err := os.ReadFile(a.config.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	out, stats, err := unroll.ExpandBytes(ctx, src, a.opts)
	if err != nil {
		return fmt.Errorf("failed to expand %s: %w", a.config.InputPath, err)
	}

	if err := a.write(out, info.Mode().Perm()); err != nil {
		return err
	}

	a.logger.Info("Expansion finished.",
		"input", a.config.InputPath,
		"output", a.destination(),
		"lines_in", stats.LinesRead,
		"lines_out", stats.LinesWritten,
		"blocks", stats.BlocksExpanded,
		"dropped_lines", stats.LinesDropped,
		"size_in", humanize.Bytes(uint64(len(src))),
		"size_out", humanize.Bytes(uint64(stats.BytesWritten)),
		"took", time.Since(start),
	)
	return nil
}

func (a *App) write(out []byte, perm os.FileMode) error {
	if a.settings.Output == "" {
		if _, err := a.stdout.Write(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := fsutil.WriteFileAtomic(a.settings.Output, out, perm); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (a *App) destination() string {
	if a.settings.Output == "" {
		return "stdout"
	}
	return a.settings.Output
}
