package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch runs the expansion once and then again after every change to the
// input file, until ctx is cancelled. Expansion errors are logged and the
// watch keeps going; only watcher setup failures are returned.
func (a *App) Watch(ctx context.Context) error {
	input, err := filepath.Abs(a.config.InputPath)
	if err != nil {
		return fmt.Errorf("failed to resolve input path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files by rename, which drops a watch on the file
	// itself, so watch the directory and filter by name.
	dir := filepath.Dir(input)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	a.logger.Info("Watching input for changes.", "input", input, "output", a.settings.Output)

	a.runLogged(ctx)

	// A stopped timer with a drained channel; armed on every relevant event.
	timer := time.NewTimer(a.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Watch stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != input {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			a.logger.Debug("Input changed.", "op", event.Op.String())
			timer.Reset(a.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Error("File watcher error.", "error", err)

		case <-timer.C:
			a.runLogged(ctx)
		}
	}
}

func (a *App) runLogged(ctx context.Context) {
	if err := a.Run(ctx); err != nil {
		a.logger.Error("Expansion failed, output left unchanged.", "error", err)
	}
}
