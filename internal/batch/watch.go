package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// Watch sweeps the input directory once, then again every time a feed file
// is created or written in it, until ctx is done.  Events are debounced so
// a file still being written triggers a single sweep.
func (r *Runner) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.cfg.InDir); err != nil {
		return fmt.Errorf("watching %s: %w", r.cfg.InDir, err)
	}
	r.logger.Info("watching", slog.String("dir", r.cfg.InDir))

	sweeps := make(chan struct{}, 1)
	trigger := func() {
		select {
		case sweeps <- struct{}{}:
		default:
		}
	}
	trigger()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sweeps:
			// Failures are logged by Sweep and the files stay for the next one.
			_, _ = r.Sweep(ctx)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !IsFeedFile(filepath.Base(event.Name)) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(r.cfg.Debounce, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

// Schedule sweeps the input directory on the given cron schedule until ctx
// is done.
func (r *Runner) Schedule(ctx context.Context, spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		_, _ = r.Sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	c.Start()
	r.logger.Info("scheduled", slog.String("schedule", spec), slog.String("dir", r.cfg.InDir))

	<-ctx.Done()
	// Wait for a running sweep to finish.
	<-c.Stop().Done()
	return nil
}
