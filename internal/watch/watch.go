// Package watch re-runs a build step whenever a source file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/jackzampolin/spellbook/internal/svcctx"
)

// Defaults used when Config leaves a field zero.
const (
	DefaultDebounce = 500 * time.Millisecond
	DefaultAttempts = 5
	DefaultDelay    = time.Second
)

// Config controls a Watcher.
type Config struct {
	// Path is the file to watch. Its directory is watched so that editors
	// that save through a temp file and rename are seen too.
	Path string

	// Debounce collapses bursts of events into one rebuild.
	Debounce time.Duration

	// Attempts and Delay bound the retries of a failing rebuild, e.g. while
	// the file is still being written.
	Attempts uint
	Delay    time.Duration

	// RetryIf decides whether a rebuild error is worth retrying. All errors
	// are retried when nil.
	RetryIf func(error) bool
}

// BuildFunc rebuilds the outputs from the watched file.
type BuildFunc func(ctx context.Context) error

// Watcher triggers a BuildFunc on changes to one file.
type Watcher struct {
	cfg    Config
	target string
	build  BuildFunc
}

// New returns a Watcher for cfg.Path.
func New(cfg Config, build BuildFunc) (*Watcher, error) {
	target, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cfg.Path, err)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	return &Watcher{cfg: cfg, target: target, build: build}, nil
}

// Run watches until ctx is cancelled. A failed rebuild is logged and
// watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	logger := svcctx.LoggerFrom(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.target)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Info("watching for changes", "path", w.target, "debounce", w.cfg.Debounce)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopped watching", "path", w.target)
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)

		case <-fire:
			fire = nil
			if err := w.rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("rebuild failed", "path", w.target, "error", err)
			}
		}
	}
}

// relevant reports whether ev may have changed the target's content.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

// rebuild runs the build step, retrying while the file settles.
func (w *Watcher) rebuild(ctx context.Context) error {
	logger := svcctx.LoggerFrom(ctx)

	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(w.cfg.Attempts),
		retry.Delay(w.cfg.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("rebuild attempt failed", "attempt", n+1, "error", err)
		}),
	}
	if w.cfg.RetryIf != nil {
		opts = append(opts, retry.RetryIf(w.cfg.RetryIf))
	}

	return retry.Do(func() error { return w.build(ctx) }, opts...)
}
