package storyfile

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rcliao/cyoa/internal/model"
)

// DefaultDebounce is how long Watch waits after the last write before
// re-importing.
const DefaultDebounce = 500 * time.Millisecond

// WatchConfig configures Watch.
type WatchConfig struct {
	Path     string
	Debounce time.Duration
	Logger   *log.Logger
	// OnChange receives every successfully imported version of the file.
	OnChange func(*model.Adventure)
}

// Watch re-imports the story file whenever it changes and hands the result
// to OnChange. It watches the parent directory so editors that replace the
// file on save are picked up. Watch blocks until ctx is done.
func Watch(ctx context.Context, cfg WatchConfig) error {
	if cfg.OnChange == nil {
		return fmt.Errorf("watch %s: no change handler", cfg.Path)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", cfg.Path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	logger.Printf("watching %s", path)

	// The debounce timer is only touched by this goroutine, so reloads run
	// one at a time and never after Watch returns.
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	reload := func() {
		a, err := Import(path)
		if err != nil {
			logger.Printf("reload %s: %v", filepath.Base(path), err)
			return
		}
		logger.Printf("reloaded %s", filepath.Base(path))
		cfg.OnChange(a)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(cfg.Debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			reload()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Printf("watcher error: %v", err)
		}
	}
}
