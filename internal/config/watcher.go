package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chr1sbest/rerun/internal/resilience"
)

// Event reports a suite file change. Exactly one of Config, Err or Removed
// is set.
type Event struct {
	Path    string
	Config  *Config
	Err     error
	Removed bool
}

// Watcher monitors a directory for suite file changes.
type Watcher struct {
	loader   *Loader
	watchDir string
	watcher  *fsnotify.Watcher
	events   chan Event
	debounce time.Duration
	retry    resilience.RetryPolicy
	mu       sync.RWMutex
	suites   map[string]*Config // by path
}

// NewWatcher creates a new suite file watcher.
func NewWatcher(loader *Loader, watchDir string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		loader:   loader,
		watchDir: watchDir,
		watcher:  fsWatcher,
		events:   make(chan Event, 16),
		debounce: 100 * time.Millisecond,
		retry:    resilience.ReloadRetry,
		suites:   make(map[string]*Config),
	}, nil
}

// Events returns the channel of suite changes. It is closed once the
// watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start loads the suites already in the directory and begins watching.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.loadExisting(); err != nil {
		return fmt.Errorf("failed to load existing suites: %w", err)
	}

	if err := w.watcher.Add(w.watchDir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", w.watchDir, err)
	}

	go w.run(ctx)
	return nil
}

// Stop closes the underlying watcher; the event channel closes shortly after.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// Suite returns a loaded suite by its name.
func (w *Watcher) Suite(name string) (*Config, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cfg := range w.suites {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return nil, false
}

// Suites returns all currently loaded suites keyed by file path.
func (w *Watcher) Suites() map[string]*Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make(map[string]*Config, len(w.suites))
	for k, v := range w.suites {
		out[k] = v
	}
	return out
}

func (w *Watcher) loadExisting() error {
	paths, err := suitePaths(w.watchDir)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		cfg, err := w.loader.LoadFile(p)
		if err != nil {
			return err
		}
		w.suites[p] = cfg
	}
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.events)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if _, ok := FormatFor(event.Name); !ok {
				continue
			}

			switch {
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				pending[event.Name] = time.Now()
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(pending, event.Name)
				w.handleRemove(ctx, event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.emit(ctx, Event{Err: err})

		case <-ticker.C:
			now := time.Now()
			for path, ts := range pending {
				if now.Sub(ts) >= w.debounce {
					delete(pending, path)
					w.handleUpdate(ctx, path)
				}
			}
		}
	}
}

func (w *Watcher) handleUpdate(ctx context.Context, path string) {
	var cfg *Config
	err := w.retry.Execute(ctx, func(ctx context.Context) error {
		var err error
		cfg, err = w.loader.LoadFile(path)
		return err
	})
	if err != nil {
		w.emit(ctx, Event{Path: path, Err: fmt.Errorf("failed to reload suite %s: %w", path, err)})
		return
	}

	w.mu.Lock()
	w.suites[path] = cfg
	w.mu.Unlock()

	w.emit(ctx, Event{Path: path, Config: cfg})
}

func (w *Watcher) handleRemove(ctx context.Context, path string) {
	w.mu.Lock()
	_, known := w.suites[path]
	delete(w.suites, path)
	w.mu.Unlock()

	if known {
		w.emit(ctx, Event{Path: path, Removed: true})
	}
}

func (w *Watcher) emit(ctx context.Context, ev Event) {
	select {
	case w.events <- ev:
	case <-ctx.Done():
	}
}
