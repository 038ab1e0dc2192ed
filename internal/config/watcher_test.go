package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chr1sbest/rerun/internal/resilience"
)

func startWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()

	watcher, err := NewWatcher(NewLoader(dir), dir)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	watcher.retry = resilience.RetryPolicy{Name: "test", MaxRetries: 2, InitDelay: 10 * time.Millisecond, Multiplier: 1}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	t.Cleanup(func() { watcher.Stop() })
	return watcher
}

func nextEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for suite event")
	}
	return Event{}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "smoke.json", `{"name": "smoke", "tests": []}`)

	watcher := startWatcher(t, dir)

	cfg, ok := watcher.Suite("smoke")
	if !ok {
		t.Fatal("initial suite not loaded")
	}
	if cfg.Description != "" {
		t.Errorf("unexpected description %q", cfg.Description)
	}

	if err := os.WriteFile(path, []byte(`{"name": "smoke", "description": "updated", "tests": []}`), 0644); err != nil {
		t.Fatalf("failed to update suite: %v", err)
	}

	ev := nextEvent(t, watcher)
	if ev.Err != nil {
		t.Fatalf("unexpected error: %v", ev.Err)
	}
	if ev.Config == nil || ev.Config.Description != "updated" {
		t.Errorf("expected updated suite, got %+v", ev.Config)
	}
	if ev.Path != path {
		t.Errorf("expected path %s, got %s", path, ev.Path)
	}
}

func TestWatcherNewYAMLFile(t *testing.T) {
	dir := t.TempDir()
	watcher := startWatcher(t, dir)

	writeFile(t, dir, "nightly.yaml", "name: nightly\ntests: []\n")

	ev := nextEvent(t, watcher)
	if ev.Err != nil {
		t.Fatalf("unexpected error: %v", ev.Err)
	}
	if ev.Config == nil || ev.Config.Name != "nightly" {
		t.Fatalf("expected nightly suite, got %+v", ev.Config)
	}

	if _, ok := watcher.Suite("nightly"); !ok {
		t.Error("new suite not found in watcher")
	}
}

func TestWatcherBrokenFileReportsError(t *testing.T) {
	dir := t.TempDir()
	watcher := startWatcher(t, dir)

	writeFile(t, dir, "broken.json", `{"name": `)

	ev := nextEvent(t, watcher)
	if ev.Err == nil {
		t.Fatalf("expected parse error, got %+v", ev)
	}
	if len(watcher.Suites()) != 0 {
		t.Error("broken suite must not be stored")
	}
}

func TestWatcherRemove(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "smoke.json", `{"name": "smoke", "tests": []}`)
	watcher := startWatcher(t, dir)

	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove suite: %v", err)
	}

	ev := nextEvent(t, watcher)
	if !ev.Removed || ev.Path != path {
		t.Errorf("expected removal of %s, got %+v", path, ev)
	}
	if _, ok := watcher.Suite("smoke"); ok {
		t.Error("removed suite still present")
	}
}

func TestWatcherSuites(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"name": "suite-a", "tests": []}`)
	writeFile(t, dir, "b.yaml", "name: suite-b\n")

	watcher := startWatcher(t, dir)

	suites := watcher.Suites()
	if len(suites) != 2 {
		t.Fatalf("expected 2 suites, got %d", len(suites))
	}
	if cfg := suites[filepath.Join(dir, "a.json")]; cfg == nil || cfg.Name != "suite-a" {
		t.Errorf("suite-a not keyed by path: %v", suites)
	}
}
