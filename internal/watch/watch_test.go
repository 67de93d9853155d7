package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackzampolin/spellbook/internal/svcctx"
	"github.com/jackzampolin/spellbook/internal/testutil"
)

func testContext(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	ctx := svcctx.WithLogger(context.Background(), testutil.Logger())
	return context.WithCancel(ctx)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func startWatcher(ctx context.Context, t *testing.T, w *Watcher) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)
	return done
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rulebook.docx")
	if err := os.WriteFile(path, []byte("v0"), 0o644); err != nil {
		t.Fatal(err)
	}

	var builds atomic.Int32
	w, err := New(Config{Path: path, Debounce: 200 * time.Millisecond}, func(ctx context.Context) error {
		builds.Add(1)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := testContext(t)
	done := startWatcher(ctx, t, w)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("v"+string(rune('1'+i))), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !waitFor(t, 2*time.Second, func() bool { return builds.Load() >= 1 }) {
		t.Fatal("build was not triggered")
	}
	time.Sleep(400 * time.Millisecond)
	if n := builds.Load(); n != 1 {
		t.Errorf("builds = %d, want 1 for one burst", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rulebook.docx")
	if err := os.WriteFile(path, []byte("v0"), 0o644); err != nil {
		t.Fatal(err)
	}

	var builds atomic.Int32
	w, err := New(Config{Path: path, Debounce: 50 * time.Millisecond}, func(ctx context.Context) error {
		builds.Add(1)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := testContext(t)
	defer cancel()
	startWatcher(ctx, t, w)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if n := builds.Load(); n != 0 {
		t.Errorf("builds = %d, want 0", n)
	}
}

func TestWatcher_KeepsWatchingAfterFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rulebook.docx")
	if err := os.WriteFile(path, []byte("v0"), 0o644); err != nil {
		t.Fatal(err)
	}

	errBroken := errors.New("broken document")
	var builds atomic.Int32
	w, err := New(Config{
		Path:     path,
		Debounce: 50 * time.Millisecond,
		Attempts: 3,
		Delay:    time.Millisecond,
		RetryIf:  func(err error) bool { return !errors.Is(err, errBroken) },
	}, func(ctx context.Context) error {
		if builds.Add(1) == 1 {
			return errBroken
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := testContext(t)
	defer cancel()
	startWatcher(ctx, t, w)

	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 2*time.Second, func() bool { return builds.Load() == 1 }) {
		t.Fatal("first build not triggered")
	}
	// Non-retryable: no further attempts for the first change.
	time.Sleep(200 * time.Millisecond)
	if n := builds.Load(); n != 1 {
		t.Fatalf("builds = %d after non-retryable failure, want 1", n)
	}

	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 2*time.Second, func() bool { return builds.Load() == 2 }) {
		t.Errorf("watcher stopped after a failed build: builds = %d", builds.Load())
	}
}

func TestWatcher_RebuildRetries(t *testing.T) {
	var calls atomic.Int32
	w, err := New(Config{Path: "rulebook.docx", Attempts: 3, Delay: time.Millisecond}, func(ctx context.Context) error {
		if calls.Add(1) < 3 {
			return errors.New("file still being written")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := testContext(t)
	defer cancel()
	if err := w.rebuild(ctx); err != nil {
		t.Fatalf("rebuild() error = %v", err)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}

	calls.Store(-10)
	if err := w.rebuild(ctx); err == nil {
		t.Error("expected error once attempts are exhausted")
	}
}

func TestNew_Defaults(t *testing.T) {
	w, err := New(Config{Path: "rulebook.docx"}, func(context.Context) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if w.cfg.Debounce != DefaultDebounce || w.cfg.Attempts != DefaultAttempts || w.cfg.Delay != DefaultDelay {
		t.Errorf("defaults not applied: %+v", w.cfg)
	}
	if !filepath.IsAbs(w.target) {
		t.Errorf("target %q is not absolute", w.target)
	}
}
