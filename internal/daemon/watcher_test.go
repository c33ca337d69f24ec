package daemon

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"hushcut/internal/logging"
	"hushcut/internal/testsupport"
)

func TestWatcherHandlesExistingFiles(t *testing.T) {
	inbox := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(inbox, "talk.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(inbox, "notes.txt"), 16)

	var (
		mu   sync.Mutex
		seen []string
	)
	handler := func(ctx context.Context, path string) error {
		mu.Lock()
		seen = append(seen, filepath.Base(path))
		mu.Unlock()
		return nil
	}

	watcher, err := NewWatcher(inbox, 0, handler, logging.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := watcher.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run returned %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != "talk.mp4" {
		t.Fatalf("handled files = %v, want only talk.mp4", seen)
	}
}

func TestWatcherRejectsMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := NewWatcher(missing, 0, func(context.Context, string) error { return nil }, logging.NewNop())
	if err == nil {
		t.Fatal("expected error for missing inbox directory")
	}
}

func TestSettleWaitsForStableSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grow.mp4")
	testsupport.WriteFile(t, path, 1024)

	watcher := &Watcher{settleDelay: 10 * time.Millisecond}
	if err := watcher.settle(context.Background(), path); err != nil {
		t.Fatalf("settle: %v", err)
	}

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := watcher.settle(canceled, path); !errors.Is(err, context.Canceled) {
		t.Fatalf("settle with canceled context returned %v", err)
	}
}
