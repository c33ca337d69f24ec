package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"hushcut/internal/fileutil"
	"hushcut/internal/logging"
)

// FileHandler receives the path of a video file that arrived in the inbox.
type FileHandler func(ctx context.Context, path string) error

// Watcher monitors the inbox directory and invokes a handler for each video
// file that lands there.
type Watcher struct {
	inboxDir    string
	settleDelay time.Duration
	handler     FileHandler
	logger      *slog.Logger
	fsWatcher   *fsnotify.Watcher
}

// NewWatcher creates a watcher for the inbox directory. The directory must
// exist before the watcher starts.
func NewWatcher(inboxDir string, settleDelay time.Duration, handler FileHandler, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsWatcher.Add(inboxDir); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", inboxDir, err)
	}
	return &Watcher{
		inboxDir:    inboxDir,
		settleDelay: settleDelay,
		handler:     handler,
		logger:      logging.NewComponentLogger(logger, "watcher"),
		fsWatcher:   fsWatcher,
	}, nil
}

// Run blocks processing filesystem events until the context is canceled.
// Files already present in the inbox are handled before event processing
// begins so a restart does not strand them.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsWatcher.Close()

	w.logger.Info("watching inbox", logging.String("dir", w.inboxDir))
	if err := w.scanExisting(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return ctx.Err()
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !fileutil.IsVideoFile(event.Name) {
				w.logger.Debug("ignoring non-video file", logging.String("path", event.Name))
				continue
			}
			if err := w.settle(ctx, event.Name); err != nil {
				return err
			}
			w.logger.Info("video arrived", logging.String("path", event.Name))
			if err := w.handler(ctx, event.Name); err != nil {
				w.logger.Error("handle file", logging.String("path", event.Name), logging.Error(err))
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", logging.Error(err))
		}
	}
}

func (w *Watcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		return fmt.Errorf("scan inbox: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.inboxDir, entry.Name())
		if !fileutil.IsVideoFile(path) {
			continue
		}
		if err := w.handler(ctx, path); err != nil {
			w.logger.Error("handle existing file", logging.String("path", path), logging.Error(err))
		}
	}
	return nil
}

// settle waits until the file size stops changing so a partially copied file
// is not picked up mid-write.
func (w *Watcher) settle(ctx context.Context, path string) error {
	if w.settleDelay <= 0 {
		return nil
	}
	var lastSize int64 = -1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.settleDelay):
		}
		info, err := os.Stat(path)
		if err != nil {
			// Renamed or removed while settling; let the handler decide.
			return nil
		}
		if info.Size() == lastSize {
			return nil
		}
		lastSize = info.Size()
	}
}
