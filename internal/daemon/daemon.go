package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"hushcut/internal/config"
	"hushcut/internal/logging"
	"hushcut/internal/media/probe"
	"hushcut/internal/pipeline"
	"hushcut/internal/queue"
	"hushcut/internal/services/autoeditor"
	"hushcut/internal/services/ffmpeg"
)

// Daemon watches the inbox, enqueues arriving videos, and drains the queue
// through the pipeline. A file lock enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *queue.Store

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status reports daemon runtime information.
type Status struct {
	Running      bool
	QueueDBPath  string
	LockFilePath string
	Queue        queue.HealthSummary
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, "hushcutd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock, repairs stuck items, and launches the
// inbox watcher and queue worker.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another hushcut daemon instance is already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		_ = d.lock.Unlock()
		return err
	}

	reset, err := d.store.ResetStuck(ctx)
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("reset stuck items: %w", err)
	}
	if reset > 0 {
		d.logger.Info("requeued interrupted items", logging.Int64("count", reset))
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	runner := newRunner(d.cfg, d.logger)
	wk := newWorker(d.cfg, d.store, runner, d.logger)

	settle := time.Duration(d.cfg.Workflow.SettleDelay) * time.Second
	watcher, err := NewWatcher(d.cfg.Paths.InboxDir, settle, d.enqueue, d.logger)
	if err != nil {
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return err
	}

	d.wg.Add(2)
	go func() {
		defer d.wg.Done()
		if err := watcher.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("watcher exited", logging.Error(err))
		}
	}()
	go func() {
		defer d.wg.Done()
		if err := wk.run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("worker exited", logging.Error(err))
		}
	}()

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("inbox", d.cfg.Paths.InboxDir),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Stop cancels background processing, waits for it to drain, and releases the
// instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close stops the daemon and closes the queue store.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}

// Status summarizes the daemon and queue state.
func (d *Daemon) Status(ctx context.Context) (Status, error) {
	summary, err := d.store.Health(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Running:      d.running.Load(),
		QueueDBPath:  d.store.Path(),
		LockFilePath: d.lockPath,
		Queue:        summary,
	}, nil
}

func (d *Daemon) enqueue(ctx context.Context, path string) error {
	item, err := d.store.NewFile(ctx, path, "")
	if err != nil {
		return err
	}
	d.logger.Info("enqueued video", logging.Int64("item_id", item.ID), logging.String("source", path))
	return nil
}

// newRunner assembles the pipeline from the configured toolchain.
func newRunner(cfg *config.Config, logger *slog.Logger) *pipeline.Runner {
	prober := probe.New(cfg.FFprobeBinary(), cfg.Workflow.ProbeTimeout)
	encoder := ffmpeg.New(cfg.FFmpegBinary())
	cutter := autoeditor.New(autoeditor.ResolveBinary(cfg.AutoEditorBinary()))
	return pipeline.NewRunner(prober, encoder, cutter, cfg.Paths.StagingDir, logger)
}
