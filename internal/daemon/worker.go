package daemon

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"hushcut/internal/config"
	"hushcut/internal/fileutil"
	"hushcut/internal/logging"
	"hushcut/internal/pipeline"
	"hushcut/internal/queue"
)

// worker drains the queue one item at a time, running each through the
// pipeline and recording progress back into the store.
type worker struct {
	cfg    *config.Config
	store  *queue.Store
	runner *pipeline.Runner
	logger *slog.Logger
	poll   time.Duration
}

func newWorker(cfg *config.Config, store *queue.Store, runner *pipeline.Runner, logger *slog.Logger) *worker {
	poll := time.Duration(cfg.Workflow.QueuePollInterval) * time.Second
	if poll <= 0 {
		poll = 5 * time.Second
	}
	return &worker{
		cfg:    cfg,
		store:  store,
		runner: runner,
		logger: logging.NewComponentLogger(logger, "worker"),
		poll:   poll,
	}
}

// run polls for pending items until the context is canceled. The queue is
// drained greedily; the poll interval only applies when the queue is empty.
func (w *worker) run(ctx context.Context) error {
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		item, err := w.store.ClaimNextPending(ctx, uuid.NewString())
		if err != nil {
			w.logger.Error("claim pending item", logging.Error(err))
		}
		if item != nil {
			w.process(ctx, item)
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *worker) process(ctx context.Context, item *queue.Item) {
	logger := w.logger.With(logging.Int64("item_id", item.ID), logging.String("source", item.SourcePath))
	logger.Info("processing queued video")

	outputPath := item.OutputPath
	if outputPath == "" {
		outputPath = fileutil.OutputPathInDir(item.SourcePath, w.cfg.Paths.OutputDir)
		item.OutputPath = outputPath
	}

	info, err := w.runner.Run(ctx, item.SourcePath, outputPath, cutterOptions(w.cfg), func(p pipeline.Progress) {
		if status := statusForProgress(item.Status, p); status != item.Status {
			item.Status = status
			if updateErr := w.store.Update(ctx, item); updateErr != nil {
				logger.Warn("persist status transition", logging.Error(updateErr))
			}
		}
		if updateErr := w.store.UpdateProgress(ctx, item.ID, p.Percent, p.Status); updateErr != nil {
			logger.Warn("persist progress", logging.Error(updateErr))
		}
	})

	if setErr := item.SetVideoInfo(info); setErr != nil {
		logger.Warn("encode video info", logging.Error(setErr))
	}

	switch {
	case err == nil:
		item.Status = queue.StatusCompleted
		item.ProgressPercent = 100
		item.ProgressMessage = "Complete!"
		item.ErrorMessage = ""
		logger.Info("video completed", logging.String("output", outputPath))
	case errors.Is(err, context.Canceled):
		item.Status = queue.StatusPending
		item.RunID = ""
		item.ProgressPercent = 0
		item.ProgressMessage = ""
		logger.Info("processing interrupted, item returned to queue")
	default:
		item.Status = queue.StatusFailed
		item.ErrorMessage = err.Error()
		logger.Error("video failed", logging.Error(err))
	}

	// Use a fresh context so terminal state survives shutdown.
	persistCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.store.Update(persistCtx, item); err != nil {
		logger.Error("persist final state", logging.Error(err))
	}
}

// cutterOptions maps the configured silence-cutting knobs onto pipeline
// options.
func cutterOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Threshold:   cfg.Cutter.Threshold,
		Margin:      cfg.Cutter.Margin,
		SilentSpeed: cfg.Cutter.SilentSpeed,
		Preprocess:  cfg.Cutter.Preprocess,
	}
}

// statusForProgress derives the lifecycle status from a progress sample. The
// pipeline reports what it is doing in the status text; the queue status just
// needs the coarse phase.
func statusForProgress(current queue.Status, p pipeline.Progress) queue.Status {
	switch {
	case strings.HasPrefix(p.Status, "Preprocessing"):
		return queue.StatusPreprocessing
	case p.Percent >= 35:
		return queue.StatusCutting
	case current == "" || current == queue.StatusPending:
		return queue.StatusAnalyzing
	}
	return current
}
