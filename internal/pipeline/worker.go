package pipeline

import (
	"context"
	"sync"

	"hushcut/internal/media/probe"
)

// Outcome is the terminal result of a background run.
type Outcome struct {
	Info probe.VideoInfo
	Err  error
}

// Worker runs the pipeline in a background goroutine and exposes progress
// and the terminal outcome over channels so a UI loop can select on them.
type Worker struct {
	runner *Runner

	progress chan Progress
	outcome  chan Outcome

	cancel    context.CancelFunc
	startOnce sync.Once
}

// NewWorker wraps a runner for background execution.
func NewWorker(runner *Runner) *Worker {
	return &Worker{
		runner:   runner,
		progress: make(chan Progress, 16),
		outcome:  make(chan Outcome, 1),
	}
}

// Progress delivers progress updates while the run is active. The channel is
// closed when the run finishes.
func (w *Worker) Progress() <-chan Progress {
	return w.progress
}

// Outcome delivers exactly one terminal result.
func (w *Worker) Outcome() <-chan Outcome {
	return w.outcome
}

// Start launches the run. Subsequent calls are no-ops.
func (w *Worker) Start(ctx context.Context, inputPath, outputPath string, opts Options) {
	w.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		w.cancel = cancel
		go func() {
			defer cancel()
			info, err := w.runner.Run(runCtx, inputPath, outputPath, opts, func(p Progress) {
				select {
				case w.progress <- p:
				default:
					// A stalled consumer must not block the pipeline.
				}
			})
			close(w.progress)
			w.outcome <- Outcome{Info: info, Err: err}
			close(w.outcome)
		}()
	})
}

// Cancel requests cooperative cancellation of an active run.
func (w *Worker) Cancel() {
	if w.cancel != nil {
		w.cancel()
	}
}
