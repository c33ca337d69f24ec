package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hushcut/internal/fileutil"
	"hushcut/internal/logging"
	"hushcut/internal/media/probe"
	"hushcut/internal/services"
	"hushcut/internal/services/autoeditor"
	"hushcut/internal/services/ffmpeg"
)

// Options is the immutable options bag captured before a run starts.
type Options struct {
	Threshold   int
	Margin      int
	SilentSpeed int
	Preprocess  bool
}

// Progress is one progress signal: overall percentage plus status text.
type Progress struct {
	Percent float64
	Status  string
}

// Prober inspects a media file.
type Prober interface {
	Inspect(ctx context.Context, path string) (probe.VideoInfo, error)
}

// Preprocessor re-encodes a file into the staging directory.
type Preprocessor interface {
	Preprocess(ctx context.Context, inputPath, destDir string, crf int) (string, error)
}

// Cutter removes silent spans from a video.
type Cutter interface {
	Cut(ctx context.Context, inputPath, outputPath string, opts autoeditor.Options, estimatedDuration float64, progress func(autoeditor.Update)) error
}

// Runner executes the probe/preprocess/cut sequence.
type Runner struct {
	prober     Prober
	encoder    Preprocessor
	cutter     Cutter
	stagingDir string
	logger     *slog.Logger
}

// NewRunner wires a runner from its collaborators.
func NewRunner(prober Prober, encoder Preprocessor, cutter Cutter, stagingDir string, logger *slog.Logger) *Runner {
	return &Runner{
		prober:     prober,
		encoder:    encoder,
		cutter:     cutter,
		stagingDir: stagingDir,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run processes one file. Progress percentages are clamped to be
// non-decreasing; a successful run ends at exactly 100. The returned
// VideoInfo is the probe result for the input.
func (r *Runner) Run(ctx context.Context, inputPath, outputPath string, opts Options, progress func(Progress)) (probe.VideoInfo, error) {
	runID := uuid.NewString()
	logger := r.logger.With(logging.String("run_id", runID), logging.String("input", inputPath))
	sampler := logging.NewProgressSampler(5)

	rep := &reporter{fn: progress, logger: logger, sampler: sampler}

	rep.report(5, "Analyzing video...")
	info, err := r.prober.Inspect(ctx, inputPath)
	if err != nil {
		return probe.VideoInfo{}, services.Wrap(services.ErrExternalTool, "probe", "", "failed to analyze video file", err)
	}
	logger.Info("probe complete",
		logging.String("codec", info.Codec),
		logging.String("resolution", info.Resolution()),
		logging.Float64("fps", info.FPS),
		logging.Int64("bitrate_kbps", info.BitrateKbps),
		logging.Bool("vfr", info.VariableFrameRate),
	)

	workingFile := inputPath
	var tempDir string
	defer func() {
		// Best-effort: a leftover staging dir is not worth surfacing.
		if tempDir != "" {
			_ = os.RemoveAll(tempDir)
		}
	}()

	if opts.Preprocess {
		if err := ctx.Err(); err != nil {
			return info, err
		}
		rep.report(10, "Preprocessing video for compatibility...")

		tempDir, err = os.MkdirTemp(r.stagingDir, "hushcut-")
		if err != nil {
			return info, services.Wrap(services.ErrConfiguration, "preprocess", "create staging directory", "", err)
		}
		if err := checkStagingSpace(tempDir, inputPath); err != nil {
			return info, err
		}

		crf := ffmpeg.TargetCRF(info.BitrateKbps)
		logger.Info("preprocessing", logging.Int("crf", crf), logging.String("staging_dir", tempDir))
		preprocessed, err := r.encoder.Preprocess(ctx, inputPath, tempDir, crf)
		if err != nil {
			return info, err
		}
		workingFile = preprocessed
		rep.report(30, "Preprocessing complete")
	}

	if err := ctx.Err(); err != nil {
		return info, err
	}

	rep.report(35, "Running auto-editor...")
	cutOpts := autoeditor.Options{
		Threshold:   opts.Threshold,
		Margin:      opts.Margin,
		SilentSpeed: opts.SilentSpeed,
	}
	err = r.cutter.Cut(ctx, workingFile, outputPath, cutOpts, info.Duration, func(update autoeditor.Update) {
		rep.cutterUpdate(update)
	})
	if err != nil {
		return info, err
	}

	rep.report(98, "Cleaning up...")
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
		tempDir = ""
	}

	rep.report(100, "Complete!")
	logger.Info("run complete", logging.String("output", outputPath))
	return info, nil
}

// checkStagingSpace refuses to preprocess when the staging filesystem cannot
// hold another copy of the source. Stat failures skip the check rather than
// block the run.
func checkStagingSpace(stagingDir, inputPath string) error {
	sourceInfo, err := os.Stat(inputPath)
	if err != nil {
		return nil
	}
	free, err := fileutil.FreeSpace(stagingDir)
	if err != nil {
		return nil
	}
	if free < uint64(sourceInfo.Size()) {
		return services.Wrap(services.ErrValidation, "preprocess", "",
			fmt.Sprintf("not enough free space in staging directory %s", stagingDir), nil)
	}
	return nil
}

// reporter clamps progress to be non-decreasing and throttles log output.
type reporter struct {
	mu       sync.Mutex
	percent  float64
	lastText string
	fn       func(Progress)
	logger   *slog.Logger
	sampler  *logging.ProgressSampler
}

func (r *reporter) report(percent float64, status string) {
	r.mu.Lock()
	if percent < r.percent {
		percent = r.percent
	}
	r.percent = percent
	if strings.TrimSpace(status) == "" {
		status = r.lastText
	}
	r.lastText = status
	r.mu.Unlock()

	if r.sampler.ShouldLog(percent, status) {
		r.logger.Debug("progress", logging.Float64("percent", percent), logging.String("status", status))
	}
	if r.fn != nil {
		r.fn(Progress{Percent: percent, Status: status})
	}
}

// cutterUpdate maps the cutter's coarse signals into the overall 0-100
// scale: the cut phase occupies 35-95, with tool percentages spread over
// 40-95 and elapsed-time estimates only applied once they pass the point the
// milestones already cover.
func (r *reporter) cutterUpdate(update autoeditor.Update) {
	switch update.Kind {
	case autoeditor.KindAnalyze:
		r.report(40, "Analyzing audio for silence...")
	case autoeditor.KindRender:
		r.report(60, "Rendering edited video...")
	case autoeditor.KindPercent:
		r.report(40+update.Percent*0.55, fmt.Sprintf("Processing: %d%%", int(update.Percent)))
	case autoeditor.KindElapsed:
		if update.Percent > 40 {
			r.report(35+update.Percent*0.6, "")
		}
	}
}
