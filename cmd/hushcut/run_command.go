package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"hushcut/internal/config"
	"hushcut/internal/fileutil"
	"hushcut/internal/logging"
	"hushcut/internal/media/probe"
	"hushcut/internal/pipeline"
	"hushcut/internal/services/autoeditor"
	"hushcut/internal/services/ffmpeg"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath  string
		threshold   int
		margin      int
		silentSpeed int
		noPrep      bool
		overwrite   bool
	)

	cmd := &cobra.Command{
		Use:   "run <video>",
		Short: "Remove silent segments from a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			input, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if !fileutil.IsVideoFile(input) {
				return fmt.Errorf("unsupported video file %q (supported: %s)", input, strings.Join(fileutil.VideoExtensions(), " "))
			}
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("input file: %w", err)
			}

			output := strings.TrimSpace(outputPath)
			if output == "" {
				output = fileutil.DefaultOutputPath(input)
			} else {
				if output, err = config.ExpandPath(output); err != nil {
					return err
				}
				if !fileutil.ValidOutputPath(output) {
					return fmt.Errorf("output must end in .mp4 or .mkv, got %q", filepath.Ext(output))
				}
			}
			if !overwrite {
				if _, err := os.Stat(output); err == nil {
					return fmt.Errorf("output file %s already exists (use --overwrite to replace it)", output)
				}
			}

			opts := pipeline.Options{
				Threshold:   cfg.Cutter.Threshold,
				Margin:      cfg.Cutter.Margin,
				SilentSpeed: cfg.Cutter.SilentSpeed,
				Preprocess:  cfg.Cutter.Preprocess,
			}
			if cmd.Flags().Changed("threshold") {
				opts.Threshold = threshold
			}
			if cmd.Flags().Changed("margin") {
				opts.Margin = margin
			}
			if cmd.Flags().Changed("silent-speed") {
				opts.SilentSpeed = silentSpeed
			}
			if noPrep {
				opts.Preprocess = false
			}

			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "hushcut.log")},
			})
			if err != nil {
				return err
			}

			return runOnce(cmd, cfg, logger, input, output, opts)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (default: <name>_cleaned.mp4 next to the input)")
	cmd.Flags().IntVar(&threshold, "threshold", config.DefaultThreshold, "Audio level percentage treated as silence")
	cmd.Flags().IntVar(&margin, "margin", config.DefaultMargin, "Frames of margin kept around loud sections")
	cmd.Flags().IntVar(&silentSpeed, "silent-speed", config.DefaultSilentSpeed, "Playback speed applied to silent spans")
	cmd.Flags().BoolVar(&noPrep, "no-preprocess", false, "Skip the compatibility re-encode before cutting")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the output file if it already exists")

	return cmd
}

func runOnce(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, input, output string, opts pipeline.Options) error {
	runner := pipeline.NewRunner(
		probe.New(cfg.FFprobeBinary(), cfg.Workflow.ProbeTimeout),
		ffmpeg.New(cfg.FFmpegBinary()),
		autoeditor.New(autoeditor.ResolveBinary(cfg.AutoEditorBinary())),
		cfg.Paths.StagingDir,
		logger,
	)

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processing %s\n", filepath.Base(input))

	display := newProgressDisplay(out)
	worker := pipeline.NewWorker(runner)
	worker.Start(runCtx, input, output, opts)

	for p := range worker.Progress() {
		display.Update(p)
	}
	outcome := <-worker.Outcome()
	display.Finish()

	if outcome.Err != nil {
		if errors.Is(outcome.Err, context.Canceled) {
			fmt.Fprintln(out, "Canceled.")
		}
		return outcome.Err
	}

	fmt.Fprintf(out, "Saved %s\n", output)
	if reasons := outcome.Info.PreprocessReasons(); len(reasons) > 0 && !opts.Preprocess {
		fmt.Fprintf(out, "Note: the source may need preprocessing (%s); rerun without --no-preprocess if the result looks wrong.\n", strings.Join(reasons, ", "))
	}
	return nil
}
