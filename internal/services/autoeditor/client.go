package autoeditor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"hushcut/internal/config"
	"hushcut/internal/services"
)

// wellKnownPaths are checked before falling back to PATH lookup; a system
// install is preferred over whatever a virtualenv might shadow it with.
var wellKnownPaths = []string{
	"/usr/bin/auto-editor",
	"/usr/local/bin/auto-editor",
}

// ResolveBinary picks the auto-editor executable to run. An explicit
// configuration wins; otherwise the well-known system locations are tried
// before deferring to PATH.
func ResolveBinary(configured string) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	for _, path := range wellKnownPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return "auto-editor"
}

// Options carries the silence-cutting knobs. Flags are passed through to the
// tool only when they differ from its built-in defaults.
type Options struct {
	Threshold   int
	Margin      int
	SilentSpeed int
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithPollInterval overrides the output poll interval (tests use a short one).
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// Client wraps auto-editor CLI interactions.
type Client struct {
	binary       string
	pollInterval time.Duration
	exec         services.Executor
}

// New constructs an auto-editor client. An empty binary triggers the
// well-known-location lookup.
func New(binary string, opts ...Option) *Client {
	client := &Client{
		binary:       ResolveBinary(binary),
		pollInterval: 500 * time.Millisecond,
		exec:         services.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BuildArgs assembles the auto-editor command line. Only options that differ
// from the tool's defaults are passed through.
func BuildArgs(inputPath, outputPath string, opts Options) []string {
	args := []string{inputPath, "-o", outputPath}
	if opts.Threshold != config.DefaultThreshold {
		args = append(args, "--edit", fmt.Sprintf("audio:threshold=%d%%", opts.Threshold))
	}
	if opts.Margin != config.DefaultMargin {
		args = append(args, "--margin", fmt.Sprintf("%df", opts.Margin))
	}
	if opts.SilentSpeed != config.DefaultSilentSpeed {
		args = append(args, "--silent-speed", strconv.Itoa(opts.SilentSpeed))
	}
	return args
}

// Cut runs auto-editor and streams progress updates. estimatedDuration is
// the probed video length in seconds; processing time is assumed comparable,
// which feeds the elapsed-time estimate emitted whenever the tool's own
// output stalls.
func (c *Client) Cut(ctx context.Context, inputPath, outputPath string, opts Options, estimatedDuration float64, progress func(Update)) error {
	if strings.TrimSpace(inputPath) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return errors.New("output path required")
	}

	args := BuildArgs(inputPath, outputPath, opts)

	var mu sync.Mutex
	lastSignal := time.Now()

	onLine := func(line string) {
		// Any output counts as a liveness signal, even lines that do not
		// parse, so the elapsed estimate only fires when the tool goes quiet.
		mu.Lock()
		lastSignal = time.Now()
		mu.Unlock()

		update, ok := parseLine(line)
		if !ok {
			return
		}
		if progress != nil {
			progress(update)
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- c.exec.Run(ctx, c.binary, args, onLine)
	}()

	start := time.Now()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			if err != nil {
				return services.Wrap(services.ErrExternalTool, "cutting", "auto-editor",
					"check that the video has an audio track", err)
			}
			return nil
		case <-ctx.Done():
			// The executor's CommandContext kills the child; wait for it to
			// report back so no goroutine leaks.
			<-done
			return ctx.Err()
		case now := <-ticker.C:
			mu.Lock()
			stalled := now.Sub(lastSignal) >= c.pollInterval
			mu.Unlock()
			if !stalled || progress == nil {
				continue
			}
			progress(Update{Kind: KindElapsed, Percent: elapsedPercent(now.Sub(start), estimatedDuration)})
		}
	}
}

// elapsedPercent estimates completion from wall time, capped at 95 so the
// bar never claims completion the tool has not confirmed.
func elapsedPercent(elapsed time.Duration, estimatedDuration float64) float64 {
	if estimatedDuration < 1 {
		estimatedDuration = 1
	}
	percent := elapsed.Seconds() / estimatedDuration * 100
	if percent > 95 {
		return 95
	}
	return percent
}
