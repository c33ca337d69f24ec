package ffmpeg

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"hushcut/internal/services"
)

// TargetCRF picks the constant-rate-factor for the preprocessing encode from
// the source bitrate. Higher-quality sources get a lower (better) CRF so the
// pass does not degrade them.
func TargetCRF(bitrateKbps int64) int {
	switch {
	case bitrateKbps > 20000: // 4K / high quality
		return 18
	case bitrateKbps > 8000: // 1080p high
		return 20
	case bitrateKbps > 4000: // 720p-1080p
		return 22
	default: // lower quality source
		return 23
	}
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

// Client wraps ffmpeg CLI interactions.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs an ffmpeg client.
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Preprocess re-encodes input into destDir/preprocessed.mp4 with the fixed
// compatibility argument set and the given CRF, returning the output path.
func (c *Client) Preprocess(ctx context.Context, inputPath, destDir string, crf int) (string, error) {
	if strings.TrimSpace(inputPath) == "" {
		return "", errors.New("input path required")
	}
	if strings.TrimSpace(destDir) == "" {
		return "", errors.New("destination directory required")
	}

	outputPath := filepath.Join(destDir, "preprocessed.mp4")
	args := []string{
		"-y", "-i", inputPath,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", strconv.Itoa(crf),
		"-c:a", "aac",
		"-colorspace", "bt709",
		"-color_primaries", "bt709",
		"-color_trc", "bt709",
		"-map_metadata", "-1",
		"-pix_fmt", "yuv420p",
		outputPath,
	}

	var tail outputTail
	if err := c.exec.Run(ctx, c.binary, args, tail.observe); err != nil {
		detail := tail.String()
		return "", services.Wrap(services.ErrExternalTool, "preprocess", "ffmpeg", detail, err)
	}
	return outputPath, nil
}

// outputTail keeps the last few output lines so encode failures carry a
// useful message without retaining the whole log.
type outputTail struct {
	lines []string
}

const tailLimit = 5

func (t *outputTail) observe(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.lines = append(t.lines, line)
	if len(t.lines) > tailLimit {
		t.lines = t.lines[len(t.lines)-tailLimit:]
	}
}

func (t *outputTail) String() string {
	return strings.Join(t.lines, "; ")
}
