package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hushcut/internal/services"
)

const (
	// defaultFPS is assumed when ffprobe reports no usable frame rate.
	defaultFPS = 30.0
	// vfrTolerance is the nominal-vs-average gap (fps) beyond which a file
	// counts as variable frame rate. Small drift is common and harmless.
	vfrTolerance = 2.0
)

// VideoInfo describes a probed video file. It is computed once per run and
// never mutated afterwards.
type VideoInfo struct {
	Path              string
	Codec             string
	Width             int
	Height            int
	FPS               float64
	Duration          float64
	BitrateKbps       int64
	AudioCodec        string
	VariableFrameRate bool
}

// Resolution renders the WxH string for display.
func (v VideoInfo) Resolution() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// DurationString renders the duration as HH:MM:SS, dropping the hour field
// for short clips.
func (v VideoInfo) DurationString() string {
	total := int(v.Duration)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// result mirrors the ffprobe JSON document.
type result struct {
	Streams []stream `json:"streams"`
	Format  format   `json:"format"`
}

type stream struct {
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
}

type format struct {
	Duration string `json:"duration"`
	BitRate  string `json:"bit_rate"`
}

// Option configures the prober.
type Option func(*Prober)

// WithExecutor injects a custom capture executor (primarily for tests).
func WithExecutor(exec services.CaptureExecutor) Option {
	return func(p *Prober) {
		if exec != nil {
			p.exec = exec
		}
	}
}

// Prober runs ffprobe inspections.
type Prober struct {
	binary  string
	timeout time.Duration
	exec    services.CaptureExecutor
}

// New constructs a prober for the given ffprobe binary.
func New(binary string, timeoutSeconds int, opts ...Option) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	prober := &Prober{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    services.CommandCapture{},
	}
	for _, opt := range opts {
		opt(prober)
	}
	return prober
}

// Inspect executes ffprobe against the path and maps the JSON document to a
// VideoInfo. Missing fields fall back to workable defaults rather than
// failing the probe.
func (p *Prober) Inspect(ctx context.Context, path string) (VideoInfo, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return VideoInfo{}, errors.New("probe: empty path")
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	args := []string{"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path}
	output, err := p.exec.Output(ctx, p.binary, args)
	if err != nil {
		return VideoInfo{}, services.Wrap(services.ErrExternalTool, "probe", "ffprobe", "", err)
	}

	var parsed result
	if err := json.Unmarshal(output, &parsed); err != nil {
		return VideoInfo{}, services.Wrap(services.ErrExternalTool, "probe", "parse ffprobe output", "", err)
	}

	return mapVideoInfo(path, parsed)
}

func mapVideoInfo(path string, parsed result) (VideoInfo, error) {
	var video, audio *stream
	for i := range parsed.Streams {
		s := &parsed.Streams[i]
		switch strings.ToLower(s.CodecType) {
		case "video":
			if video == nil {
				video = s
			}
		case "audio":
			if audio == nil {
				audio = s
			}
		}
	}
	if video == nil {
		return VideoInfo{}, services.Wrap(services.ErrValidation, "probe", "", "no video stream found", nil)
	}

	fps := parseFrameRate(video.RFrameRate, defaultFPS)
	avgFPS := fps
	if strings.TrimSpace(video.AvgFrameRate) != "" {
		avgFPS = parseFrameRate(video.AvgFrameRate, fps)
	}

	info := VideoInfo{
		Path:              path,
		Codec:             defaultString(video.CodecName, "unknown"),
		Width:             video.Width,
		Height:            video.Height,
		FPS:               fps,
		Duration:          parsePositiveFloat(parsed.Format.Duration),
		BitrateKbps:       int64(parsePositiveFloat(parsed.Format.BitRate)) / 1000,
		AudioCodec:        "none",
		VariableFrameRate: abs(fps-avgFPS) > vfrTolerance,
	}
	if audio != nil {
		info.AudioCodec = defaultString(audio.CodecName, "unknown")
	}
	return info, nil
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func parsePositiveFloat(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
