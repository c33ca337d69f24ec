package config

const (
	defaultInboxDir   = "~/.local/share/hushcut/inbox"
	defaultOutputDir  = "~/.local/share/hushcut/output"
	defaultStagingDir = "~/.local/share/hushcut/staging"
	defaultLogDir     = "~/.local/share/hushcut/logs"

	defaultFFprobeBinary = "ffprobe"
	defaultFFmpegBinary  = "ffmpeg"

	// DefaultThreshold is the cutter's built-in silence threshold percentage.
	DefaultThreshold = 4
	// DefaultMargin is the cutter's built-in frame margin.
	DefaultMargin = 6
	// DefaultSilentSpeed cuts silent spans entirely.
	DefaultSilentSpeed = 99999

	defaultQueuePollInterval = 5
	defaultSettleDelay       = 1
	defaultProbeTimeout      = 30

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InboxDir:   defaultInboxDir,
			OutputDir:  defaultOutputDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Tools: Tools{
			FFprobe: defaultFFprobeBinary,
			FFmpeg:  defaultFFmpegBinary,
		},
		Cutter: Cutter{
			Threshold:   DefaultThreshold,
			Margin:      DefaultMargin,
			SilentSpeed: DefaultSilentSpeed,
			Preprocess:  true,
		},
		Workflow: Workflow{
			QueuePollInterval: defaultQueuePollInterval,
			SettleDelay:       defaultSettleDelay,
			ProbeTimeout:      defaultProbeTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
