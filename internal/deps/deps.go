package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"hushcut/internal/config"
	"hushcut/internal/services/autoeditor"
)

// Requirement defines an external dependency hushcut relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements builds the dependency list for the configured toolchain.
func Requirements(cfg *config.Config) []Requirement {
	ffprobe := cfg.FFprobeBinary()
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	ffmpeg := cfg.FFmpegBinary()
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	return []Requirement{
		{Name: "ffprobe", Command: ffprobe, Description: "Inspects video files before processing"},
		{Name: "ffmpeg", Command: ffmpeg, Description: "Re-encodes videos with problematic codecs", Optional: true},
		{Name: "auto-editor", Command: autoeditor.ResolveBinary(cfg.AutoEditorBinary()), Description: "Removes silent segments"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of required dependencies that are not
// available.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
