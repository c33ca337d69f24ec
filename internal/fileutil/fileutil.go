// Package fileutil holds the filesystem policy shared by the CLI and the
// watch daemon: which extensions count as video input, which containers are
// valid output, default output naming, and the staging free-space check.
package fileutil

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// videoExtensions is the fixed list of containers accepted as input.
var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".avi":  {},
	".mov":  {},
	".webm": {},
	".m4v":  {},
	".wmv":  {},
	".flv":  {},
}

// outputExtensions is the fixed list of containers accepted as output.
var outputExtensions = map[string]struct{}{
	".mp4": {},
	".mkv": {},
}

// IsVideoFile reports whether the path carries a supported video extension.
func IsVideoFile(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ValidOutputPath reports whether the path carries a supported output
// container extension.
func ValidOutputPath(path string) bool {
	_, ok := outputExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// VideoExtensions returns the accepted input extensions in display order.
func VideoExtensions() []string {
	return []string{".mp4", ".mkv", ".avi", ".mov", ".webm", ".m4v", ".wmv", ".flv"}
}

// DefaultOutputPath derives the cleaned-file name next to the input:
// clip.mov becomes clip_cleaned.mp4.
func DefaultOutputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return filepath.Join(filepath.Dir(inputPath), stem+"_cleaned.mp4")
}

// OutputPathInDir derives the cleaned-file name inside dir, used by watch
// mode.
func OutputPathInDir(inputPath, dir string) string {
	return filepath.Join(dir, filepath.Base(DefaultOutputPath(inputPath)))
}

// FreeSpace reports the bytes available to unprivileged users on the
// filesystem holding dir.
func FreeSpace(dir string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", dir, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
