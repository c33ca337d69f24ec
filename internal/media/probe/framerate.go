package probe

import (
	"strconv"
	"strings"
)

// parseFrameRate converts an ffprobe rate string to frames per second. The
// usual shape is "num/den"; plain decimals also occur. Malformed input and
// zero denominators fall back to the provided default.
func parseFrameRate(value string, fallback float64) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	if num, den, ok := strings.Cut(value, "/"); ok {
		n, errN := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, errD := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if errN != nil || errD != nil || d == 0 {
			return fallback
		}
		return n / d
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
