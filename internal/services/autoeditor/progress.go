package autoeditor

import (
	"strconv"
	"strings"
)

// Kind distinguishes the progress signals extracted from auto-editor output.
type Kind int

const (
	// KindAnalyze marks the start of the silence-analysis phase.
	KindAnalyze Kind = iota
	// KindRender marks the start of the render phase.
	KindRender
	// KindPercent carries a tool-reported completion percentage.
	KindPercent
	// KindElapsed carries an elapsed-time completion estimate, used when the
	// tool has produced no parseable output for a while.
	KindElapsed
)

// Update is a coarse progress signal from the cutter. Percent is only
// meaningful for KindPercent and KindElapsed.
type Update struct {
	Kind    Kind
	Percent float64
}

// parseLine extracts a progress signal from one line of auto-editor output.
// The format is incidental log text, so matching is deliberately loose.
func parseLine(line string) (Update, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Update{}, false
	}

	if strings.HasPrefix(line, "analyze:") {
		return Update{Kind: KindAnalyze}, true
	}
	if strings.HasPrefix(line, "render:") || strings.Contains(strings.ToLower(line), "rendering") {
		return Update{Kind: KindRender}, true
	}

	if percent, ok := extractPercent(line); ok {
		return Update{Kind: KindPercent, Percent: percent}, true
	}
	return Update{}, false
}

// extractPercent pulls a 0-100 number out of lines like "45.2%", "Progress:
// 80%", or a bare "73".
func extractPercent(line string) (float64, bool) {
	candidate := line
	if before, _, found := strings.Cut(line, "%"); found {
		fields := strings.Fields(before)
		if len(fields) == 0 {
			return 0, false
		}
		candidate = fields[len(fields)-1]
	} else if !isNumeric(line) {
		return 0, false
	}

	percent, err := strconv.ParseFloat(candidate, 64)
	if err != nil || percent < 0 || percent > 100 {
		return 0, false
	}
	return percent, true
}

func isNumeric(s string) bool {
	dots := 0
	for _, r := range s {
		if r == '.' {
			dots++
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return dots <= 1 && len(s) > dots
}
