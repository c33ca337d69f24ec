package main

import (
	"bytes"
	"strings"
	"testing"

	"hushcut/internal/pipeline"
)

func TestProgressDisplayNonTTYPrintsOnStageChange(t *testing.T) {
	buf := &bytes.Buffer{}
	display := newProgressDisplay(buf)
	if display.tty {
		t.Fatal("buffer should not be detected as a terminal")
	}

	display.Update(pipeline.Progress{Percent: 5, Status: "Analyzing video..."})
	display.Update(pipeline.Progress{Percent: 8, Status: "Analyzing video..."})
	display.Update(pipeline.Progress{Percent: 35, Status: "Running auto-editor..."})
	display.Finish()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "Analyzing video...") {
		t.Fatalf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Running auto-editor...") {
		t.Fatalf("second line = %q", lines[1])
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		percent float64
		filled  int
	}{
		{0, 0},
		{50, progressBarWidth / 2},
		{100, progressBarWidth},
		{150, progressBarWidth},
		{-5, 0},
	}
	for _, tc := range tests {
		bar := renderBar(tc.percent)
		if got := strings.Count(bar, "#"); got != tc.filled {
			t.Fatalf("renderBar(%.0f) filled = %d, want %d (%s)", tc.percent, got, tc.filled, bar)
		}
		if len(bar) != progressBarWidth+2 {
			t.Fatalf("renderBar(%.0f) length = %d", tc.percent, len(bar))
		}
	}
}
