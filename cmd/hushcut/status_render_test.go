package main

import (
	"strings"
	"testing"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("ffprobe", statusOK, "/usr/bin/ffprobe", false)
	if !strings.Contains(line, "ffprobe:") || !strings.Contains(line, "[OK] /usr/bin/ffprobe") {
		t.Fatalf("unexpected line: %q", line)
	}
	if strings.Contains(line, ansiGreen) {
		t.Fatalf("colorless render contains ANSI codes: %q", line)
	}

	colored := renderStatusLine("ffprobe", statusError, "missing", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red wrapping: %q", colored)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader("Tools", false)
	if len(lines) != 2 {
		t.Fatalf("expected header and rule, got %v", lines)
	}
	if lines[0] != "== Tools ==" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines[1]) != len(lines[0]) {
		t.Fatalf("rule length %d != header length %d", len(lines[1]), len(lines[0]))
	}
}
