package autoeditor

import "testing"

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantOK   bool
		wantKind Kind
		wantPct  float64
	}{
		{"analyze marker", "analyze: audio stream 0", true, KindAnalyze, 0},
		{"render marker", "render: timeline", true, KindRender, 0},
		{"rendering text", "Now Rendering video...", true, KindRender, 0},
		{"percent with symbol", "Progress: 45.5% done", true, KindPercent, 45.5},
		{"bare percent symbol", "80%", true, KindPercent, 80},
		{"bare number", "73", true, KindPercent, 73},
		{"bare decimal", "12.5", true, KindPercent, 12.5},
		{"over hundred", "250%", false, 0, 0},
		{"negative", "-5", false, 0, 0},
		{"plain text", "writing chunks", false, 0, 0},
		{"empty", "   ", false, 0, 0},
		{"dots only", "...", false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, ok := parseLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("parseLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if update.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", update.Kind, tt.wantKind)
			}
			if update.Kind == KindPercent && update.Percent != tt.wantPct {
				t.Errorf("Percent = %v, want %v", update.Percent, tt.wantPct)
			}
		})
	}
}

func TestElapsedPercentCaps(t *testing.T) {
	if got := elapsedPercent(0, 60); got != 0 {
		t.Errorf("expected 0 at start, got %v", got)
	}
	if got := elapsedPercent(30e9, 60); got != 50 {
		t.Errorf("expected 50 halfway, got %v", got)
	}
	if got := elapsedPercent(600e9, 60); got != 95 {
		t.Errorf("expected cap at 95, got %v", got)
	}
	// Zero duration must not divide by zero.
	if got := elapsedPercent(1e9, 0); got > 95 {
		t.Errorf("expected capped estimate for zero duration, got %v", got)
	}
}
