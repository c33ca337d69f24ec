package autoeditor_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hushcut/internal/services/autoeditor"
)

type stubExecutor struct {
	lines []string
	err   error
	delay time.Duration
	args  [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	s.args = append(s.args, append([]string(nil), args...))
	for _, line := range s.lines {
		if onLine != nil {
			onLine(line)
		}
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

// chattyExecutor emits an unparseable output line at a steady interval until
// the total duration elapses.
type chattyExecutor struct {
	interval time.Duration
	total    time.Duration
}

func (c *chattyExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	deadline := time.After(c.total)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return nil
		case <-ticker.C:
			if onLine != nil {
				onLine("reading audio samples")
			}
		}
	}
}

func TestBuildArgsDefaultsOmitFlags(t *testing.T) {
	args := autoeditor.BuildArgs("in.mp4", "out.mp4", autoeditor.Options{
		Threshold: 4, Margin: 6, SilentSpeed: 99999,
	})
	want := "in.mp4 -o out.mp4"
	if got := strings.Join(args, " "); got != want {
		t.Fatalf("BuildArgs = %q, want %q", got, want)
	}
}

func TestBuildArgsPassesChangedOptions(t *testing.T) {
	args := autoeditor.BuildArgs("in.mp4", "out.mp4", autoeditor.Options{
		Threshold: 7, Margin: 10, SilentSpeed: 8,
	})
	want := "in.mp4 -o out.mp4 --edit audio:threshold=7% --margin 10f --silent-speed 8"
	if got := strings.Join(args, " "); got != want {
		t.Fatalf("BuildArgs = %q, want %q", got, want)
	}
}

func TestBuildArgsPartialOverride(t *testing.T) {
	args := autoeditor.BuildArgs("in.mp4", "out.mp4", autoeditor.Options{
		Threshold: 4, Margin: 12, SilentSpeed: 99999,
	})
	want := "in.mp4 -o out.mp4 --margin 12f"
	if got := strings.Join(args, " "); got != want {
		t.Fatalf("BuildArgs = %q, want %q", got, want)
	}
}

func TestResolveBinaryPrefersConfigured(t *testing.T) {
	if got := autoeditor.ResolveBinary("/opt/ae/auto-editor"); got != "/opt/ae/auto-editor" {
		t.Fatalf("ResolveBinary = %q, want configured path", got)
	}
}

func TestResolveBinaryFallsBackToPathLookup(t *testing.T) {
	// On machines without a system install the bare name must come back so
	// PATH resolution still applies.
	got := autoeditor.ResolveBinary("")
	if got != "auto-editor" && !strings.HasSuffix(got, "/auto-editor") {
		t.Fatalf("ResolveBinary = %q, want auto-editor lookup result", got)
	}
}

func TestCutForwardsParsedProgress(t *testing.T) {
	exec := &stubExecutor{lines: []string{
		"analyze: audio stream 0",
		"noise line",
		"40%",
		"render: timeline",
		"90%",
	}}
	client := autoeditor.New("auto-editor", autoeditor.WithExecutor(exec))

	var updates []autoeditor.Update
	err := client.Cut(context.Background(), "in.mp4", "out.mp4", autoeditor.Options{
		Threshold: 4, Margin: 6, SilentSpeed: 99999,
	}, 60, func(u autoeditor.Update) {
		updates = append(updates, u)
	})
	if err != nil {
		t.Fatalf("Cut returned error: %v", err)
	}

	wantKinds := []autoeditor.Kind{
		autoeditor.KindAnalyze, autoeditor.KindPercent,
		autoeditor.KindRender, autoeditor.KindPercent,
	}
	if len(updates) != len(wantKinds) {
		t.Fatalf("expected %d updates, got %d: %v", len(wantKinds), len(updates), updates)
	}
	for i, kind := range wantKinds {
		if updates[i].Kind != kind {
			t.Errorf("update %d kind = %v, want %v", i, updates[i].Kind, kind)
		}
	}
}

func TestCutEmitsElapsedEstimateWhenQuiet(t *testing.T) {
	exec := &stubExecutor{delay: 100 * time.Millisecond}
	client := autoeditor.New("auto-editor",
		autoeditor.WithExecutor(exec),
		autoeditor.WithPollInterval(10*time.Millisecond),
	)

	var sawElapsed bool
	err := client.Cut(context.Background(), "in.mp4", "out.mp4", autoeditor.Options{
		Threshold: 4, Margin: 6, SilentSpeed: 99999,
	}, 1, func(u autoeditor.Update) {
		if u.Kind == autoeditor.KindElapsed {
			sawElapsed = true
			if u.Percent < 0 || u.Percent > 95 {
				t.Errorf("elapsed estimate out of range: %v", u.Percent)
			}
		}
	})
	if err != nil {
		t.Fatalf("Cut returned error: %v", err)
	}
	if !sawElapsed {
		t.Fatal("expected at least one elapsed-time estimate")
	}
}

func TestCutHoldsElapsedEstimateWhileToolIsTalking(t *testing.T) {
	// Steady output, even when none of it parses, means the tool is alive; the
	// elapsed-time estimate must stay quiet until the output actually stalls.
	exec := &chattyExecutor{interval: 5 * time.Millisecond, total: 200 * time.Millisecond}
	client := autoeditor.New("auto-editor",
		autoeditor.WithExecutor(exec),
		autoeditor.WithPollInterval(50*time.Millisecond),
	)

	var elapsed int
	err := client.Cut(context.Background(), "in.mp4", "out.mp4", autoeditor.Options{
		Threshold: 4, Margin: 6, SilentSpeed: 99999,
	}, 1, func(u autoeditor.Update) {
		if u.Kind == autoeditor.KindElapsed {
			elapsed++
		}
	})
	if err != nil {
		t.Fatalf("Cut returned error: %v", err)
	}
	if elapsed != 0 {
		t.Fatalf("expected no elapsed estimates while output flows, got %d", elapsed)
	}
}

func TestCutWrapsToolFailure(t *testing.T) {
	exec := &stubExecutor{err: errors.New("exit status 1")}
	client := autoeditor.New("auto-editor", autoeditor.WithExecutor(exec))

	err := client.Cut(context.Background(), "in.mp4", "out.mp4", autoeditor.Options{
		Threshold: 4, Margin: 6, SilentSpeed: 99999,
	}, 60, nil)
	if err == nil {
		t.Fatal("expected error from failing cutter")
	}
	if !strings.Contains(err.Error(), "audio track") {
		t.Fatalf("expected hint about audio track, got %v", err)
	}
}

func TestCutStopsOnCancel(t *testing.T) {
	exec := &stubExecutor{delay: time.Second}
	client := autoeditor.New("auto-editor",
		autoeditor.WithExecutor(exec),
		autoeditor.WithPollInterval(10*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := client.Cut(ctx, "in.mp4", "out.mp4", autoeditor.Options{
		Threshold: 4, Margin: 6, SilentSpeed: 99999,
	}, 60, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
