package services

import (
	"bufio"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
)

func TestCommandExecutorStreamsBothPipes(t *testing.T) {
	var mu sync.Mutex
	var lines []string
	err := CommandExecutor{}.Run(context.Background(), "/bin/sh",
		[]string{"-c", "echo out-line; echo err-line 1>&2"},
		func(line string) {
			mu.Lock()
			lines = append(lines, line)
			mu.Unlock()
		})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	sort.Strings(lines)
	if len(lines) != 2 || lines[0] != "err-line" || lines[1] != "out-line" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestCommandExecutorReportsExitFailure(t *testing.T) {
	err := CommandExecutor{}.Run(context.Background(), "/bin/sh", []string{"-c", "exit 3"}, nil)
	if err == nil || !strings.Contains(err.Error(), "wait") {
		t.Fatalf("expected wait error, got %v", err)
	}
}

func TestCommandExecutorReturnsAfterScanError(t *testing.T) {
	// A single line past the scanner's token limit aborts scanning; the child
	// must still be reaped so Run returns instead of hanging.
	script := "head -c 200000 /dev/zero | tr '\\0' 'a'; echo"
	err := CommandExecutor{}.Run(context.Background(), "/bin/sh", []string{"-c", script}, func(string) {})
	if err == nil {
		t.Fatal("expected scan error")
	}
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("expected token-too-long error, got %v", err)
	}
	if !strings.Contains(err.Error(), "scan output") {
		t.Fatalf("unexpected error text: %v", err)
	}
}
