package main

import (
	"strings"
	"testing"
)

func TestRenderTableAlignsAndPadsRows(t *testing.T) {
	out := renderTable(
		[]string{"State", "Count"},
		[][]string{{"Pending", "12"}, {"Failed"}},
		1,
	)
	if !strings.Contains(out, "Pending") || !strings.Contains(out, "Failed") {
		t.Fatalf("missing rows:\n%s", out)
	}
	if !strings.Contains(out, "   12") {
		t.Fatalf("count column not right aligned:\n%s", out)
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := renderTable(nil, nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
