package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"hushcut/internal/pipeline"
)

const progressBarWidth = 24

// progressDisplay renders pipeline progress. On a terminal it rewrites a
// single line in place; otherwise it prints one line per stage change so logs
// stay readable.
type progressDisplay struct {
	out        io.Writer
	tty        bool
	lastLen    int
	lastStatus string
}

func newProgressDisplay(out io.Writer) *progressDisplay {
	return &progressDisplay{out: out, tty: isTerminal(out)}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (d *progressDisplay) Update(p pipeline.Progress) {
	if !d.tty {
		if p.Status != d.lastStatus {
			d.lastStatus = p.Status
			fmt.Fprintf(d.out, "%3.0f%% %s\n", p.Percent, p.Status)
		}
		return
	}

	line := fmt.Sprintf("  %s %3.0f%% %s", renderBar(p.Percent), p.Percent, p.Status)
	padding := d.lastLen - len(line)
	if padding < 0 {
		padding = 0
	}
	fmt.Fprintf(d.out, "\r%s%s", line, strings.Repeat(" ", padding))
	d.lastLen = len(line)
	d.lastStatus = p.Status
}

func (d *progressDisplay) Finish() {
	if d.tty && d.lastLen > 0 {
		fmt.Fprintln(d.out)
	}
}

func renderBar(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * progressBarWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", progressBarWidth-filled) + "]"
}
