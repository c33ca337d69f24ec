// Package autoeditor wraps the auto-editor CLI, which detects and removes
// silent spans from a video's timeline.
//
// The tool's stdout is informal: "analyze:"/"render:" markers and loose
// percentage numbers. The client pattern-matches those lines into coarse
// progress updates and falls back to elapsed-time extrapolation when the
// tool goes quiet.
package autoeditor
