// Package pipeline sequences the three processing steps: probe the input,
// optionally re-encode it into a cutter-friendly format, and run the silence
// cutter. One background worker executes the sequence while progress and a
// terminal outcome flow back over channels; cancellation is cooperative via
// context and is checked at every step boundary.
package pipeline
