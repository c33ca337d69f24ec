// Package ffmpeg wraps the preprocessing re-encode that normalizes awkward
// inputs (variable frame rate, exotic codecs) into a standard H.264/AAC file
// the silence cutter handles reliably. The constant-rate-factor is chosen
// from a fixed table keyed on the source bitrate so quality is preserved
// without inflating low-quality sources.
package ffmpeg
