// Package probe wraps ffprobe JSON inspection and exposes the VideoInfo
// value the rest of the pipeline keys decisions on: codec, dimensions, frame
// rate, duration, bitrate, and whether the frame rate is variable enough to
// need a preprocessing pass.
package probe
