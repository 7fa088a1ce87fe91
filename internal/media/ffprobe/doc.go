// Package ffprobe provides a typed model of ffprobe JSON output.
//
// This package has no csub-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video/subtitle stream properties and tags
//   - Format: container-level metadata (duration, stream count)
//
// Primary entry points:
//   - Args: the argument vector that requests JSON stream enumeration
//   - Parse: decodes and schema-checks ffprobe's standard output
package ffprobe
