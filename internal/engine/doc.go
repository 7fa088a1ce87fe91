// Package engine wraps the external probing and extraction tools behind the
// Engine interface so discovery and extraction can be exercised without real
// binaries.
//
// Tools is the production implementation: it runs ffprobe for JSON stream
// listings and ffmpeg (arguments built with ffmpeg-go) for single-stream
// extraction. Failures surface as *CommandError wrapped with the
// services.ErrProbeInvocation or services.ErrExtractionInvocation markers;
// a context deadline additionally carries services.ErrTimeout.
package engine
