// Package tracks turns ffprobe stream listings into TrackDescriptors.
//
// Prober runs the injected engine.Engine, parses its JSON and returns every
// stream in container order. Callers that only want subtitles apply
// Subtitles to the result.
package tracks
