// Package services defines shared utilities consumed by the probing and
// extraction components.
//
// Key responsibilities:
//   - Context helpers that stamp batch IDs, stage names, and track indexes for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     (probe invocation vs parse, decode, per-job extraction, timeout).
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform across the tool.
package services
