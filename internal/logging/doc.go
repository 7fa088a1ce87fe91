// Package logging assembles the slog loggers used by csub.
//
// It owns the console and JSON handlers, routes terminal and log-file output
// at independent levels, and exposes context-aware helpers so pipeline code
// tags lines with batch IDs, stages, and track indexes without threading
// attributes by hand. NewNop is available for tests and for wiring code that
// cannot fail.
package logging
