// Package config loads, normalizes, and validates csub configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CSUB_FFPROBE_PATH and
// CSUB_FFMPEG_PATH environment overrides. The Config type centralizes every
// knob the CLI needs: tool locations and timeouts, output format, the state
// directory that holds history and locks, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
