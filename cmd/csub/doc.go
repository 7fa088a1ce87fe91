// Package main hosts the csub CLI entrypoint and command graph.
//
// The Cobra command tree lists the subtitle tracks of a media file, extracts
// a chosen set of them through a background batch that streams progress back
// to the terminal, and exposes history, language lookup, health, and
// configuration scaffolding. Configuration, the logger, and the extraction
// session are built lazily in commandContext and shared by every subcommand.
//
// Exit status is 1 when a command returns an error, including an extraction
// batch in which any job failed.
package main
