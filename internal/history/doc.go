// Package history keeps a SQLite ledger of extraction batches.
//
// Each batch row holds its source, output folder, and success and failure
// counts; each job row holds the stream index, output path, and for failed
// jobs the exit status and captured stderr. Record consumes orchestrator
// events directly, so a batch interrupted mid-way stays visible as running
// with its unfinished jobs pending.
//
// The schema is versioned in schema.go. A database written by a different
// version is rejected with ErrSchemaMismatch; delete the file to start over.
package history
