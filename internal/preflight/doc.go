// Package preflight provides readiness checks for the filesystem paths and
// external tools csub depends on.
//
// The extract command runs CheckSourceFile and CheckOutputDirectory before
// building a batch so a doomed run fails before any job starts. The status
// command runs RunAll to display overall health.
package preflight
