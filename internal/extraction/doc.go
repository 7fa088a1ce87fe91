// Package extraction builds extraction batches from selected tracks and runs
// them against an engine.Engine.
//
// A Batch is an ordered list of Jobs, one per selected stream, each writing a
// single subtitle file named after its selection label. The Orchestrator runs
// the jobs strictly one after another on a background goroutine and reports
// progress as a stream of Events: BatchStarted, then JobStarted/JobFinished
// for every job, then BatchFinished, which is always last. A failing job is
// recorded in its JobFinished outcome and never stops the jobs after it.
package extraction
