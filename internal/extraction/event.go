package extraction

import (
	"time"
)

// EventKind identifies a batch lifecycle event.
type EventKind string

const (
	BatchStarted  EventKind = "batch_started"
	JobStarted    EventKind = "job_started"
	JobFinished   EventKind = "job_finished"
	BatchFinished EventKind = "batch_finished"
)

// Event is one lifecycle notification. Job and Position (zero-based) are set for job
// events, Outcome for JobFinished, and Summary for BatchFinished.
type Event struct {
	Kind     EventKind
	BatchID  string
	Total    int
	Position int
	Job      Job
	Outcome  Outcome
	Summary  Summary
	Time     time.Time
}

// Outcome records how a job ended.
type Outcome struct {
	Err      error
	Kind     string
	ExitCode int
	Stderr   string
	Duration time.Duration
}

// Succeeded reports whether the job produced its output.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Summary totals a finished batch.
type Summary struct {
	BatchID   string
	Total     int
	Succeeded int
	Failed    int
	Duration  time.Duration
}
