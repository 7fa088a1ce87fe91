package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"csub/internal/engine"
	"csub/internal/logging"
	"csub/internal/services"
)

// eventBuffer bounds how far the worker may run ahead of a slow consumer.
const eventBuffer = 16

// Orchestrator runs extraction batches one job at a time.
type Orchestrator struct {
	engine     engine.Engine
	logger     *slog.Logger
	jobTimeout time.Duration
	now        func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithJobTimeout bounds each external extraction. Zero disables the limit.
func WithJobTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.jobTimeout = timeout
		} else {
			o.jobTimeout = 0
		}
	}
}

// NewOrchestrator constructs an orchestrator over eng.
func NewOrchestrator(eng engine.Engine, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		engine: eng,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.NewComponentLogger(o.logger, "orchestrator")
	return o
}

// Start runs batch on a new goroutine and returns its event stream. The
// channel is closed after BatchFinished; callers must drain it.
func (o *Orchestrator) Start(ctx context.Context, batch Batch) <-chan Event {
	events := make(chan Event, eventBuffer)
	go func() {
		defer close(events)
		o.Run(ctx, batch, func(event Event) {
			events <- event
		})
	}()
	return events
}

// Run executes batch synchronously, passing every lifecycle event to emit.
// Once ctx is done the remaining jobs finish immediately with the context
// error; BatchFinished is emitted in every case.
func (o *Orchestrator) Run(ctx context.Context, batch Batch, emit func(Event)) Summary {
	if emit == nil {
		emit = func(Event) {}
	}
	ctx = services.WithBatchID(ctx, batch.ID)
	ctx = services.WithStage(ctx, "extract")
	logger := logging.WithContext(ctx, o.logger)

	started := o.now()
	total := len(batch.Jobs)
	summary := Summary{BatchID: batch.ID, Total: total}

	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.String("source_file", batch.SourceFile),
		logging.String("output_dir", batch.OutputDir),
		logging.Int("jobs", total),
	)
	emit(Event{Kind: BatchStarted, BatchID: batch.ID, Total: total, Time: started})

	for pos, job := range batch.Jobs {
		emit(Event{Kind: JobStarted, BatchID: batch.ID, Total: total, Position: pos, Job: job, Time: o.now()})

		outcome := o.runJob(services.WithTrackIndex(ctx, job.TrackIndex), job)
		if outcome.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}

		emit(Event{Kind: JobFinished, BatchID: batch.ID, Total: total, Position: pos, Job: job, Outcome: outcome, Time: o.now()})
	}

	summary.Duration = o.now().Sub(started)
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Duration("duration", summary.Duration),
	)
	emit(Event{Kind: BatchFinished, BatchID: batch.ID, Total: total, Summary: summary, Time: o.now()})
	return summary
}

func (o *Orchestrator) runJob(ctx context.Context, job Job) Outcome {
	logger := logging.WithContext(ctx, o.logger)
	started := o.now()

	var err error
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = services.Wrap(services.ErrExtractionInvocation, "extract", "", "not started", ctxErr)
	} else {
		logger.Info("job started",
			logging.String(logging.FieldEventType, "job_start"),
			logging.String("output", job.OutputPath),
		)
		err = o.extract(ctx, job)
	}

	outcome := Outcome{Err: err, Duration: o.now().Sub(started)}
	if err == nil {
		logger.Info("job finished",
			logging.String(logging.FieldEventType, "job_complete"),
			logging.String("output", job.OutputPath),
			logging.Duration("duration", outcome.Duration),
		)
		return outcome
	}

	outcome.Kind = services.FailureKind(err)
	outcome.ExitCode = -1
	var cmdErr *engine.CommandError
	if errors.As(err, &cmdErr) {
		outcome.ExitCode = cmdErr.ExitCode
		outcome.Stderr = cmdErr.Stderr
	}
	logging.WarnWithContext(logger, "job failed", "job_failed",
		logging.String(logging.FieldErrorHint, "inspect stderr; the remaining jobs continue"),
		logging.String(logging.FieldImpact, "subtitle file not written"),
		logging.String("output", job.OutputPath),
		logging.String("failure", outcome.Kind),
		logging.Int("exit_code", outcome.ExitCode),
		logging.String("stderr", outcome.Stderr),
		logging.Error(err),
	)
	return outcome
}

func (o *Orchestrator) extract(ctx context.Context, job Job) error {
	jobCtx := ctx
	if o.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, o.jobTimeout)
		defer cancel()
	}

	err := o.engine.Extract(jobCtx, job.SourceFile, job.TrackIndex, job.OutputPath)
	if err == nil {
		return nil
	}
	if errors.Is(jobCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, services.ErrTimeout) {
		err = fmt.Errorf("%w: %w", services.ErrTimeout, err)
	}
	if !errors.Is(err, services.ErrExtractionInvocation) && !errors.Is(err, services.ErrValidation) {
		err = services.Wrap(services.ErrExtractionInvocation, "extract", "", fmt.Sprintf("stream 0:%d", job.TrackIndex), err)
	}
	return err
}
