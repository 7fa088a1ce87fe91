package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"csub/internal/engine"
	"csub/internal/extraction"
	"csub/internal/history"
	"csub/internal/services"
	"csub/internal/testsupport"
)

func sampleBatch(id string) extraction.Batch {
	return extraction.Batch{
		ID:         id,
		SourceFile: "/media/movie.mkv",
		OutputDir:  "/subs",
		Jobs: []extraction.Job{
			{SourceFile: "/media/movie.mkv", TrackIndex: 2, OutputPath: "/subs/Chinese.srt", Label: "#2 Chinese"},
			{SourceFile: "/media/movie.mkv", TrackIndex: 3, OutputPath: "/subs/English - Commentary.srt", Label: "#3 English - Commentary"},
		},
	}
}

func TestRecordBatchLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	batch := sampleBatch("batch-1")
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	failure := services.Wrap(services.ErrExtractionInvocation, "extract", "ffmpeg", "stream 0:3",
		&engine.CommandError{Name: "ffmpeg", ExitCode: 1, Stderr: "Invalid data", Err: errors.New("exit status 1")})

	events := []extraction.Event{
		{Kind: extraction.BatchStarted, BatchID: batch.ID, Total: 2, Time: start},
		{Kind: extraction.JobStarted, BatchID: batch.ID, Position: 0, Job: batch.Jobs[0]},
		{Kind: extraction.JobFinished, BatchID: batch.ID, Position: 0, Job: batch.Jobs[0], Outcome: extraction.Outcome{Duration: 1500 * time.Millisecond}},
		{Kind: extraction.JobStarted, BatchID: batch.ID, Position: 1, Job: batch.Jobs[1]},
		{Kind: extraction.JobFinished, BatchID: batch.ID, Position: 1, Job: batch.Jobs[1], Outcome: extraction.Outcome{
			Err: failure, Kind: services.FailureFailed, ExitCode: 1, Stderr: "Invalid data",
		}},
		{Kind: extraction.BatchFinished, BatchID: batch.ID, Summary: extraction.Summary{BatchID: batch.ID, Total: 2, Succeeded: 1, Failed: 1}, Time: start.Add(time.Minute)},
	}
	for _, event := range events {
		if err := store.Record(ctx, batch, event); err != nil {
			t.Fatalf("Record(%s) returned error: %v", event.Kind, err)
		}
	}

	batches, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	got := batches[0]
	if got.ID != "batch-1" || got.Total != 2 || got.Succeeded != 1 || got.Failed != 1 || got.Status != history.StatusCompleted {
		t.Fatalf("unexpected batch record: %+v", got)
	}
	if !got.StartedAt.Equal(start) || got.FinishedAt == nil || !got.FinishedAt.Equal(start.Add(time.Minute)) {
		t.Fatalf("unexpected timestamps: %+v", got)
	}

	jobs, err := store.Jobs(ctx, batch.ID)
	if err != nil {
		t.Fatalf("Jobs returned error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Status != history.JobSucceeded || jobs[0].ExitCode != nil || jobs[0].Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected first job: %+v", jobs[0])
	}
	if jobs[1].Status != services.FailureFailed || jobs[1].ExitCode == nil || *jobs[1].ExitCode != 1 || jobs[1].Stderr != "Invalid data" {
		t.Fatalf("unexpected second job: %+v", jobs[1])
	}
	if jobs[1].Label != "#3 English - Commentary" || jobs[1].Error == "" {
		t.Fatalf("unexpected second job details: %+v", jobs[1])
	}
}

func TestInterruptedBatchStaysRunning(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	batch := sampleBatch("batch-interrupted")
	if err := store.BeginBatch(ctx, batch, time.Now()); err != nil {
		t.Fatalf("BeginBatch returned error: %v", err)
	}

	batches, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if batches[0].Status != history.StatusRunning || batches[0].FinishedAt != nil {
		t.Fatalf("expected running batch, got %+v", batches[0])
	}
	jobs, err := store.Jobs(ctx, batch.ID)
	if err != nil {
		t.Fatalf("Jobs returned error: %v", err)
	}
	for _, job := range jobs {
		if job.Status != history.JobPending {
			t.Fatalf("expected pending job, got %+v", job)
		}
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := store.BeginBatch(ctx, sampleBatch(id), base.Add(time.Duration(i)*100*time.Millisecond)); err != nil {
			t.Fatalf("BeginBatch(%s) returned error: %v", id, err)
		}
	}

	batches, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(batches) != 2 || batches[0].ID != "c" || batches[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", batches)
	}
}

func TestFinishJobUnknownPosition(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	if err := store.BeginBatch(ctx, sampleBatch("x"), time.Now()); err != nil {
		t.Fatalf("BeginBatch returned error: %v", err)
	}
	if err := store.FinishJob(ctx, "x", 9, extraction.Outcome{}); err == nil {
		t.Fatal("expected error for unknown job position")
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := store.BeginBatch(context.Background(), sampleBatch("persisted"), time.Now()); err != nil {
		t.Fatalf("BeginBatch returned error: %v", err)
	}
	store.Close()

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()
	batches, err := reopened.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(batches) != 1 || batches[0].ID != "persisted" {
		t.Fatalf("unexpected batches after reopen: %+v", batches)
	}
}
