package extraction_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"csub/internal/engine"
	"csub/internal/extraction"
	"csub/internal/services"
	"csub/internal/testsupport"
)

type fakeEngine struct {
	mu      sync.Mutex
	calls   []int
	active  int
	overlap bool
	fail    map[int]error
	block   map[int]bool
}

func (f *fakeEngine) Probe(context.Context, string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEngine) Extract(ctx context.Context, _ string, trackIndex int, _ string) error {
	f.mu.Lock()
	f.calls = append(f.calls, trackIndex)
	f.active++
	if f.active > 1 {
		f.overlap = true
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if f.block[trackIndex] {
		<-ctx.Done()
		return ctx.Err()
	}
	time.Sleep(time.Millisecond)
	if err := f.fail[trackIndex]; err != nil {
		return err
	}
	return nil
}

func (f *fakeEngine) Calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

func newBatch(indexes ...int) extraction.Batch {
	batch := extraction.Batch{ID: "batch-test", SourceFile: "/media/movie.mkv", OutputDir: "/out"}
	for _, idx := range indexes {
		batch.Jobs = append(batch.Jobs, extraction.Job{
			SourceFile: "/media/movie.mkv",
			TrackIndex: idx,
			OutputPath: filepath.Join("/out", "track.srt"),
		})
	}
	return batch
}

func collect(events <-chan extraction.Event) []extraction.Event {
	var out []extraction.Event
	for event := range events {
		out = append(out, event)
	}
	return out
}

func kinds(events []extraction.Event) []extraction.EventKind {
	out := make([]extraction.EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestEmptyBatchEmitsStartAndFinish(t *testing.T) {
	orch := extraction.NewOrchestrator(&fakeEngine{})
	events := collect(orch.Start(context.Background(), newBatch()))

	got := kinds(events)
	if len(got) != 2 || got[0] != extraction.BatchStarted || got[1] != extraction.BatchFinished {
		t.Fatalf("unexpected events: %v", got)
	}
	if events[1].Summary.Total != 0 || events[1].Summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", events[1].Summary)
	}
}

func TestFailedJobDoesNotAbortBatch(t *testing.T) {
	cause := &engine.CommandError{Name: "ffmpeg", ExitCode: 1, Stderr: "No such file or directory", Err: errors.New("exit status 1")}
	eng := &fakeEngine{fail: map[int]error{3: cause}}
	orch := extraction.NewOrchestrator(eng)

	events := collect(orch.Start(context.Background(), newBatch(2, 3, 4)))

	want := []extraction.EventKind{
		extraction.BatchStarted,
		extraction.JobStarted, extraction.JobFinished,
		extraction.JobStarted, extraction.JobFinished,
		extraction.JobStarted, extraction.JobFinished,
		extraction.BatchFinished,
	}
	got := kinds(events)
	if len(got) != len(want) {
		t.Fatalf("unexpected events: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: got %s want %s", i, got[i], want[i])
		}
	}

	finished := []extraction.Event{events[2], events[4], events[6]}
	if !finished[0].Outcome.Succeeded() || !finished[2].Outcome.Succeeded() {
		t.Fatalf("expected jobs 1 and 3 to succeed: %+v %+v", finished[0].Outcome, finished[2].Outcome)
	}
	failed := finished[1].Outcome
	if failed.Succeeded() {
		t.Fatal("expected job 2 to fail")
	}
	if !errors.Is(failed.Err, services.ErrExtractionInvocation) {
		t.Fatalf("expected ErrExtractionInvocation, got %v", failed.Err)
	}
	if failed.ExitCode != 1 || failed.Stderr != "No such file or directory" || failed.Kind != services.FailureFailed {
		t.Fatalf("unexpected failure outcome: %+v", failed)
	}

	summary := events[len(events)-1].Summary
	if summary.Succeeded != 2 || summary.Failed != 1 || summary.Total != 3 || summary.BatchID != "batch-test" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestJobsRunSequentiallyInBatchOrder(t *testing.T) {
	eng := &fakeEngine{}
	orch := extraction.NewOrchestrator(eng)

	events := collect(orch.Start(context.Background(), newBatch(9, 2, 5, 1)))

	calls := eng.Calls()
	want := []int{9, 2, 5, 1}
	if len(calls) != len(want) {
		t.Fatalf("unexpected calls: %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d: got %d want %d", i, calls[i], want[i])
		}
	}
	if eng.overlap {
		t.Fatal("expected no concurrent extractions")
	}

	lastPos := -1
	for _, e := range events {
		if e.Kind != extraction.JobStarted && e.Kind != extraction.JobFinished {
			continue
		}
		if e.Position < lastPos {
			t.Fatalf("job events out of order: %v", kinds(events))
		}
		lastPos = e.Position
		if e.Job.TrackIndex != want[e.Position] {
			t.Fatalf("event position %d carries track %d", e.Position, e.Job.TrackIndex)
		}
	}
	if events[len(events)-1].Kind != extraction.BatchFinished {
		t.Fatal("expected BatchFinished last")
	}
}

func TestJobTimeoutContinuesBatch(t *testing.T) {
	eng := &fakeEngine{block: map[int]bool{2: true}}
	orch := extraction.NewOrchestrator(eng, extraction.WithJobTimeout(50*time.Millisecond))

	summary := orch.Run(context.Background(), newBatch(1, 2, 3), nil)
	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var outcome extraction.Outcome
	orch.Run(context.Background(), newBatch(2), func(e extraction.Event) {
		if e.Kind == extraction.JobFinished {
			outcome = e.Outcome
		}
	})
	if !errors.Is(outcome.Err, services.ErrTimeout) || !errors.Is(outcome.Err, services.ErrExtractionInvocation) {
		t.Fatalf("expected timeout extraction error, got %v", outcome.Err)
	}
	if outcome.Kind != services.FailureTimeout {
		t.Fatalf("expected timeout kind, got %q", outcome.Kind)
	}
}

func TestCancellationFailsRemainingJobs(t *testing.T) {
	eng := &fakeEngine{block: map[int]bool{1: true}}
	orch := extraction.NewOrchestrator(eng)

	ctx, cancel := context.WithCancel(context.Background())
	var events []extraction.Event
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range orch.Start(ctx, newBatch(1, 2, 3)) {
			events = append(events, e)
			if e.Kind == extraction.JobStarted && e.Job.TrackIndex == 1 {
				cancel()
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not finish after cancellation")
	}

	if calls := eng.Calls(); len(calls) != 1 || calls[0] != 1 {
		t.Fatalf("expected only the first job to reach the engine, got %v", calls)
	}
	last := events[len(events)-1]
	if last.Kind != extraction.BatchFinished || last.Summary.Failed != 3 {
		t.Fatalf("unexpected final event: %+v", last)
	}
	for _, e := range events {
		if e.Kind == extraction.JobFinished && e.Outcome.Kind != services.FailureCanceled {
			t.Fatalf("expected canceled outcome, got %+v", e.Outcome)
		}
	}
}

func TestBatchWithFakeTools(t *testing.T) {
	dir := t.TempDir()
	ffmpegBin := testsupport.FakeFFmpeg(t, filepath.Join(dir, "bin"))
	source := filepath.Join(dir, "movie.mkv")
	testsupport.WriteFile(t, source, 16)

	batch := extraction.Batch{ID: "fake-tools", SourceFile: source, OutputDir: dir, Jobs: []extraction.Job{
		{SourceFile: source, TrackIndex: 2, OutputPath: filepath.Join(dir, "Chinese.srt")},
		{SourceFile: source, TrackIndex: 3, OutputPath: filepath.Join(dir, "missing", "English.srt")},
		{SourceFile: source, TrackIndex: 4, OutputPath: filepath.Join(dir, "Signs.srt")},
	}}

	orch := extraction.NewOrchestrator(engine.New("", ffmpegBin), extraction.WithJobTimeout(10*time.Second))
	var outcomes []extraction.Outcome
	summary := orch.Run(context.Background(), batch, func(e extraction.Event) {
		if e.Kind == extraction.JobFinished {
			outcomes = append(outcomes, e.Outcome)
		}
	})

	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if outcomes[1].Succeeded() || outcomes[1].ExitCode == 0 || outcomes[1].Stderr == "" {
		t.Fatalf("expected job 2 failure with exit status and stderr, got %+v", outcomes[1])
	}
	for _, path := range []string{batch.Jobs[0].OutputPath, batch.Jobs[2].OutputPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to exist: %v", path, err)
		}
	}
}
