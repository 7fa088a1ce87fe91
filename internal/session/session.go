package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"csub/internal/engine"
	"csub/internal/extraction"
	"csub/internal/history"
	"csub/internal/logging"
	"csub/internal/services"
	"csub/internal/tracks"
)

const relayBuffer = 16

// Options configures a Session.
type Options struct {
	Engine       engine.Engine
	Logger       *slog.Logger
	History      *history.Store
	LockPath     string
	ProbeTimeout time.Duration
	JobTimeout   time.Duration
}

// Session serializes probe and extraction requests.
type Session struct {
	prober       *tracks.Prober
	orchestrator *extraction.Orchestrator
	history      *history.Store
	logger       *slog.Logger
	probeTimeout time.Duration

	lockPath string
	lock     *flock.Flock

	busy atomic.Bool
}

// New constructs a session over opts.Engine.
func New(opts Options) (*Session, error) {
	if opts.Engine == nil {
		return nil, errors.New("session requires an engine")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Session{
		prober:       tracks.NewProber(opts.Engine, logger),
		orchestrator: extraction.NewOrchestrator(opts.Engine, extraction.WithLogger(logger), extraction.WithJobTimeout(opts.JobTimeout)),
		history:      opts.History,
		logger:       logging.NewComponentLogger(logger, "session"),
		probeTimeout: opts.ProbeTimeout,
	}
	if lockPath := strings.TrimSpace(opts.LockPath); lockPath != "" {
		if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
			return nil, fmt.Errorf("ensure lock directory: %w", err)
		}
		s.lockPath = lockPath
		s.lock = flock.New(lockPath)
	}
	return s, nil
}

// Busy reports whether a probe or batch is in flight.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Probe lists every track of path.
func (s *Session) Probe(ctx context.Context, path string) ([]tracks.TrackDescriptor, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, services.Wrap(services.ErrBusy, "probe", "", "an extraction batch is in flight", nil)
	}
	defer s.busy.Store(false)

	if s.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.probeTimeout)
		defer cancel()
	}
	return s.prober.Probe(ctx, path)
}

// Extract starts batch in the background and returns its event stream. The
// stream ends with BatchFinished and is then closed; callers must drain it.
func (s *Session) Extract(ctx context.Context, batch extraction.Batch) (<-chan extraction.Event, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, services.Wrap(services.ErrBusy, "extract", "", "another operation is in flight", nil)
	}
	if s.lock != nil {
		ok, err := s.lock.TryLock()
		if err != nil {
			s.busy.Store(false)
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			s.busy.Store(false)
			return nil, services.Wrap(services.ErrBusy, "extract", "", fmt.Sprintf("another csub extraction holds %s", s.lockPath), nil)
		}
	}

	events := s.orchestrator.Start(ctx, batch)
	out := make(chan extraction.Event, relayBuffer)
	go func() {
		defer close(out)
		for event := range events {
			s.record(ctx, batch, event)
			if event.Kind == extraction.BatchFinished {
				s.release()
			}
			out <- event
		}
	}()
	return out, nil
}

func (s *Session) release() {
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release extraction lock",
				logging.String(logging.FieldEventType, "lock_release_failed"),
				logging.String("lock", s.lockPath),
				logging.Error(err),
			)
		}
	}
	s.busy.Store(false)
}

func (s *Session) record(ctx context.Context, batch extraction.Batch, event extraction.Event) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(context.WithoutCancel(ctx), batch, event); err != nil {
		logging.WarnWithContext(logging.WithContext(services.WithBatchID(ctx, batch.ID), s.logger), "history write failed", "history_write_failed",
			logging.String(logging.FieldErrorHint, "check permissions on "+s.history.Path()),
			logging.String(logging.FieldImpact, "batch missing from csub history"),
			logging.String("event", string(event.Kind)),
			logging.Error(err),
		)
	}
}
