package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"csub/internal/extraction"
)

// Batch statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
)

// Job statuses beyond the services failure kinds.
const (
	JobPending   = "pending"
	JobSucceeded = "succeeded"
)

// BatchRecord is one persisted extraction batch.
type BatchRecord struct {
	ID         string     `json:"id"`
	SourceFile string     `json:"source_file"`
	OutputDir  string     `json:"output_dir"`
	Total      int        `json:"total"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// JobRecord is one persisted extraction job.
type JobRecord struct {
	BatchID    string        `json:"batch_id"`
	Position   int           `json:"position"`
	TrackIndex int           `json:"track_index"`
	Label      string        `json:"label"`
	OutputPath string        `json:"output_path"`
	Status     string        `json:"status"`
	ExitCode   *int          `json:"exit_code,omitempty"`
	Stderr     string        `json:"stderr,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Store manages the extraction ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("history path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: filepath.Clean(path)}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record persists one orchestrator event.
func (s *Store) Record(ctx context.Context, batch extraction.Batch, event extraction.Event) error {
	switch event.Kind {
	case extraction.BatchStarted:
		return s.BeginBatch(ctx, batch, event.Time)
	case extraction.JobFinished:
		return s.FinishJob(ctx, batch.ID, event.Position, event.Outcome)
	case extraction.BatchFinished:
		return s.FinishBatch(ctx, event.Summary, event.Time)
	default:
		return nil
	}
}

// BeginBatch inserts the batch with every job pending.
func (s *Store) BeginBatch(ctx context.Context, batch extraction.Batch, started time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batches (id, source_file, output_dir, total, status, started_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		batch.ID, batch.SourceFile, batch.OutputDir, len(batch.Jobs), StatusRunning, formatTime(started),
	); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	for pos, job := range batch.Jobs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO jobs (batch_id, position, track_index, label, output_path, status)
             VALUES (?, ?, ?, ?, ?, ?)`,
			batch.ID, pos, job.TrackIndex, string(job.Label), job.OutputPath, JobPending,
		); err != nil {
			return fmt.Errorf("insert job %d: %w", pos, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// FinishJob stores the outcome of the job at position.
func (s *Store) FinishJob(ctx context.Context, batchID string, position int, outcome extraction.Outcome) error {
	status := JobSucceeded
	var (
		exitCode sql.NullInt64
		stderr   sql.NullString
		message  sql.NullString
	)
	if !outcome.Succeeded() {
		status = outcome.Kind
		exitCode = sql.NullInt64{Int64: int64(outcome.ExitCode), Valid: true}
		stderr = nullableString(outcome.Stderr)
		message = nullableString(outcome.Err.Error())
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, exit_code = ?, stderr = ?, error_message = ?, duration_ms = ?
         WHERE batch_id = ? AND position = ?`,
		status, exitCode, stderr, message, outcome.Duration.Milliseconds(), batchID, position,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update job: batch %s has no job at position %d", batchID, position)
	}
	return nil
}

// FinishBatch stores the final counts of a batch.
func (s *Store) FinishBatch(ctx context.Context, summary extraction.Summary, finished time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE batches SET succeeded = ?, failed = ?, status = ?, finished_at = ? WHERE id = ?`,
		summary.Succeeded, summary.Failed, StatusCompleted, formatTime(finished), summary.BatchID,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	return nil
}

// List returns the most recent batches, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]BatchRecord, error) {
	query := `SELECT id, source_file, output_dir, total, succeeded, failed, status, started_at, finished_at
              FROM batches ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var records []BatchRecord
	for rows.Next() {
		var (
			rec         BatchRecord
			startedRaw  string
			finishedRaw sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.SourceFile, &rec.OutputDir, &rec.Total, &rec.Succeeded, &rec.Failed, &rec.Status, &startedRaw, &finishedRaw); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		rec.StartedAt = parseTime(startedRaw)
		if finishedRaw.Valid {
			finished := parseTime(finishedRaw.String)
			rec.FinishedAt = &finished
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return records, nil
}

// Jobs returns the jobs of a batch in batch order.
func (s *Store) Jobs(ctx context.Context, batchID string) ([]JobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT batch_id, position, track_index, label, output_path, status, exit_code, stderr, error_message, duration_ms
         FROM jobs WHERE batch_id = ? ORDER BY position`, batchID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var records []JobRecord
	for rows.Next() {
		var (
			rec        JobRecord
			exitCode   sql.NullInt64
			stderr     sql.NullString
			message    sql.NullString
			durationMS sql.NullInt64
		)
		if err := rows.Scan(&rec.BatchID, &rec.Position, &rec.TrackIndex, &rec.Label, &rec.OutputPath, &rec.Status, &exitCode, &stderr, &message, &durationMS); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if exitCode.Valid {
			code := int(exitCode.Int64)
			rec.ExitCode = &code
		}
		rec.Stderr = stderr.String
		rec.Error = message.String
		rec.Duration = time.Duration(durationMS.Int64) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return records, nil
}

func nullableString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

// timeLayout keeps a fixed fraction width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
