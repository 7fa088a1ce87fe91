package services

import "context"

type contextKey string

const (
	batchIDKey    contextKey = "batch_id"
	stageKey      contextKey = "stage"
	trackIndexKey contextKey = "track_index"
)

// WithBatchID annotates context with the extraction batch identifier.
func WithBatchID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, batchIDKey, id)
}

// BatchIDFromContext extracts the batch identifier if present.
func BatchIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(batchIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name (probe, extract).
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithTrackIndex annotates context with the container stream index being processed.
func WithTrackIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, trackIndexKey, index)
}

// TrackIndexFromContext extracts the stream index if present.
func TrackIndexFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(trackIndexKey).(int)
	return v, ok
}
