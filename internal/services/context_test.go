package services_test

import (
	"context"
	"testing"

	"csub/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithBatchID(ctx, "batch-123")
	ctx = services.WithStage(ctx, "extract")
	ctx = services.WithTrackIndex(ctx, 0)

	if id, ok := services.BatchIDFromContext(ctx); !ok || id != "batch-123" {
		t.Fatalf("unexpected batch id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "extract" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if idx, ok := services.TrackIndexFromContext(ctx); !ok || idx != 0 {
		t.Fatalf("unexpected track index: %v %v", idx, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithBatchID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.BatchIDFromContext(ctx); ok {
		t.Fatal("expected no batch id value")
	}
	if _, ok := services.TrackIndexFromContext(ctx); ok {
		t.Fatal("expected no track index value")
	}
}
