package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProbeInvocation      = errors.New("probe invocation error")
	ErrProbeParse           = errors.New("probe parse error")
	ErrDecode               = errors.New("selection decode error")
	ErrExtractionInvocation = errors.New("extraction invocation error")
	ErrValidation           = errors.New("validation error")
	ErrConfiguration        = errors.New("configuration error")
	ErrTimeout              = errors.New("timeout")
	ErrBusy                 = errors.New("operation already in progress")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExtractionInvocation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Failure kinds reported per extraction job.
const (
	FailureFailed   = "failed"
	FailureTimeout  = "timeout"
	FailureCanceled = "canceled"
)

// FailureKind classifies a job error for reporting and persistence.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, context.Canceled):
		return FailureCanceled
	default:
		return FailureFailed
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
