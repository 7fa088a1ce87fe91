package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"csub/internal/media/ffprobe"
	"csub/internal/services"
)

// Engine is the external probing and extraction capability.
type Engine interface {
	// Probe returns the raw JSON stream listing for path.
	Probe(ctx context.Context, path string) ([]byte, error)
	// Extract demultiplexes one stream of source into outputPath.
	Extract(ctx context.Context, source string, trackIndex int, outputPath string) error
}

const stderrLimit = 4096

var commandContext = exec.CommandContext

// CommandError describes an external process that could not start or exited
// abnormally.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Name, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// Tools runs ffprobe and ffmpeg as subprocesses.
type Tools struct {
	FFprobe string
	FFmpeg  string
}

// New returns subprocess-backed tools, defaulting empty binaries to PATH lookups.
func New(ffprobeBinary, ffmpegBinary string) *Tools {
	ffprobeBinary = strings.TrimSpace(ffprobeBinary)
	if ffprobeBinary == "" {
		ffprobeBinary = "ffprobe"
	}
	ffmpegBinary = strings.TrimSpace(ffmpegBinary)
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Tools{FFprobe: ffprobeBinary, FFmpeg: ffmpegBinary}
}

// Probe runs ffprobe and returns its standard output.
func (t *Tools) Probe(ctx context.Context, path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrProbeInvocation, "probe", "", "empty path", nil)
	}
	out, err := run(ctx, t.FFprobe, ffprobe.Args(path))
	if err != nil {
		return nil, services.Wrap(services.ErrProbeInvocation, "probe", t.FFprobe, path, timeoutAware(ctx, err))
	}
	return out, nil
}

// Extract runs ffmpeg mapping exactly one stream of source to outputPath,
// overwriting any existing file.
func (t *Tools) Extract(ctx context.Context, source string, trackIndex int, outputPath string) error {
	if trackIndex < 0 {
		return services.Wrap(services.ErrValidation, "extract", "", fmt.Sprintf("invalid stream index %d", trackIndex), nil)
	}
	if _, err := run(ctx, t.FFmpeg, ExtractArgs(source, trackIndex, outputPath)); err != nil {
		return services.Wrap(services.ErrExtractionInvocation, "extract", t.FFmpeg, fmt.Sprintf("stream 0:%d", trackIndex), timeoutAware(ctx, err))
	}
	return nil
}

// ExtractArgs builds the ffmpeg argument vector for a single-stream extraction.
func ExtractArgs(source string, trackIndex int, outputPath string) []string {
	return ffmpeg.Input(source).
		Output(outputPath, ffmpeg.KwArgs{"map": fmt.Sprintf("0:%d", trackIndex)}).
		OverWriteOutput().
		GetArgs()
}

func run(ctx context.Context, name string, args []string) ([]byte, error) {
	cmd := commandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		cmdErr := &CommandError{
			Name:     name,
			Args:     append([]string(nil), args...),
			ExitCode: -1,
			Stderr:   tail(strings.TrimSpace(stderr.String()), stderrLimit),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		return nil, cmdErr
	}
	return stdout.Bytes(), nil
}

func timeoutAware(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", services.ErrTimeout, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return err
}

func tail(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return "..." + value[len(value)-limit:]
}
