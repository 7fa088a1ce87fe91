package tracks

import (
	"context"
	"log/slog"
	"strings"

	"csub/internal/engine"
	"csub/internal/language"
	"csub/internal/logging"
	"csub/internal/media/ffprobe"
	"csub/internal/services"
)

// Track kinds as reported by ffprobe codec_type.
const (
	KindSubtitle = "subtitle"
	KindAudio    = "audio"
	KindVideo    = "video"
)

// TrackDescriptor describes one stream found in a media file.
type TrackDescriptor struct {
	Index        int    `json:"index"`
	Kind         string `json:"kind"`
	LanguageCode string `json:"language_code"`
	Title        string `json:"title,omitempty"`
	HasTitle     bool   `json:"has_title"`
	Codec        string `json:"codec,omitempty"`
}

// IsSubtitle reports whether the track is a subtitle stream.
func (d TrackDescriptor) IsSubtitle() bool {
	return strings.EqualFold(d.Kind, KindSubtitle)
}

// Prober discovers tracks through an engine.
type Prober struct {
	engine engine.Engine
	logger *slog.Logger
}

// NewProber constructs a Prober. A nil logger discards output.
func NewProber(eng engine.Engine, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Prober{engine: eng, logger: logging.NewComponentLogger(logger, "prober")}
}

// Probe returns all tracks of path in container order. Invocation failures
// carry services.ErrProbeInvocation; malformed output carries
// services.ErrProbeParse. No partial list is returned on error.
func (p *Prober) Probe(ctx context.Context, path string) ([]TrackDescriptor, error) {
	ctx = services.WithStage(ctx, "probe")
	logger := logging.WithContext(ctx, p.logger)

	data, err := p.engine.Probe(ctx, path)
	if err != nil {
		logging.WarnWithContext(logger, "probe failed", "probe_failed",
			logging.String(logging.FieldErrorHint, "check that the file exists and ffprobe is installed"),
			logging.String(logging.FieldImpact, "no tracks listed"),
			logging.String("path", path),
			logging.Error(err),
		)
		return nil, err
	}

	result, err := ffprobe.Parse(data)
	if err != nil {
		return nil, services.Wrap(services.ErrProbeParse, "probe", "parse", path, err)
	}

	descriptors := FromStreams(result.Streams)
	logger.Debug("probe complete",
		logging.String("path", path),
		logging.Int("streams", len(descriptors)),
		logging.Int("subtitles", result.StreamCount(KindSubtitle)),
		logging.String("container", result.Format.FormatName),
		logging.Float64("duration_seconds", result.DurationSeconds()),
	)
	return descriptors, nil
}

// FromStreams converts parsed ffprobe streams into descriptors.
func FromStreams(streams []ffprobe.Stream) []TrackDescriptor {
	descriptors := make([]TrackDescriptor, 0, len(streams))
	for _, stream := range streams {
		title, hasTitle := stream.Title()
		descriptors = append(descriptors, TrackDescriptor{
			Index:        stream.Index,
			Kind:         strings.ToLower(strings.TrimSpace(stream.CodecType)),
			LanguageCode: language.ExtractFromTags(stream.Tags),
			Title:        title,
			HasTitle:     hasTitle,
			Codec:        strings.ToLower(strings.TrimSpace(stream.CodecName)),
		})
	}
	return descriptors
}

// Subtitles returns the subtitle descriptors, preserving order.
func Subtitles(descriptors []TrackDescriptor) []TrackDescriptor {
	out := make([]TrackDescriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if d.IsSubtitle() {
			out = append(out, d)
		}
	}
	return out
}
