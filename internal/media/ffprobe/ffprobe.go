package ffprobe

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrSchema reports ffprobe output that is valid JSON but lacks required fields.
var ErrSchema = errors.New("ffprobe output does not match expected schema")

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int               `json:"index"`
	CodecName string            `json:"codec_name"`
	CodecType string            `json:"codec_type"`
	Tags      map[string]string `json:"tags"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

type wireResult struct {
	Streams *[]wireStream `json:"streams"`
	Format  Format        `json:"format"`
}

type wireStream struct {
	Index     *int              `json:"index"`
	CodecName string            `json:"codec_name"`
	CodecType string            `json:"codec_type"`
	Tags      map[string]string `json:"tags"`
}

// Args returns the ffprobe arguments that request error-only logging, JSON
// output, and every stream of path.
func Args(path string) []string {
	return []string{"-v", "error", "-hide_banner", "-of", "json", "-show_format", "-show_streams", "--", path}
}

// Parse decodes ffprobe JSON. A missing streams array or a stream without an
// index is reported as ErrSchema.
func Parse(data []byte) (Result, error) {
	var wire wireResult
	if err := json.Unmarshal(data, &wire); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	if wire.Streams == nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w: missing streams", ErrSchema)
	}
	result := Result{
		Streams: make([]Stream, 0, len(*wire.Streams)),
		Format:  wire.Format,
	}
	for pos, s := range *wire.Streams {
		if s.Index == nil || *s.Index < 0 {
			return Result{}, fmt.Errorf("ffprobe parse: %w: stream %d has no valid index", ErrSchema, pos)
		}
		result.Streams = append(result.Streams, Stream{
			Index:     *s.Index,
			CodecName: s.CodecName,
			CodecType: s.CodecType,
			Tags:      s.Tags,
		})
	}
	return result, nil
}

// StreamCount returns the number of streams of the given codec type.
func (r Result) StreamCount(codecType string) int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, codecType) {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when it is
// missing or not a number.
func (r Result) DurationSeconds() float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(r.Format.Duration), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// Title returns the stream title tag when one is set.
func (s Stream) Title() (string, bool) {
	for _, key := range []string{"title", "TITLE", "Title"} {
		if value, ok := s.Tags[key]; ok {
			return value, true
		}
	}
	return "", false
}
