package extraction

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"csub/internal/config"
	"csub/internal/selection"
	"csub/internal/services"
	"csub/internal/textutil"
)

// Job extracts one stream of SourceFile into OutputPath.
type Job struct {
	SourceFile string          `json:"source_file"`
	TrackIndex int             `json:"track_index"`
	OutputPath string          `json:"output_path"`
	Label      selection.Label `json:"label"`
}

// Batch is an ordered set of jobs sharing one source file.
type Batch struct {
	ID         string `json:"id"`
	SourceFile string `json:"source_file"`
	OutputDir  string `json:"output_dir"`
	Jobs       []Job  `json:"jobs"`
}

// BuildBatch creates one job per item, in item order, writing into folder.
// Each job's stream index is decoded from the item label; a label without the
// "#<index> " prefix fails with services.ErrDecode. An empty folder means the
// folder containing source; the folder is made absolute. Items repeating an
// earlier index are skipped and output names never repeat within a batch.
func BuildBatch(source, folder string, items []selection.Item, format string) (Batch, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Batch{}, services.Wrap(services.ErrValidation, "extract", "build batch", "source file is required", nil)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = config.FormatSRT
	}
	if err := config.ValidateFormat(format); err != nil {
		return Batch{}, services.Wrap(services.ErrValidation, "extract", "build batch", "", err)
	}
	folder = strings.TrimSpace(folder)
	if folder == "" {
		folder = filepath.Dir(source)
	}
	if abs, err := filepath.Abs(folder); err == nil {
		folder = abs
	}

	labels := make([]selection.Label, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	decoded, err := selection.FromLabels(labels)
	if err != nil {
		return Batch{}, err
	}

	batch := Batch{
		ID:         uuid.NewString(),
		SourceFile: source,
		OutputDir:  folder,
		Jobs:       make([]Job, 0, len(items)),
	}
	seenIndex := make(map[int]bool, len(items))
	usedNames := make(map[string]bool, len(items))
	for i, picked := range decoded {
		if seenIndex[picked.Index] {
			continue
		}
		seenIndex[picked.Index] = true

		ext := Extension(format, items[i].Track.Codec)
		name := uniqueName(OutputName(picked.Label, picked.Index), ext, picked.Index, usedNames)

		batch.Jobs = append(batch.Jobs, Job{
			SourceFile: source,
			TrackIndex: picked.Index,
			OutputPath: filepath.Join(folder, name+ext),
			Label:      picked.Label,
		})
	}
	return batch, nil
}

// uniqueName returns base, or base suffixed with the stream index (then a
// counter) when that file name is already taken in this batch. Comparison is
// case-insensitive.
func uniqueName(base, ext string, index int, used map[string]bool) string {
	name := base
	for n := 1; used[strings.ToLower(name+ext)]; n++ {
		if n == 1 {
			name = fmt.Sprintf("%s (%d)", base, index)
		} else {
			name = fmt.Sprintf("%s (%d-%d)", base, index, n)
		}
	}
	used[strings.ToLower(name+ext)] = true
	return name
}

// OutputName returns the file name stem for a label: its text without the
// "#<index> " marker, made filesystem safe.
func OutputName(label selection.Label, index int) string {
	name := textutil.SanitizeFileName(selection.DisplayName(label))
	if name == "" {
		return fmt.Sprintf("track-%d", index)
	}
	return name
}

// Extension returns the output file extension, including the dot, for the
// configured format. The auto format follows the stream codec.
func Extension(format, codec string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case config.FormatASS:
		return ".ass"
	case config.FormatVTT:
		return ".vtt"
	case config.FormatAuto:
		return codecExtension(codec)
	default:
		return ".srt"
	}
}

func codecExtension(codec string) string {
	switch strings.ToLower(strings.TrimSpace(codec)) {
	case "subrip", "srt", "text", "mov_text":
		return ".srt"
	case "ass", "ssa":
		return ".ass"
	case "webvtt":
		return ".vtt"
	case "hdmv_pgs_subtitle":
		return ".sup"
	default:
		return ".mks"
	}
}
