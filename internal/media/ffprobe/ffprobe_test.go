package ffprobe

import (
	"errors"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "tags": {"language": "jpn"}},
    {"index": 2, "codec_name": "subrip", "codec_type": "subtitle", "tags": {"language": "chi"}},
    {"index": 3, "codec_name": "ass", "codec_type": "subtitle", "tags": {"language": "eng", "title": "Commentary"}}
  ],
  "format": {"filename": "movie.mkv", "nb_streams": 4, "duration": "5400.5", "format_name": "matroska,webm"}
}`

func TestParse(t *testing.T) {
	result, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Streams) != 4 {
		t.Fatalf("expected 4 streams, got %d", len(result.Streams))
	}
	if result.StreamCount("subtitle") != 2 {
		t.Fatalf("expected 2 subtitle streams, got %d", result.StreamCount("subtitle"))
	}
	if result.StreamCount("VIDEO") != 1 {
		t.Fatalf("expected case-insensitive video count of 1, got %d", result.StreamCount("VIDEO"))
	}
	if result.DurationSeconds() != 5400.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	last := result.Streams[3]
	if last.Index != 3 || last.CodecName != "ass" {
		t.Fatalf("unexpected last stream: %+v", last)
	}
	if title, ok := last.Title(); !ok || title != "Commentary" {
		t.Fatalf("unexpected title: %q %v", title, ok)
	}
	if _, ok := result.Streams[2].Title(); ok {
		t.Fatal("expected no title on stream 2")
	}
}

func TestParseEmptyTitleIsPresent(t *testing.T) {
	result, err := Parse([]byte(`{"streams":[{"index":4,"codec_type":"subtitle","tags":{"title":""}}]}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if title, ok := result.Streams[0].Title(); !ok || title != "" {
		t.Fatalf("expected present empty title, got %q %v", title, ok)
	}
}

func TestParseRejectsMalformedOutput(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		schema bool
	}{
		{"not json", "ffprobe: No such file", false},
		{"empty", "", false},
		{"missing streams", `{"format":{}}`, true},
		{"missing index", `{"streams":[{"codec_type":"subtitle"}]}`, true},
		{"negative index", `{"streams":[{"index":-1,"codec_type":"subtitle"}]}`, true},
		{"wrong type", `{"streams":{"index":1}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.schema && !errors.Is(err, ErrSchema) {
				t.Fatalf("expected schema error, got %v", err)
			}
		})
	}
}

func TestParseEmptyStreamList(t *testing.T) {
	result, err := Parse([]byte(`{"streams":[]}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Streams) != 0 {
		t.Fatalf("expected no streams, got %d", len(result.Streams))
	}
}

func TestDurationHandlesInvalidNumbers(t *testing.T) {
	for _, raw := range []string{"", "bad", "NaN", "inf", "N/A"} {
		result := Result{Format: Format{Duration: raw}}
		if got := result.DurationSeconds(); got != 0 {
			t.Fatalf("duration %q: expected 0, got %v", raw, got)
		}
	}
}

func TestArgsEndWithPath(t *testing.T) {
	args := Args("/media/movie.mkv")
	if args[len(args)-1] != "/media/movie.mkv" {
		t.Fatalf("expected path last, got %v", args)
	}
	want := map[string]bool{"-show_streams": false, "json": false, "error": false}
	for _, a := range args {
		if _, ok := want[a]; ok {
			want[a] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Fatalf("expected %q in args %v", k, args)
		}
	}
}
