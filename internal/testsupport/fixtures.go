package testsupport

// SampleProbeJSON is ffprobe output for a container carrying one video, one
// audio and three subtitle streams. Stream 4 has no language tag.
const SampleProbeJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "tags": {"language": "und"}},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "tags": {"language": "jpn"}},
    {"index": 2, "codec_name": "subrip", "codec_type": "subtitle", "tags": {"language": "chi"}},
    {"index": 3, "codec_name": "ass", "codec_type": "subtitle", "tags": {"language": "eng", "title": "Commentary"}},
    {"index": 4, "codec_name": "subrip", "codec_type": "subtitle", "tags": {"title": "Signs"}}
  ],
  "format": {"filename": "movie.mkv", "nb_streams": 5, "format_name": "matroska,webm", "duration": "5400.000000"}
}`
