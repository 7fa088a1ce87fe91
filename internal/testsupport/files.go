package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteExecutable writes a shell script at path with the executable bit set.
func WriteExecutable(t testing.TB, path, script string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write executable %s: %v", path, err)
	}
	return path
}

// FakeFFprobe installs an ffprobe stand-in under dir. It prints probeJSON when
// the final argument names an existing file and fails like ffprobe otherwise.
func FakeFFprobe(t testing.TB, dir, probeJSON string) string {
	t.Helper()

	fixture := filepath.Join(dir, "ffprobe.json")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(fixture, []byte(probeJSON), 0o644); err != nil {
		t.Fatalf("write probe fixture: %v", err)
	}
	script := `#!/bin/sh
for last; do :; done
if [ ! -e "$last" ]; then
  echo "$last: No such file or directory" >&2
  exit 1
fi
cat '` + fixture + `'
`
	return WriteExecutable(t, filepath.Join(dir, "ffprobe"), script)
}

// FakeFFmpeg installs an ffmpeg stand-in under dir. It writes a small subtitle
// into the output argument and appends that path to FFmpegCalls. Output names
// containing FAIL exit 1 with a diagnostic; names containing SLOW block.
func FakeFFmpeg(t testing.TB, dir string) string {
	t.Helper()

	script := `#!/bin/sh
out=""
for a in "$@"; do
  case "$a" in
    *.srt|*.ass|*.vtt|*.sup|*.mks) out="$a" ;;
  esac
done
echo "$out" >> "$0.calls"
case "$out" in
  *FAIL*)
    echo "Invalid data found when processing input" >&2
    exit 1
    ;;
  *SLOW*)
    exec sleep 30
    ;;
esac
printf '1\n00:00:01,000 --> 00:00:02,000\nhello\n' > "$out" || exit 1
`
	return WriteExecutable(t, filepath.Join(dir, "ffmpeg"), script)
}

// FFmpegCalls returns the output paths recorded by a FakeFFmpeg binary, in
// invocation order.
func FFmpegCalls(t testing.TB, binary string) []string {
	t.Helper()

	data, err := os.ReadFile(binary + ".calls")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read ffmpeg calls: %v", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}
