package config

const (
	defaultStateDir              = "~/.local/share/csub"
	defaultFFprobe               = "ffprobe"
	defaultFFmpeg                = "ffmpeg"
	defaultProbeTimeoutSeconds   = 60
	defaultExtractTimeoutSeconds = 600
	defaultExtractionFormat      = FormatSRT
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Output formats accepted by extraction.format.
const (
	FormatSRT  = "srt"
	FormatASS  = "ass"
	FormatVTT  = "vtt"
	FormatAuto = "auto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Tools: Tools{
			FFprobe:               defaultFFprobe,
			FFmpeg:                defaultFFmpeg,
			ProbeTimeoutSeconds:   defaultProbeTimeoutSeconds,
			ExtractTimeoutSeconds: defaultExtractTimeoutSeconds,
		},
		Extraction: Extraction{
			Format: defaultExtractionFormat,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
