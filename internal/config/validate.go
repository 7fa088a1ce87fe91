package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.ProbeTimeoutSeconds < 0 {
		return errors.New("tools.probe_timeout_seconds must be zero or positive")
	}
	if c.Tools.ExtractTimeoutSeconds < 0 {
		return errors.New("tools.extract_timeout_seconds must be zero or positive")
	}
	return nil
}

// ValidateFormat reports whether format is an accepted extraction.format value.
func ValidateFormat(format string) error {
	switch format {
	case FormatSRT, FormatASS, FormatVTT, FormatAuto:
		return nil
	default:
		return fmt.Errorf("extraction.format: unsupported value %q (want srt, ass, vtt, or auto)", format)
	}
}

func (c *Config) validateExtraction() error {
	return ValidateFormat(c.Extraction.Format)
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
