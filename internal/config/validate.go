package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. It checks shape only; whether
// the referenced files exist is left to the preflight package.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateEncode(); err != nil {
		return err
	}
	if err := c.validateReports(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.PackagesDir == "" {
		return errors.New("paths.packages_dir must be set")
	}
	if c.Paths.Manifest == "" {
		return errors.New("paths.manifest must be set")
	}
	if c.Paths.EventMap == "" {
		return errors.New("paths.event_map must be set")
	}
	return nil
}

func (c *Config) validateTools() error {
	for key, value := range map[string]string{
		"tools.quickbms":  c.Tools.QuickBMS,
		"tools.vgmstream": c.Tools.VGMStream,
		"tools.ffmpeg":    c.Tools.FFmpeg,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	if c.Tools.TimeoutSeconds < 0 {
		return errors.New("tools.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateEncode() error {
	if c.Encode.Extension == ".wav" {
		return errors.New("encode.extension must differ from the decoded .wav extension")
	}
	return nil
}

func (c *Config) validateReports() error {
	if c.Reports.Skipped == "" {
		return errors.New("reports.skipped must be set")
	}
	if c.Reports.Counts == "" {
		return errors.New("reports.counts must be set")
	}
	if c.Reports.Skipped == c.Reports.Counts {
		return errors.New("reports.skipped and reports.counts must be different files")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (expected console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
