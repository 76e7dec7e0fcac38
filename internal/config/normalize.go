package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeEncode()
	c.normalizeReports()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}

	if value, ok := os.LookupEnv(GameRootEnv); ok && strings.TrimSpace(value) != "" {
		c.Paths.GameRoot = value
	}
	c.Paths.GameRoot = strings.TrimSpace(c.Paths.GameRoot)
	if c.Paths.GameRoot != "" {
		if c.Paths.GameRoot, err = expandPath(c.Paths.GameRoot); err != nil {
			return fmt.Errorf("paths.game_root: %w", err)
		}
	}

	c.Paths.PackagesDir = c.underGameRoot(c.Paths.PackagesDir)
	c.Paths.Manifest = c.underGameRoot(c.Paths.Manifest)
	c.Paths.EventMap = c.underGameRoot(c.Paths.EventMap)

	c.Paths.EventMapKey = strings.TrimSpace(c.Paths.EventMapKey)
	if c.Paths.EventMapKey == "" {
		c.Paths.EventMapKey = defaultEventMapKey
	}
	c.Paths.ArchiveExt = normalizeExt(c.Paths.ArchiveExt, defaultArchiveExt)
	return nil
}

func (c *Config) underGameRoot(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if c.Paths.GameRoot == "" {
		expanded, err := expandPath(value)
		if err != nil {
			return value
		}
		return expanded
	}
	return resolveUnder(c.Paths.GameRoot, value)
}

func (c *Config) normalizeTools() {
	c.Tools.Dir = strings.TrimSpace(c.Tools.Dir)
	if c.Tools.Dir != "" {
		c.Tools.Dir = resolveUnder(c.Paths.WorkDir, c.Tools.Dir)
	}
	c.Tools.QuickBMS = c.toolPath(c.Tools.QuickBMS)
	c.Tools.VGMStream = c.toolPath(c.Tools.VGMStream)
	c.Tools.FFmpeg = c.toolPath(c.Tools.FFmpeg)
	script := strings.TrimSpace(c.Tools.QuickBMSScript)
	if script == "" {
		script = defaultQuickBMSScript
	}
	if c.Tools.Dir != "" {
		script = resolveUnder(c.Tools.Dir, script)
	} else {
		script = resolveUnder(c.Paths.WorkDir, script)
	}
	c.Tools.QuickBMSScript = script
}

// toolPath anchors executables in tools.dir. With no tools.dir the bare name
// is left for PATH lookup.
func (c *Config) toolPath(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || c.Tools.Dir == "" {
		return value
	}
	return resolveUnder(c.Tools.Dir, value)
}

func (c *Config) normalizeEncode() {
	c.Encode.Codec = strings.TrimSpace(c.Encode.Codec)
	if c.Encode.Codec == "" {
		c.Encode.Codec = defaultEncodeCodec
	}
	c.Encode.Bitrate = strings.TrimSpace(c.Encode.Bitrate)
	c.Encode.Extension = normalizeExt(c.Encode.Extension, defaultEncodeExt)
}

func (c *Config) normalizeReports() {
	c.Reports.Skipped = c.ReportPath(strings.TrimSpace(c.Reports.Skipped))
	c.Reports.Counts = c.ReportPath(strings.TrimSpace(c.Reports.Counts))
	c.Reports.IndexDB = c.ReportPath(strings.TrimSpace(c.Reports.IndexDB))
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = c.ReportPath(strings.TrimSpace(c.Logging.File))
}

func normalizeExt(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	if !strings.HasPrefix(value, ".") {
		value = "." + value
	}
	return value
}
