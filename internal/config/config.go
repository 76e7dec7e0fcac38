package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths locates the game installation inputs and the export workspace.
type Paths struct {
	WorkDir     string `toml:"work_dir"`
	GameRoot    string `toml:"game_root"`
	PackagesDir string `toml:"packages_dir"`
	Manifest    string `toml:"manifest"`
	EventMap    string `toml:"event_map"`
	EventMapKey string `toml:"event_map_key"`
	ArchiveExt  string `toml:"archive_ext"`
}

// Tools names the external executables the pipeline shells out to.
type Tools struct {
	Dir            string `toml:"dir"`
	QuickBMS       string `toml:"quickbms"`
	QuickBMSScript string `toml:"quickbms_script"`
	VGMStream      string `toml:"vgmstream"`
	FFmpeg         string `toml:"ffmpeg"`
	// TimeoutSeconds bounds each tool invocation. Zero disables the limit.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Encode configures the distributable re-encode.
type Encode struct {
	Codec     string `toml:"codec"`
	Bitrate   string `toml:"bitrate"`
	Extension string `toml:"extension"`
}

// Reports configures the diagnostic outputs written at the end of a run.
type Reports struct {
	Skipped string `toml:"skipped"`
	Counts  string `toml:"counts"`
	// IndexDB is the SQLite export of resolutions and counters. Empty disables it.
	IndexDB string `toml:"index_db"`
	Summary bool   `toml:"summary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Workspace controls scratch directory handling.
type Workspace struct {
	KeepScratch bool `toml:"keep_scratch"`
}

// Config encapsulates all configuration values for wotr-audio.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Tools     Tools     `toml:"tools"`
	Encode    Encode    `toml:"encode"`
	Reports   Reports   `toml:"reports"`
	Logging   Logging   `toml:"logging"`
	Workspace Workspace `toml:"workspace"`
}

// DefaultConfigPath returns the absolute path to the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/wotr-audio/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error: defaults are used. The returned config has every path field
// expanded to an absolute path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("wotr-audio.toml")
	if err != nil {
		return "", false, err
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return projectPath, false, nil
}

// ToolTimeout returns the per-invocation limit, or zero for none.
func (c *Config) ToolTimeout() time.Duration {
	if c.Tools.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Tools.TimeoutSeconds) * time.Second
}

// ReportPath resolves a report file name against the work directory.
func (c *Config) ReportPath(name string) string {
	if name == "" {
		return ""
	}
	return resolveUnder(c.Paths.WorkDir, name)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	if isVolumePath(pathValue) {
		return pathValue, nil
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// resolveUnder joins relative values onto base and leaves absolute ones alone.
func resolveUnder(base, value string) string {
	if value == "" {
		return ""
	}
	if filepath.IsAbs(value) || isVolumePath(value) {
		return value
	}
	if isVolumePath(base) {
		return base + `\` + strings.ReplaceAll(value, "/", `\`)
	}
	return filepath.Join(base, filepath.FromSlash(value))
}

// isVolumePath reports drive-letter paths such as F:\Games, which stay
// meaningful in configuration files even when the export runs elsewhere.
func isVolumePath(value string) bool {
	if len(value) < 3 {
		return false
	}
	c := value[0]
	letter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return letter && value[1] == ':' && (value[2] == '\\' || value[2] == '/')
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Marshal renders the effective configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
