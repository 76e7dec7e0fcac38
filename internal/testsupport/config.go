package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a fresh temp directory: the workspace
// lives under work/ and the fake game installation under game/. Input
// directories are created; input files are not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	work := filepath.Join(base, "work")
	game := filepath.Join(base, "game")
	tools := filepath.Join(work, "Tools")

	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = work
	cfgVal.Paths.GameRoot = game
	cfgVal.Paths.PackagesDir = filepath.Join(game, "Packages")
	cfgVal.Paths.Manifest = filepath.Join(game, "SoundbanksInfo.xml")
	cfgVal.Paths.EventMap = filepath.Join(game, "Sound.json")
	cfgVal.Tools.Dir = tools
	cfgVal.Tools.QuickBMS = filepath.Join(tools, "quickbms")
	cfgVal.Tools.QuickBMSScript = filepath.Join(tools, "wwise_pck_extractor.bms")
	cfgVal.Tools.VGMStream = filepath.Join(tools, "vgmstream-cli")
	cfgVal.Tools.FFmpeg = filepath.Join(tools, "ffmpeg")
	cfgVal.Reports.Skipped = filepath.Join(work, "skipped.txt")
	cfgVal.Reports.Counts = filepath.Join(work, "count.txt")
	cfgVal.Reports.IndexDB = ""
	cfgVal.Reports.Summary = false

	for _, dir := range []string{work, cfgVal.Paths.PackagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithIndexDB enables the SQLite index at work/export_index.db.
func WithIndexDB() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Reports.IndexDB = filepath.Join(b.cfg.Paths.WorkDir, "export_index.db")
	}
}

// WithEncodeExtension overrides the distributable extension.
func WithEncodeExtension(ext string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encode.Extension = ext
	}
}

// WithStubbedTools writes no-op executables for the three tools and an empty
// extraction script so preflight checks pass.
func WithStubbedTools() ConfigOption {
	return func(b *configBuilder) {
		if err := os.MkdirAll(b.cfg.Tools.Dir, 0o755); err != nil {
			b.t.Fatalf("mkdir tools dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, target := range []string{b.cfg.Tools.QuickBMS, b.cfg.Tools.VGMStream, b.cfg.Tools.FFmpeg} {
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", target, err)
			}
		}
		if err := os.WriteFile(b.cfg.Tools.QuickBMSScript, []byte("# wwise pck\n"), 0o644); err != nil {
			b.t.Fatalf("write script: %v", err)
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
