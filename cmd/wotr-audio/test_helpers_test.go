package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/config"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.GameRootEnv, "")

	cfg := testsupport.NewConfig(t, opts...)
	testsupport.WriteManifest(t, cfg.Paths.Manifest, testsupport.ManifestSpec{
		Streams: []testsupport.Stream{{ID: "1", ShortName: `Voice\hello.wav`}},
		Banks: []testsupport.Bank{{Name: "VO", Events: []testsupport.BankEvent{
			{Name: "VO_Hello", Files: []string{`Voice\hello.wav`}},
		}}},
	})
	testsupport.WriteEventMap(t, cfg.Paths.EventMap, cfg.Paths.EventMapKey, "greeting", "VO_Hello")
	testsupport.WriteArchive(t, filepath.Join(cfg.Paths.PackagesDir, "Voice_1.pck"), "1.wem")

	configPath := filepath.Join(testsupport.BaseDir(cfg), "wotr-audio.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--log-level", "error"}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
