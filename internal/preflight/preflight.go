package preflight

import (
	"context"
	"fmt"
	"strings"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/config"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/deps"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir, ReadWrite))
	results = append(results, CheckArchives("Packages directory", cfg.Paths.PackagesDir, cfg.Paths.ArchiveExt))
	results = append(results, CheckFile("Sound bank manifest", cfg.Paths.Manifest))
	results = append(results, CheckFile("Subtitle event map", cfg.Paths.EventMap))
	if ctx.Err() != nil {
		return results
	}
	results = append(results, CheckTools(cfg)...)
	return results
}

// CheckTools verifies the external executables and the extraction script.
func CheckTools(cfg *config.Config) []Result {
	binaries := deps.CheckBinaries([]deps.Requirement{
		{Name: "QuickBMS", Command: cfg.Tools.QuickBMS, Description: "Unpacks .pck archives"},
		{Name: "vgmstream", Command: cfg.Tools.VGMStream, Description: "Decodes .wem streams"},
		{Name: "FFmpeg", Command: cfg.Tools.FFmpeg, Description: "Re-encodes decoded lines"},
	})
	files := deps.CheckFiles([]deps.Requirement{
		{Name: "QuickBMS script", Command: cfg.Tools.QuickBMSScript, Description: "Wwise package layout"},
	})

	results := make([]Result, 0, len(binaries)+len(files))
	for _, status := range append(binaries, files...) {
		result := Result{Name: status.Name, Passed: status.Available}
		if status.Available {
			result.Detail = status.Command
		} else {
			result.Detail = status.Detail
		}
		results = append(results, result)
	}
	return results
}

// Failures returns the checks that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}

// Err folds failed checks into a single configuration error, or nil when
// every check passed.
func Err(results []Result) error {
	failed := Failures(results)
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, 0, len(failed))
	for _, result := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "check", strings.Join(parts, "; "), nil)
}
