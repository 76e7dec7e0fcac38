package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/config"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/pipeline"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/report"
)

type runOptions struct {
	keepScratch   bool
	skipPreflight bool
	noProgress    bool
	summary       bool
}

func (o *runOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.keepScratch, "keep-scratch", false, "Leave tmp/, bnk/, wem/ and wav/ in place after the run")
	cmd.Flags().BoolVar(&o.skipPreflight, "skip-preflight", false, "Do not verify inputs and tools before exporting")
	cmd.Flags().BoolVar(&o.noProgress, "no-progress", false, "Disable progress bars and progress log lines")
	cmd.Flags().BoolVar(&o.summary, "summary", false, "Print the per-archive summary table (same as reports.summary)")
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Export dialogue audio (the default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, ctx, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runExport(cmd *cobra.Command, ctx *commandContext, opts runOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if opts.keepScratch {
		cfg.Workspace.KeepScratch = true
	}

	logger, err := logging.NewFromConfig(cfg, "")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	exporter, err := pipeline.NewExporter(pipeline.Options{
		Config:        cfg,
		Logger:        logger,
		Progress:      selectProgress(cmd, opts, logger),
		SkipPreflight: opts.skipPreflight,
	})
	if err != nil {
		return err
	}

	result, err := exporter.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Reports.Summary || opts.summary {
		if err := report.RenderSummary(out, result.Summary()); err != nil {
			return err
		}
	}
	printReportPaths(cmd, cfg, exporter.Layout().Dest)
	return nil
}

func selectProgress(cmd *cobra.Command, opts runOptions, logger *slog.Logger) pipeline.Progress {
	if opts.noProgress {
		return pipeline.NoProgress{}
	}
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		return pipeline.NewProgress(f, logger)
	}
	return pipeline.NewLogProgress(logger)
}

func printReportPaths(cmd *cobra.Command, cfg *config.Config, dest string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Output:  %s\n", dest)
	fmt.Fprintf(out, "Skipped: %s\n", cfg.Reports.Skipped)
	fmt.Fprintf(out, "Counts:  %s\n", cfg.Reports.Counts)
	if cfg.Reports.IndexDB != "" {
		fmt.Fprintf(out, "Index:   %s\n", cfg.Reports.IndexDB)
	}
}
