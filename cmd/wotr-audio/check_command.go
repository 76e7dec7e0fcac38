package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/preflight"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/report"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify game files, workspace and external tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				status := "ok"
				if !result.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.RenderTable(
				[]string{"Check", "Status", "Detail"},
				rows,
				[]report.ColumnAlignment{report.AlignLeft, report.AlignLeft, report.AlignLeft},
			))

			if err := preflight.Err(results); err != nil {
				return err
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}
