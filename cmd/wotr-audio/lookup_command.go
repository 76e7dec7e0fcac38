package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/report"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <name>",
		Short: "Show which archive and stream produced a file in past runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.Reports.IndexDB
			if path == "" {
				return errors.New("reports.index_db is not set; enable the export index and run an export first")
			}
			if _, err := os.Stat(path); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("no export index at %s; run an export first", path)
				}
				return fmt.Errorf("stat export index: %w", err)
			}

			idx, err := report.OpenIndex(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer idx.Close()

			name := strings.TrimSpace(args[0])
			resolutions, err := idx.Lookup(cmd.Context(), name)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(resolutions) == 0 {
				fmt.Fprintf(out, "No streams recorded for %s\n", name)
				return nil
			}

			rows := make([][]string, 0, len(resolutions))
			for _, res := range resolutions {
				duration := "-"
				if res.Duration > 0 {
					duration = res.Duration.String()
				}
				rows = append(rows, []string{res.Archive, res.StreamID, yesNo(res.Wanted), yesNo(res.Decoded), duration})
			}
			fmt.Fprintln(out, report.RenderTable(
				[]string{"Archive", "Stream", "Wanted", "Decoded", "Duration"},
				rows,
				[]report.ColumnAlignment{report.AlignLeft, report.AlignRight, report.AlignLeft, report.AlignLeft, report.AlignRight},
			))
			return nil
		},
	}
}
