package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/reconcile"
)

// ArchiveRow is one archive's line in the summary.
type ArchiveRow struct {
	Archive string
	Banks   int
	Streams int
	Decoded int
	Skipped int
	Encoded int
	Failed  int
	Bytes   int64
}

// Summary is everything the end-of-run table shows.
type Summary struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Archives []ArchiveRow
	Totals   reconcile.Totals
}

// Bytes returns the combined output size.
func (s Summary) Bytes() int64 {
	var total int64
	for _, row := range s.Archives {
		total += row.Bytes
	}
	return total
}

// RenderSummary writes the per-archive table followed by the ledger totals.
func RenderSummary(w io.Writer, s Summary) error {
	headers := []string{"Archive", "Banks", "Streams", "Decoded", "Skipped", "Encoded", "Failed", "Output"}
	aligns := []ColumnAlignment{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight}
	rows := make([][]string, 0, len(s.Archives)+1)
	var sum ArchiveRow
	for _, row := range s.Archives {
		rows = append(rows, []string{
			filepath.Base(row.Archive),
			strconv.Itoa(row.Banks),
			strconv.Itoa(row.Streams),
			strconv.Itoa(row.Decoded),
			strconv.Itoa(row.Skipped),
			strconv.Itoa(row.Encoded),
			strconv.Itoa(row.Failed),
			humanize.Bytes(uint64(max(row.Bytes, 0))),
		})
		sum.Banks += row.Banks
		sum.Streams += row.Streams
		sum.Decoded += row.Decoded
		sum.Skipped += row.Skipped
		sum.Encoded += row.Encoded
		sum.Failed += row.Failed
		sum.Bytes += row.Bytes
	}
	rows = append(rows, []string{
		"Total",
		strconv.Itoa(sum.Banks),
		strconv.Itoa(sum.Streams),
		strconv.Itoa(sum.Decoded),
		strconv.Itoa(sum.Skipped),
		strconv.Itoa(sum.Encoded),
		strconv.Itoa(sum.Failed),
		humanize.Bytes(uint64(max(sum.Bytes, 0))),
	})

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows, aligns))
	b.WriteString("\n")
	t := s.Totals
	fmt.Fprintf(&b, "Wanted files: %s (found %s, missing %s, duplicated %s)\n",
		humanize.Comma(int64(t.Wanted)), humanize.Comma(int64(t.Found)),
		humanize.Comma(int64(t.Missing)), humanize.Comma(int64(t.Duplicate)))
	fmt.Fprintf(&b, "Skipped streams: %s\n", humanize.Comma(int64(t.Skipped)))
	if !s.Started.IsZero() && !s.Finished.IsZero() {
		fmt.Fprintf(&b, "Elapsed: %s\n", s.Finished.Sub(s.Started).Round(time.Second))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
