package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/reconcile"
)

func TestRenderSummary(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	summary := Summary{
		RunID:    "run-1",
		Started:  start,
		Finished: start.Add(90 * time.Second),
		Archives: []ArchiveRow{
			{Archive: "/game/Packages/Voice_1.pck", Banks: 1, Streams: 3, Decoded: 2, Skipped: 1, Encoded: 2, Bytes: 2048},
			{Archive: "/game/Packages/Voice_2.pck", Streams: 1, Decoded: 1, Encoded: 1, Bytes: 1000},
		},
		Totals: reconcile.Totals{Wanted: 1200, Found: 3, Missing: 1197, Skipped: 1},
	}

	var buf bytes.Buffer
	if err := RenderSummary(&buf, summary); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Voice_1.pck",
		"Voice_2.pck",
		"Total",
		"3.0 kB",
		"Wanted files: 1,200 (found 3, missing 1,197, duplicated 0)",
		"Skipped streams: 1",
		"Elapsed: 1m30s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/game/Packages") {
		t.Errorf("summary should show archive base names:\n%s", out)
	}
	if got := summary.Bytes(); got != 3048 {
		t.Fatalf("Bytes = %d", got)
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if got := RenderTable(nil, [][]string{{"x"}}, nil); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}
