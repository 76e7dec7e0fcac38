package report

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/reconcile"
)

func TestIndexRecordAndQuery(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "export_index.db")
	idx, err := OpenIndex(ctx, path)
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	defer idx.Close()

	ledger := reconcile.NewLedger()
	ledger.AddWanted("hello.wav")
	ledger.AddWanted("bye.wav")
	ledger.MarkFound("hello.wav")
	ledger.MarkSkipped("noise.wav")

	start := time.Now().Add(-time.Minute)
	summary := Summary{
		RunID:    "run-1",
		Started:  start,
		Finished: start.Add(time.Minute),
		Archives: []ArchiveRow{{Archive: "Voice_1.pck", Streams: 2, Decoded: 1, Skipped: 1, Encoded: 1, Bytes: 10}},
		Totals:   ledger.Totals(),
	}
	resolutions := []Resolution{
		{Archive: "/game/Voice_1.pck", StreamID: "11", Name: "hello.wav", Wanted: true, Decoded: true, Duration: 1500 * time.Millisecond},
		{Archive: "/game/Voice_1.pck", StreamID: "12", Name: "noise.wav"},
	}
	if err := idx.Record(ctx, summary, resolutions, ledger); err != nil {
		t.Fatalf("Record: %v", err)
	}

	n, err := idx.RunCount(ctx)
	if err != nil || n != 1 {
		t.Fatalf("RunCount = %d, %v", n, err)
	}

	wanted, err := idx.Counters(ctx, "run-1", "wanted")
	if err != nil {
		t.Fatalf("Counters: %v", err)
	}
	if want := []reconcile.Entry{{Name: "hello.wav", Count: 1}, {Name: "bye.wav", Count: 0}}; !reflect.DeepEqual(wanted, want) {
		t.Fatalf("wanted counters = %#v", wanted)
	}

	found, err := idx.Lookup(ctx, "hello.wav")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("Lookup returned %d rows", len(found))
	}
	got := found[0]
	if got.Archive != "Voice_1.pck" || got.StreamID != "11" || !got.Wanted || !got.Decoded || got.Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected resolution: %#v", got)
	}

	skipped, err := idx.Lookup(ctx, "noise.wav")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(skipped) != 1 || skipped[0].Wanted || skipped[0].Duration != 0 {
		t.Fatalf("unexpected skipped resolution: %#v", skipped)
	}
}

func TestIndexReopenKeepsRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "export_index.db")
	for i, runID := range []string{"run-a", "run-b"} {
		idx, err := OpenIndex(ctx, path)
		if err != nil {
			t.Fatalf("OpenIndex #%d: %v", i, err)
		}
		summary := Summary{RunID: runID, Started: time.Now(), Finished: time.Now()}
		if err := idx.Record(ctx, summary, nil, reconcile.NewLedger()); err != nil {
			t.Fatalf("Record: %v", err)
		}
		if err := idx.Close(); err != nil {
			t.Fatal(err)
		}
	}

	idx, err := OpenIndex(ctx, path)
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	defer idx.Close()
	n, err := idx.RunCount(ctx)
	if err != nil || n != 2 {
		t.Fatalf("RunCount = %d, %v", n, err)
	}
}
