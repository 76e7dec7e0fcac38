package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/reconcile"
)

func TestWriteCountsListsMissingAndDuplicates(t *testing.T) {
	ledger := reconcile.NewLedger()
	ledger.AddWanted("never.wav")
	ledger.AddWanted("once.wav")
	ledger.AddWanted("twice.wav")
	ledger.MarkFound("once.wav")
	ledger.MarkFound("twice.wav")
	ledger.MarkFound("twice.wav")

	path := filepath.Join(t.TempDir(), "count.txt")
	if err := WriteCounts(path, ledger); err != nil {
		t.Fatalf("WriteCounts: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "0: never.wav\n2: twice.wav\n"; string(got) != want {
		t.Fatalf("count.txt = %q, want %q", got, want)
	}
}

func TestWriteSkippedFirstSeenOrder(t *testing.T) {
	ledger := reconcile.NewLedger()
	ledger.MarkSkipped("b.wav")
	ledger.MarkSkipped("a.wav")
	ledger.MarkSkipped("b.wav")
	ledger.MarkSkipped("12345")

	path := filepath.Join(t.TempDir(), "reports", "skipped.txt")
	if err := WriteSkipped(path, ledger); err != nil {
		t.Fatalf("WriteSkipped: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "2: b.wav\n1: a.wav\n1: 12345\n"; string(got) != want {
		t.Fatalf("skipped.txt = %q, want %q", got, want)
	}
}

func TestWriteReportsTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skipped.txt")
	if err := os.WriteFile(path, []byte("stale contents\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteSkipped(path, reconcile.NewLedger()); err != nil {
		t.Fatalf("WriteSkipped: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty report, got %d bytes", info.Size())
	}
}
