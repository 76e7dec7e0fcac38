package reconcile

import (
	"reflect"
	"testing"
)

func TestAddWantedKeepsOrderAndCountsAdditions(t *testing.T) {
	l := NewLedger()
	l.AddWanted("b.wav")
	l.AddWanted("a.wav")
	l.AddWanted("b.wav")

	want := []Entry{{Name: "b.wav"}, {Name: "a.wav"}}
	if got := l.Wanted(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Wanted = %#v, want %#v", got, want)
	}
	if got := l.Additions("b.wav"); got != 2 {
		t.Fatalf("Additions(b.wav) = %d, want 2", got)
	}
	if got := l.Additions("c.wav"); got != 0 {
		t.Fatalf("Additions(c.wav) = %d, want 0", got)
	}
	if !l.IsWanted("a.wav") || l.IsWanted("c.wav") {
		t.Fatal("unexpected IsWanted result")
	}
}

func TestMarkFoundIncrementsPerOccurrence(t *testing.T) {
	l := NewLedger()
	l.AddWanted("line.wav")
	if got := l.MarkFound("line.wav"); got != 1 {
		t.Fatalf("first MarkFound = %d", got)
	}
	if got := l.MarkFound("line.wav"); got != 2 {
		t.Fatalf("second MarkFound = %d", got)
	}
	if got := l.WantedCount("line.wav"); got != 2 {
		t.Fatalf("WantedCount = %d", got)
	}
}

func TestMarkSkippedCreatesOnFirstMiss(t *testing.T) {
	l := NewLedger()
	l.MarkSkipped("z.wav")
	l.MarkSkipped("y.wav")
	l.MarkSkipped("z.wav")

	want := []Entry{{Name: "z.wav", Count: 2}, {Name: "y.wav", Count: 1}}
	if got := l.Skipped(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Skipped = %#v, want %#v", got, want)
	}
	if l.IsWanted("z.wav") {
		t.Fatal("skipped names must not become wanted")
	}
}

func TestAnomaliesAndTotals(t *testing.T) {
	l := NewLedger()
	for _, name := range []string{"missing.wav", "once.wav", "twice.wav"} {
		l.AddWanted(name)
	}
	l.MarkFound("once.wav")
	l.MarkFound("twice.wav")
	l.MarkFound("twice.wav")
	l.MarkSkipped("extra.wav")
	l.MarkSkipped("extra.wav")

	want := []Entry{{Name: "missing.wav", Count: 0}, {Name: "twice.wav", Count: 2}}
	if got := l.Anomalies(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Anomalies = %#v, want %#v", got, want)
	}
	totals := l.Totals()
	wantTotals := Totals{Wanted: 3, Found: 2, Missing: 1, Duplicate: 1, Skipped: 2}
	if totals != wantTotals {
		t.Fatalf("Totals = %#v, want %#v", totals, wantTotals)
	}
}

func TestEntriesAreCopies(t *testing.T) {
	l := NewLedger()
	l.AddWanted("a.wav")
	entries := l.Wanted()
	entries[0].Count = 99
	if got := l.WantedCount("a.wav"); got != 0 {
		t.Fatalf("ledger mutated through returned slice: %d", got)
	}
}
