package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/reconcile"
)

// WriteSkipped writes one "<count>: <name>" line per skipped name in
// first-seen order.
func WriteSkipped(path string, ledger *reconcile.Ledger) error {
	return writeEntries(path, ledger.Skipped())
}

// WriteCounts writes one "<count>: <name>" line for every wanted name whose
// final count is not exactly one, in wanted order.
func WriteCounts(path string, ledger *reconcile.Ledger) error {
	return writeEntries(path, ledger.Anomalies())
}

func writeEntries(path string, entries []reconcile.Entry) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, entry := range entries {
		if _, err := fmt.Fprintf(w, "%d: %s\n", entry.Count, entry.Name); err != nil {
			return fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
