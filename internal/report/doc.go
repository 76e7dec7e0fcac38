// Package report writes the end-of-run diagnostics: skipped.txt lists
// resolved names no subtitle asked for, count.txt lists wanted names that were
// produced zero or several times, an optional SQLite index records every
// stream resolution, and a summary table is printed for the operator.
package report
