// Package reconcile tracks which decoded files the subtitle data asks for
// and how often each one was actually produced.
//
// The Ledger holds two ordered counters. Wanted counts start at zero for every
// file referenced by a subtitled event and are incremented each time a stream
// resolving to that name is decoded. Skipped counts are created on first sight
// of a resolved name that nothing wants. Both keep first-insertion order so
// reports are stable across runs.
package reconcile
