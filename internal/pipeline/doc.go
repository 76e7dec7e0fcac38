// Package pipeline runs the export: every archive in the packages directory
// is unpacked, its streams resolved against the manifest and decoded when a
// subtitle wants them, and the decoded lines re-encoded into dest/.
//
// The stages are independent types (Unpacker, Converter, Compressor) wired
// together by Exporter, which owns the reconcile.Ledger for the whole run and
// hands it to each stage by pointer. Tool failures inside a stage are logged
// and skipped; missing inputs and unreadable metadata abort the run.
package pipeline
