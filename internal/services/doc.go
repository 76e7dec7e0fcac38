// Package services defines shared utilities consumed by the pipeline stages
// and the external tool clients.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and the archive being
//     processed for logging.
//   - Structured error markers plus the Wrap helper so callers can tell fatal
//     input problems apart from recoverable tool failures.
//
// The tool clients live in sub-packages (quickbms, vgmstream, ffmpeg) and share
// the runner abstraction from internal/toolexec.
package services
