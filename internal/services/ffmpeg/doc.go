// Package ffmpeg wraps the ffmpeg CLI for the size-reducing re-encode of
// decoded voice lines.
package ffmpeg
