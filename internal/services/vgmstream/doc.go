// Package vgmstream wraps vgmstream-cli, which decodes Wwise .wem streams to
// PCM WAV files.
package vgmstream
