// Package audioinfo reads format details from decoded WAV files.
package audioinfo

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// ErrNotWAV reports a file without a valid RIFF/WAVE header.
var ErrNotWAV = errors.New("not a wav file")

// Info describes a decoded voice line.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
	Size       int64
}

// Probe reads the header of the WAV file at path.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return Info{}, err
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return Info{}, fmt.Errorf("%s: %w", path, ErrNotWAV)
	}
	if err := decoder.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("%s: locate pcm data: %w", path, err)
	}
	info := Info{
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		BitDepth:   int(decoder.BitDepth),
		Size:       stat.Size(),
	}
	bytesPerSecond := int64(info.SampleRate) * int64(info.Channels) * int64(info.BitDepth) / 8
	if bytesPerSecond > 0 {
		info.Duration = time.Duration(float64(decoder.PCMLen()) / float64(bytesPerSecond) * float64(time.Second))
	}
	return info, nil
}
