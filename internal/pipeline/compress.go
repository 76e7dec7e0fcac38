package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/fileutil"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services/ffmpeg"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/workspace"
)

// CompressResult summarises one compression pass.
type CompressResult struct {
	Total   int
	Encoded int
	Failed  int
	// Bytes is the combined size of the outputs written in this pass.
	Bytes int64
}

// Compressor re-encodes every file in wav/ into dest/.
type Compressor struct {
	Layout    workspace.Layout
	Encoder   ffmpeg.Encoder
	Extension string
	Progress  Progress
	Logger    *slog.Logger
}

// OutputName maps a decoded file name to its distributable name: the same
// stem with ext.
func OutputName(name, ext string) string {
	return fileutil.Stem(name) + ext
}

// Compress encodes each regular file in wav/, sorted by name, overwriting
// outputs of the same name. An empty or missing wav/ is a no-op.
func (c *Compressor) Compress(ctx context.Context) (CompressResult, error) {
	var result CompressResult
	inputs, err := fileutil.ListFiles(c.Layout.Wav)
	if err != nil && !os.IsNotExist(err) {
		return result, fmt.Errorf("list decoded files: %w", err)
	}
	result.Total = len(inputs)
	if len(inputs) == 0 {
		return result, nil
	}
	logger := logging.WithContext(ctx, c.Logger)
	if err := workspace.EnsureDir(c.Layout.Dest); err != nil {
		return result, err
	}

	progress := c.Progress
	if progress == nil {
		progress = NoProgress{}
	}
	tracker := progress.Track("compress", len(inputs))
	defer tracker.Done()

	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		output := filepath.Join(c.Layout.Dest, OutputName(filepath.Base(input), c.Extension))
		if c.Encoder.Encode(ctx, input, output) {
			result.Encoded++
			if info, err := os.Stat(output); err == nil {
				result.Bytes += info.Size()
			}
		} else {
			result.Failed++
		}
		tracker.Advance(false)
	}

	logger.Info("decoded files compressed",
		logging.String(logging.FieldEventType, "files_compressed"),
		logging.Int("total", result.Total),
		logging.Int("encoded", result.Encoded),
		logging.Int("failed", result.Failed),
		logging.Int64("bytes", result.Bytes),
	)
	return result, nil
}
