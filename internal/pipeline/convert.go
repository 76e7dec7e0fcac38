package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/audioinfo"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/fileutil"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/metadata"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/reconcile"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services/vgmstream"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/workspace"
)

// Resolution records what happened to one stream.
type Resolution struct {
	StreamID string
	Name     string
	Wanted   bool
	// Decoded is true when the decoder reported success.
	Decoded  bool
	Duration time.Duration
}

// ConvertResult summarises one conversion pass.
type ConvertResult struct {
	Total    int
	Decoded  int
	Skipped  int
	Failed   int
	Resolved []Resolution
}

// Converter resolves stream ids to names and decodes the wanted ones into
// wav/.
type Converter struct {
	Layout   workspace.Layout
	Decoder  vgmstream.Decoder
	Streams  metadata.StreamNames
	Progress Progress
	Logger   *slog.Logger
	// Probe reads each decoded file's header to record its duration.
	Probe bool
}

// Convert processes streams in order. wav/ is reset first unless there is
// nothing to convert, in which case it is left untouched.
func (c *Converter) Convert(ctx context.Context, streams []string, ledger *reconcile.Ledger) (ConvertResult, error) {
	result := ConvertResult{Total: len(streams)}
	if len(streams) == 0 {
		return result, nil
	}
	logger := logging.WithContext(ctx, c.Logger)
	if err := workspace.Reset(c.Layout.Wav); err != nil {
		return result, err
	}

	progress := c.Progress
	if progress == nil {
		progress = NoProgress{}
	}
	tracker := progress.Track("convert", len(streams))
	defer tracker.Done()

	for _, stream := range streams {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		id := fileutil.Stem(stream)
		res := Resolution{StreamID: id, Name: c.Streams.Resolve(id)}

		if !ledger.IsWanted(res.Name) {
			ledger.MarkSkipped(res.Name)
			result.Skipped++
			result.Resolved = append(result.Resolved, res)
			tracker.Advance(true)
			continue
		}

		res.Wanted = true
		ledger.MarkFound(res.Name)
		output := filepath.Join(c.Layout.Wav, res.Name)
		res.Decoded = c.Decoder.Decode(ctx, stream, output)
		if res.Decoded {
			result.Decoded++
			if c.Probe {
				res.Duration = c.probe(logger, output)
			}
		} else {
			result.Failed++
		}
		result.Resolved = append(result.Resolved, res)
		tracker.Advance(false)
	}

	logger.Info("streams converted",
		logging.String(logging.FieldEventType, "streams_converted"),
		logging.Int("total", result.Total),
		logging.Int("decoded", result.Decoded),
		logging.Int("skipped", result.Skipped),
		logging.Int("failed", result.Failed),
	)
	return result, nil
}

func (c *Converter) probe(logger *slog.Logger, path string) time.Duration {
	info, err := audioinfo.Probe(path)
	if err != nil {
		logger.Debug("decoded file probe failed",
			logging.String("file", filepath.Base(path)),
			logging.Error(err),
		)
		return 0
	}
	return info.Duration
}
