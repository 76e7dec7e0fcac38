package metadata

import (
	"context"
	"log/slog"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/config"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/reconcile"
)

// Lookups bundles everything derived from the two metadata inputs.
type Lookups struct {
	Manifest  *Manifest
	Events    EventFiles
	Streams   StreamNames
	Subtitles SubtitleEvents
}

// Load reads the manifest and the sound map named by cfg.
func Load(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Lookups, error) {
	logger = logging.NewComponentLogger(logger, "metadata")

	manifest, err := LoadManifest(cfg.Paths.Manifest)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	subtitles, err := LoadSubtitleEvents(cfg.Paths.EventMap, cfg.Paths.EventMapKey)
	if err != nil {
		return nil, err
	}

	lookups := &Lookups{
		Manifest:  manifest,
		Events:    manifest.EventFiles(),
		Streams:   manifest.StreamNames(),
		Subtitles: subtitles,
	}
	logger.Info("metadata loaded",
		logging.String(logging.FieldEventType, "metadata_loaded"),
		logging.Int("events", len(lookups.Events)),
		logging.Int("streamed_files", len(lookups.Streams)),
		logging.Int("subtitles", len(subtitles)),
	)
	return lookups, nil
}

// Ledger returns a fresh ledger seeded with every wanted file.
func (l *Lookups) Ledger() *reconcile.Ledger {
	return BuildWanted(l.Subtitles, l.Events)
}
