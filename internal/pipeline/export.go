package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/config"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/fileutil"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/metadata"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/preflight"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/reconcile"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/report"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services/ffmpeg"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services/quickbms"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services/vgmstream"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/toolexec"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/workspace"
)

// Stage names attached to the context and logs.
const (
	StageMetadata = "metadata"
	StageUnpack   = "unpack"
	StageConvert  = "convert"
	StageCompress = "compress"
	StageReport   = "report"
)

// Options configures an Exporter.
type Options struct {
	Config *config.Config
	Logger *slog.Logger
	// Tools runs the external executables. Defaults to a ProcessRunner
	// honouring tools.timeout_seconds.
	Tools    toolexec.Runner
	Progress Progress
	// SkipPreflight disables the readiness checks.
	SkipPreflight bool
}

// ArchiveResult collects the outcome of one archive.
type ArchiveResult struct {
	Unpack   UnpackResult
	Convert  ConvertResult
	Compress CompressResult
}

// Result is the outcome of a complete export.
type Result struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Archives []ArchiveResult
	Ledger   *reconcile.Ledger
}

// Summary converts r into the report representation.
func (r *Result) Summary() report.Summary {
	s := report.Summary{
		RunID:    r.RunID,
		Started:  r.Started,
		Finished: r.Finished,
	}
	if r.Ledger != nil {
		s.Totals = r.Ledger.Totals()
	}
	for _, a := range r.Archives {
		s.Archives = append(s.Archives, report.ArchiveRow{
			Archive: filepath.Base(a.Unpack.Archive),
			Banks:   len(a.Unpack.Banks),
			Streams: len(a.Unpack.Streams),
			Decoded: a.Convert.Decoded,
			Skipped: a.Convert.Skipped,
			Encoded: a.Compress.Encoded,
			Failed:  a.Convert.Failed + a.Compress.Failed,
			Bytes:   a.Compress.Bytes,
		})
	}
	return s
}

// Resolutions flattens every archive's stream outcomes for the index.
func (r *Result) Resolutions() []report.Resolution {
	var out []report.Resolution
	for _, a := range r.Archives {
		for _, res := range a.Convert.Resolved {
			out = append(out, report.Resolution{
				Archive:  filepath.Base(a.Unpack.Archive),
				StreamID: res.StreamID,
				Name:     res.Name,
				Wanted:   res.Wanted,
				Decoded:  res.Decoded,
				Duration: res.Duration,
			})
		}
	}
	return out
}

// Exporter runs the whole pipeline for one configuration.
type Exporter struct {
	cfg           *config.Config
	logger        *slog.Logger
	layout        workspace.Layout
	progress      Progress
	skipPreflight bool

	unpacker   *Unpacker
	converter  *Converter
	compressor *Compressor
}

// NewExporter wires the stages and tool clients.
func NewExporter(opts Options) (*Exporter, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "init", "config required", nil)
	}
	logger := logging.NewComponentLogger(opts.Logger, "export")
	runner := opts.Tools
	if runner == nil {
		runner = toolexec.NewProcessRunner(logger, toolexec.WithTimeout(cfg.ToolTimeout()))
	}
	progress := opts.Progress
	if progress == nil {
		progress = NoProgress{}
	}

	extractor, err := quickbms.New(cfg.Tools.QuickBMS, cfg.Tools.QuickBMSScript,
		quickbms.WithRunner(runner), quickbms.WithLogger(opts.Logger))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "init", "quickbms", err)
	}
	decoder, err := vgmstream.New(cfg.Tools.VGMStream,
		vgmstream.WithRunner(runner), vgmstream.WithLogger(opts.Logger))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "init", "vgmstream", err)
	}
	encoder, err := ffmpeg.New(cfg.Tools.FFmpeg, ffmpeg.Settings{Codec: cfg.Encode.Codec, Bitrate: cfg.Encode.Bitrate},
		ffmpeg.WithRunner(runner), ffmpeg.WithLogger(opts.Logger))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "init", "ffmpeg", err)
	}

	layout := workspace.New(cfg.Paths.WorkDir)
	return &Exporter{
		cfg:           cfg,
		logger:        logger,
		layout:        layout,
		progress:      progress,
		skipPreflight: opts.SkipPreflight,
		unpacker: &Unpacker{
			Layout:    layout,
			Extractor: extractor,
			Logger:    logging.NewComponentLogger(opts.Logger, StageUnpack),
		},
		converter: &Converter{
			Layout:   layout,
			Decoder:  decoder,
			Progress: progress,
			Logger:   logging.NewComponentLogger(opts.Logger, StageConvert),
			Probe:    cfg.Reports.IndexDB != "",
		},
		compressor: &Compressor{
			Layout:    layout,
			Encoder:   encoder,
			Extension: cfg.Encode.Extension,
			Progress:  progress,
			Logger:    logging.NewComponentLogger(opts.Logger, StageCompress),
		},
	}, nil
}

// Layout returns the workspace directories the exporter uses.
func (e *Exporter) Layout() workspace.Layout {
	return e.layout
}

// Run performs the export. Fatal errors (missing inputs, malformed metadata,
// failed preflight, a held workspace lock) abort the run; tool failures are
// logged and the affected files are left out.
func (e *Exporter) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.NewString(), Started: time.Now()}
	ctx = services.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, e.logger)

	lock, err := workspace.Acquire(e.layout.Root)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "lock", "workspace", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release workspace lock", logging.Error(err))
		}
	}()
	defer e.progress.Wait()

	if !e.skipPreflight {
		if err := preflight.Err(preflight.RunAll(ctx, e.cfg)); err != nil {
			return nil, err
		}
	}

	metaCtx := services.WithStage(ctx, StageMetadata)
	lookups, err := metadata.Load(metaCtx, e.cfg, logging.WithContext(metaCtx, e.logger))
	if err != nil {
		return nil, err
	}
	result.Ledger = lookups.Ledger()
	e.converter.Streams = lookups.Streams
	logger.Info("wanted files resolved",
		logging.String(logging.FieldEventType, "wanted_resolved"),
		logging.Int("wanted", len(result.Ledger.Wanted())),
	)

	archives, err := e.archives()
	if err != nil {
		return nil, err
	}

	if !e.cfg.Workspace.KeepScratch {
		defer func() {
			if err := e.layout.Cleanup(); err != nil {
				logger.Warn("failed to remove scratch directories", logging.Error(err))
			}
		}()
	}

	if err := workspace.Reset(e.layout.Dest); err != nil {
		return nil, err
	}

	for i, archive := range archives {
		archiveCtx := services.WithArchive(ctx, fileutil.Stem(archive))
		logging.WithContext(archiveCtx, e.logger).Info("archive started",
			logging.String(logging.FieldEventType, "archive_start"),
			logging.Int("index", i+1),
			logging.Int("archives", len(archives)),
		)
		archiveResult, err := e.processArchive(archiveCtx, archive, result.Ledger)
		result.Archives = append(result.Archives, archiveResult)
		if err != nil {
			return result, err
		}
	}

	reportCtx := services.WithStage(ctx, StageReport)
	result.Finished = time.Now()
	if err := e.writeReports(reportCtx, result); err != nil {
		return result, err
	}

	totals := result.Ledger.Totals()
	logger.Info("export completed",
		logging.String(logging.FieldEventType, "export_complete"),
		logging.Int("archives", len(result.Archives)),
		logging.Int("wanted", totals.Wanted),
		logging.Int("found", totals.Found),
		logging.Int("missing", totals.Missing),
		logging.Int("duplicate", totals.Duplicate),
		logging.Int("skipped", totals.Skipped),
		logging.Duration("elapsed", result.Finished.Sub(result.Started)),
	)
	return result, nil
}

// processArchive runs unpack, convert, and compress for one archive. An
// archive without streams stops after unpacking.
func (e *Exporter) processArchive(ctx context.Context, archive string, ledger *reconcile.Ledger) (ArchiveResult, error) {
	var out ArchiveResult
	var err error

	out.Unpack, err = e.unpacker.Unpack(services.WithStage(ctx, StageUnpack), archive)
	if err != nil {
		return out, err
	}
	if len(out.Unpack.Streams) == 0 {
		return out, nil
	}

	out.Convert, err = e.converter.Convert(services.WithStage(ctx, StageConvert), out.Unpack.Streams, ledger)
	if err != nil {
		return out, err
	}

	out.Compress, err = e.compressor.Compress(services.WithStage(ctx, StageCompress))
	return out, err
}

// archives lists the packages directory. A missing directory is fatal.
func (e *Exporter) archives() ([]string, error) {
	dir := e.cfg.Paths.PackagesDir
	archives, err := fileutil.ListFiles(dir, e.cfg.Paths.ArchiveExt)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, StageUnpack, "list archives", dir, err)
		}
		return nil, fmt.Errorf("list archives: %w", err)
	}
	return archives, nil
}

func (e *Exporter) writeReports(ctx context.Context, result *Result) error {
	logger := logging.WithContext(ctx, e.logger)
	if err := report.WriteSkipped(e.cfg.Reports.Skipped, result.Ledger); err != nil {
		return err
	}
	if err := report.WriteCounts(e.cfg.Reports.Counts, result.Ledger); err != nil {
		return err
	}
	logger.Info("reports written",
		logging.String(logging.FieldEventType, "reports_written"),
		logging.String("skipped", e.cfg.Reports.Skipped),
		logging.String("counts", e.cfg.Reports.Counts),
	)

	if e.cfg.Reports.IndexDB == "" {
		return nil
	}
	idx, err := report.OpenIndex(ctx, e.cfg.Reports.IndexDB)
	if err != nil {
		return err
	}
	defer idx.Close()
	if err := idx.Record(ctx, result.Summary(), result.Resolutions(), result.Ledger); err != nil {
		return err
	}
	logger.Info("export index updated",
		logging.String(logging.FieldEventType, "index_written"),
		logging.String("path", idx.Path()),
	)
	return nil
}
