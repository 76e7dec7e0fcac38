package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/fileutil"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services/quickbms"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/workspace"
)

// Extracted entry extensions.
const (
	BankExt   = ".bnk"
	StreamExt = ".wem"
)

// UnpackResult lists what one archive produced, after relocation.
type UnpackResult struct {
	Archive string
	// Banks and Streams are paths inside bnk/ and wem/, sorted by name.
	Banks   []string
	Streams []string
	// Extracted is false when the extractor reported a failure.
	Extracted bool
}

// Unpacker extracts an archive and sorts its entries into bnk/ and wem/.
type Unpacker struct {
	Layout    workspace.Layout
	Extractor quickbms.Extractor
	Logger    *slog.Logger
}

// Unpack runs the extractor against archive. A missing archive is fatal; an
// extractor failure is logged and whatever it left behind is still sorted.
func (u *Unpacker) Unpack(ctx context.Context, archive string) (UnpackResult, error) {
	result := UnpackResult{Archive: archive}
	logger := logging.WithContext(ctx, u.Logger)

	info, err := os.Stat(archive)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, services.Wrap(services.ErrNotFound, "unpack", "stat archive", archive, err)
		}
		return result, fmt.Errorf("stat archive: %w", err)
	}
	if !info.Mode().IsRegular() {
		return result, services.Wrap(services.ErrNotFound, "unpack", "stat archive", archive+" is not a regular file", nil)
	}

	if err := workspace.Reset(u.Layout.Tmp); err != nil {
		return result, err
	}
	result.Extracted = u.Extractor.Extract(ctx, archive, u.Layout.Tmp)
	if err := ctx.Err(); err != nil {
		return result, err
	}

	banks, streams, err := partition(u.Layout.Tmp)
	if err != nil {
		return result, err
	}

	if result.Streams, err = relocate(streams, u.Layout.Wem); err != nil {
		return result, err
	}
	if result.Banks, err = relocate(banks, u.Layout.Bank); err != nil {
		return result, err
	}

	logger.Info("archive unpacked",
		logging.String(logging.FieldEventType, "archive_unpacked"),
		logging.Int("banks", len(result.Banks)),
		logging.Int("streams", len(result.Streams)),
		logging.Bool("extractor_ok", result.Extracted),
	)
	return result, nil
}

// partition splits the regular files in dir by extension. Other entries are
// ignored and removed with the directory on the next reset.
func partition(dir string) (banks, streams []string, err error) {
	files, err := fileutil.ListFiles(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("list extracted entries: %w", err)
	}
	for _, file := range files {
		switch strings.ToLower(filepath.Ext(file)) {
		case BankExt:
			banks = append(banks, file)
		case StreamExt:
			streams = append(streams, file)
		}
	}
	return banks, streams, nil
}

// relocate resets dir and moves files into it.
func relocate(files []string, dir string) ([]string, error) {
	if err := workspace.Reset(dir); err != nil {
		return nil, err
	}
	moved := make([]string, 0, len(files))
	for _, src := range files {
		dst := filepath.Join(dir, filepath.Base(src))
		if err := fileutil.MoveFile(src, dst); err != nil {
			return nil, fmt.Errorf("move %s: %w", filepath.Base(src), err)
		}
		moved = append(moved, dst)
	}
	return moved, nil
}
