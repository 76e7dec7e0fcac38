package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
)

// Progress creates one tracker per stage pass.
type Progress interface {
	Track(label string, total int) Tracker
	// Wait flushes any rendering. It is called once at the end of the run.
	Wait()
}

// Tracker receives per-item updates for one stage pass.
type Tracker interface {
	// Advance marks one item processed; skipped items are counted separately.
	Advance(skipped bool)
	Done()
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewProgress picks in-place bars for terminals and sampled log lines for
// everything else.
func NewProgress(out *os.File, logger *slog.Logger) Progress {
	if IsTerminal(out) {
		return NewBarProgress(out)
	}
	return NewLogProgress(logger)
}

// BarProgress draws mpb bars that overwrite themselves in place.
type BarProgress struct {
	container *mpb.Progress
}

// NewBarProgress renders bars to w.
func NewBarProgress(w io.Writer) *BarProgress {
	return &BarProgress{container: mpb.New(mpb.WithOutput(w), mpb.WithWidth(48))}
}

// Track adds a bar for one stage pass.
func (p *BarProgress) Track(label string, total int) Tracker {
	t := &barTracker{}
	t.bar = p.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(label+" ", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d/%d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Any(func(decor.Statistics) string {
				if n := t.skipped(); n > 0 {
					return fmt.Sprintf("%d skipped", n)
				}
				return ""
			}),
			decor.OnComplete(decor.Percentage(decor.WC{W: 5}), "done"),
		),
	)
	return t
}

// Wait blocks until every bar has rendered its final state.
func (p *BarProgress) Wait() {
	p.container.Wait()
}

type barTracker struct {
	bar *mpb.Bar
	mu  sync.Mutex
	skp int
}

func (t *barTracker) skipped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.skp
}

func (t *barTracker) Advance(skipped bool) {
	if skipped {
		t.mu.Lock()
		t.skp++
		t.mu.Unlock()
	}
	t.bar.Increment()
}

func (t *barTracker) Done() {
	// A pass cut short by cancellation never reaches its total; Wait only
	// returns once every bar is completed or aborted.
	if !t.bar.Completed() {
		t.bar.Abort(false)
	}
}

// LogProgress emits progress as info logs, sampled every 10 percent.
type LogProgress struct {
	logger *slog.Logger
}

// NewLogProgress logs through logger.
func NewLogProgress(logger *slog.Logger) *LogProgress {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogProgress{logger: logger}
}

// Track starts a sampled log tracker.
func (p *LogProgress) Track(label string, total int) Tracker {
	return &logTracker{
		logger:  p.logger,
		label:   label,
		total:   total,
		sampler: logging.NewProgressSampler(10),
	}
}

// Wait is a no-op for log output.
func (p *LogProgress) Wait() {}

type logTracker struct {
	logger  *slog.Logger
	label   string
	total   int
	done    int
	skipped int
	sampler *logging.ProgressSampler
}

func (t *logTracker) Advance(skipped bool) {
	t.done++
	if skipped {
		t.skipped++
	}
	if t.sampler.ShouldLogCount(t.done, t.total, t.label) {
		t.log()
	}
}

func (t *logTracker) Done() {
	if t.done < t.total {
		t.log()
	}
}

func (t *logTracker) log() {
	t.logger.Info(t.label,
		logging.String(logging.FieldEventType, "progress"),
		logging.Int("done", t.done),
		logging.Int("total", t.total),
		logging.Int("skipped", t.skipped),
	)
}

// NoProgress discards all updates.
type NoProgress struct{}

// Track returns a tracker that ignores updates.
func (NoProgress) Track(string, int) Tracker { return noTracker{} }

// Wait does nothing.
func (NoProgress) Wait() {}

type noTracker struct{}

func (noTracker) Advance(bool) {}
func (noTracker) Done()        {}
