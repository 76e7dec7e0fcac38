package toolexec

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services"
)

// Command is an executable plus its argument list.
type Command struct {
	Binary string
	Args   []string
}

// String renders the command for logs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quoteArg(c.Binary))
	for _, arg := range c.Args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg == "" || strings.ContainsAny(arg, " \t\"") {
		return `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
	}
	return arg
}

// Runner executes a command synchronously. A nil error means the process
// exited with status zero.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) error

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// Option configures a ProcessRunner.
type Option func(*ProcessRunner)

// stderrTailLines is how many trailing stderr lines a failure error carries.
const stderrTailLines = 5

// WithOutput forwards every stdout/stderr line to fn instead of the log.
func WithOutput(fn func(line string)) Option {
	return func(r *ProcessRunner) {
		if fn != nil {
			r.onOutput = fn
		}
	}
}

// WithTimeout bounds every invocation. Zero disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(r *ProcessRunner) {
		r.timeout = timeout
	}
}

// ProcessRunner runs commands as child processes.
type ProcessRunner struct {
	logger   *slog.Logger
	onOutput func(string)
	timeout  time.Duration
}

// NewProcessRunner constructs a runner. Tool stderr is logged at info level and
// stdout at debug level unless WithOutput overrides both.
func NewProcessRunner(logger *slog.Logger, opts ...Option) *ProcessRunner {
	r := &ProcessRunner{logger: logging.NewComponentLogger(logger, "toolexec")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes cmd and waits for it to exit.
func (r *ProcessRunner) Run(ctx context.Context, cmd Command) error {
	if strings.TrimSpace(cmd.Binary) == "" {
		return services.Wrap(services.ErrConfiguration, "", "run", "empty tool binary", nil)
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	proc := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec
	stdout, err := proc.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := proc.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := proc.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "", "start", cmd.Binary, err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var tail []string
	tool := binaryName(cmd.Binary)
	forward := func(line string, diagnostic bool) {
		mu.Lock()
		defer mu.Unlock()
		if diagnostic {
			tail = append(tail, line)
			if len(tail) > stderrTailLines {
				tail = tail[1:]
			}
		}
		if r.onOutput != nil {
			r.onOutput(line)
			return
		}
		if diagnostic {
			r.logger.Info("tool output", logging.String("tool", tool), logging.String("stream", "stderr"), logging.String("line", line))
			return
		}
		r.logger.Debug("tool output", logging.String("tool", tool), logging.String("stream", "stdout"), logging.String("line", line))
	}
	scan := func(rd io.Reader, diagnostic bool) {
		defer wg.Done()
		scanner := bufio.NewScanner(rd)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			forward(scanner.Text(), diagnostic)
		}
		// Drain so a long line cannot block the child on a full pipe.
		_, _ = io.Copy(io.Discard, rd)
	}

	wg.Add(2)
	go scan(stdout, false)
	go scan(stderr, true)
	wg.Wait()

	if err := proc.Wait(); err != nil {
		switch ctxErr := ctx.Err(); {
		case errors.Is(ctxErr, context.Canceled):
			return ctxErr
		case errors.Is(ctxErr, context.DeadlineExceeded):
			return services.Wrap(services.ErrExternalTool, "", "wait", tool+" timed out", ctxErr)
		}
		if len(tail) > 0 {
			err = fmt.Errorf("%w (stderr: %s)", err, strings.Join(tail, " | "))
		}
		return services.Wrap(services.ErrExternalTool, "", "wait", tool, err)
	}
	return nil
}

// Invoke runs cmd through runner and applies the pipeline failure policy:
// a failing tool is reported to the operator and the caller decides how to
// proceed. Context cancellation is not a tool failure and is returned as false
// without a warning.
func Invoke(ctx context.Context, runner Runner, logger *slog.Logger, cmd Command) bool {
	err := runner.Run(ctx, cmd)
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	logging.WarnWithContext(logger, "external tool failed",
		"tool_failed",
		logging.String("tool", binaryName(cmd.Binary)),
		logging.String("command", cmd.String()),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "see the tool output lines above; the error carries the last stderr lines"),
	)
	return false
}

func binaryName(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
