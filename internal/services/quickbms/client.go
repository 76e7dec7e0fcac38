package quickbms

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/toolexec"
)

// Extractor unpacks an archive into a directory.
type Extractor interface {
	Extract(ctx context.Context, archive, outDir string) bool
}

// Option configures the client.
type Option func(*Client)

// WithRunner injects a custom runner (primarily for tests).
func WithRunner(runner toolexec.Runner) Option {
	return func(c *Client) {
		if runner != nil {
			c.runner = runner
		}
	}
}

// WithLogger sets the logger used to report failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "quickbms")
	}
}

// Client wraps QuickBMS CLI interactions.
type Client struct {
	binary string
	script string
	runner toolexec.Runner
	logger *slog.Logger
}

// New constructs a QuickBMS client bound to an extraction script.
func New(binary, script string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("quickbms binary required")
	}
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, errors.New("quickbms script required")
	}
	client := &Client{
		binary: binary,
		script: script,
		logger: logging.NewComponentLogger(nil, "quickbms"),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.runner == nil {
		client.runner = toolexec.NewProcessRunner(client.logger)
	}
	return client, nil
}

// Command builds the extraction command line. -q silences per-file output and
// -k keeps existing files instead of prompting.
func (c *Client) Command(archive, outDir string) toolexec.Command {
	return toolexec.Command{
		Binary: c.binary,
		Args:   []string{"-q", "-k", c.script, archive, outDir},
	}
}

// Extract unpacks archive into outDir. It reports false when QuickBMS fails;
// the failure has already been logged.
func (c *Client) Extract(ctx context.Context, archive, outDir string) bool {
	return toolexec.Invoke(ctx, c.runner, logging.WithContext(ctx, c.logger), c.Command(archive, outDir))
}
