package vgmstream

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/toolexec"
)

// Decoder converts a raw stream into a playable WAV file.
type Decoder interface {
	Decode(ctx context.Context, input, output string) bool
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
		c.logger = logging.NewComponentLogger(logger, "vgmstream")
	}
}

// Client wraps vgmstream-cli.
type Client struct {
	binary string
	runner toolexec.Runner
	logger *slog.Logger
}

// New constructs a vgmstream client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("vgmstream binary required")
	}
	client := &Client{binary: binary, logger: logging.NewComponentLogger(nil, "vgmstream")}
	for _, opt := range opts {
		opt(client)
	}
	if client.runner == nil {
		client.runner = toolexec.NewProcessRunner(client.logger)
	}
	return client, nil
}

// Command builds the decode command line.
func (c *Client) Command(input, output string) toolexec.Command {
	return toolexec.Command{Binary: c.binary, Args: []string{"-o", output, input}}
}

// Decode writes input's audio to output as WAV.
func (c *Client) Decode(ctx context.Context, input, output string) bool {
	return toolexec.Invoke(ctx, c.runner, logging.WithContext(ctx, c.logger), c.Command(input, output))
}
