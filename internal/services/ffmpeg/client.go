package ffmpeg

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/toolexec"
)

// Encoder re-encodes a decoded file into the distributable format.
type Encoder interface {
	Encode(ctx context.Context, input, output string) bool
}

// Settings selects the output codec.
type Settings struct {
	Codec   string
	Bitrate string
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
		c.logger = logging.NewComponentLogger(logger, "ffmpeg")
	}
}

// Client wraps the ffmpeg CLI.
type Client struct {
	binary   string
	settings Settings
	runner   toolexec.Runner
	logger   *slog.Logger
}

// New constructs an ffmpeg client.
func New(binary string, settings Settings, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	settings.Codec = strings.TrimSpace(settings.Codec)
	if settings.Codec == "" {
		return nil, errors.New("ffmpeg codec required")
	}
	settings.Bitrate = strings.TrimSpace(settings.Bitrate)
	client := &Client{binary: binary, settings: settings, logger: logging.NewComponentLogger(nil, "ffmpeg")}
	for _, opt := range opts {
		opt(client)
	}
	if client.runner == nil {
		client.runner = toolexec.NewProcessRunner(client.logger)
	}
	return client, nil
}

// Command builds the encode command line. Existing outputs are overwritten.
func (c *Client) Command(input, output string) toolexec.Command {
	args := []string{"-loglevel", "error", "-y", "-i", input, "-acodec", c.settings.Codec}
	if c.settings.Bitrate != "" {
		args = append(args, "-b:a", c.settings.Bitrate)
	}
	args = append(args, "-y", output)
	return toolexec.Command{Binary: c.binary, Args: args}
}

// Encode re-encodes input into output.
func (c *Client) Encode(ctx context.Context, input, output string) bool {
	return toolexec.Invoke(ctx, c.runner, logging.WithContext(ctx, c.logger), c.Command(input, output))
}
