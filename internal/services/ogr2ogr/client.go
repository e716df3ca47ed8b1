package ogr2ogr

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"sosi2gpkg/internal/fileutil"
	"sosi2gpkg/internal/logging"
	"sosi2gpkg/internal/progress"
	"sosi2gpkg/internal/services"
)

// Executor abstracts process execution for testability. Runner is the
// production implementation.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, sink progress.Sink, label string) (string, error)
}

// Converter is the behaviour the importer needs from a Client.
type Converter interface {
	Convert(ctx context.Context, input, output string, crsArgs []string, sink progress.Sink) (Mode, error)
}

// Attempt is one ogr2ogr invocation made by Convert.
type Attempt struct {
	Mode     Mode
	Args     []string
	Output   string
	Err      error
	Duration time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithExecutor replaces the process runner.
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithBatchSize sets the fast-mode -gt transaction size.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithLogger sets the logger used for attempt reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAttemptHook registers a callback invoked after every attempt.
func WithAttemptHook(fn func(Attempt)) Option {
	return func(c *Client) {
		c.onAttempt = fn
	}
}

// Client wraps the fast/robust conversion strategy.
type Client struct {
	binary    string
	batchSize int
	exec      Executor
	logger    *slog.Logger
	onAttempt func(Attempt)
}

// New constructs an ogr2ogr client for the resolved binary.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, services.Wrap(services.ErrToolNotFound, "ogr2ogr", "configure", "ogr2ogr binary required", nil)
	}
	client := &Client{
		binary:    binary,
		batchSize: DefaultBatchSize,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.exec == nil {
		client.exec = &Runner{Logger: client.logger}
	}
	client.logger = logging.NewComponentLogger(client.logger, "convert")
	return client, nil
}

// Binary returns the executable the client runs.
func (c *Client) Binary() string { return c.binary }

// Convert produces output from input, trying fast mode first and falling
// back to robust mode. The output file is removed before each attempt so a
// failed attempt never leaves content behind for the next one. Cancellation
// ends the conversion without a fallback.
func (c *Client) Convert(ctx context.Context, input, output string, crsArgs []string, sink progress.Sink) (Mode, error) {
	sink = progress.OrNop(sink)

	fileutil.RemoveIfExists(output)
	fast := Attempt{Mode: ModeFast, Args: FastArgs(input, output, crsArgs, c.batchSize)}
	err := c.run(ctx, &fast, sink)
	if err == nil {
		return ModeFast, nil
	}
	if services.IsCanceled(err) {
		return "", err
	}

	logging.WarnWithContext(logging.WithContext(ctx, c.logger), "fast conversion failed; retrying in robust mode", "conversion_fallback",
		logging.Error(err),
		logging.String(logging.FieldImpact, "features that fail to convert will be skipped"),
		logging.String(logging.FieldErrorHint, "inspect ogr2ogr output for malformed records"),
	)

	fileutil.RemoveIfExists(output)
	robust := Attempt{Mode: ModeRobust, Args: RobustArgs(input, output, crsArgs)}
	err = c.run(ctx, &robust, sink)
	if err == nil {
		return ModeRobust, nil
	}
	if services.IsCanceled(err) {
		return "", err
	}
	return "", services.Wrap(services.ErrExternalTool, "convert", "robust", "", err)
}

func (c *Client) run(ctx context.Context, attempt *Attempt, sink progress.Sink) error {
	ctx = services.WithMode(ctx, string(attempt.Mode))
	logger := logging.WithContext(ctx, c.logger)
	logger.Info("ogr2ogr attempt", "args", strings.Join(attempt.Args, " "))

	began := time.Now()
	attempt.Output, attempt.Err = c.exec.Run(ctx, c.binary, attempt.Args, sink, "Converting ("+string(attempt.Mode)+")...")
	attempt.Duration = time.Since(began)

	var exitErr *ExitError
	switch {
	case attempt.Err == nil:
		logger.Info("ogr2ogr attempt succeeded", "duration", attempt.Duration.Round(time.Millisecond))
	case errors.As(attempt.Err, &exitErr):
		logger.Info("ogr2ogr attempt failed", "exit_code", exitErr.Code, "duration", attempt.Duration.Round(time.Millisecond))
	case services.IsCanceled(attempt.Err):
		logger.Info("ogr2ogr attempt canceled")
	default:
		logger.Info("ogr2ogr attempt failed", logging.Error(attempt.Err))
	}
	if c.onAttempt != nil {
		c.onAttempt(*attempt)
	}
	return attempt.Err
}
