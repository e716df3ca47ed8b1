package ogr2ogr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"sosi2gpkg/internal/logging"
	"sosi2gpkg/internal/progress"
	"sosi2gpkg/internal/services"
)

const (
	DefaultStartTimeout = 5 * time.Second
	DefaultKillTimeout  = 2 * time.Second
	DefaultPollInterval = 50 * time.Millisecond

	noOutputPlaceholder = "(no output from ogr2ogr)"
	readBufferSize      = 32 * 1024
)

// ErrStart marks a process that could not be started in time.
var ErrStart = errors.New("ogr2ogr could not start")

// ExitError reports a nonzero exit together with everything the process
// printed.
type ExitError struct {
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	output := strings.TrimSpace(e.Output)
	if output == "" {
		output = noOutputPlaceholder
	}
	return fmt.Sprintf("ogr2ogr failed (exit code %d).\n\nOutput:\n%s", e.Code, output)
}

func (e *ExitError) Unwrap() error { return services.ErrExternalTool }

// Runner executes ogr2ogr processes. The zero value uses the default timeouts.
type Runner struct {
	StartTimeout time.Duration
	KillTimeout  time.Duration
	PollInterval time.Duration
	Logger       *slog.Logger
}

func (r *Runner) startTimeout() time.Duration {
	if r.StartTimeout > 0 {
		return r.StartTimeout
	}
	return DefaultStartTimeout
}

func (r *Runner) killTimeout() time.Duration {
	if r.KillTimeout > 0 {
		return r.KillTimeout
	}
	return DefaultKillTimeout
}

func (r *Runner) pollInterval() time.Duration {
	if r.PollInterval > 0 {
		return r.PollInterval
	}
	return DefaultPollInterval
}

func (r *Runner) logger(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, logging.NewComponentLogger(r.Logger, "ogr2ogr"))
}

// Run executes binary with args and returns its combined output. The sink
// starts indeterminate with label and turns determinate on the first
// recognised progress figure. Cancellation through ctx or the sink kills the
// process and returns services.ErrCanceled; it is checked at least every
// PollInterval.
func (r *Runner) Run(ctx context.Context, binary string, args []string, sink progress.Sink, label string) (string, error) {
	sink = progress.OrNop(sink)
	logger := r.logger(ctx)
	tracker := newProgressTracker(sink, label)

	if ctx.Err() != nil || sink.Canceled() {
		return "", canceledError()
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "ogr2ogr", "pipe", "", err)
	}
	cmd := exec.Command(binary, args...) //nolint:gosec
	cmd.Stdout = pw
	cmd.Stderr = pw
	setProcessGroup(cmd)

	if err := r.start(cmd, pr, pw); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "ogr2ogr", "start", binary, fmt.Errorf("%w: %w", ErrStart, err))
	}
	defer pr.Close()

	began := time.Now()
	logger.Debug("ogr2ogr started", "pid", cmd.Process.Pid, "args", strings.Join(args, " "))

	chunks := make(chan []byte)
	stop := make(chan struct{})
	readDone := make(chan struct{})
	defer close(stop)
	go readChunks(pr, chunks, stop, readDone)

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	var output bytes.Buffer
	consume := func(chunk []byte) {
		output.Write(chunk)
		tracker.feed(string(chunk))
	}

	ticker := time.NewTicker(r.pollInterval())
	defer ticker.Stop()

	for {
		if ctx.Err() != nil || sink.Canceled() {
			r.kill(cmd, waitErr, logger)
			logger.Info("ogr2ogr canceled", "duration", time.Since(began).Round(time.Millisecond))
			return output.String(), canceledError()
		}
		select {
		case chunk := <-chunks:
			consume(chunk)
		case werr := <-waitErr:
			r.drain(chunks, readDone, consume)
			return r.finish(werr, output.String(), tracker, logger, time.Since(began))
		case <-ticker.C:
		case <-ctx.Done():
		}
	}
}

// start launches cmd, giving up after StartTimeout. The parent's copy of the
// pipe writer is closed once the child holds its own.
func (r *Runner) start(cmd *exec.Cmd, pr, pw *os.File) error {
	started := make(chan error, 1)
	go func() { started <- cmd.Start() }()

	timer := time.NewTimer(r.startTimeout())
	defer timer.Stop()
	select {
	case err := <-started:
		_ = pw.Close()
		if err != nil {
			_ = pr.Close()
		}
		return err
	case <-timer.C:
		go func() {
			if err := <-started; err == nil {
				killProcess(cmd)
				_ = cmd.Wait()
			}
			_ = pw.Close()
			_ = pr.Close()
		}()
		return fmt.Errorf("process did not start within %s", r.startTimeout())
	}
}

func readChunks(pr *os.File, chunks chan<- []byte, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	buf := make([]byte, readBufferSize)
	for {
		n, err := pr.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case chunks <- chunk:
			case <-stop:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// drain collects output still buffered in the pipe after exit. A descendant
// holding the pipe open cannot stall it beyond KillTimeout.
func (r *Runner) drain(chunks <-chan []byte, readDone <-chan struct{}, consume func([]byte)) {
	timer := time.NewTimer(r.killTimeout())
	defer timer.Stop()
	for {
		select {
		case chunk := <-chunks:
			consume(chunk)
		case <-readDone:
			return
		case <-timer.C:
			return
		}
	}
}

func (r *Runner) kill(cmd *exec.Cmd, waitErr <-chan error, logger *slog.Logger) {
	killProcess(cmd)
	timer := time.NewTimer(r.killTimeout())
	defer timer.Stop()
	select {
	case <-waitErr:
	case <-timer.C:
		logging.WarnWithContext(logger, "ogr2ogr did not exit after kill", "process_kill",
			logging.Int("pid", cmd.Process.Pid),
			logging.String(logging.FieldImpact, "process may linger until it notices the closed pipe"),
		)
	}
}

func (r *Runner) finish(werr error, output string, tracker *progressTracker, logger *slog.Logger, elapsed time.Duration) (string, error) {
	elapsed = elapsed.Round(time.Millisecond)
	if werr == nil {
		tracker.complete()
		logger.Debug("ogr2ogr finished", "exit_code", 0, "duration", elapsed)
		return output, nil
	}
	var exitErr *exec.ExitError
	if errors.As(werr, &exitErr) {
		logger.Debug("ogr2ogr failed", "exit_code", exitErr.ExitCode(), "duration", elapsed)
		return output, &ExitError{Code: exitErr.ExitCode(), Output: output}
	}
	return output, services.Wrap(services.ErrExternalTool, "ogr2ogr", "wait", "", werr)
}

func canceledError() error {
	return services.Wrap(services.ErrCanceled, "ogr2ogr", "run", "conversion canceled", nil)
}
