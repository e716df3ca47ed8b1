package progress

import (
	"log/slog"
	"regexp"

	"sosi2gpkg/internal/logging"
)

// Log reports progress as sampled log lines. It is used when stderr is not a
// terminal or when output is JSON.
type Log struct {
	Canceler

	logger      *slog.Logger
	sampler     *logging.ProgressSampler
	determinate bool
	label       string
	value       int
}

var percentSuffix = regexp.MustCompile(`\s*\(\d{1,3}%\)$`)

// NewLog creates a log-backed sink. Progress is logged at info level when the
// label changes or the percentage crosses a 10% bucket.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Log{
		logger:  logging.NewComponentLogger(logger, "progress"),
		sampler: logging.NewProgressSampler(10),
		value:   -1,
	}
}

func (l *Log) Indeterminate() {
	l.determinate = false
	l.value = -1
	l.sampler.Reset()
}

func (l *Log) Determinate() {
	l.determinate = true
}

func (l *Log) SetValue(percent int) {
	if !l.determinate {
		return
	}
	l.value = Clamp(percent)
	l.emit()
}

func (l *Log) SetLabel(label string) {
	l.label = label
	l.emit()
}

func (l *Log) emit() {
	base := percentSuffix.ReplaceAllString(l.label, "")
	if !l.sampler.ShouldLog(l.value, base) {
		return
	}
	if l.value < 0 {
		l.logger.Info(base)
		return
	}
	l.logger.Info(base, logging.Int("percent", l.value))
}
