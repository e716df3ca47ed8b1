package progress_test

import (
	"bytes"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sosi2gpkg/internal/logging"
	"sosi2gpkg/internal/progress"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, progress.Clamp(-5))
	assert.Equal(t, 45, progress.Clamp(45))
	assert.Equal(t, 100, progress.Clamp(250))
}

func TestNopCancel(t *testing.T) {
	sink := progress.OrNop(nil)
	assert.False(t, sink.Canceled())

	nop := &progress.Nop{}
	nop.Cancel()
	assert.True(t, nop.Canceled())
}

func newTestLogger(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	require.NoError(t, err)
	return logger, &buf
}

func TestLogSinkSamplesPercentUpdates(t *testing.T) {
	logger, buf := newTestLogger(t)
	sink := progress.NewLog(logger)

	sink.Indeterminate()
	sink.SetLabel("Converting (fast)...")
	sink.SetLabel("Converting (fast)...")
	sink.Determinate()
	for _, v := range []int{1, 2, 3, 12, 13, 45, 100} {
		sink.SetValue(v)
		sink.SetLabel("Converting (fast)... (" + strconv.Itoa(v) + "%)")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// label, then buckets 0, 10, 40, 100.
	require.Len(t, lines, 5, buf.String())
	assert.Contains(t, lines[0], "progress: Converting (fast)...")
	assert.NotContains(t, lines[0], "percent=")
	assert.Contains(t, lines[4], "percent=100")
}

func TestLogSinkIgnoresValuesWhileIndeterminate(t *testing.T) {
	logger, buf := newTestLogger(t)
	sink := progress.NewLog(logger)
	sink.SetValue(50)
	assert.Empty(t, buf.String())
}

func TestTerminalSinkDrawsAndCancels(t *testing.T) {
	var out bytes.Buffer
	sink := progress.NewTerminal(&out)
	sink.SetLabel("Converting (fast)...")
	sink.SetValue(0)
	sink.Determinate()
	sink.SetValue(40)
	sink.SetValue(100)
	sink.Close()

	assert.False(t, sink.Canceled())
	sink.Cancel()
	assert.True(t, sink.Canceled())
}

func TestTerminalSinkIgnoresUpdatesAfterClose(t *testing.T) {
	var out bytes.Buffer
	sink := progress.NewTerminal(&out)
	sink.Close()
	written := out.Len()

	sink.Determinate()
	sink.SetValue(50)
	sink.SetLabel("late")
	sink.Close()
	assert.Equal(t, written, out.Len())
}
