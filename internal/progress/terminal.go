package progress

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Terminal renders progress as a bar on an interactive terminal. An
// indeterminate sink shows a spinner; Determinate swaps in a 0..100 bar.
type Terminal struct {
	Canceler

	mu          sync.Mutex
	out         io.Writer
	bar         *progressbar.ProgressBar
	determinate bool
	closed      bool
	label       string
}

// NewTerminal creates a sink that draws on out.
func NewTerminal(out io.Writer) *Terminal {
	t := &Terminal{out: out}
	t.bar = t.newBar(-1)
	return t
}

func (t *Terminal) newBar(max int) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(t.out),
		progressbar.OptionSetDescription(t.label),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100 * time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	}
	if max > 0 {
		opts = append(opts,
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerPadding: "░",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	} else {
		opts = append(opts, progressbar.OptionSpinnerType(14))
	}
	return progressbar.NewOptions(max, opts...)
}

func (t *Terminal) Indeterminate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || !t.determinate {
		return
	}
	t.determinate = false
	_ = t.bar.Clear()
	t.bar = t.newBar(-1)
}

func (t *Terminal) Determinate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.determinate {
		return
	}
	t.determinate = true
	_ = t.bar.Clear()
	t.bar = t.newBar(100)
}

func (t *Terminal) SetValue(percent int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if !t.determinate {
		_ = t.bar.Add(1)
		return
	}
	_ = t.bar.Set(Clamp(percent))
}

func (t *Terminal) SetLabel(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.label = label
	t.bar.Describe(label)
}

// Close clears the bar from the terminal. Later updates are dropped.
func (t *Terminal) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	_ = t.bar.Finish()
}
