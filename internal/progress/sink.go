package progress

import "sync/atomic"

// Sink receives progress updates and reports cancellation requests.
type Sink interface {
	Indeterminate()
	Determinate()
	SetValue(percent int)
	SetLabel(label string)
	Canceled() bool
}

// Canceler is embedded by sinks that can be canceled from another goroutine,
// such as a signal handler.
type Canceler struct {
	canceled atomic.Bool
}

// Cancel marks the sink canceled.
func (c *Canceler) Cancel() { c.canceled.Store(true) }

// Canceled reports whether Cancel was called.
func (c *Canceler) Canceled() bool { return c.canceled.Load() }

// Nop discards updates. It is canceled only through its embedded Canceler.
type Nop struct {
	Canceler
}

func (*Nop) Indeterminate()  {}
func (*Nop) Determinate()    {}
func (*Nop) SetValue(int)    {}
func (*Nop) SetLabel(string) {}

// OrNop returns s, or a Nop sink when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return &Nop{}
	}
	return s
}

// Clamp limits percent to the 0..100 range.
func Clamp(percent int) int {
	return max(0, min(100, percent))
}
