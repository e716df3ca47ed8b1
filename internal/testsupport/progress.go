package testsupport

import (
	"fmt"
	"sync"
)

// Recorder is a progress.Sink that records every call.
type Recorder struct {
	mu       sync.Mutex
	events   []string
	values   []int
	labels   []string
	canceled bool

	// CancelAfterValues makes Canceled report true once this many values
	// have been pushed. Zero disables it.
	CancelAfterValues int
}

func (r *Recorder) Indeterminate() { r.add("indeterminate") }

func (r *Recorder) Determinate() { r.add("determinate") }

func (r *Recorder) SetValue(v int) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
	r.add(fmt.Sprintf("value:%d", v))
}

func (r *Recorder) SetLabel(label string) {
	r.mu.Lock()
	r.labels = append(r.labels, label)
	r.mu.Unlock()
	r.add("label:" + label)
}

// Cancel requests cancellation.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canceled = true
}

func (r *Recorder) Canceled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CancelAfterValues > 0 && len(r.values) >= r.CancelAfterValues {
		return true
	}
	return r.canceled
}

// Events returns the recorded calls in order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Values returns every value pushed.
func (r *Recorder) Values() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.values...)
}

// Labels returns every label set.
func (r *Recorder) Labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.labels...)
}

// Count returns how often event was recorded.
func (r *Recorder) Count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func (r *Recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}
