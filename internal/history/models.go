package history

import "time"

// Status values recorded for a run.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
	StatusAborted   = "aborted"
)

// Run is one import attempt from conversion onwards.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Input      string
	Output     string
	// Koordsys is nil when the input declared no coordinate system.
	Koordsys   *int
	CRS        string
	Mode       string
	Workaround bool
	Layers     int
	Status     string
	Error      string
}

// Duration is the wall time of the run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
