package logging

import "strings"

// ProgressSampler suppresses repetitive progress logs while preserving signal
// when the label or percentage bucket changes.
type ProgressSampler struct {
	bucketSize int
	lastLabel  string
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 10%) or when the label changes.
func NewProgressSampler(bucketSize int) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event should be logged. A negative
// percent means "busy, no value" and only a label change emits.
func (s *ProgressSampler) ShouldLog(percent int, label string) bool {
	if s == nil {
		return true
	}
	label = strings.TrimSpace(label)
	emit := false
	if label != "" && label != s.lastLabel {
		s.lastLabel = label
		s.lastBucket = -1
		emit = true
	}
	if percent >= 0 {
		bucket := min(percent, 100) / s.bucketSize
		if bucket > s.lastBucket {
			s.lastBucket = bucket
			emit = true
		}
	}
	return emit
}

// Reset clears the sampler state before a new conversion attempt.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastLabel = ""
	s.lastBucket = -1
}
