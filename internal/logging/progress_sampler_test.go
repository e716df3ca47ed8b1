package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize int
		wantSize   int
	}{
		{"default bucket size for zero", 0, 10},
		{"default bucket size for negative", -1, 10},
		{"custom bucket size", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %d, want %d", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "Converting") {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset()
}

func TestProgressSampler_LabelChange(t *testing.T) {
	s := NewProgressSampler(10)

	if !s.ShouldLog(0, "Converting (fast)...") {
		t.Error("first label should log")
	}
	if s.ShouldLog(0, "Converting (fast)...") {
		t.Error("same label and percent should not log again")
	}
	if !s.ShouldLog(0, "  Converting (robust)...  ") {
		t.Error("new label should log")
	}
	if s.lastLabel != "Converting (robust)..." {
		t.Errorf("lastLabel = %q, want trimmed label", s.lastLabel)
	}
}

func TestProgressSampler_PercentBuckets(t *testing.T) {
	s := NewProgressSampler(10)
	steps := []struct {
		percent int
		want    bool
	}{
		{0, true},
		{7, false},
		{10, true},
		{19, false},
		{45, true},
		{30, false},
		{100, true},
		{130, false},
	}
	for _, step := range steps {
		if got := s.ShouldLog(step.percent, "Converting"); got != step.want {
			t.Errorf("ShouldLog(%d) = %v, want %v", step.percent, got, step.want)
		}
	}
}

func TestProgressSampler_BusyPercent(t *testing.T) {
	s := NewProgressSampler(10)
	if !s.ShouldLog(-1, "Preparing workaround...") {
		t.Error("first call should log on label change")
	}
	if s.ShouldLog(-1, "Preparing workaround...") {
		t.Error("busy percent should not trigger bucket logging")
	}
}

func TestProgressSampler_ResetAndLabelChangeRestartBuckets(t *testing.T) {
	s := NewProgressSampler(10)
	s.ShouldLog(80, "Converting (fast)...")
	s.ShouldLog(0, "Converting (robust)...")
	if !s.ShouldLog(10, "Converting (robust)...") {
		t.Error("10% should log after label change reset the bucket")
	}

	s.Reset()
	if s.lastLabel != "" || s.lastBucket != -1 {
		t.Errorf("reset left state label=%q bucket=%d", s.lastLabel, s.lastBucket)
	}
	if !s.ShouldLog(50, "Converting (robust)...") {
		t.Error("should log after reset")
	}
}
