package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 10},
		{"default bucket size for negative", -1, 10},
		{"custom bucket size", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "convert") {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset()
}

func TestProgressSampler_StageChange(t *testing.T) {
	s := NewProgressSampler(10)
	if !s.ShouldLog(0, "convert") {
		t.Error("first stage should log")
	}
	if s.ShouldLog(0, "convert") {
		t.Error("same stage and percent should not log again")
	}
	if !s.ShouldLog(0, "compress") {
		t.Error("different stage should log")
	}
}

func TestProgressSampler_Counts(t *testing.T) {
	s := NewProgressSampler(25)
	var emitted []int
	for done := 0; done <= 8; done++ {
		if s.ShouldLogCount(done, 8, "convert") {
			emitted = append(emitted, done)
		}
	}
	want := []int{0, 2, 4, 6, 8}
	if len(emitted) != len(want) {
		t.Fatalf("emitted %v, want %v", emitted, want)
	}
	for i := range want {
		if emitted[i] != want[i] {
			t.Fatalf("emitted %v, want %v", emitted, want)
		}
	}
}

func TestProgressSampler_ResetAllowsReplay(t *testing.T) {
	s := NewProgressSampler(10)
	s.ShouldLog(50, "convert")
	s.Reset()
	if !s.ShouldLog(50, "convert") {
		t.Error("expected emit after reset")
	}
}
