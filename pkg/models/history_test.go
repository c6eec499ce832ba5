package models

import (
	"math"
	"testing"
)

func TestComputeTrendStats(t *testing.T) {
	tests := []struct {
		name      string
		scores    []int
		wantSlope [2]float64 // min, max
	}{
		{"empty", nil, [2]float64{0, 0}},
		{"single commit", []int{40}, [2]float64{0, 0}},
		{"rising risk", []int{10, 20, 30, 40}, [2]float64{9.9, 10.1}},
		{"falling risk", []int{80, 60, 40, 20}, [2]float64{-20.1, -19.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commits := make([]CommitAssessment, len(tt.scores))
			for i, s := range tt.scores {
				commits[i] = CommitAssessment{Score: s}
			}

			stats := ComputeTrendStats(commits)
			if stats.Slope < tt.wantSlope[0] || stats.Slope > tt.wantSlope[1] {
				t.Errorf("Slope = %v, want in [%v, %v]", stats.Slope, tt.wantSlope[0], tt.wantSlope[1])
			}
		})
	}
}

func TestComputeTrendStatsPerfectFit(t *testing.T) {
	commits := []CommitAssessment{{Score: 5}, {Score: 15}, {Score: 25}, {Score: 35}}
	stats := ComputeTrendStats(commits)

	if math.Abs(stats.RSquared-1.0) > 1e-9 {
		t.Errorf("RSquared = %v, want 1.0 for a perfectly linear series", stats.RSquared)
	}
	if math.Abs(stats.Correlation-1.0) > 1e-9 {
		t.Errorf("Correlation = %v, want 1.0", stats.Correlation)
	}
}
