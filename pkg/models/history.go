package models

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// CommitAssessment is the risk assessment of a single historical commit.
type CommitAssessment struct {
	CommitHash string    `json:"commit_hash"`
	Author     string    `json:"author"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`

	Score          int          `json:"score"`
	Level          RiskLevel    `json:"level"`
	Factors        []RiskFactor `json:"factors"`
	Recommendation string       `json:"recommendation"`
	Approval       string       `json:"approval"`
}

// HistoryAnalysis is the result of assessing every commit in a period.
type HistoryAnalysis struct {
	GeneratedAt time.Time          `json:"generated_at"`
	PeriodDays  int                `json:"period_days"`
	Config      ScoringConfig      `json:"config"`
	Commits     []CommitAssessment `json:"commits"`
	Summary     HistorySummary     `json:"summary"`
}

// HistorySummary aggregates per-commit assessments.
type HistorySummary struct {
	TotalCommits  int        `json:"total_commits"`
	CriticalCount int        `json:"critical_count"`
	HighCount     int        `json:"high_count"`
	MediumCount   int        `json:"medium_count"`
	LowCount      int        `json:"low_count"`
	AvgScore      float64    `json:"avg_score"`
	MaxScore      int        `json:"max_score"`
	Trend         TrendStats `json:"trend"`
}

// NewHistoryAnalysis creates an initialized history analysis.
func NewHistoryAnalysis() *HistoryAnalysis {
	return &HistoryAnalysis{
		GeneratedAt: time.Now().UTC(),
		Commits:     make([]CommitAssessment, 0),
	}
}

// TrendStats holds regression statistics over chronological risk scores.
type TrendStats struct {
	Slope       float64 `json:"slope"` // score change per commit
	Intercept   float64 `json:"intercept"`
	RSquared    float64 `json:"r_squared"`   // goodness of fit (0-1)
	Correlation float64 `json:"correlation"` // Pearson correlation (-1 to 1)
}

// ComputeTrendStats fits a linear trend to scores in chronological
// order. Returns zero values for fewer than 2 commits.
func ComputeTrendStats(commits []CommitAssessment) TrendStats {
	n := len(commits)
	if n < 2 {
		return TrendStats{}
	}

	xs := make([]float64, n) // commit index, oldest first
	ys := make([]float64, n)
	for i, c := range commits {
		xs[i] = float64(i)
		ys[i] = float64(c.Score)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	return TrendStats{
		Slope:       slope,
		Intercept:   intercept,
		RSquared:    stat.RSquared(xs, ys, nil, intercept, slope),
		Correlation: stat.Correlation(xs, ys, nil),
	}
}
