package analyzer

import (
	"context"
	"strings"
	"time"

	"github.com/mkoster/presage/internal/metrics"
	"github.com/mkoster/presage/internal/vcs"
	"github.com/mkoster/presage/pkg/models"
)

// HistoryAnalyzer assesses each commit in a period independently,
// showing how deployment risk has trended over recent history.
type HistoryAnalyzer struct {
	days      int
	scoring   models.ScoringConfig
	opener    vcs.Opener
	reference time.Time // Reference time for analysis (defaults to time.Now())
}

// HistoryOption is a functional option for configuring HistoryAnalyzer.
type HistoryOption func(*HistoryAnalyzer)

// WithHistoryDays sets the number of days of git history to assess.
func WithHistoryDays(days int) HistoryOption {
	return func(a *HistoryAnalyzer) {
		if days > 0 {
			a.days = days
		}
	}
}

// WithHistoryScoring sets the scoring thresholds and critical paths.
func WithHistoryScoring(cfg models.ScoringConfig) HistoryOption {
	return func(a *HistoryAnalyzer) {
		a.scoring = cfg
	}
}

// WithHistoryOpener sets the VCS opener (useful for testing).
func WithHistoryOpener(opener vcs.Opener) HistoryOption {
	return func(a *HistoryAnalyzer) {
		a.opener = opener
	}
}

// WithHistoryReferenceTime sets the reference time for analysis.
// Useful for reproducible tests or historical analysis.
func WithHistoryReferenceTime(t time.Time) HistoryOption {
	return func(a *HistoryAnalyzer) {
		a.reference = t
	}
}

// NewHistoryAnalyzer creates a history risk analyzer.
// Returns an error if the scoring configuration is invalid.
func NewHistoryAnalyzer(opts ...HistoryOption) (*HistoryAnalyzer, error) {
	a := &HistoryAnalyzer{
		days:    30,
		scoring: models.DefaultScoringConfig(),
		opener:  vcs.DefaultOpener(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.scoring.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// AnalyzeRepo assesses every commit in the configured period.
func (a *HistoryAnalyzer) AnalyzeRepo(repoPath string) (*models.HistoryAnalysis, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultGitTimeout)
	defer cancel()
	return a.AnalyzeRepoWithContext(ctx, repoPath)
}

// AnalyzeRepoWithContext assesses with context for cancellation/timeout.
func (a *HistoryAnalyzer) AnalyzeRepoWithContext(ctx context.Context, repoPath string) (*models.HistoryAnalysis, error) {
	repo, err := a.opener.PlainOpenWithDetect(repoPath)
	if err != nil {
		return nil, err
	}

	refTime := a.reference
	if refTime.IsZero() {
		refTime = time.Now()
	}
	cutoff := refTime.AddDate(0, 0, -a.days)

	logIter, err := repo.Log(&vcs.LogOptions{
		Since: &cutoff,
	})
	if err != nil {
		return nil, err
	}
	defer logIter.Close()

	analysis := models.NewHistoryAnalysis()
	analysis.PeriodDays = a.days
	analysis.Config = a.scoring

	// git log returns newest-first
	err = logIter.ForEach(func(commit vcs.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Skip the initial commit (no parent to diff against) and
		// merge commits (a first-parent diff would misattribute the
		// whole merged branch to the merge).
		if commit.NumParents() != 1 {
			return nil
		}

		m, err := metrics.FromCommit(commit)
		if err != nil {
			return nil
		}

		assessment := models.Assess(m, a.scoring)
		analysis.Commits = append(analysis.Commits, models.CommitAssessment{
			CommitHash:     commit.Hash().String(),
			Author:         commit.Author().Name,
			Message:        truncateMessage(commit.Message()),
			Timestamp:      commit.Author().When,
			Score:          assessment.Score,
			Level:          assessment.Level,
			Factors:        assessment.Factors,
			Recommendation: assessment.Recommendation,
			Approval:       assessment.Approval,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reverse to chronological order for the trend fit.
	reverseCommits(analysis.Commits)
	analysis.Summary = summarize(analysis.Commits)

	return analysis, nil
}

// summarize aggregates per-commit assessments in chronological order.
func summarize(commits []models.CommitAssessment) models.HistorySummary {
	summary := models.HistorySummary{
		TotalCommits: len(commits),
		Trend:        models.ComputeTrendStats(commits),
	}

	total := 0
	for _, c := range commits {
		total += c.Score
		if c.Score > summary.MaxScore {
			summary.MaxScore = c.Score
		}
		switch c.Level {
		case models.RiskCritical:
			summary.CriticalCount++
		case models.RiskHigh:
			summary.HighCount++
		case models.RiskMedium:
			summary.MediumCount++
		case models.RiskLow:
			summary.LowCount++
		}
	}
	if len(commits) > 0 {
		summary.AvgScore = float64(total) / float64(len(commits))
	}

	return summary
}

// reverseCommits flips a newest-first log into chronological order.
func reverseCommits(commits []models.CommitAssessment) {
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
}

// truncateMessage truncates a commit message to its first line or 80 chars.
func truncateMessage(message string) string {
	if idx := strings.Index(message, "\n"); idx > 0 {
		message = message[:idx]
	}
	if len(message) > 80 {
		message = message[:77] + "..."
	}
	return strings.TrimSpace(message)
}

// Close releases analyzer resources.
func (a *HistoryAnalyzer) Close() {
	// No resources to release
}
