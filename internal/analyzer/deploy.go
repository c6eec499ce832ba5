// Package analyzer assesses deployment risk for git change-sets.
package analyzer

import (
	"context"
	"time"

	"github.com/mkoster/presage/internal/metrics"
	"github.com/mkoster/presage/internal/vcs"
	"github.com/mkoster/presage/pkg/models"
)

// DefaultGitTimeout bounds git operations for a single analysis.
const DefaultGitTimeout = 2 * time.Minute

// DeployAnalyzer scores the deployment risk of a repository's HEAD
// change-set using weighted, independently capped risk dimensions.
type DeployAnalyzer struct {
	scoring models.ScoringConfig
	opener  vcs.Opener
}

// DeployOption is a functional option for configuring DeployAnalyzer.
type DeployOption func(*DeployAnalyzer)

// WithScoring sets the scoring thresholds and critical paths.
func WithScoring(cfg models.ScoringConfig) DeployOption {
	return func(a *DeployAnalyzer) {
		a.scoring = cfg
	}
}

// WithOpener sets the VCS opener (useful for testing).
func WithOpener(opener vcs.Opener) DeployOption {
	return func(a *DeployAnalyzer) {
		a.opener = opener
	}
}

// NewDeployAnalyzer creates a deployment risk analyzer.
// Returns an error if the scoring configuration is invalid.
func NewDeployAnalyzer(opts ...DeployOption) (*DeployAnalyzer, error) {
	a := &DeployAnalyzer{
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

// AnalyzeRepo assesses the HEAD change-set of the repository at repoPath.
func (a *DeployAnalyzer) AnalyzeRepo(repoPath string) (*models.RiskAssessment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultGitTimeout)
	defer cancel()
	return a.AnalyzeRepoWithContext(ctx, repoPath)
}

// AnalyzeRepoWithContext assesses with context for cancellation/timeout.
func (a *DeployAnalyzer) AnalyzeRepoWithContext(ctx context.Context, repoPath string) (*models.RiskAssessment, error) {
	provider := metrics.NewGitProvider(repoPath, metrics.WithOpener(a.opener))
	return a.AnalyzeProvider(ctx, provider)
}

// AnalyzeProvider assesses metrics from an arbitrary provider. This is
// how the synthetic demo provider plugs into the same pipeline.
func (a *DeployAnalyzer) AnalyzeProvider(ctx context.Context, provider metrics.Provider) (*models.RiskAssessment, error) {
	m, err := provider.Collect(ctx)
	if err != nil {
		return nil, err
	}
	return models.Assess(m, a.scoring), nil
}

// Close releases analyzer resources.
func (a *DeployAnalyzer) Close() {
	// No resources to release
}
