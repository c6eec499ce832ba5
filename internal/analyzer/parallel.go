package analyzer

import (
	"context"

	"github.com/mkoster/presage/pkg/models"
	"github.com/sourcegraph/conc"
)

// RepoAssessment pairs a repository path with its assessment result.
// Error mirrors Err as a string so failures survive serialization.
type RepoAssessment struct {
	Path       string                 `json:"path"`
	Assessment *models.RiskAssessment `json:"assessment,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Err        error                  `json:"-"`
}

// AnalyzeRepos assesses multiple repositories concurrently. Results are
// returned in input order; per-repository failures are recorded rather
// than aborting the batch.
func (a *DeployAnalyzer) AnalyzeRepos(ctx context.Context, paths []string) []RepoAssessment {
	return a.AnalyzeReposWithProgress(ctx, paths, nil)
}

// AnalyzeReposWithProgress is AnalyzeRepos with a callback invoked after
// each repository completes.
func (a *DeployAnalyzer) AnalyzeReposWithProgress(ctx context.Context, paths []string, onDone func()) []RepoAssessment {
	results := make([]RepoAssessment, len(paths))

	wg := conc.NewWaitGroup()
	for i, path := range paths {
		i, path := i, path
		wg.Go(func() {
			assessment, err := a.AnalyzeRepoWithContext(ctx, path)
			result := RepoAssessment{Path: path, Assessment: assessment, Err: err}
			if err != nil {
				result.Error = err.Error()
			}
			results[i] = result
			if onDone != nil {
				onDone()
			}
		})
	}
	wg.Wait()

	return results
}
