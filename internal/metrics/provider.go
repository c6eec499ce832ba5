// Package metrics collects change-set metrics for risk scoring.
//
// Metrics come from a Provider: GitProvider reads the real change-set
// from a repository, SyntheticProvider generates bounded random values
// for demo and exploratory use. The scoring engine itself never guesses
// at missing data; callers choose a provider explicitly.
package metrics

import (
	"context"

	"github.com/mkoster/presage/pkg/models"
)

// Provider supplies a complete metrics record for one change-set.
type Provider interface {
	Collect(ctx context.Context) (models.ChangeMetrics, error)
}
