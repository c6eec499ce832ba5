package metrics

import (
	"context"
	"math/rand"
	"time"

	"github.com/mkoster/presage/pkg/models"
)

// Bounds for synthetic metrics. Chosen to produce change-sets that
// exercise every scoring dimension without always hitting the caps.
const (
	syntheticMinFiles = 1
	syntheticMaxFiles = 30

	syntheticMinAdditions = 50
	syntheticMaxAdditions = 449

	syntheticMinDeletions = 20
	syntheticMaxDeletions = 219
)

// SyntheticProvider generates bounded pseudo-random metrics so the
// scoring pipeline can run without a real repository. Results are
// marked Synthetic; production callers should use GitProvider.
type SyntheticProvider struct {
	rng *rand.Rand
}

// NewSyntheticProvider creates a provider seeded from the current time.
func NewSyntheticProvider() *SyntheticProvider {
	return NewSeededSyntheticProvider(time.Now().UnixNano())
}

// NewSeededSyntheticProvider creates a provider with a fixed seed for
// deterministic output in tests.
func NewSeededSyntheticProvider(seed int64) *SyntheticProvider {
	return &SyntheticProvider{rng: rand.New(rand.NewSource(seed))}
}

// Collect returns a random metrics record within the configured bounds.
func (p *SyntheticProvider) Collect(_ context.Context) (models.ChangeMetrics, error) {
	m := models.NewChangeMetrics(
		p.intn(syntheticMinFiles, syntheticMaxFiles),
		p.intn(syntheticMinAdditions, syntheticMaxAdditions),
		p.intn(syntheticMinDeletions, syntheticMaxDeletions),
		nil,
	)
	m.Synthetic = true
	return m, nil
}

// intn returns a random int in [min, max].
func (p *SyntheticProvider) intn(min, max int) int {
	return min + p.rng.Intn(max-min+1)
}
