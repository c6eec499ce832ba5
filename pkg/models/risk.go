package models

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

// ErrInvalidThreshold is returned when a scoring threshold is not a positive integer.
var ErrInvalidThreshold = errors.New("threshold must be positive")

// ChangeMetrics describes the size and shape of a change-set.
type ChangeMetrics struct {
	FilesChanged int      `json:"files_changed"`
	Additions    int      `json:"additions"`
	Deletions    int      `json:"deletions"`
	TotalLines   int      `json:"total_lines"` // Additions + Deletions
	ChangedPaths []string `json:"changed_paths,omitempty"`
	Synthetic    bool     `json:"synthetic,omitempty"` // true when metrics came from the demo provider
}

// NewChangeMetrics builds a complete metrics record from raw counts.
func NewChangeMetrics(filesChanged, additions, deletions int, changedPaths []string) ChangeMetrics {
	return ChangeMetrics{
		FilesChanged: filesChanged,
		Additions:    additions,
		Deletions:    deletions,
		TotalLines:   additions + deletions,
		ChangedPaths: changedPaths,
	}
}

// DeletionRatio returns deletions relative to additions. The +1 keeps the
// ratio defined for pure-deletion change-sets.
func (m ChangeMetrics) DeletionRatio() float64 {
	return float64(m.Deletions) / float64(m.Additions+1)
}

// Fingerprint returns a BLAKE3 hash identifying the change-set, computed
// from the counts and the sorted changed paths. Two assessments of the
// same change-set share a fingerprint regardless of when they ran.
func (m ChangeMetrics) Fingerprint() string {
	paths := make([]string, len(m.ChangedPaths))
	copy(paths, m.ChangedPaths)
	sort.Strings(paths)

	var b strings.Builder
	fmt.Fprintf(&b, "files=%d;add=%d;del=%d;", m.FilesChanged, m.Additions, m.Deletions)
	for _, p := range paths {
		b.WriteString(p)
		b.WriteByte('\n')
	}

	hash := blake3.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])
}

// ScoringConfig holds the thresholds the scorer normalizes against.
type ScoringConfig struct {
	FilesChangedThreshold int      `json:"files_changed_threshold"`
	LinesChangedThreshold int      `json:"lines_changed_threshold"`
	CriticalPaths         []string `json:"critical_paths,omitempty"`
}

// DefaultScoringConfig returns the standard thresholds.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		FilesChangedThreshold: 20,
		LinesChangedThreshold: 500,
	}
}

// Validate rejects non-positive thresholds before they reach the scorer.
// Dividing by a zero or negative threshold has no meaningful result, so
// configuration errors fail here rather than producing a bogus score.
func (c ScoringConfig) Validate() error {
	if c.FilesChangedThreshold <= 0 {
		return fmt.Errorf("files_changed_threshold %d: %w", c.FilesChangedThreshold, ErrInvalidThreshold)
	}
	if c.LinesChangedThreshold <= 0 {
		return fmt.Errorf("lines_changed_threshold %d: %w", c.LinesChangedThreshold, ErrInvalidThreshold)
	}
	return nil
}

// Dimension weights. Each dimension's contribution is capped at its
// weight, and the weights sum to 100 so a fully maxed change-set lands
// exactly on the score ceiling.
const (
	WeightFilesChanged  = 30.0
	WeightLinesChanged  = 35.0
	WeightCriticalPath  = 25.0
	WeightDeletionRatio = 10.0

	// DeletionRatioTrigger is the ratio above which the deletion
	// dimension contributes to the score.
	DeletionRatioTrigger = 0.5
)

// Impact labels a single dimension's contribution.
type Impact string

const (
	ImpactNone   Impact = "none"
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// RiskFactor is one scored dimension of a change-set.
type RiskFactor struct {
	Name      string  `json:"name"`
	Observed  float64 `json:"observed"`            // raw metric value (1/0 for boolean dimensions)
	Threshold float64 `json:"threshold,omitempty"` // normalization threshold, 0 for boolean dimensions
	Score     float64 `json:"score"`               // capped contribution to the total
	Impact    Impact  `json:"impact"`
}

// RiskLevel represents the overall deployment risk level.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"      // < 25
	RiskMedium   RiskLevel = "medium"   // 25 - 49
	RiskHigh     RiskLevel = "high"     // 50 - 74
	RiskCritical RiskLevel = "critical" // >= 75
)

// Rank returns the position of the level in the order
// low < medium < high < critical.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskCritical:
		return 3
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// RiskAssessment is the full result of scoring one change-set.
type RiskAssessment struct {
	Score          int           `json:"score"` // 0-100
	Level          RiskLevel     `json:"level"`
	Factors        []RiskFactor  `json:"factors"`
	Metrics        ChangeMetrics `json:"metrics"`
	Recommendation string        `json:"recommendation"`
	Approval       string        `json:"approval"`
	Fingerprint    string        `json:"fingerprint"`
	GeneratedAt    time.Time     `json:"generated_at"`
}

// Blocking reports whether automated progression should halt on this
// assessment. Critical changes require a human decision.
func (a *RiskAssessment) Blocking() bool {
	return a.Level == RiskCritical
}

// ScoreChange evaluates every risk dimension against the metrics and
// returns the factors in evaluation order along with the raw total.
// The order (files, lines, critical paths, deletion ratio) is part of
// the contract: it fixes the factor sequence callers see.
func ScoreChange(m ChangeMetrics, cfg ScoringConfig) ([]RiskFactor, float64) {
	factors := make([]RiskFactor, 0, 4)

	files := capped(float64(m.FilesChanged)/float64(cfg.FilesChangedThreshold)*WeightFilesChanged, WeightFilesChanged)
	factors = append(factors, RiskFactor{
		Name:      "Files Changed",
		Observed:  float64(m.FilesChanged),
		Threshold: float64(cfg.FilesChangedThreshold),
		Score:     files,
		Impact:    gradedImpact(files, 20, 10),
	})

	lines := capped(float64(m.TotalLines)/float64(cfg.LinesChangedThreshold)*WeightLinesChanged, WeightLinesChanged)
	factors = append(factors, RiskFactor{
		Name:      "Lines Changed",
		Observed:  float64(m.TotalLines),
		Threshold: float64(cfg.LinesChangedThreshold),
		Score:     lines,
		Impact:    gradedImpact(lines, 25, 15),
	})

	if len(cfg.CriticalPaths) > 0 {
		factor := RiskFactor{Name: "Critical Paths", Impact: ImpactNone}
		if TouchesCriticalPath(m.ChangedPaths, cfg.CriticalPaths) {
			factor.Observed = 1
			factor.Score = WeightCriticalPath
			factor.Impact = ImpactHigh
		}
		factors = append(factors, factor)
	}

	if ratio := m.DeletionRatio(); ratio > DeletionRatioTrigger {
		factors = append(factors, RiskFactor{
			Name:      "Deletion Ratio",
			Observed:  ratio,
			Threshold: DeletionRatioTrigger,
			Score:     WeightDeletionRatio,
			Impact:    ImpactMedium,
		})
	}

	total := 0.0
	for _, f := range factors {
		total += f.Score
	}
	return factors, total
}

// TouchesCriticalPath reports whether any changed path starts with one
// of the configured critical-path prefixes.
func TouchesCriticalPath(changed, prefixes []string) bool {
	for _, path := range changed {
		for _, prefix := range prefixes {
			if prefix != "" && strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}
	return false
}

// Classify maps a raw factor total to the clamped integer score and its
// risk level. Rounding is half-up on the post-cap sum.
func Classify(raw float64) (int, RiskLevel) {
	score := int(math.Round(math.Min(raw, 100)))
	if score < 0 {
		score = 0
	}
	return score, LevelForScore(score)
}

// LevelForScore maps a clamped score to its risk level. Thresholds are
// inclusive lower bounds, evaluated highest first.
func LevelForScore(score int) RiskLevel {
	switch {
	case score >= 75:
		return RiskCritical
	case score >= 50:
		return RiskHigh
	case score >= 25:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Recommendation returns the deployment guidance for a level.
func Recommendation(level RiskLevel) string {
	switch level {
	case RiskCritical:
		return "Deploy during maintenance window with full team availability"
	case RiskHigh:
		return "Deploy during low-traffic hours with rollback plan ready"
	case RiskMedium:
		return "Standard deployment process with monitoring"
	default:
		return "Safe to deploy anytime"
	}
}

// Approval returns the approval tier required for a level.
func Approval(level RiskLevel) string {
	switch level {
	case RiskCritical:
		return "VP approval required"
	case RiskHigh:
		return "Senior engineer approval required"
	case RiskMedium:
		return "Peer review required"
	default:
		return "Standard review process"
	}
}

// Assess runs the full scoring pipeline on a metrics record. The config
// must have passed Validate.
func Assess(m ChangeMetrics, cfg ScoringConfig) *RiskAssessment {
	factors, raw := ScoreChange(m, cfg)
	score, level := Classify(raw)

	return &RiskAssessment{
		Score:          score,
		Level:          level,
		Factors:        factors,
		Metrics:        m,
		Recommendation: Recommendation(level),
		Approval:       Approval(level),
		Fingerprint:    m.Fingerprint(),
		GeneratedAt:    time.Now().UTC(),
	}
}

// capped limits a contribution to its dimension weight.
func capped(value, max float64) float64 {
	if value > max {
		return max
	}
	if value < 0 {
		return 0
	}
	return value
}

// gradedImpact labels a contribution relative to the dimension's own cap.
func gradedImpact(score, high, medium float64) Impact {
	switch {
	case score > high:
		return ImpactHigh
	case score > medium:
		return ImpactMedium
	default:
		return ImpactLow
	}
}
