package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mkoster/presage/internal/analyzer"
	"github.com/mkoster/presage/internal/output"
	"github.com/mkoster/presage/pkg/config"
	"github.com/mkoster/presage/pkg/models"
	"github.com/urfave/cli/v2"
)

// TestGetPaths verifies path handling from CLI arguments.
func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "no args defaults to current dir",
			args:     []string{},
			expected: []string{"."},
		},
		{
			name:     "single path",
			args:     []string{"/foo/bar"},
			expected: []string{"/foo/bar"},
		},
		{
			name:     "multiple paths",
			args:     []string{"/foo", "/bar"},
			expected: []string{"/foo", "/bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Action: func(c *cli.Context) error {
					result := getPaths(c)
					if len(result) != len(tt.expected) {
						t.Errorf("getPaths() = %v, want %v", result, tt.expected)
						return nil
					}
					for i := range result {
						if result[i] != tt.expected[i] {
							t.Errorf("getPaths()[%d] = %q, want %q", i, result[i], tt.expected[i])
						}
					}
					return nil
				},
			}
			args := append([]string{"test"}, tt.args...)
			_ = app.Run(args)
		})
	}
}

// TestValidateDays verifies the --days flag validation.
func TestValidateDays(t *testing.T) {
	if err := validateDays(30); err != nil {
		t.Errorf("validateDays(30) = %v, want nil", err)
	}
	if err := validateDays(0); err == nil {
		t.Error("validateDays(0) should return an error")
	}
	if err := validateDays(-7); err == nil {
		t.Error("validateDays(-7) should return an error")
	}
}

// TestGenerateDefaultConfig verifies the init template is valid TOML
// with the scoring defaults present.
func TestGenerateDefaultConfig(t *testing.T) {
	content, err := generateDefaultConfig()
	if err != nil {
		t.Fatalf("generateDefaultConfig() error: %v", err)
	}
	if !strings.Contains(content, "[scoring]") {
		t.Error("generated config missing [scoring] section")
	}
	if !strings.Contains(content, "files_changed_threshold = 20") {
		t.Error("generated config missing files_changed_threshold default")
	}
	if !strings.Contains(content, "lines_changed_threshold = 500") {
		t.Error("generated config missing lines_changed_threshold default")
	}
	if !strings.Contains(content, "[history]") {
		t.Error("generated config missing [history] section")
	}
}

// TestInitConfigRoundTrip verifies a generated config file loads back
// with the same scoring values.
func TestInitConfigRoundTrip(t *testing.T) {
	content, err := generateDefaultConfig()
	if err != nil {
		t.Fatalf("generateDefaultConfig() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "presage.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("loading generated config: %v", err)
	}
	if cfg.Scoring.FilesChangedThreshold != 20 {
		t.Errorf("FilesChangedThreshold = %d, want 20", cfg.Scoring.FilesChangedThreshold)
	}
	if cfg.History.Days != 30 {
		t.Errorf("History.Days = %d, want 30", cfg.History.Days)
	}
}

// TestAssessmentTable verifies factor rendering for the text output.
func TestAssessmentTable(t *testing.T) {
	metrics := models.NewChangeMetrics(25, 400, 300, []string{"pkg/auth/token.go"})
	cfg := models.DefaultScoringConfig()
	cfg.CriticalPaths = []string{"pkg/auth"}
	assessment := models.Assess(metrics, cfg)

	table := assessmentTable("/repo", assessment)
	if len(table.Rows) != len(assessment.Factors) {
		t.Fatalf("rows = %d, want %d", len(table.Rows), len(assessment.Factors))
	}
	if table.Rows[0][0] != "Files Changed" {
		t.Errorf("first factor = %q, want Files Changed", table.Rows[0][0])
	}
	if !strings.Contains(table.Title, "/repo") {
		t.Errorf("title %q should include the repository path", table.Title)
	}
	found := false
	for _, footer := range table.Footer {
		if strings.Contains(footer, "Score:") {
			found = true
		}
	}
	if !found {
		t.Error("footer missing overall score")
	}
}

// TestHistoryTableTopN verifies only the N riskiest commits are shown.
func TestHistoryTableTopN(t *testing.T) {
	analysis := models.NewHistoryAnalysis()
	analysis.PeriodDays = 30
	for i, score := range []int{10, 80, 40} {
		analysis.Commits = append(analysis.Commits, models.CommitAssessment{
			CommitHash: strings.Repeat("a", 40),
			Author:     "dev",
			Message:    "change",
			Timestamp:  time.Now().AddDate(0, 0, -i),
			Score:      score,
			Level:      models.LevelForScore(score),
		})
	}
	analysis.Summary = models.HistorySummary{TotalCommits: 3, MaxScore: 80, AvgScore: 43.3}

	table := historyTable(analysis, 2)
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Rows[0][4] != "80" {
		t.Errorf("top row score = %q, want 80 (riskiest first)", table.Rows[0][4])
	}
}

// TestRenderAssessmentsJSONSurfacesFailures verifies repository
// failures are reported in JSON format instead of exiting clean.
func TestRenderAssessmentsJSONSurfacesFailures(t *testing.T) {
	newJSONFormatter := func(t *testing.T) (*output.Formatter, string) {
		t.Helper()
		path := filepath.Join(t.TempDir(), "out.json")
		f, err := output.NewFormatter(output.FormatJSON, path, false)
		if err != nil {
			t.Fatalf("NewFormatter() error = %v", err)
		}
		return f, path
	}

	t.Run("single failed repo returns the error", func(t *testing.T) {
		f, _ := newJSONFormatter(t)
		defer f.Close()

		err := renderAssessments(f, []analyzer.RepoAssessment{
			{Path: "/no/repo", Error: "repository does not exist", Err: errors.New("repository does not exist")},
		})
		if err == nil {
			t.Fatal("expected error when the only repository failed")
		}
		if !strings.Contains(err.Error(), "/no/repo") {
			t.Errorf("error %q should name the failed path", err)
		}
	})

	t.Run("all failed batch returns an error", func(t *testing.T) {
		f, _ := newJSONFormatter(t)
		defer f.Close()

		err := renderAssessments(f, []analyzer.RepoAssessment{
			{Path: "/a", Error: "not a repo", Err: errors.New("not a repo")},
			{Path: "/b", Error: "not a repo", Err: errors.New("not a repo")},
		})
		if err == nil {
			t.Fatal("expected error when every repository failed")
		}
	})

	t.Run("mixed batch serializes the failure", func(t *testing.T) {
		f, path := newJSONFormatter(t)

		assessment := models.Assess(models.NewChangeMetrics(2, 20, 5, nil), models.DefaultScoringConfig())
		err := renderAssessments(f, []analyzer.RepoAssessment{
			{Path: "/good", Assessment: assessment},
			{Path: "/bad", Error: "not a repo", Err: errors.New("not a repo")},
		})
		if err != nil {
			t.Fatalf("renderAssessments() error = %v, want nil for a partial batch", err)
		}
		f.Close()

		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			t.Fatalf("ReadFile error: %v", readErr)
		}
		var decoded []map[string]any
		if jsonErr := json.Unmarshal(raw, &decoded); jsonErr != nil {
			t.Fatalf("output is not valid JSON: %v\n%s", jsonErr, raw)
		}
		if len(decoded) != 2 {
			t.Fatalf("got %d results, want 2", len(decoded))
		}
		if decoded[1]["error"] != "not a repo" {
			t.Errorf("failed entry = %v, want serialized error field", decoded[1])
		}
		if _, ok := decoded[0]["assessment"]; !ok {
			t.Errorf("good entry missing assessment: %v", decoded[0])
		}
	})
}

// TestDescribeTrend verifies slope bucketing.
func TestDescribeTrend(t *testing.T) {
	tests := []struct {
		slope float64
		want  string
	}{
		{5.0, "rising"},
		{-5.0, "falling"},
		{0.1, "flat"},
	}
	for _, tt := range tests {
		got := describeTrend(models.TrendStats{Slope: tt.slope})
		if !strings.Contains(got, tt.want) {
			t.Errorf("describeTrend(slope=%v) = %q, want to contain %q", tt.slope, got, tt.want)
		}
	}
}

// TestFormatObserved verifies whole numbers drop the fraction.
func TestFormatObserved(t *testing.T) {
	if got := formatObserved(25); got != "25" {
		t.Errorf("formatObserved(25) = %q, want 25", got)
	}
	if got := formatObserved(0.75); got != "0.75" {
		t.Errorf("formatObserved(0.75) = %q, want 0.75", got)
	}
}

// TestShortHash verifies hash truncation.
func TestShortHash(t *testing.T) {
	long := strings.Repeat("f", 40)
	if got := shortHash(long); got != strings.Repeat("f", 8) {
		t.Errorf("shortHash() = %q, want 8 chars", got)
	}
	if got := shortHash("abc"); got != "abc" {
		t.Errorf("shortHash(abc) = %q, want abc", got)
	}
}
