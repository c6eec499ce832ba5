package analyzer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkoster/presage/internal/testutil"
	"github.com/mkoster/presage/pkg/models"
)

func TestHistoryAnalyzerAnalyzeRepo(t *testing.T) {
	dir, repo := testutil.InitGitRepo(t)
	testutil.Commit(t, dir, repo, "initial", map[string]string{
		"main.go": "package main\n",
	})
	testutil.Commit(t, dir, repo, "small tweak", map[string]string{
		"main.go": "package main\n\nvar x = 1\n",
	})
	testutil.Commit(t, dir, repo, "big rewrite", map[string]string{
		"main.go":    "package main\n\n" + strings.Repeat("var padding = 0\n", 40),
		"handler.go": "package main\n\n" + strings.Repeat("func h() {}\n", 20),
	})

	a, err := NewHistoryAnalyzer(WithHistoryDays(30))
	if err != nil {
		t.Fatalf("NewHistoryAnalyzer() error = %v", err)
	}
	defer a.Close()

	analysis, err := a.AnalyzeRepo(dir)
	if err != nil {
		t.Fatalf("AnalyzeRepo() error = %v", err)
	}

	// Initial commit has no parent and is skipped.
	if analysis.Summary.TotalCommits != 2 {
		t.Fatalf("TotalCommits = %d, want 2", analysis.Summary.TotalCommits)
	}
	if analysis.PeriodDays != 30 {
		t.Errorf("PeriodDays = %d, want 30", analysis.PeriodDays)
	}

	// Chronological order: the small tweak precedes the rewrite.
	if analysis.Commits[0].Message != "small tweak" {
		t.Errorf("Commits[0].Message = %q, want chronological order", analysis.Commits[0].Message)
	}
	if analysis.Commits[1].Score <= analysis.Commits[0].Score {
		t.Errorf("rewrite score %d should exceed tweak score %d",
			analysis.Commits[1].Score, analysis.Commits[0].Score)
	}

	levelTotal := analysis.Summary.CriticalCount + analysis.Summary.HighCount +
		analysis.Summary.MediumCount + analysis.Summary.LowCount
	if levelTotal != analysis.Summary.TotalCommits {
		t.Errorf("level counts sum to %d, want %d", levelTotal, analysis.Summary.TotalCommits)
	}
	if analysis.Summary.MaxScore < analysis.Commits[0].Score {
		t.Errorf("MaxScore = %d below a commit score", analysis.Summary.MaxScore)
	}
	if analysis.Summary.Trend.Slope <= 0 {
		t.Errorf("Trend.Slope = %v, want positive for rising risk", analysis.Summary.Trend.Slope)
	}

	for _, c := range analysis.Commits {
		if c.CommitHash == "" || c.Author == "" {
			t.Errorf("commit assessment missing identity: %+v", c)
		}
		if c.Recommendation == "" || c.Approval == "" {
			t.Errorf("commit assessment missing guidance: %+v", c)
		}
	}
}

func TestHistoryAnalyzerFromSubdirectory(t *testing.T) {
	dir, repo := testutil.InitGitRepo(t)
	testutil.Commit(t, dir, repo, "initial", map[string]string{
		"pkg/api/server.go": "package api\n",
	})
	testutil.Commit(t, dir, repo, "extend server", map[string]string{
		"pkg/api/server.go": "package api\n\nfunc Serve() {}\n",
	})

	a, err := NewHistoryAnalyzer()
	if err != nil {
		t.Fatalf("NewHistoryAnalyzer() error = %v", err)
	}

	analysis, err := a.AnalyzeRepo(filepath.Join(dir, "pkg", "api"))
	if err != nil {
		t.Fatalf("AnalyzeRepo() from subdirectory error = %v", err)
	}
	if analysis.Summary.TotalCommits != 1 {
		t.Errorf("TotalCommits = %d, want 1", analysis.Summary.TotalCommits)
	}
}

func TestHistoryAnalyzerEmptyRepoHistory(t *testing.T) {
	dir, repo := testutil.InitGitRepo(t)
	testutil.Commit(t, dir, repo, "initial", map[string]string{
		"main.go": "package main\n",
	})

	a, err := NewHistoryAnalyzer()
	if err != nil {
		t.Fatalf("NewHistoryAnalyzer() error = %v", err)
	}

	analysis, err := a.AnalyzeRepo(dir)
	if err != nil {
		t.Fatalf("AnalyzeRepo() error = %v", err)
	}
	if analysis.Summary.TotalCommits != 0 {
		t.Errorf("TotalCommits = %d, want 0 (only the initial commit exists)", analysis.Summary.TotalCommits)
	}
}

func TestNewHistoryAnalyzerRejectsInvalidScoring(t *testing.T) {
	_, err := NewHistoryAnalyzer(WithHistoryScoring(models.ScoringConfig{
		FilesChangedThreshold: 20,
		LinesChangedThreshold: -10,
	}))
	if err == nil {
		t.Fatal("expected error for non-positive threshold")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := summarize(nil)
	if summary.TotalCommits != 0 || summary.AvgScore != 0 {
		t.Errorf("summarize(nil) = %+v, want zero summary", summary)
	}
}
