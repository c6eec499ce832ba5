package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/mkoster/presage/internal/analyzer"
	"github.com/mkoster/presage/internal/output"
	"github.com/mkoster/presage/internal/progress"
	"github.com/mkoster/presage/pkg/models"
	"github.com/urfave/cli/v2"
)

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Aliases:   []string{"hist"},
		Usage:     "Score every commit in a window of git history",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "days",
				Usage: "Days of git history to assess",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Show the top N riskiest commits",
			},
			&cli.IntFlag{
				Name:  "files-threshold",
				Usage: "Files-changed count that maxes out the files dimension",
			},
			&cli.IntFlag{
				Name:  "lines-threshold",
				Usage: "Lines-changed count that maxes out the lines dimension",
			},
			&cli.StringFlag{
				Name:  "critical-paths",
				Usage: "Comma-separated path prefixes considered high-impact",
			},
		},
		Action: runHistoryCmd,
	}
}

func runHistoryCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	scoring, err := scoringFromFlags(c, cfg)
	if err != nil {
		return err
	}

	days := cfg.History.Days
	if c.Int("days") != 0 {
		days = c.Int("days")
	}
	if err := validateDays(days); err != nil {
		return err
	}

	topN := cfg.History.Top
	if c.Int("top") > 0 {
		topN = c.Int("top")
	}

	absPath, err := filepath.Abs(getPaths(c)[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	a, err := analyzer.NewHistoryAnalyzer(
		analyzer.WithHistoryScoring(scoring),
		analyzer.WithHistoryDays(days),
	)
	if err != nil {
		return err
	}
	defer a.Close()

	spinner := progress.NewSpinner("Assessing git history...")
	analysis, err := a.AnalyzeRepoWithContext(c.Context, absPath)
	if err != nil {
		spinner.FinishError(err)
		return fmt.Errorf("history assessment failed (is this a git repository?): %w", err)
	}
	spinner.FinishSuccess()

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(c, cfg)), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatJSON {
		return formatter.Output(analysis)
	}
	return formatter.Output(historyTable(analysis, topN))
}

// historyTable shows the riskiest commits plus the period summary.
func historyTable(analysis *models.HistoryAnalysis, topN int) *output.Table {
	commits := make([]models.CommitAssessment, len(analysis.Commits))
	copy(commits, analysis.Commits)
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Score > commits[j].Score
	})
	if topN > 0 && len(commits) > topN {
		commits = commits[:topN]
	}

	var rows [][]string
	for _, commit := range commits {
		level := string(commit.Level)
		rows = append(rows, []string{
			shortHash(commit.CommitHash),
			commit.Timestamp.Format("2006-01-02"),
			commit.Author,
			commit.Message,
			fmt.Sprintf("%d", commit.Score),
			output.LevelColor(level, level),
		})
	}

	summary := analysis.Summary
	return output.NewTable(
		fmt.Sprintf("Deployment Risk History (Last %d Days)", analysis.PeriodDays),
		[]string{"Commit", "Date", "Author", "Message", "Score", "Level"},
		rows,
		[]string{
			fmt.Sprintf("Commits: %d", summary.TotalCommits),
			fmt.Sprintf("Critical: %d", summary.CriticalCount),
			fmt.Sprintf("High: %d", summary.HighCount),
			fmt.Sprintf("Avg: %.1f", summary.AvgScore),
			fmt.Sprintf("Max: %d", summary.MaxScore),
			fmt.Sprintf("Trend: %s", describeTrend(summary.Trend)),
		},
		analysis,
	)
}

// describeTrend summarizes the regression slope for the table footer.
func describeTrend(trend models.TrendStats) string {
	switch {
	case trend.Slope > 0.5:
		return fmt.Sprintf("rising (%.2f/commit)", trend.Slope)
	case trend.Slope < -0.5:
		return fmt.Sprintf("falling (%.2f/commit)", trend.Slope)
	default:
		return "flat"
	}
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
