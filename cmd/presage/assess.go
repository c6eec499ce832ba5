package main

import (
	"fmt"
	"math"

	"github.com/mkoster/presage/internal/analyzer"
	"github.com/mkoster/presage/internal/metrics"
	"github.com/mkoster/presage/internal/output"
	"github.com/mkoster/presage/internal/progress"
	"github.com/mkoster/presage/pkg/models"
	"github.com/urfave/cli/v2"
)

func assessCmd() *cli.Command {
	return &cli.Command{
		Name:      "assess",
		Aliases:   []string{"a"},
		Usage:     "Score the deployment risk of a repository's HEAD change-set",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
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
			&cli.BoolFlag{
				Name:  "synthetic",
				Usage: "Score bounded-random demo metrics instead of reading a repository",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Exit non-zero when any assessment is critical",
			},
		},
		Action: runAssessCmd,
	}
}

func runAssessCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	scoring, err := scoringFromFlags(c, cfg)
	if err != nil {
		return err
	}

	a, err := analyzer.NewDeployAnalyzer(analyzer.WithScoring(scoring))
	if err != nil {
		return err
	}
	defer a.Close()

	var results []analyzer.RepoAssessment
	if c.Bool("synthetic") {
		assessment, err := a.AnalyzeProvider(c.Context, metrics.NewSyntheticProvider())
		if err != nil {
			return err
		}
		results = []analyzer.RepoAssessment{{Path: "synthetic", Assessment: assessment}}
	} else {
		paths := getPaths(c)
		tracker := progress.NewTracker("Assessing repositories...", len(paths))
		results = a.AnalyzeReposWithProgress(c.Context, paths, tracker.Tick)
		tracker.FinishSuccess()
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(c, cfg)), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := renderAssessments(formatter, results); err != nil {
		return err
	}

	if c.Bool("strict") {
		for _, r := range results {
			if r.Assessment != nil && r.Assessment.Blocking() {
				return cli.Exit("", 1)
			}
		}
	}
	return nil
}

func renderAssessments(formatter *output.Formatter, results []analyzer.RepoAssessment) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	if formatter.Format() == output.FormatJSON {
		if len(results) == 1 {
			if results[0].Err != nil {
				return fmt.Errorf("assessing %s: %w", results[0].Path, results[0].Err)
			}
			return formatter.Output(results[0].Assessment)
		}
		if err := formatter.Output(results); err != nil {
			return err
		}
		if failed == len(results) {
			return fmt.Errorf("no repositories could be assessed (are these git repositories?)")
		}
		return nil
	}

	for _, r := range results {
		if r.Err != nil {
			formatter.Warning("Skipping %s: %v", r.Path, r.Err)
			continue
		}
		if err := formatter.Output(assessmentTable(r.Path, r.Assessment)); err != nil {
			return err
		}
	}
	if failed == len(results) {
		return fmt.Errorf("no repositories could be assessed (are these git repositories?)")
	}
	return nil
}

// assessmentTable renders one assessment as a factor breakdown table.
func assessmentTable(path string, assessment *models.RiskAssessment) *output.Table {
	var rows [][]string
	for _, f := range assessment.Factors {
		threshold := "-"
		if f.Threshold > 0 {
			threshold = formatObserved(f.Threshold)
		}
		rows = append(rows, []string{
			f.Name,
			formatObserved(f.Observed),
			threshold,
			fmt.Sprintf("%.1f", f.Score),
			output.LevelColor(string(f.Impact), string(f.Impact)),
		})
	}

	level := string(assessment.Level)
	return output.NewTable(
		fmt.Sprintf("Deployment Risk: %s", path),
		[]string{"Factor", "Observed", "Threshold", "Score", "Impact"},
		rows,
		[]string{
			fmt.Sprintf("Score: %d/100", assessment.Score),
			fmt.Sprintf("Level: %s", output.LevelColor(level, level)),
			fmt.Sprintf("Recommendation: %s", assessment.Recommendation),
			fmt.Sprintf("Approval: %s", assessment.Approval),
		},
		assessment,
	)
}

// formatObserved prints whole numbers without a fraction and ratios
// with two decimals.
func formatObserved(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
