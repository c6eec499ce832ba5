package mcpserver

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/mkoster/presage/internal/analyzer"
	"github.com/mkoster/presage/internal/metrics"
	"github.com/mkoster/presage/pkg/config"
	"github.com/mkoster/presage/pkg/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"
)

// AssessInput configures a deployment risk assessment.
type AssessInput struct {
	Path                  string `json:"path,omitempty" jsonschema:"Repository path to assess. Defaults to current directory."`
	FilesChangedThreshold int    `json:"files_changed_threshold,omitempty" jsonschema:"Files-changed normalization threshold. Default 20."`
	LinesChangedThreshold int    `json:"lines_changed_threshold,omitempty" jsonschema:"Lines-changed normalization threshold. Default 500."`
	CriticalPaths         string `json:"critical_paths,omitempty" jsonschema:"Comma-separated path prefixes considered high-impact (e.g. pkg/auth,internal/payments)."`
	Synthetic             bool   `json:"synthetic,omitempty" jsonschema:"Use bounded-random demo metrics instead of reading the repository."`
	Format                string `json:"format,omitempty" jsonschema:"Output format: toon (default) or json."`
}

// HistoryInput configures a history risk assessment.
type HistoryInput struct {
	Path                  string `json:"path,omitempty" jsonschema:"Repository path to assess. Defaults to current directory."`
	Days                  int    `json:"days,omitempty" jsonschema:"Days of git history to assess. Default 30."`
	Top                   int    `json:"top,omitempty" jsonschema:"Return only the N riskiest commits, highest score first. All commits when 0."`
	FilesChangedThreshold int    `json:"files_changed_threshold,omitempty" jsonschema:"Files-changed normalization threshold. Default 20."`
	LinesChangedThreshold int    `json:"lines_changed_threshold,omitempty" jsonschema:"Lines-changed normalization threshold. Default 500."`
	CriticalPaths         string `json:"critical_paths,omitempty" jsonschema:"Comma-separated path prefixes considered high-impact."`
	Format                string `json:"format,omitempty" jsonschema:"Output format: toon (default) or json."`
}

func scoringFromInput(filesThreshold, linesThreshold int, criticalPaths string) models.ScoringConfig {
	cfg := models.DefaultScoringConfig()
	if filesThreshold > 0 {
		cfg.FilesChangedThreshold = filesThreshold
	}
	if linesThreshold > 0 {
		cfg.LinesChangedThreshold = linesThreshold
	}
	cfg.CriticalPaths = config.ParseCriticalPaths(criticalPaths)
	return cfg
}

func defaultPath(path string) string {
	if path == "" {
		return "."
	}
	return path
}

func formatOutput(data any, format string) (string, error) {
	if format == "json" {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toolResult(data any, format string) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func handleAssess(ctx context.Context, req *mcp.CallToolRequest, input AssessInput) (*mcp.CallToolResult, any, error) {
	scoring := scoringFromInput(input.FilesChangedThreshold, input.LinesChangedThreshold, input.CriticalPaths)

	a, err := analyzer.NewDeployAnalyzer(analyzer.WithScoring(scoring))
	if err != nil {
		return toolError(err.Error())
	}
	defer a.Close()

	var assessment *models.RiskAssessment
	if input.Synthetic {
		assessment, err = a.AnalyzeProvider(ctx, metrics.NewSyntheticProvider())
	} else {
		assessment, err = a.AnalyzeRepoWithContext(ctx, defaultPath(input.Path))
	}
	if err != nil {
		return toolError(err.Error())
	}

	return toolResult(assessment, input.Format)
}

func handleHistory(ctx context.Context, req *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, any, error) {
	scoring := scoringFromInput(input.FilesChangedThreshold, input.LinesChangedThreshold, input.CriticalPaths)

	opts := []analyzer.HistoryOption{analyzer.WithHistoryScoring(scoring)}
	if input.Days > 0 {
		opts = append(opts, analyzer.WithHistoryDays(input.Days))
	}

	a, err := analyzer.NewHistoryAnalyzer(opts...)
	if err != nil {
		return toolError(err.Error())
	}
	defer a.Close()

	analysis, err := a.AnalyzeRepoWithContext(ctx, defaultPath(input.Path))
	if err != nil {
		return toolError(err.Error())
	}

	// Top selects the riskiest commits; the summary still covers the
	// whole period.
	if input.Top > 0 && len(analysis.Commits) > input.Top {
		sort.SliceStable(analysis.Commits, func(i, j int) bool {
			return analysis.Commits[i].Score > analysis.Commits[j].Score
		})
		analysis.Commits = analysis.Commits[:input.Top]
	}

	return toolResult(analysis, input.Format)
}
