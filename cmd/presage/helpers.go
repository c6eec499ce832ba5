package main

import (
	"fmt"

	"github.com/mkoster/presage/pkg/config"
	"github.com/mkoster/presage/pkg/models"
	"github.com/urfave/cli/v2"
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig loads the file pointed at by --config, or searches the
// standard locations when the flag is unset.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

// getFormat resolves the output format: the --format flag wins, then
// the config file, then text.
func getFormat(c *cli.Context, cfg *config.Config) string {
	if f := c.String("format"); f != "" {
		return f
	}
	if cfg.Output.Format != "" {
		return cfg.Output.Format
	}
	return "text"
}

// scoringFromFlags applies per-command threshold flags on top of the
// file-level scoring config.
func scoringFromFlags(c *cli.Context, cfg *config.Config) (models.ScoringConfig, error) {
	scoring := cfg.ModelScoring()
	if v := c.Int("files-threshold"); v > 0 {
		scoring.FilesChangedThreshold = v
	}
	if v := c.Int("lines-threshold"); v > 0 {
		scoring.LinesChangedThreshold = v
	}
	if s := c.String("critical-paths"); s != "" {
		scoring.CriticalPaths = config.ParseCriticalPaths(s)
	}
	if err := scoring.Validate(); err != nil {
		return models.ScoringConfig{}, err
	}
	return scoring, nil
}

// validateDays validates the --days flag and returns an error if invalid.
func validateDays(days int) error {
	if days <= 0 {
		return fmt.Errorf("--days must be a positive integer (got %d)", days)
	}
	return nil
}
