package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mkoster/presage/pkg/models"
)

// Config holds all configuration options for presage.
type Config struct {
	// Scoring thresholds and critical paths
	Scoring ScoringConfig `koanf:"scoring" toml:"scoring"`

	// History analysis settings
	History HistoryConfig `koanf:"history" toml:"history"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// ScoringConfig defines the risk scoring thresholds.
type ScoringConfig struct {
	FilesChangedThreshold int      `koanf:"files_changed_threshold" toml:"files_changed_threshold"`
	LinesChangedThreshold int      `koanf:"lines_changed_threshold" toml:"lines_changed_threshold"`
	CriticalPaths         []string `koanf:"critical_paths" toml:"critical_paths"`
}

// HistoryConfig controls history analysis.
type HistoryConfig struct {
	Days int `koanf:"days" toml:"days"` // days of git history to assess
	Top  int `koanf:"top" toml:"top"`   // top N commits to display
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, markdown
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			FilesChangedThreshold: 20,
			LinesChangedThreshold: 500,
		},
		History: HistoryConfig{
			Days: 30,
			Top:  20,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"presage.toml",
		"presage.yaml",
		"presage.yml",
		"presage.json",
		".presage.toml",
		".presage.yaml",
		".presage.yml",
		".presage.json",
	}

	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			cfg, err := Load(name)
			if err == nil {
				return cfg
			}
		}
	}

	return DefaultConfig()
}

// ModelScoring converts the file-level scoring section into the typed
// config the scorer consumes.
func (c *Config) ModelScoring() models.ScoringConfig {
	return models.ScoringConfig{
		FilesChangedThreshold: c.Scoring.FilesChangedThreshold,
		LinesChangedThreshold: c.Scoring.LinesChangedThreshold,
		CriticalPaths:         c.Scoring.CriticalPaths,
	}
}

// Validate checks the scoring section. Invalid thresholds fail here so
// the scorer never divides by a non-positive value.
func (c *Config) Validate() error {
	return c.ModelScoring().Validate()
}

// ParseCriticalPaths splits a comma-separated prefix list into trimmed,
// non-empty path prefixes.
func ParseCriticalPaths(s string) []string {
	if s == "" {
		return nil
	}
	var prefixes []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			prefixes = append(prefixes, trimmed)
		}
	}
	return prefixes
}
