// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Requirements  string `json:"requirements,omitempty"`   // Path to job requirements JSON file
	CandidatesDir string `json:"candidates_dir,omitempty"` // Directory of per-candidate document directories

	// Behavior
	APIKey            string `json:"api_key,omitempty"`            // Gemini API key
	MaxConcurrency    int    `json:"max_concurrency,omitempty"`    // Parallel candidate evaluations
	TopK              int    `json:"top_k,omitempty"`              // Top-ranked candidates that get interview questions
	GenerateFeedback  bool   `json:"generate_feedback,omitempty"`  // Generate feedback for non-selected candidates
	GenerateQuestions bool   `json:"generate_questions,omitempty"` // Generate questions for top-K candidates
	Verbose           bool   `json:"verbose,omitempty"`            // Print detailed debug information
	DatabaseURL       string `json:"database_url,omitempty"`       // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("config error: 'max_concurrency' must be non-negative")
	}
	if c.TopK < 0 {
		return fmt.Errorf("config error: 'top_k' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.Requirements != "" {
		if _, err := os.Stat(c.Requirements); os.IsNotExist(err) {
			return fmt.Errorf("config error: requirements file not found: %s", c.Requirements)
		}
	}
	if c.CandidatesDir != "" {
		if _, err := os.Stat(c.CandidatesDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: candidates directory not found: %s", c.CandidatesDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Requirements == "" {
		result.Requirements = defaults.Requirements
	}
	if result.CandidatesDir == "" {
		result.CandidatesDir = defaults.CandidatesDir
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.MaxConcurrency == 0 {
		result.MaxConcurrency = defaults.MaxConcurrency
	}
	if result.TopK == 0 {
		result.TopK = defaults.TopK
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
