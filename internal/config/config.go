// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the analyzer configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Inputs
	CV     string `json:"cv,omitempty"`      // Path to CV file (.pdf, .docx, .txt)
	Job    string `json:"job,omitempty"`     // Path to job description text file
	JobURL string `json:"job_url,omitempty"` // URL to fetch job posting from
	Corpus string `json:"corpus,omitempty"`  // Path to training corpus CSV

	// Models
	APIKey            string   `json:"api_key,omitempty"`            // Gemini API key for entity extraction
	NERModel          string   `json:"ner_model,omitempty"`          // Gemini model name for entity labeling
	EmbeddingModel    string   `json:"embedding_model,omitempty"`    // Sentence embedding model name
	EmbeddingBackends []string `json:"embedding_backends,omitempty"` // Embedding server URLs, tried in order

	// Training
	Epochs    int `json:"epochs,omitempty"`     // Training epochs (default 3)
	BatchSize int `json:"batch_size,omitempty"` // Mini-batch size (default 16)

	// Behavior
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Use headless browser for SPA job pages
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	JSONLogs    bool   `json:"json_logs,omitempty"`    // Emit structured JSON logs
	ListenAddr  string `json:"listen_addr,omitempty"`  // Server listen address
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for corpus storage
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
	// Validate mutually exclusive fields
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	// Validate numeric ranges
	if c.Epochs < 0 {
		return fmt.Errorf("config error: 'epochs' must be non-negative")
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("config error: 'batch_size' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.CV != "" {
		if _, err := os.Stat(c.CV); os.IsNotExist(err) {
			return fmt.Errorf("config error: CV file not found: %s", c.CV)
		}
	}

	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	if c.Corpus != "" {
		if _, err := os.Stat(c.Corpus); os.IsNotExist(err) {
			return fmt.Errorf("config error: corpus file not found: %s", c.Corpus)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.CV == "" {
		result.CV = defaults.CV
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.Corpus == "" {
		result.Corpus = defaults.Corpus
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.NERModel == "" {
		result.NERModel = defaults.NERModel
	}
	if result.EmbeddingModel == "" {
		result.EmbeddingModel = defaults.EmbeddingModel
	}
	if len(result.EmbeddingBackends) == 0 {
		result.EmbeddingBackends = defaults.EmbeddingBackends
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.Epochs == 0 {
		result.Epochs = defaults.Epochs
	}
	if result.BatchSize == 0 {
		result.BatchSize = defaults.BatchSize
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
