// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractionMode selects the extraction strategy.
type ExtractionMode string

const (
	// ExtractRule uses only the rule-based engine.
	ExtractRule ExtractionMode = "rule"
	// ExtractGenerative tries the generator first and falls back to rules.
	ExtractGenerative ExtractionMode = "generative"
)

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	AIConfig `yaml:",inline" mapstructure:",squash"`

	// Mode selects rule-only or generator-with-fallback extraction.
	Mode ExtractionMode `json:"mode" yaml:"mode" mapstructure:"mode"`
}

// PlanningConfig holds settings for the planning stage.
type PlanningConfig struct {
	AIConfig `yaml:",inline" mapstructure:",squash"`

	// Generate asks the generator for milestone tasks before using the
	// four-segment heuristic.
	Generate bool `json:"generate" yaml:"generate" mapstructure:"generate"`
}

// TraceConfig controls the append-only interaction log.
type TraceConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" yaml:"path" mapstructure:"path"`
}

// Config groups all settings for the syllabus pipeline.
type Config struct {
	// Project names the document set; outputs are prefixed with it.
	Project string `json:"project" yaml:"project" mapstructure:"project"`

	// DataDir holds the document store (data/processed/documents.db).
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// OutDir receives assignment, plan, calendar, CSV, and database files.
	OutDir string `json:"out_dir" yaml:"out_dir" mapstructure:"out_dir"`

	// Timezone is the IANA location used to interpret dates without an offset.
	Timezone string `json:"timezone" yaml:"timezone" mapstructure:"timezone"`

	// Workers bounds the number of documents processed concurrently.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Planning   PlanningConfig   `json:"planning" yaml:"planning" mapstructure:"planning"`
	Trace      TraceConfig      `json:"trace" yaml:"trace" mapstructure:"trace"`
}
