// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/pdiddy/syllabus-planner/internal/dates"
	"github.com/pdiddy/syllabus-planner/internal/extract"
	"github.com/pdiddy/syllabus-planner/internal/plan"
	"github.com/pdiddy/syllabus-planner/internal/secrets"
	"github.com/pdiddy/syllabus-planner/internal/trace"
	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// loadConfig assembles the run configuration from viper and fills API keys
// from .secrets/ when the config leaves them empty.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}

	switch cfg.Extraction.Mode {
	case types.ExtractRule, types.ExtractGenerative:
	default:
		return cfg, fmt.Errorf("unknown extraction mode %q (want %q or %q)",
			cfg.Extraction.Mode, types.ExtractRule, types.ExtractGenerative)
	}
	if cfg.Project == "" {
		return cfg, fmt.Errorf("project name must not be empty")
	}

	cfg.Extraction.APIKey = loadedSecrets.Resolve(secrets.KeyAnthropic, cfg.Extraction.APIKey)
	cfg.Planning.APIKey = loadedSecrets.Resolve(secrets.KeyAnthropic, cfg.Planning.APIKey)
	if cfg.Planning.Model == "" {
		cfg.Planning.Model = cfg.Extraction.Model
	}
	return cfg, nil
}

func newNormalizer(cfg types.Config) (*dates.Normalizer, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", cfg.Timezone, err)
	}
	return dates.New(dates.WithLocation(loc)), nil
}

func newTraceLogger(cfg types.Config) trace.Logger {
	if !cfg.Trace.Enabled || cfg.Trace.Path == "" {
		return trace.Nop{}
	}
	return trace.NewFileLogger(afero.NewOsFs(), cfg.Trace.Path)
}

// newExtractor returns the rule engine, or in generative mode the Claude
// generator backed by the rule engine.
func newExtractor(cfg types.Config, n *dates.Normalizer, tl trace.Logger) extract.Extractor {
	rules := extract.NewRuleBased(n, tl)
	if cfg.Extraction.Mode != types.ExtractGenerative {
		return rules
	}
	if cfg.Extraction.APIKey == "" {
		fmt.Fprintln(os.Stderr, "warning: generative extraction without an API key; using rules")
		return rules
	}
	return extract.Fallback{
		Primary: &extract.Generative{
			Generator:  claudeGenerator(cfg.Extraction.AIConfig),
			Dates:      n,
			Trace:      tl,
			MaxRetries: cfg.Extraction.MaxRetries,
		},
		Secondary: rules,
		Trace:     tl,
	}
}

func newPlanner(cfg types.Config, tl trace.Logger) *plan.Planner {
	p := &plan.Planner{Trace: tl}
	if cfg.Planning.Generate && cfg.Planning.APIKey != "" {
		p.Generator = claudeGenerator(cfg.Planning.AIConfig)
	}
	return p
}

func claudeGenerator(ai types.AIConfig) *extract.ClaudeGenerator {
	return &extract.ClaudeGenerator{
		APIKey:     ai.APIKey,
		Model:      ai.Model,
		MaxRetries: ai.MaxRetries,
	}
}

func rawDir(cfg types.Config) string {
	return filepath.Join(cfg.DataDir, "raw")
}

func documentsPath(cfg types.Config) string {
	return filepath.Join(cfg.DataDir, "processed", "documents.db")
}

func outPath(cfg types.Config, name string) string {
	return filepath.Join(cfg.OutDir, name)
}
