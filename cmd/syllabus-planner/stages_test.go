// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/syllabus-planner/internal/export"
	"github.com/pdiddy/syllabus-planner/internal/extract"
	"github.com/pdiddy/syllabus-planner/internal/store"
	"github.com/pdiddy/syllabus-planner/internal/trace"
	"github.com/pdiddy/syllabus-planner/pkg/types"
)

const testSyllabus = `Course: Pipelines
Assignment: Integration Test
Due: May 5 2024 21:00
Submit: Code tarball
`

func testConfig(t *testing.T) types.Config {
	t.Helper()
	dir := t.TempDir()
	return types.Config{
		Project:    "fall",
		DataDir:    filepath.Join(dir, "data"),
		OutDir:     filepath.Join(dir, "out"),
		Timezone:   "UTC",
		Workers:    2,
		Extraction: types.ExtractionConfig{Mode: types.ExtractRule},
	}
}

func TestStagesEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(rawDir(cfg), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(rawDir(cfg), "pipelines.txt"), []byte(testSyllabus), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(rawDir(cfg), "notes.docx"), []byte("binary"), 0o644))

	var out bytes.Buffer
	rec := &trace.Recorder{}

	ingested, err := ingestStage(cfg, rawDir(cfg), &out, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, ingested.Ingested)
	assert.Equal(t, 1, ingested.Skipped)
	assert.Equal(t, []string{"cli_ingest"}, rec.Tags())

	n, err := newNormalizer(cfg)
	require.NoError(t, err)
	records, summary, err := extractStage(ctx, cfg, newExtractor(cfg, n, nil), &out)
	require.NoError(t, err)
	assert.False(t, summary.HasFailures())
	require.Len(t, records, 1)
	assert.Equal(t, "Integration Test", records[0].Title)
	assert.Equal(t, filepath.Join(rawDir(cfg), "pipelines.txt"), records[0].SourceDoc)

	fromFile, err := readAssignments(cfg)
	require.NoError(t, err)
	require.Len(t, fromFile, 1)
	assert.True(t, fromFile[0].Due.Equal(records[0].Due))
	assert.FileExists(t, outPath(cfg, "fall_assignments.json"))

	planned, err := planStage(ctx, cfg, newPlanner(cfg, nil), fromFile, &out)
	require.NoError(t, err)
	require.Len(t, planned, 1)
	assert.Len(t, planned[0].Tasks, 4)

	fromPlan, err := readPlan(cfg)
	require.NoError(t, err)
	require.Len(t, fromPlan, 1)

	require.NoError(t, exportStage(ctx, cfg, fromPlan, &out))
	assert.FileExists(t, outPath(cfg, export.CalendarFile))
	assert.FileExists(t, outPath(cfg, export.CSVFile))

	s, err := store.Open(outPath(cfg, export.DatabaseFile))
	require.NoError(t, err)
	defer s.Close()
	rows, err := s.TaskRows(ctx, "fall", "")
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	log := out.String()
	assert.Contains(t, log, "Ingest complete: 1 ingested, 1 skipped, 0 failed")
	assert.Contains(t, log, "Extraction complete: 1 documents, 1 assignments, 0 failed")
	assert.Contains(t, log, "planned Integration Test")
}

func TestExtractStageWithoutDocuments(t *testing.T) {
	cfg := testConfig(t)
	n, err := newNormalizer(cfg)
	require.NoError(t, err)

	_, _, err = extractStage(context.Background(), cfg, newExtractor(cfg, n, nil), &bytes.Buffer{})
	assert.ErrorContains(t, err, "run ingest first")
}

func TestReadPlanMissing(t *testing.T) {
	_, err := readPlan(testConfig(t))
	assert.ErrorContains(t, err, "run plan first")
}

func TestNewExtractor(t *testing.T) {
	cfg := testConfig(t)
	n, err := newNormalizer(cfg)
	require.NoError(t, err)

	assert.Equal(t, "rule", newExtractor(cfg, n, nil).Name())

	cfg.Extraction.Mode = types.ExtractGenerative
	assert.Equal(t, "rule", newExtractor(cfg, n, nil).Name(), "no API key falls back to rules")

	cfg.Extraction.APIKey = "sk-test"
	ex := newExtractor(cfg, n, nil)
	fb, ok := ex.(extract.Fallback)
	require.True(t, ok)
	assert.Equal(t, "generative+rule", fb.Name())
}

func TestNewPlanner(t *testing.T) {
	cfg := testConfig(t)
	assert.Nil(t, newPlanner(cfg, nil).Generator)

	cfg.Planning.Generate = true
	assert.Nil(t, newPlanner(cfg, nil).Generator, "no API key keeps the heuristic")

	cfg.Planning.APIKey = "sk-test"
	assert.NotNil(t, newPlanner(cfg, nil).Generator)
}

func TestNewNormalizerBadZone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Timezone = "Mars/Olympus"
	_, err := newNormalizer(cfg)
	assert.Error(t, err)
}

func TestNewTraceLogger(t *testing.T) {
	cfg := testConfig(t)
	assert.IsType(t, trace.Nop{}, newTraceLogger(cfg))

	cfg.Trace = types.TraceConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "trace.log")}
	_, ok := newTraceLogger(cfg).(*trace.FileLogger)
	assert.True(t, ok)
}

func TestLoadConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	setDefaults()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Project)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "out", cfg.OutDir)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, types.ExtractRule, cfg.Extraction.Mode)
	assert.Equal(t, 3, cfg.Extraction.MaxRetries)
	assert.True(t, cfg.Trace.Enabled)
	assert.True(t, strings.HasSuffix(cfg.Trace.Path, "interactions.log"))

	viper.Set("extraction.model", "claude-test")
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "claude-test", cfg.Planning.Model)

	viper.Set("extraction.mode", "psychic")
	_, err = loadConfig()
	assert.ErrorContains(t, err, "unknown extraction mode")
}
