// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/pdiddy/syllabus-planner/internal/docstore"
	"github.com/pdiddy/syllabus-planner/internal/export"
	"github.com/pdiddy/syllabus-planner/internal/extract"
	"github.com/pdiddy/syllabus-planner/internal/ingest"
	"github.com/pdiddy/syllabus-planner/internal/pipeline"
	"github.com/pdiddy/syllabus-planner/internal/plan"
	"github.com/pdiddy/syllabus-planner/internal/store"
	"github.com/pdiddy/syllabus-planner/internal/trace"
	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// ingestStage reads every supported file under dir and replaces the
// project's stored documents with them.
func ingestStage(cfg types.Config, dir string, w io.Writer, tl trace.Logger) (ingest.BatchResult, error) {
	docs, result, err := ingest.New(afero.NewOsFs()).IngestDir(dir, w)
	if err != nil {
		return result, err
	}

	ds, err := docstore.Open(documentsPath(cfg))
	if err != nil {
		return result, err
	}
	defer ds.Close()

	if err := ds.Replace(cfg.Project, docs); err != nil {
		return result, fmt.Errorf("storing documents: %w", err)
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	trace.OrNop(tl).Log(trace.Entry{
		Tag:      "cli_ingest",
		Prompt:   dir,
		Response: strings.Join(ids, ","),
		Metadata: map[string]any{"project": cfg.Project, "documents": len(docs)},
	})

	fmt.Fprintf(w, "\nIngest complete: %d ingested, %d skipped, %d failed\n",
		result.Ingested, result.Skipped, result.Failed)
	return result, nil
}

// extractStage extracts assignments from the project's stored documents
// and writes them to the assignments result files.
func extractStage(ctx context.Context, cfg types.Config, ex extract.Extractor, w io.Writer) ([]types.Assignment, pipeline.Summary, error) {
	ds, err := docstore.Open(documentsPath(cfg))
	if err != nil {
		return nil, pipeline.Summary{}, err
	}
	docs, err := ds.List(cfg.Project)
	ds.Close()
	if errors.Is(err, docstore.ErrNoDocuments) {
		return nil, pipeline.Summary{}, fmt.Errorf("no documents for project %s; run ingest first", cfg.Project)
	}
	if err != nil {
		return nil, pipeline.Summary{}, fmt.Errorf("listing documents: %w", err)
	}

	p := pipeline.Pipeline{Extractor: ex, Workers: cfg.Workers, Out: w}
	results, summary := p.ExtractAll(ctx, docs)
	records := pipeline.Records(results)
	if records == nil {
		records = []types.Assignment{}
	}

	path := outPath(cfg, export.AssignmentsFile(cfg.Project))
	if err := writeResults(path, records); err != nil {
		return nil, summary, err
	}

	fmt.Fprintf(w, "\nExtraction complete: %d documents, %d assignments, %d failed (run %s)\n",
		summary.Extracted, summary.Assignments, summary.Failed, summary.RunID)
	fmt.Fprintf(w, "wrote %s\n", path)
	return records, summary, nil
}

// planStage plans every record and writes the plan result files.
func planStage(ctx context.Context, cfg types.Config, planner *plan.Planner, records []types.Assignment, w io.Writer) ([]types.PlannedAssignment, error) {
	p := pipeline.Pipeline{Planner: planner, Workers: cfg.Workers}
	planned := p.PlanAll(ctx, records)
	if planned == nil {
		planned = []types.PlannedAssignment{}
	}

	for _, pa := range planned {
		fmt.Fprintf(w, "planned %s (%.1f hours, %d tasks)\n", pa.Assignment.Title, pa.TotalHours, len(pa.Tasks))
	}

	path := outPath(cfg, export.PlanFile(cfg.Project))
	if err := writeResults(path, planned); err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "wrote %s\n", path)
	return planned, nil
}

// exportStage writes the calendar, the task sheet, and the plan database.
func exportStage(ctx context.Context, cfg types.Config, planned []types.PlannedAssignment, w io.Writer) error {
	fs := afero.NewOsFs()

	icsPath := outPath(cfg, export.CalendarFile)
	if err := export.WriteICS(fs, icsPath, planned, time.Now()); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", icsPath)

	csvPath := outPath(cfg, export.CSVFile)
	if err := export.WriteCSV(fs, csvPath, planned); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", csvPath)

	dbPath := outPath(cfg, export.DatabaseFile)
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Save(ctx, cfg.Project, planned); err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	fmt.Fprintf(w, "wrote %s\n", dbPath)
	return nil
}

// writeResults writes v as YAML to path and as JSON next to it.
func writeResults(path string, v any) error {
	fs := afero.NewOsFs()
	if err := export.WriteYAML(fs, path, v); err != nil {
		return err
	}
	return export.WriteJSON(fs, strings.TrimSuffix(path, ".yaml")+".json", v)
}

func readAssignments(cfg types.Config) ([]types.Assignment, error) {
	var records []types.Assignment
	path := outPath(cfg, export.AssignmentsFile(cfg.Project))
	if err := export.ReadYAML(afero.NewOsFs(), path, &records); err != nil {
		return nil, fmt.Errorf("%w (run extract first)", err)
	}
	return records, nil
}

func readPlan(cfg types.Config) ([]types.PlannedAssignment, error) {
	var planned []types.PlannedAssignment
	path := outPath(cfg, export.PlanFile(cfg.Project))
	if err := export.ReadYAML(afero.NewOsFs(), path, &planned); err != nil {
		return nil, fmt.Errorf("%w (run plan first)", err)
	}
	return planned, nil
}
