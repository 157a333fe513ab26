// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs extraction and planning over many documents. Each
// document is independent, so documents are processed concurrently on a
// bounded number of goroutines.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"

	"github.com/pdiddy/syllabus-planner/internal/extract"
	"github.com/pdiddy/syllabus-planner/internal/plan"
	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// DefaultWorkers is used when Workers is not positive.
const DefaultWorkers = 4

// Summary holds counts from a batch run.
type Summary struct {
	RunID       string
	Extracted   int
	Failed      int
	Assignments int
}

// Total returns the number of documents processed.
func (s Summary) Total() int {
	return s.Extracted + s.Failed
}

// HasFailures reports whether any document failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Extraction is the outcome for one document.
type Extraction struct {
	DocID   string
	Records []types.Assignment
	Err     error
}

// Pipeline wires an extraction strategy to a planner.
type Pipeline struct {
	Extractor extract.Extractor
	Planner   *plan.Planner
	Workers   int

	// Out receives one progress line per document. May be nil.
	Out io.Writer

	mu sync.Mutex
}

// ExtractAll extracts every document and returns results in input order.
// A failed document is counted and reported; it does not stop the batch.
func (p *Pipeline) ExtractAll(ctx context.Context, docs []types.Document) ([]Extraction, Summary) {
	summary := Summary{RunID: uuid.NewString()}
	mapper := iter.Mapper[types.Document, Extraction]{MaxGoroutines: p.workers()}

	results := mapper.Map(docs, func(doc *types.Document) Extraction {
		records, err := p.Extractor.Extract(ctx, *doc)
		if err != nil {
			p.progress("failed  %s: %v\n", doc.ID, err)
			return Extraction{DocID: doc.ID, Err: err}
		}
		p.progress("extracted %s (%d assignments)\n", doc.ID, len(records))
		return Extraction{DocID: doc.ID, Records: records}
	})

	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Extracted++
		summary.Assignments += len(r.Records)
	}
	return results, summary
}

// PlanAll plans every assignment, preserving order.
func (p *Pipeline) PlanAll(ctx context.Context, records []types.Assignment) []types.PlannedAssignment {
	planner := p.Planner
	if planner == nil {
		planner = &plan.Planner{}
	}
	mapper := iter.Mapper[types.Assignment, types.PlannedAssignment]{MaxGoroutines: p.workers()}
	return mapper.Map(records, func(a *types.Assignment) types.PlannedAssignment {
		return planner.Plan(ctx, *a)
	})
}

// Run extracts every document and plans every record found.
func (p *Pipeline) Run(ctx context.Context, docs []types.Document) ([]types.PlannedAssignment, Summary) {
	results, summary := p.ExtractAll(ctx, docs)
	return p.PlanAll(ctx, Records(results)), summary
}

// Records flattens successful extractions in document order.
func Records(results []Extraction) []types.Assignment {
	var out []types.Assignment
	for _, r := range results {
		out = append(out, r.Records...)
	}
	return out
}

func (p *Pipeline) workers() int {
	if p.Workers <= 0 {
		return DefaultWorkers
	}
	return p.Workers
}

func (p *Pipeline) progress(format string, args ...any) {
	if p.Out == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.Out, format, args...)
}
