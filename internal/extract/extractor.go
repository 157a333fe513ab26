// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns syllabus text into validated assignment records.
//
// The rule engine (RuleBased) classifies lines by cue words and layout and
// aggregates them into candidates. Every candidate, rule-built or generated,
// passes through Validator before it becomes a types.Assignment. Fallback
// chains a generator-backed strategy to the rule engine so extraction
// always yields records.
package extract

import (
	"context"
	"errors"

	"github.com/pdiddy/syllabus-planner/internal/trace"
	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// Extractor is one extraction strategy.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, doc types.Document) ([]types.Assignment, error)
}

// SourceOf names the document records are attributed to: its path, or its
// ID when the text did not come from a file.
func SourceOf(doc types.Document) string {
	if doc.Path != "" {
		return doc.Path
	}
	return doc.ID
}

// errNoRecords is returned by a strategy whose output held no valid record.
var errNoRecords = errors.New("no valid assignment records")

// Fallback tries Primary and, on any error or an empty result, returns
// Secondary's records instead. The primary error is traced, never returned.
type Fallback struct {
	Primary   Extractor
	Secondary Extractor
	Trace     trace.Logger
}

// Name implements Extractor.
func (f Fallback) Name() string {
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

// Extract implements Extractor.
func (f Fallback) Extract(ctx context.Context, doc types.Document) ([]types.Assignment, error) {
	records, err := f.Primary.Extract(ctx, doc)
	if err == nil && len(records) > 0 {
		return records, nil
	}
	if err == nil {
		err = errNoRecords
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	trace.OrNop(f.Trace).Log(trace.Entry{
		Tag:      "extractor_fallback",
		Prompt:   SourceOf(doc),
		Response: err.Error(),
		Metadata: map[string]any{"primary": f.Primary.Name(), "secondary": f.Secondary.Name()},
	})
	return f.Secondary.Extract(ctx, doc)
}
