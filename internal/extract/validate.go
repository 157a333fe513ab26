// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/syllabus-planner/internal/dates"
	"github.com/pdiddy/syllabus-planner/internal/trace"
	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// DefaultConfidence is stamped on candidates that carry no confidence.
const DefaultConfidence = 0.5

// Candidate is an unvalidated assignment as produced by the rule engine or a
// generator. Field names follow the generator's JSON schema.
type Candidate struct {
	Course        string   `json:"course,omitempty"`
	Title         string   `json:"assignment_title"`
	Due           string   `json:"due_datetime_iso"`
	Deliverables  []string `json:"deliverables"`
	Weight        string   `json:"points_or_weight,omitempty"`
	EvidenceSpans []string `json:"evidence_spans"`
	Confidence    *float64 `json:"confidence,omitempty"`
}

// ValidationError reports the field that kept a candidate from becoming an
// assignment.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validator is the single admission gate for candidates.
type Validator struct {
	Dates *dates.Normalizer
	Trace trace.Logger
}

// Validate re-parses the due date, stamps sourceDoc, defaults the
// confidence, and builds the assignment. Empty deliverable lists are
// replaced by the placeholder; every other violation is a *ValidationError.
func (v Validator) Validate(c Candidate, sourceDoc string) (types.Assignment, error) {
	norm := v.Dates
	if norm == nil {
		norm = dates.New()
	}

	title := strings.TrimSpace(c.Title)
	if title == "" {
		return types.Assignment{}, &ValidationError{Field: "assignment_title", Message: "missing"}
	}

	if strings.TrimSpace(c.Due) == "" {
		return types.Assignment{}, &ValidationError{Field: "due_datetime_iso", Message: "missing"}
	}
	due, ok := norm.Parse(c.Due)
	if !ok || dates.IsSentinel(dates.Format(due)) {
		return types.Assignment{}, &ValidationError{Field: "due_datetime_iso", Message: fmt.Sprintf("not a date: %q", c.Due)}
	}

	confidence := DefaultConfidence
	if c.Confidence != nil {
		confidence = *c.Confidence
	}
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return types.Assignment{}, &ValidationError{Field: "confidence", Message: fmt.Sprintf("%v outside [0, 1]", confidence)}
	}

	a := types.Assignment{
		Course:        strings.TrimSpace(c.Course),
		Title:         title,
		Due:           due,
		Deliverables:  cleanDeliverables(c.Deliverables),
		Weight:        strings.TrimSpace(c.Weight),
		SourceDoc:     sourceDoc,
		EvidenceSpans: append([]string{}, c.EvidenceSpans...),
		Confidence:    confidence,
	}

	prompt, _ := json.Marshal(c)
	trace.OrNop(v.Trace).Log(trace.Entry{
		Tag:      "assignment_normalize",
		Prompt:   string(prompt),
		Response: "ok",
		Metadata: map[string]any{"assignment_title": a.Title, "source_doc": sourceDoc},
	})
	return a, nil
}

func cleanDeliverables(in []string) []string {
	out := make([]string, 0, len(in))
	for _, d := range in {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return []string{types.PlaceholderDeliverable}
	}
	return out
}
