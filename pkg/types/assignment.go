// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records shared by every pipeline stage.
package types

import "time"

// PlaceholderDeliverable is the single deliverable recorded when none is detected.
const PlaceholderDeliverable = "Submission per instructions"

// Assignment is one detected assignment with its due date and provenance.
// Records are only built by extract.Validator, which enforces the rules
// noted on each field.
type Assignment struct {
	// Course is the free-text course name, empty when unknown.
	Course string `json:"course,omitempty" yaml:"course,omitempty"`

	// Title is the human-readable assignment name. Never empty.
	Title string `json:"assignment_title" yaml:"assignment_title"`

	// Due is the deadline at second precision.
	Due time.Time `json:"due_datetime" yaml:"due_datetime"`

	// Deliverables lists submission artifacts in source order. Never empty;
	// holds PlaceholderDeliverable when none was detected.
	Deliverables []string `json:"deliverables" yaml:"deliverables"`

	// Weight is the free-text score or percentage descriptor.
	Weight string `json:"points_or_weight,omitempty" yaml:"points_or_weight,omitempty"`

	// SourceDoc identifies the originating text. May be empty for ad-hoc input.
	SourceDoc string `json:"source_doc" yaml:"source_doc"`

	// EvidenceSpans are the raw lines that justified the record.
	EvidenceSpans []string `json:"evidence_spans" yaml:"evidence_spans"`

	// Confidence is the extractor's certainty in [0, 1].
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// HasPlaceholderDeliverables reports whether the record still holds the
// default deliverable list.
func (a Assignment) HasPlaceholderDeliverables() bool {
	return len(a.Deliverables) == 1 && a.Deliverables[0] == PlaceholderDeliverable
}

// PlannedAssignment pairs an assignment with its scheduled milestone tasks.
type PlannedAssignment struct {
	Assignment Assignment `json:"assignment" yaml:"assignment"`

	// TotalHours is the effort estimate the tasks were sized from.
	TotalHours float64 `json:"total_hours" yaml:"total_hours"`

	Tasks []Task `json:"tasks" yaml:"tasks"`
}
