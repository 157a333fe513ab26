// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// MinTaskHours is the smallest effort a task may carry.
const MinTaskHours = 0.25

// Task is one milestone within an assignment's plan.
type Task struct {
	// Title is unique within its assignment's task list.
	Title string `json:"title" yaml:"title"`

	// HoursEstimate is the effort in hours, at least MinTaskHours.
	HoursEstimate float64 `json:"hours_estimate" yaml:"hours_estimate"`

	// EarliestStart is set by the scheduler. The zero value means unscheduled.
	EarliestStart time.Time `json:"earliest_start,omitzero" yaml:"earliest_start,omitempty"`

	// Due is the end of the task's window. Before scheduling it equals the
	// assignment due time.
	Due time.Time `json:"due" yaml:"due"`

	// DependsOn lists predecessor task titles.
	DependsOn []string `json:"depends_on" yaml:"depends_on"`
}

// Scheduled reports whether the scheduler has assigned a window to the task.
func (t Task) Scheduled() bool {
	return !t.EarliestStart.IsZero()
}
