// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"math"
	"time"

	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// Schedule assigns each task a window working backward from due. The last
// task ends at due and every task ends where its successor starts. The
// input is not modified.
func Schedule(tasks []types.Task, due time.Time) []types.Task {
	out := make([]types.Task, len(tasks))
	next := due
	for i := len(tasks) - 1; i >= 0; i-- {
		t := tasks[i]
		start := next.Add(-Duration(t.HoursEstimate))
		out[i] = types.Task{
			Title:         t.Title,
			HoursEstimate: t.HoursEstimate,
			EarliestStart: start,
			Due:           next,
			DependsOn:     append([]string{}, t.DependsOn...),
		}
		next = start
	}
	return out
}

// ScheduleAssignment re-schedules tasks against a's due time.
func ScheduleAssignment(a types.Assignment, tasks []types.Task) []types.Task {
	return Schedule(tasks, a.Due)
}

// Duration converts hours to a span rounded to the second.
func Duration(hours float64) time.Duration {
	return time.Duration(math.Round(hours*3600)) * time.Second
}
