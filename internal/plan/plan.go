// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan estimates effort for an assignment and schedules its
// milestone tasks backward from the due date.
package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"text/template"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/syllabus-planner/internal/extract"
	"github.com/pdiddy/syllabus-planner/internal/trace"
	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// MinSegmentHours is the floor for each heuristic segment.
const MinSegmentHours = 0.5

// Segment is one named share of the heuristic plan.
type Segment struct {
	Name  string
	Share float64
}

// Segments partition an assignment's effort, in order.
var Segments = []Segment{
	{"Review requirements", 0.20},
	{"Research & outline", 0.30},
	{"Draft deliverables", 0.35},
	{"Quality review & submit", 0.15},
}

// BuildTasks splits total hours across Segments into an unscheduled linear
// chain. Each share is rounded to a tenth and floored at MinSegmentHours;
// the last segment absorbs the rounding residual so the chain sums to total.
func BuildTasks(a types.Assignment, total float64) []types.Task {
	tasks := make([]types.Task, 0, len(Segments))
	used := 0.0
	for i, seg := range Segments {
		hours := math.Max(MinSegmentHours, round1(total*seg.Share))
		if i == len(Segments)-1 {
			// The residual may leave less than MinSegmentHours; a Task never
			// carries less than types.MinTaskHours.
			hours = math.Max(types.MinTaskHours, round2(total-used))
		}
		used += hours

		depends := []string{}
		if i > 0 {
			depends = []string{tasks[i-1].Title}
		}
		tasks = append(tasks, types.Task{
			Title:         a.Title + ": " + seg.Name,
			HoursEstimate: hours,
			Due:           a.Due,
			DependsOn:     depends,
		})
	}
	return tasks
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }

// Generator produces raw model output for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var planPromptTmpl = template.Must(template.New("plan").Parse(`Create 3-5 milestone tasks for this assignment.
Respond as a JSON list of objects {"title", "hours_estimate", "depends_on"}.
Total hours should be about {{printf "%.1f" .Hours}}.
Assignment: {{.Assignment}}
`))

// Planner turns assignments into scheduled task lists. With a Generator it
// first asks for milestone tasks and falls back to BuildTasks on any
// failure.
type Planner struct {
	Generator Generator
	Trace     trace.Logger
}

// Plan estimates effort, builds the milestone tasks, and schedules them
// backward from a's due date.
func (p *Planner) Plan(ctx context.Context, a types.Assignment) types.PlannedAssignment {
	total := EstimateHours(a)

	var tasks []types.Task
	if p.Generator != nil {
		generated, err := p.generate(ctx, a, total)
		if err == nil {
			tasks = generated
		}
	}
	if len(tasks) == 0 {
		tasks = BuildTasks(a, total)
	}
	scheduled := ScheduleAssignment(a, tasks)

	prompt, _ := json.Marshal(a)
	response, _ := json.Marshal(scheduled)
	trace.OrNop(p.Trace).Log(trace.Entry{
		Tag:      "planner_plan",
		Prompt:   string(prompt),
		Response: string(response),
		Metadata: map[string]any{"hours": total},
	})

	return types.PlannedAssignment{Assignment: a, TotalHours: total, Tasks: scheduled}
}

// generate asks the Generator for tasks. The reply is forced into a linear
// chain of uniquely titled tasks.
func (p *Planner) generate(ctx context.Context, a types.Assignment, total float64) ([]types.Task, error) {
	record, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshaling assignment: %w", err)
	}
	var buf bytes.Buffer
	if err := planPromptTmpl.Execute(&buf, struct {
		Hours      float64
		Assignment string
	}{total, string(record)}); err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := p.Generator.Generate(ctx, buf.String())
	trace.OrNop(p.Trace).Log(trace.Entry{
		Tag:      "planner_generate",
		Prompt:   buf.String(),
		Response: raw,
		Metadata: map[string]any{"assignment_title": a.Title, "failed": err != nil},
	})
	if err != nil {
		return nil, err
	}

	parsed, err := extract.RepairJSON(raw)
	if err != nil {
		return nil, err
	}
	if !parsed.IsArray() || len(parsed.Array()) == 0 {
		return nil, fmt.Errorf("generated plan is not a non-empty list")
	}
	return generatedTasks(parsed.Array(), a, total), nil
}

func generatedTasks(items []gjson.Result, a types.Assignment, total float64) []types.Task {
	fallbackHours := math.Max(types.MinTaskHours, total/float64(len(items)))
	taken := make(map[string]bool)
	tasks := make([]types.Task, 0, len(items))
	for i, item := range items {
		title := a.Title
		if t := item.Get("title"); t.Type == gjson.String && t.String() != "" {
			title = t.String()
		}
		base := title
		for n := 2; taken[title]; n++ {
			title = fmt.Sprintf("%s (%d)", base, n)
		}
		taken[title] = true

		hours := fallbackHours
		if h := item.Get("hours_estimate"); h.Type == gjson.Number {
			hours = math.Max(types.MinTaskHours, h.Float())
		}

		depends := []string{}
		if i > 0 {
			depends = []string{tasks[i-1].Title}
		}
		tasks = append(tasks, types.Task{
			Title:         title,
			HoursEstimate: hours,
			Due:           a.Due,
			DependsOn:     depends,
		})
	}
	return tasks
}
