// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/syllabus-planner/internal/dates"
	"github.com/pdiddy/syllabus-planner/internal/trace"
	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// clock is Wednesday 2024-03-06 10:00 UTC.
var clock = time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC)

func newTestEngine(tl trace.Logger) *RuleBased {
	n := dates.New(dates.WithClock(func() time.Time { return clock }))
	return NewRuleBased(n, tl)
}

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func TestExtractText_IntegrationScenario(t *testing.T) {
	text := "Course: Pipelines\nAssignment: Integration Test\nDue: May 5 2024 21:00\nSubmit: Code tarball"

	records, err := newTestEngine(nil).ExtractText(text, "doc1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Pipelines", rec.Course)
	assert.Equal(t, "Integration Test", rec.Title)
	assert.Equal(t, at(2024, time.May, 5, 21, 0), rec.Due)
	assert.Equal(t, []string{"Code tarball"}, rec.Deliverables)
	assert.Equal(t, "doc1", rec.SourceDoc)
	assert.Equal(t, []string{"Due: May 5 2024 21:00"}, rec.EvidenceSpans)
	assert.Equal(t, RuleConfidence, rec.Confidence)
	assert.Empty(t, rec.Weight)
}

func TestExtractText_PlaceholderDeliverable(t *testing.T) {
	records, err := newTestEngine(nil).ExtractText("Assignment: Placeholder\nDue: April 1 2024 09:00", "")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Placeholder", rec.Title)
	assert.Equal(t, at(2024, time.April, 1, 9, 0), rec.Due)
	assert.Equal(t, []string{types.PlaceholderDeliverable}, rec.Deliverables)
	assert.True(t, rec.HasPlaceholderDeliverables())
	assert.GreaterOrEqual(t, rec.Confidence, 0.0)
	assert.LessOrEqual(t, rec.Confidence, 1.0)
	assert.Empty(t, rec.SourceDoc)
}

func TestExtractText_TitleContainingDraft(t *testing.T) {
	text := "Course: Intro to Testing\nAssignment: Unit Test Draft\nDue: March 10 2024 at 11:59 PM\nSubmit: PDF write-up"

	records, err := newTestEngine(nil).ExtractText(text, "test_doc")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Intro to Testing", records[0].Course)
	assert.Equal(t, "Unit Test Draft", records[0].Title)
	assert.Equal(t, at(2024, time.March, 10, 23, 59), records[0].Due)
	assert.Equal(t, []string{"PDF write-up"}, records[0].Deliverables)
}

func TestExtractText_DedupFillsGapsOnly(t *testing.T) {
	text := "Project Proposal\n" +
		"Due: March 10, 2024 at 11:59 PM\n" +
		"Worth 10%\n" +
		"\n" +
		"Project Proposal\n" +
		"Due: March 10, 2024 11:59 PM\n" +
		"Submit: PDF via portal\n" +
		"Worth 20%\n"

	records, err := newTestEngine(nil).ExtractText(text, "doc")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Project Proposal", rec.Title)
	assert.Equal(t, "Worth 10%", rec.Weight, "populated weight is never overwritten")
	assert.Equal(t, []string{"PDF via portal"}, rec.Deliverables, "placeholder is replaced")
	assert.Equal(t, []string{"Due: March 10, 2024 at 11:59 PM"}, rec.EvidenceSpans)
}

func TestExtractText_DedupKeepsPopulatedDeliverables(t *testing.T) {
	text := "Assignment: Essay\nDue: Feb 2 2024 at 5 PM\nSubmit: essay.pdf\n\n" +
		"Assignment: Essay\nDue: Feb 2 2024 at 5 PM\nSubmit: outline.pdf\nWorth 15 points"

	records, err := newTestEngine(nil).ExtractText(text, "doc")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"essay.pdf"}, records[0].Deliverables)
	assert.Equal(t, "Worth 15 points", records[0].Weight)
}

func TestExtractText_SameTitleDifferentDue(t *testing.T) {
	text := "Lab Notebook\nDue: Feb 2 2024 at 5 PM\nDue: Feb 9 2024 at 5 PM\nSubmit: notebook"

	records, err := newTestEngine(nil).ExtractText(text, "doc")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, at(2024, time.February, 2, 17, 0), records[0].Due)
	assert.True(t, records[0].HasPlaceholderDeliverables(), "forward scan stops at the next due line")
	assert.Equal(t, at(2024, time.February, 9, 17, 0), records[1].Due)
	assert.Equal(t, []string{"notebook"}, records[1].Deliverables)
	assert.Equal(t, "Lab Notebook", records[1].Title)
}

func TestExtractText_MultipleAssignmentsInOrder(t *testing.T) {
	text := "Assignment: Essay One\nDue: Feb 2 2024 at 5 PM\n" +
		"Assignment: Essay Two\nDue: Feb 9 2024 at 5 PM\nSubmit: essay.pdf"

	records, err := newTestEngine(nil).ExtractText(text, "doc")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Essay One", records[0].Title)
	assert.True(t, records[0].HasPlaceholderDeliverables(), "forward scan stops at the next header")
	assert.Equal(t, "Essay Two", records[1].Title)
	assert.Equal(t, []string{"essay.pdf"}, records[1].Deliverables)
}

func TestExtractText_ForwardScanStopsAtHeader(t *testing.T) {
	text := "Project Alpha\nDue: May 1 2024 at 9 AM\nMilestone: Beta\nSubmit: slides"

	records, err := newTestEngine(nil).ExtractText(text, "doc")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Project Alpha", records[0].Title)
	assert.True(t, records[0].HasPlaceholderDeliverables())
}

func TestExtractText_WeightBackwardScan(t *testing.T) {
	text := "Weight: 20%\nLab Report\nDue: May 1 2024 at 9 AM"

	records, err := newTestEngine(nil).ExtractText(text, "doc")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Lab Report", records[0].Title)
	assert.Equal(t, "Weight: 20%", records[0].Weight)
	assert.Equal(t, "Weight: 20%", records[0].Course, "no course label falls back to the first line")
}

func TestExtractText_WeightForwardScan(t *testing.T) {
	text := "Assignment: Case Study\nDue: May 1 2024 at 9 AM\nSubmit: memo\nCounts for 25 percent"

	records, err := newTestEngine(nil).ExtractText(text, "doc")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Counts for 25 percent", records[0].Weight)
	assert.Equal(t, []string{"memo"}, records[0].Deliverables)
}

func TestExtractText_AtTimeWithoutDueCue(t *testing.T) {
	text := "Reading Response\nEssay: March 3 2024 at 5 PM"

	records, err := newTestEngine(nil).ExtractText(text, "doc")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Reading Response", records[0].Title)
	assert.Equal(t, at(2024, time.March, 3, 17, 0), records[0].Due)
}

func TestExtractText_SuppressedLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []time.Time
	}{
		{
			name: "issue date is not a due date",
			text: "Homework Set\nReleased: March 1 2024 at 9 AM\nDue: March 8 2024 at 9 AM",
			want: []time.Time{at(2024, time.March, 8, 9, 0)},
		},
		{
			name: "draft without final",
			text: "Homework Set\nDraft due: March 1 2024 at 5 PM\nFinal due: March 8 2024 at 5 PM",
			want: []time.Time{at(2024, time.March, 8, 17, 0)},
		},
		{
			name: "session without due or submission",
			text: "Homework Set\nReview session: March 4 2024 at 3 PM",
			want: nil,
		},
		{
			name: "session with due",
			text: "Homework Set\nSession notes due: March 4 2024 at 3 PM",
			want: []time.Time{at(2024, time.March, 4, 15, 0)},
		},
		{
			name: "demo date without submission",
			text: "Capstone Project\nDemo date: April 4 2024 at 3 PM",
			want: nil,
		},
		{
			name: "undated due cue",
			text: "Homework Set\nDue: sometime soon, check the portal",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := newTestEngine(nil).ExtractText(tt.text, "doc")
			require.NoError(t, err)

			var got []time.Time
			for _, r := range records {
				got = append(got, r.Due)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractText_Empty(t *testing.T) {
	records, err := newTestEngine(nil).ExtractText("", "doc")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtractText_Traces(t *testing.T) {
	rec := &trace.Recorder{}
	_, err := newTestEngine(rec).ExtractText("Assignment: Essay\nDue: Feb 2 2024 at 5 PM", "doc")
	require.NoError(t, err)

	assert.Equal(t, []string{"assignment_normalize", "rule_based_extract_many"}, rec.Tags())
	last := rec.Entries()[1]
	assert.Contains(t, last.Prompt, "Assignment: Essay")
	assert.Equal(t, 1, last.Metadata["records"])
}

func TestExtract_PlaceholderWhenNothingFound(t *testing.T) {
	doc := types.Document{ID: "doc9", Text: "Course: Art History\nNo dates here"}

	records, err := newTestEngine(nil).Extract(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, UntitledAssignment, rec.Title)
	assert.Equal(t, "Art History", rec.Course)
	assert.Equal(t, "doc9", rec.SourceDoc)
	assert.Equal(t, RuleConfidence, rec.Confidence)
	assert.True(t, rec.HasPlaceholderDeliverables())
	assert.Equal(t, time.Friday, rec.Due.Weekday())
	assert.Equal(t, 23, rec.Due.Hour())
	assert.Equal(t, 59, rec.Due.Minute())
	assert.True(t, rec.Due.After(clock))
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestEngine(nil).Extract(ctx, types.Document{Text: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractOne(t *testing.T) {
	e := newTestEngine(nil)

	rec, err := e.ExtractOne("Assignment: Essay One\nDue: Feb 2 2024 at 5 PM\nAssignment: Essay Two\nDue: Feb 9 2024 at 5 PM", "doc")
	require.NoError(t, err)
	assert.Equal(t, "Essay One", rec.Title)

	rec, err = e.ExtractOne("nothing to see", "")
	require.NoError(t, err)
	assert.Equal(t, UntitledAssignment, rec.Title)
}

func TestSourceOf(t *testing.T) {
	assert.Equal(t, "data/raw/syllabus.txt", SourceOf(types.Document{ID: "abc", Path: "data/raw/syllabus.txt"}))
	assert.Equal(t, "abc", SourceOf(types.Document{ID: "abc"}))
}
