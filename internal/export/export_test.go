// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/syllabus-planner/pkg/types"
)

var (
	testDue   = time.Date(2024, 3, 8, 23, 59, 0, 0, time.UTC)
	testStamp = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func testPlan() []types.PlannedAssignment {
	return []types.PlannedAssignment{{
		Assignment: types.Assignment{
			Course:       "CS 101",
			Title:        "Project, Part 1",
			Due:          testDue,
			Deliverables: []string{"report.pdf"},
			Confidence:   0.35,
		},
		TotalHours: 4,
		Tasks: []types.Task{
			{Title: "Research", HoursEstimate: 1.5, EarliestStart: testDue.Add(-4 * time.Hour), Due: testDue.Add(-150 * time.Minute), DependsOn: []string{}},
			{Title: "Write", HoursEstimate: 2.5, EarliestStart: testDue.Add(-150 * time.Minute), Due: testDue, DependsOn: []string{"Research"}},
		},
	}}
}

func TestICS(t *testing.T) {
	out := ICS(testPlan(), testStamp)

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//Syllabus Planner//EN\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"))
	assert.Equal(t, 3, strings.Count(out, "END:VEVENT"))

	assert.Contains(t, out, "UID:Project\\, Part 1\r\n")
	assert.Contains(t, out, "SUMMARY:Project\\, Part 1\r\n")
	assert.Contains(t, out, "UID:Project\\, Part 1-Write\r\n")
	assert.Contains(t, out, "DTSTAMP:20240301T120000Z\r\n")
	assert.Contains(t, out, "DTSTART:20240308T195900Z\r\nDTEND:20240308T212900Z\r\nSUMMARY:Research")
	assert.Contains(t, out, "DTSTART:20240308T235900Z\r\nDTEND:20240308T235900Z\r\nSUMMARY:Project")
}

func TestICSConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	plan := []types.PlannedAssignment{{
		Assignment: types.Assignment{Title: "Quiz", Due: time.Date(2024, 3, 8, 9, 0, 0, 0, loc)},
	}}
	assert.Contains(t, ICS(plan, testStamp), "DTEND:20240308T140000Z")
}

func TestICSUnscheduledTaskUsesDue(t *testing.T) {
	plan := testPlan()
	plan[0].Tasks = []types.Task{{Title: "Solo", HoursEstimate: 1, Due: testDue}}
	assert.Contains(t, ICS(plan, testStamp), "DTSTART:20240308T235900Z\r\nDTEND:20240308T235900Z\r\nSUMMARY:Solo")
}

func TestWriteICS(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, WriteICS(fs, "out/calendar.ics", testPlan(), testStamp))

	data, err := afero.ReadFile(fs, "out/calendar.ics")
	require.NoError(t, err)
	assert.Equal(t, ICS(testPlan(), testStamp), string(data))
}

func TestWriteCSV(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, WriteCSV(fs, "out/tasks.csv", testPlan()))

	f, err := fs.Open("out/tasks.csv")
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"CS 101", "Project, Part 1", "Research", "2024-03-08T19:59:00", "2024-03-08T21:29:00", "1.5", ""}, records[1])
	assert.Equal(t, []string{"CS 101", "Project, Part 1", "Write", "2024-03-08T21:29:00", "2024-03-08T23:59:00", "2.5", "Research"}, records[2])
}

func TestWriteCSVUnscheduledAndMultipleDeps(t *testing.T) {
	plan := testPlan()
	plan[0].Tasks = []types.Task{{Title: "Final", HoursEstimate: 2, Due: testDue, DependsOn: []string{"A", "B"}}}

	fs := afero.NewMemMapFs()
	require.NoError(t, WriteCSV(fs, "tasks.csv", plan))

	data, err := afero.ReadFile(fs, "tasks.csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `CS 101,"Project, Part 1",Final,,2024-03-08T23:59:00,2,A;B`, lines[1])
}

func TestWriteCSVEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, WriteCSV(fs, "tasks.csv", nil))

	data, err := afero.ReadFile(fs, "tasks.csv")
	require.NoError(t, err)
	assert.Equal(t, "course,assignment,task,start_iso,due_iso,hours,depends_on\n", string(data))
}

func TestYAMLRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "out/" + PlanFile("fall")
	require.NoError(t, WriteYAML(fs, path, testPlan()))

	var got []types.PlannedAssignment
	require.NoError(t, ReadYAML(fs, path, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Project, Part 1", got[0].Assignment.Title)
	assert.True(t, got[0].Assignment.Due.Equal(testDue))
	require.Len(t, got[0].Tasks, 2)
	assert.Equal(t, []string{"Research"}, got[0].Tasks[1].DependsOn)
}

func TestReadYAMLMissing(t *testing.T) {
	var v []types.Assignment
	err := ReadYAML(afero.NewMemMapFs(), "nope.yaml", &v)
	assert.ErrorContains(t, err, "reading nope.yaml")
}

func TestWriteJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, WriteJSON(fs, "out/a.json", []types.Assignment{testPlan()[0].Assignment}))

	data, err := afero.ReadFile(fs, "out/a.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"assignment_title": "Project, Part 1"`)
	assert.Contains(t, string(data), `"due_datetime": "2024-03-08T23:59:00Z"`)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "fall_assignments.yaml", AssignmentsFile("fall"))
	assert.Equal(t, "fall_plan.yaml", PlanFile("fall"))
}

func TestTable(t *testing.T) {
	out := Table(Rows(testPlan()))

	for _, h := range TableHeaders {
		assert.Contains(t, out, h)
	}
	assert.Contains(t, out, "Research")
	assert.Contains(t, out, "2024-03-08 19:59")
	assert.Contains(t, out, "1.50")
	assert.Contains(t, out, "2.50")
}

func TestTableUnscheduledStart(t *testing.T) {
	out := Table([]Row{{Course: "CS", Assignment: "A", Task: "T", Due: testDue, Hours: 1}})
	assert.Contains(t, out, " - ")
}

func TestRows(t *testing.T) {
	rows := Rows(testPlan())
	require.Len(t, rows, 2)
	assert.Equal(t, Row{
		Course:     "CS 101",
		Assignment: "Project, Part 1",
		Task:       "Write",
		Start:      testDue.Add(-150 * time.Minute),
		Due:        testDue,
		Hours:      2.5,
	}, rows[1])
}
