// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pdiddy/syllabus-planner/pkg/types"
)

const tableTime = "2006-01-02 15:04"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	hoursStyle = cellStyle.Align(lipgloss.Right)

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TableHeaders are the columns of the task table.
var TableHeaders = []string{"Course", "Assignment", "Task", "Start", "Due", "Hours"}

// Row is one task line of the table.
type Row struct {
	Course     string
	Assignment string
	Task       string
	Start      time.Time
	Due        time.Time
	Hours      float64
}

// Rows flattens planned assignments into table rows.
func Rows(planned []types.PlannedAssignment) []Row {
	var rows []Row
	for _, pa := range planned {
		for _, t := range pa.Tasks {
			rows = append(rows, Row{
				Course:     pa.Assignment.Course,
				Assignment: pa.Assignment.Title,
				Task:       t.Title,
				Start:      t.EarliestStart,
				Due:        t.Due,
				Hours:      t.HoursEstimate,
			})
		}
	}
	return rows
}

// Table renders rows as a bordered terminal table.
func Table(rows []Row) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{
			r.Course,
			r.Assignment,
			r.Task,
			formatCell(r.Start),
			formatCell(r.Due),
			strconv.FormatFloat(r.Hours, 'f', 2, 64),
		}
	}

	hoursCol := len(TableHeaders) - 1
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == hoursCol:
				return hoursStyle
			default:
				return cellStyle
			}
		}).
		Headers(TableHeaders...).
		Rows(cells...).
		String()
}

func formatCell(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(tableTime)
}
