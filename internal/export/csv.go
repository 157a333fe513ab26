// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/pdiddy/syllabus-planner/internal/dates"
	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// CSVHeader is the first row of the task sheet.
var CSVHeader = []string{"course", "assignment", "task", "start_iso", "due_iso", "hours", "depends_on"}

// WriteCSV writes one row per task to path. Timestamps use the canonical
// wall-clock form; an unscheduled task has an empty start.
func WriteCSV(fs afero.Fs, path string, planned []types.PlannedAssignment) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, pa := range planned {
		for _, t := range pa.Tasks {
			var start string
			if t.Scheduled() {
				start = dates.Format(t.EarliestStart)
			}
			record := []string{
				pa.Assignment.Course,
				pa.Assignment.Title,
				t.Title,
				start,
				dates.Format(t.Due),
				strconv.FormatFloat(t.HoursEstimate, 'f', -1, 64),
				strings.Join(t.DependsOn, ";"),
			}
			if err := w.Write(record); err != nil {
				return fmt.Errorf("writing CSV row for %q: %w", t.Title, err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return writeFile(fs, path, buf.Bytes())
}
