// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/pdiddy/syllabus-planner/pkg/types"
)

const icsTime = "20060102T150405Z"

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

// ICS renders planned assignments as an iCalendar document. Each assignment
// becomes an event at its due time and each task an event spanning its
// window. Unscheduled tasks collapse to their due time.
func ICS(planned []types.PlannedAssignment, stamp time.Time) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//Syllabus Planner//EN")
	for _, pa := range planned {
		a := pa.Assignment
		writeEvent(line, a.Title, a.Title, a.Due, a.Due, stamp)
		for _, t := range pa.Tasks {
			start := t.Due
			if t.Scheduled() {
				start = t.EarliestStart
			}
			writeEvent(line, a.Title+"-"+t.Title, t.Title, start, t.Due, stamp)
		}
	}
	line("END:VCALENDAR")
	return b.String()
}

func writeEvent(line func(string), uid, summary string, start, end, stamp time.Time) {
	line("BEGIN:VEVENT")
	line("UID:" + icsEscaper.Replace(uid))
	line("DTSTAMP:" + formatICS(stamp))
	line("DTSTART:" + formatICS(start))
	line("DTEND:" + formatICS(end))
	line("SUMMARY:" + icsEscaper.Replace(summary))
	line("END:VEVENT")
}

func formatICS(t time.Time) string {
	return t.UTC().Format(icsTime)
}

// WriteICS writes the calendar for planned to path.
func WriteICS(fs afero.Fs, path string, planned []types.PlannedAssignment, stamp time.Time) error {
	return writeFile(fs, path, []byte(ICS(planned, stamp)))
}
