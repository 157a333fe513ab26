// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dates converts loosely formatted date and time phrases into
// canonical second-precision timestamps.
//
// A phrase is parsed as a whole: fixed layouts first, then
// github.com/araddon/dateparse for numeric forms, then
// github.com/olebedev/when for relative phrases such as
// "next friday at 11:59 pm". Unparseable input yields Sentinel rather than
// an error, and callers treat Sentinel as "no date present".
package dates

import (
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

const (
	// Layout is the canonical timestamp format: wall clock, no offset.
	Layout = "2006-01-02T15:04:05"

	// Sentinel is returned by Normalize when no date can be parsed.
	Sentinel = "1970-01-01T00:00:00"
)

// decoration is stripped from the left of every phrase.
const decoration = "•-–—* "

var (
	dueLabel    = regexp.MustCompile(`(?i)due[^:]*:\s*(.+)`)
	labelPrefix = regexp.MustCompile(`^[A-Za-z\s]*[:\-]\s*`)

	ordinal       = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
	meridiem      = regexp.MustCompile(`(?i)(\d)\s*([ap])\.?\s?m\b\.?`)
	abbrevDot     = regexp.MustCompile(`([A-Za-z]{3,})\.`)
	connector     = regexp.MustCompile(`(?i)\s+(at|by|on|@)\s+`)
	leadingJoiner = regexp.MustCompile(`(?i)^(at|by|on)\s+`)
	noon          = regexp.MustCompile(`(?i)\bnoon\b`)
	midnight      = regexp.MustCompile(`(?i)\bmidnight\b`)
	weekdayPrefix = regexp.MustCompile(`(?i)^(monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat|sunday|sun)\.?,?\s+`)
	september     = regexp.MustCompile(`(?i)\bsept\b`)
)

// weekdays maps the first three letters of a weekday name to its value.
var weekdays = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

var (
	dateLayouts = []string{
		"January 2 2006",
		"Jan 2 2006",
		"2 January 2006",
		"2 Jan 2006",
		"2006-01-02",
		"2006/01/02",
		"1/2/2006",
		"January 2",
		"Jan 2",
		"2 January",
		"2 Jan",
		"1/2",
	}
	timeLayouts = []string{
		"15:04",
		"15:04:05",
		"3:04 PM",
		"3:04:05 PM",
		"3 PM",
	}
	isoLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}
)

// layout is one accepted fixed format and which calendar fields it carries.
type layout struct {
	format  string
	hasYear bool
	hasDate bool
}

// layouts holds every accepted fixed layout, most specific first.
var layouts = buildLayouts()

func buildLayouts() []layout {
	var out []layout
	for _, f := range isoLayouts {
		out = append(out, layout{format: f, hasYear: true, hasDate: true})
	}
	for _, d := range dateLayouts {
		year := strings.Contains(d, "2006")
		for _, t := range timeLayouts {
			out = append(out,
				layout{format: d + " " + t, hasYear: year, hasDate: true},
				layout{format: t + " " + d, hasYear: year, hasDate: true},
			)
		}
	}
	for _, d := range dateLayouts {
		out = append(out, layout{format: d, hasYear: strings.Contains(d, "2006"), hasDate: true})
	}
	for _, t := range timeLayouts {
		out = append(out, layout{format: t})
	}
	return out
}

// Normalizer parses date phrases relative to a location and a clock.
// It is safe for concurrent use.
type Normalizer struct {
	loc *time.Location
	now func() time.Time

	mu      sync.Mutex
	natural *when.Parser
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLocation sets the location for phrases that carry no offset.
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.loc = loc
		}
	}
}

// WithClock sets the reference time for relative phrases and yearless dates.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// New returns a Normalizer. Without options it uses UTC and time.Now.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{loc: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	n.natural = w
	return n
}

// Location returns the location timestamps are expressed in.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Now returns the reference time in the normalizer's location.
func (n *Normalizer) Now() time.Time {
	return n.now().In(n.loc)
}

// Normalize returns the canonical timestamp for phrase, or Sentinel.
func (n *Normalizer) Normalize(phrase string) string {
	t, ok := n.Parse(phrase)
	if !ok {
		return Sentinel
	}
	return Format(t)
}

// Parse returns the time named by phrase, truncated to the second.
func (n *Normalizer) Parse(phrase string) (time.Time, bool) {
	s := stripLabels(phrase)
	if s == "" {
		return time.Time{}, false
	}

	canon, wd, hasWeekday := splitWeekday(canonicalize(s))
	if t, l, ok := n.parseLayouts(canon); ok {
		if hasWeekday && !l.hasDate {
			t = n.onWeekday(t, wd)
		}
		return n.finish(t), true
	}
	if strings.IndexFunc(canon, unicode.IsDigit) >= 0 {
		if t, err := dateparse.ParseIn(canon, n.loc); err == nil {
			return n.finish(t), true
		}
	}
	if t, ok := n.parseNatural(s); ok {
		return n.finish(t), true
	}
	return time.Time{}, false
}

// ParseCanonical reads a timestamp previously produced by Normalize.
func (n *Normalizer) ParseCanonical(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, n.loc)
}

func (n *Normalizer) finish(t time.Time) time.Time {
	return t.In(n.loc).Truncate(time.Second)
}

func (n *Normalizer) parseLayouts(s string) (time.Time, layout, bool) {
	for _, l := range layouts {
		t, err := time.ParseInLocation(l.format, s, n.loc)
		if err != nil {
			continue
		}
		return n.fillMissing(l, t), l, true
	}
	return time.Time{}, layout{}, false
}

// onWeekday moves a time-of-day to the next wd at or after the reference
// time. A weekday naming today whose time has passed means next week.
func (n *Normalizer) onWeekday(t time.Time, wd time.Weekday) time.Time {
	now := n.Now()
	days := (int(wd) - int(now.Weekday()) + 7) % 7
	day := now.AddDate(0, 0, days)
	out := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, n.loc)
	if out.Before(now) {
		out = out.AddDate(0, 0, 7)
	}
	return out
}

// fillMissing supplies the current year for yearless layouts and the current
// date for time-only layouts.
func (n *Normalizer) fillMissing(l layout, t time.Time) time.Time {
	now := n.Now()
	switch {
	case l.hasYear:
		return t
	case l.hasDate:
		return time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, n.loc)
	default:
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), t.Second(), 0, n.loc)
	}
}

// parseNatural accepts a relative phrase only when the match spans the
// whole input, so incidental words never turn a sentence into a date.
func (n *Normalizer) parseNatural(s string) (time.Time, bool) {
	s = leadingJoiner.ReplaceAllString(s, "")
	n.mu.Lock()
	r, err := n.natural.Parse(s, n.Now())
	n.mu.Unlock()
	if err != nil || r == nil {
		return time.Time{}, false
	}
	end := r.Index + len(r.Text)
	if r.Index < 0 || end > len(s) {
		return time.Time{}, false
	}
	rest := s[:r.Index] + s[end:]
	if strings.IndexFunc(rest, isAlnum) >= 0 {
		return time.Time{}, false
	}
	return r.Time, true
}

// stripLabels removes bullet decoration, a "Due ...:" label, and any
// leading "Label:" or "Label -" prefix.
func stripLabels(phrase string) string {
	s := strings.TrimSpace(phrase)
	s = strings.TrimSpace(strings.TrimLeft(s, decoration))
	if m := dueLabel.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = labelPrefix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// canonicalize rewrites common spellings into forms the fixed layouts accept.
func canonicalize(s string) string {
	s = noon.ReplaceAllString(s, "12:00 PM")
	s = midnight.ReplaceAllString(s, "12:00 AM")
	s = meridiem.ReplaceAllStringFunc(s, func(m string) string {
		sub := meridiem.FindStringSubmatch(m)
		return sub[1] + " " + strings.ToUpper(sub[2]) + "M"
	})
	s = ordinal.ReplaceAllString(s, "$1")
	s = abbrevDot.ReplaceAllString(s, "$1")
	s = september.ReplaceAllString(s, "Sep")
	s = strings.ReplaceAll(s, ",", " ")
	s = connector.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// splitWeekday removes a leading weekday name and reports which day it was.
func splitWeekday(s string) (string, time.Weekday, bool) {
	m := weekdayPrefix.FindStringSubmatch(s)
	if m == nil {
		return s, 0, false
	}
	return strings.TrimSpace(s[len(m[0]):]), weekdays[strings.ToLower(m[1][:3])], true
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Format renders t in the canonical layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// IsSentinel reports whether s is the parse-failure value.
func IsSentinel(s string) bool {
	return s == Sentinel
}

var std = New()

// Normalize normalizes phrase with a UTC, wall-clock Normalizer.
func Normalize(phrase string) string {
	return std.Normalize(phrase)
}
