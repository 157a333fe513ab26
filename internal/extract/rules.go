// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pdiddy/syllabus-planner/internal/dates"
	"github.com/pdiddy/syllabus-planner/internal/trace"
	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// RuleConfidence is the confidence of every rule-based record.
const RuleConfidence = 0.35

// UntitledAssignment titles records whose source names no assignment.
const UntitledAssignment = "Untitled Assignment"

// DefaultDuePhrase is the due date assumed when nothing better is known.
const DefaultDuePhrase = "next friday at 11:59 pm"

const (
	// forwardWindow is how many lines after a due line may hold its
	// deliverables and weight.
	forwardWindow = 5
	// backwardWindow is how many lines before a due line may hold its weight.
	backwardWindow = 3
	// traceTextLimit caps the input text copied into a trace entry.
	traceTextLimit = 1200
)

var (
	dueKeywords = []string{
		"due", "deadline", "submission", "submit", "report", "presentation",
		"demo", "meeting", "session", "exam", "quiz", "review", "showcase",
	}
	issueKeywords       = []string{"assigned", "release", "opens"}
	deliverableKeywords = []string{"deliverable", "deliverables", "submission", "submit"}
	weightKeywords      = []string{"weight", "worth", "points", "percent", "%", "counts"}

	atOrBy          = regexp.MustCompile(`\b(at|by)\b`)
	labelValue      = regexp.MustCompile(`^[A-Za-z\s]+:\s*`)
	titleDecoration = ":-• "
)

// RuleBased extracts assignments from cue words and layout alone. It never
// fails on well-formed text and is the fallback for every other strategy.
type RuleBased struct {
	Dates     *dates.Normalizer
	Trace     trace.Logger
	validator Validator
}

// NewRuleBased returns a rule engine using n for dates and tl for tracing.
// Either may be nil.
func NewRuleBased(n *dates.Normalizer, tl trace.Logger) *RuleBased {
	if n == nil {
		n = dates.New()
	}
	return &RuleBased{
		Dates:     n,
		Trace:     tl,
		validator: Validator{Dates: n, Trace: tl},
	}
}

// Name implements Extractor.
func (r *RuleBased) Name() string { return "rule" }

// Extract returns every assignment found in doc, or a single placeholder
// record when none is found.
func (r *RuleBased) Extract(ctx context.Context, doc types.Document) ([]types.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := r.ExtractText(doc.Text, SourceOf(doc))
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return records, nil
	}
	placeholder, err := r.placeholder(doc.Text, SourceOf(doc))
	if err != nil {
		return nil, err
	}
	return []types.Assignment{placeholder}, nil
}

// ExtractOne returns the first assignment in text, or a placeholder titled
// UntitledAssignment and due DefaultDuePhrase.
func (r *RuleBased) ExtractOne(text, sourceDoc string) (types.Assignment, error) {
	records, err := r.ExtractText(text, sourceDoc)
	if err != nil {
		return types.Assignment{}, err
	}
	if len(records) > 0 {
		return records[0], nil
	}
	return r.placeholder(text, sourceDoc)
}

func (r *RuleBased) placeholder(text, sourceDoc string) (types.Assignment, error) {
	confidence := RuleConfidence
	return r.validator.Validate(Candidate{
		Course:       detectCourse(SplitLines(text)),
		Title:        UntitledAssignment,
		Due:          r.Dates.Normalize(DefaultDuePhrase),
		Deliverables: []string{types.PlaceholderDeliverable},
		Confidence:   &confidence,
	}, sourceDoc)
}

// ExtractText runs the aggregator over text in a single forward pass and
// returns the records in the order their first due line appeared.
func (r *RuleBased) ExtractText(text, sourceDoc string) ([]types.Assignment, error) {
	lines := SplitLines(text)
	course := detectCourse(lines)

	var (
		records      []types.Assignment
		seen         = make(map[dedupKey]int)
		currentTitle string
	)

	for idx, line := range lines {
		if line.IsBlank() {
			continue
		}

		due := r.Dates.Normalize(line.Clean)
		if r.isDueBearing(line, due) {
			if suppressed(line.Lower) {
				continue
			}

			source := currentTitle
			if source == "" {
				source = line.Clean
			}
			title := stripTitle(source)
			deliverables, weight := r.scanForward(lines, idx)
			if weight == "" {
				weight = scanBackward(lines, idx)
			}
			if len(deliverables) == 0 {
				deliverables = []string{types.PlaceholderDeliverable}
			}

			key := dedupKey{title: strings.ToLower(title), due: due}
			if at, ok := seen[key]; ok {
				records[at] = merge(records[at], deliverables, weight)
				continue
			}

			confidence := RuleConfidence
			rec, err := r.validator.Validate(Candidate{
				Course:        course,
				Title:         title,
				Due:           due,
				Deliverables:  deliverables,
				Weight:        weight,
				EvidenceSpans: []string{line.Clean},
				Confidence:    &confidence,
			}, sourceDoc)
			if err != nil {
				return nil, err
			}
			seen[key] = len(records)
			records = append(records, rec)
			continue
		}

		switch {
		case line.IsHeader(), line.HasHeaderSuffix():
			currentTitle = stripTitle(line.Clean)
		case line.LooksLikeFreestandingTitle(currentTitle != ""):
			currentTitle = stripTitle(line.Clean)
		}
	}

	r.traceRun(text, sourceDoc, records)
	return records, nil
}

// isDueBearing reports whether line states a deadline: it parses as a date,
// names no issue date, and carries a due cue or an "at"/"by" time.
func (r *RuleBased) isDueBearing(line Line, due string) bool {
	if dates.IsSentinel(due) || containsAny(line.Lower, issueKeywords) {
		return false
	}
	return containsAny(line.Lower, dueKeywords) || atOrBy.MatchString(line.Lower)
}

// suppressed reports due-looking lines that name drafts, sessions, or demo
// dates rather than submissions.
func suppressed(lower string) bool {
	switch {
	case strings.Contains(lower, "draft") && !strings.Contains(lower, "final"):
		return true
	case strings.Contains(lower, "session") && !strings.Contains(lower, "due") && !strings.Contains(lower, "submission"):
		return true
	case strings.Contains(lower, "demo date") && !strings.Contains(lower, "submission"):
		return true
	}
	return false
}

// scanForward collects deliverables and the first weight line after idx,
// stopping at a blank line, a header, or the next dated due cue.
func (r *RuleBased) scanForward(lines []Line, idx int) ([]string, string) {
	var (
		deliverables []string
		weight       string
	)
	end := min(len(lines), idx+1+forwardWindow)
	for _, next := range lines[idx+1 : end] {
		if next.IsBlank() || next.IsHeader() {
			break
		}
		if containsAny(next.Lower, dueKeywords) && !dates.IsSentinel(r.Dates.Normalize(next.Clean)) {
			break
		}
		if containsAny(next.Lower, deliverableKeywords) {
			if value := strings.TrimSpace(labelValue.ReplaceAllString(next.Clean, "")); value != "" {
				deliverables = append(deliverables, value)
			}
		}
		if weight == "" && containsAny(next.Lower, weightKeywords) {
			weight = next.Clean
		}
	}
	return deliverables, weight
}

// scanBackward returns the nearest weight line among the few before idx.
func scanBackward(lines []Line, idx int) string {
	for j := idx - 1; j >= 0 && j >= idx-backwardWindow; j-- {
		if containsAny(lines[j].Lower, weightKeywords) {
			return lines[j].Clean
		}
	}
	return ""
}

// dedupKey identifies an assignment by lowercased title and canonical due.
type dedupKey struct {
	title string
	due   string
}

// merge returns a copy of existing with gaps filled from a duplicate
// sighting. Populated fields are never overwritten.
func merge(existing types.Assignment, deliverables []string, weight string) types.Assignment {
	merged := existing
	if merged.Weight == "" && weight != "" {
		merged.Weight = weight
	}
	placeholder := len(deliverables) == 1 && deliverables[0] == types.PlaceholderDeliverable
	if existing.HasPlaceholderDeliverables() && !placeholder {
		merged.Deliverables = append([]string{}, deliverables...)
	}
	return merged
}

// stripTitle drops numbering, decoration, and a cue-word label from a
// header line, keeping the original when nothing would remain.
func stripTitle(title string) string {
	cleaned := numberedMarker.ReplaceAllString(title, "")
	cleaned = strings.Trim(cleaned, titleDecoration)
	if prefix, rest, ok := strings.Cut(cleaned, ":"); ok && headerKeywords[strings.ToLower(prefix)] {
		cleaned = strings.TrimSpace(rest)
	}
	if cleaned == "" {
		return strings.TrimSpace(title)
	}
	return cleaned
}

// detectCourse returns the text after the first "course:" label, else the
// first non-blank line.
func detectCourse(lines []Line) string {
	for _, line := range lines {
		if line.IsBlank() || !strings.Contains(line.Lower, "course:") {
			continue
		}
		_, after, _ := strings.Cut(line.Clean, ":")
		return strings.TrimSpace(after)
	}
	for _, line := range lines {
		if !line.IsBlank() {
			return line.Clean
		}
	}
	return ""
}

func (r *RuleBased) traceRun(text, sourceDoc string, records []types.Assignment) {
	response, _ := json.Marshal(records)
	trace.OrNop(r.Trace).Log(trace.Entry{
		Tag:      "rule_based_extract_many",
		Prompt:   trace.Truncate(text, traceTextLimit),
		Response: string(response),
		Metadata: map[string]any{"source_doc": sourceDoc, "records": len(records)},
	})
}
