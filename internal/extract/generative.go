// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/syllabus-planner/internal/dates"
	"github.com/pdiddy/syllabus-planner/internal/trace"
	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// GeneratedConfidence is stamped on generated records that carry none.
const GeneratedConfidence = 0.55

// Generator produces raw model output for a prompt. Tests supply a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// extractionPromptTmpl asks the model for records in the validator's schema.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`Extract every assignment from the course syllabus below.

Respond with a JSON array. Each element is an object with these fields:
- course: the course name, or null
- assignment_title: the assignment name
- due_datetime_iso: the due date and time, ISO 8601 (YYYY-MM-DDTHH:MM:SS)
- deliverables: list of submission artifacts
- points_or_weight: the score or weight as written, or null
- evidence_spans: the syllabus lines that state the assignment
- confidence: a float between 0.0 and 1.0

Only output valid JSON. Do not include any text outside the JSON array.

Syllabus:
{{.Text}}
`))

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// Generative extracts records by prompting a Generator and validating each
// object in its JSON reply. Invalid objects are dropped; a reply with none
// left is an error.
type Generative struct {
	Generator  Generator
	Dates      *dates.Normalizer
	Trace      trace.Logger
	MaxRetries int
}

// Name implements Extractor.
func (g *Generative) Name() string { return "generative" }

// Extract implements Extractor.
func (g *Generative) Extract(ctx context.Context, doc types.Document) ([]types.Assignment, error) {
	prompt, err := renderPrompt(doc.Text)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	maxRetries := g.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	raw, err := callWithRetry(ctx, g.Generator, prompt, maxRetries)
	if err != nil {
		return nil, err
	}
	trace.OrNop(g.Trace).Log(trace.Entry{
		Tag:      "generative_extract",
		Prompt:   prompt,
		Response: raw,
		Metadata: map[string]any{"source_doc": SourceOf(doc)},
	})

	parsed, err := RepairJSON(raw)
	if err != nil {
		return nil, err
	}

	norm := g.Dates
	if norm == nil {
		norm = dates.New()
	}
	v := Validator{Dates: norm, Trace: g.Trace}

	var (
		records []types.Assignment
		invalid []string
	)
	for i, item := range items(parsed) {
		rec, err := v.Validate(candidateFromJSON(item, norm), SourceOf(doc))
		if err != nil {
			invalid = append(invalid, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		if len(invalid) > 0 {
			return nil, fmt.Errorf("%w: %s", errNoRecords, strings.Join(invalid, "; "))
		}
		return nil, errNoRecords
	}
	return records, nil
}

// RepairJSON recovers the outermost JSON object or array from model output,
// dropping surrounding prose and trailing commas.
func RepairJSON(raw string) (gjson.Result, error) {
	s := strings.TrimSpace(raw)
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return gjson.Result{}, errors.New("no JSON value in generator output")
	}
	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(s, closer)
	if end < start {
		return gjson.Result{}, errors.New("unterminated JSON value in generator output")
	}
	s = trailingComma.ReplaceAllString(s[start:end+1], "$1")
	if !gjson.Valid(s) {
		return gjson.Result{}, errors.New("malformed JSON in generator output")
	}
	return gjson.Parse(s), nil
}

// items flattens a parsed reply into its record objects.
func items(r gjson.Result) []gjson.Result {
	if !r.IsArray() {
		return []gjson.Result{r}
	}
	return r.Array()
}

// candidateFromJSON fills a candidate from one generated object, supplying
// the defaults a terse model reply omits.
func candidateFromJSON(r gjson.Result, norm *dates.Normalizer) Candidate {
	if !r.IsObject() {
		r = gjson.Parse("{}")
	}

	c := Candidate{
		Course:        r.Get("course").String(),
		Title:         UntitledAssignment,
		Due:           norm.Normalize(DefaultDuePhrase),
		Deliverables:  stringList(r.Get("deliverables")),
		Weight:        r.Get("points_or_weight").String(),
		EvidenceSpans: stringList(r.Get("evidence_spans")),
	}
	if title := r.Get("assignment_title"); title.Exists() {
		c.Title = title.String()
	}
	if due := r.Get("due_datetime_iso"); due.Exists() {
		c.Due = norm.Normalize(due.String())
	}

	confidence := GeneratedConfidence
	if conf := r.Get("confidence"); conf.Exists() {
		confidence = math.NaN()
		if conf.Type == gjson.Number {
			confidence = conf.Float()
		}
	}
	c.Confidence = &confidence
	return c
}

// stringList reads a list field that a model may also send as one string.
func stringList(r gjson.Result) []string {
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return nil
	case r.IsArray():
		var out []string
		r.ForEach(func(_, v gjson.Result) bool {
			out = append(out, v.String())
			return true
		})
		return out
	default:
		return []string{r.String()}
	}
}

// callWithRetry calls the generator with exponential backoff.
func callWithRetry(ctx context.Context, gen Generator, prompt string, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		out, err := gen.Generate(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// renderPrompt executes the extraction prompt template with the given text.
func renderPrompt(text string) (string, error) {
	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, struct{ Text string }{Text: strings.TrimSpace(text)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
