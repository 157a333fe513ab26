// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lineDecoration is stripped from the left of every raw line.
const lineDecoration = "•*-–— "

// maxShoutedHeaderLen bounds the length of an all-caps header line.
const maxShoutedHeaderLen = 40

// maxTitleWords bounds the word count of a freestanding title line.
const maxTitleWords = 8

// headerKeywords label a "Keyword: title" header, as the whole prefix or its
// first token.
var headerKeywords = map[string]bool{
	"assignment":   true,
	"milestone":    true,
	"project":      true,
	"homework":     true,
	"lab":          true,
	"quiz":         true,
	"peer":         true,
	"final":        true,
	"midterm":      true,
	"design":       true,
	"reflection":   true,
	"task":         true,
	"deliverable":  true,
	"report":       true,
	"proposal":     true,
	"presentation": true,
	"brief":        true,
	"showcase":     true,
}

// headerSuffixes end a title line that carries no "Keyword:" prefix.
var headerSuffixes = []string{
	"assignment",
	"project",
	"homework",
	"report",
	"proposal",
	"presentation",
	"forms",
	"packet",
	"guide",
	"brief",
	"critique",
	"journal",
	"deliverables",
	"reflection",
}

// nonTitlePrefixes never start a freestanding title.
var nonTitlePrefixes = []string{"course", "instructor", "notes", "semester", "policies"}

var (
	numberedMarker = regexp.MustCompile(`^\d+[\).]\s*`)
	lineBreak      = regexp.MustCompile("\r\n|[\n\r\v\f\x1c\x1d\x1e\u0085\u2028\u2029]")
)

// Line is one raw input line with its cleaned and lowercased forms.
type Line struct {
	Raw   string
	Clean string
	Lower string
}

// NewLine cleans raw: decoration stripped from the left and whitespace
// collapsed.
func NewLine(raw string) Line {
	clean := strings.TrimLeft(strings.TrimSpace(raw), lineDecoration)
	clean = strings.Join(strings.Fields(clean), " ")
	return Line{Raw: raw, Clean: clean, Lower: strings.ToLower(clean)}
}

// SplitLines segments text into classified lines.
func SplitLines(text string) []Line {
	raws := lineBreak.Split(text, -1)
	if n := len(raws); n > 0 && raws[n-1] == "" {
		raws = raws[:n-1]
	}
	lines := make([]Line, len(raws))
	for i, raw := range raws {
		lines[i] = NewLine(raw)
	}
	return lines
}

// IsBlank reports whether the cleaned line is empty.
func (l Line) IsBlank() bool {
	return l.Clean == ""
}

// IsHeader reports whether the line opens an assignment section: a numbered
// marker, a "Keyword: ..." prefix, or a short all-caps line.
func (l Line) IsHeader() bool {
	if l.Clean == "" {
		return false
	}
	if numberedMarker.MatchString(l.Clean) {
		return true
	}
	if prefix, _, ok := strings.Cut(l.Clean, ":"); ok {
		prefix = strings.ToLower(prefix)
		if headerKeywords[prefix] {
			return true
		}
		if fields := strings.Fields(prefix); len(fields) > 0 && headerKeywords[fields[0]] {
			return true
		}
	}
	return isUpper(l.Clean) && utf8.RuneCountInString(l.Clean) <= maxShoutedHeaderLen
}

// HasHeaderSuffix reports whether the line ends with a title-like noun such
// as "report" or "proposal".
func (l Line) HasHeaderSuffix() bool {
	if l.Clean == "" {
		return false
	}
	for _, suffix := range headerSuffixes {
		if strings.HasSuffix(l.Lower, suffix) {
			return true
		}
	}
	return false
}

// LooksLikeFreestandingTitle reports whether the line can serve as a title
// when no title context exists yet: capitalized, no colon, at most eight
// words, and not a course/instructor style preamble line.
func (l Line) LooksLikeFreestandingTitle(hasTitle bool) bool {
	if hasTitle || l.Clean == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(l.Clean)
	if !unicode.IsLetter(first) || !unicode.IsUpper(first) {
		return false
	}
	if strings.Contains(l.Clean, ":") || len(strings.Fields(l.Clean)) > maxTitleWords {
		return false
	}
	for _, prefix := range nonTitlePrefixes {
		if strings.HasPrefix(l.Lower, prefix) {
			return false
		}
	}
	return true
}

// containsAny reports whether s contains any of the terms as a substring.
func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// isUpper reports whether s has at least one cased letter and no lowercase
// letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			cased = true
		}
	}
	return cased
}
