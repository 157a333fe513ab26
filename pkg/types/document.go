// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Document is normalized source text handed to the extractor.
type Document struct {
	// ID is a stable identifier derived from the path and text length.
	ID string `json:"id" yaml:"id"`

	// Path is the file the text was read from.
	Path string `json:"path" yaml:"path"`

	// Text is the full plain text.
	Text string `json:"text" yaml:"text"`

	// Pages holds per-page text for paginated sources, or the whole text once.
	Pages []string `json:"pages" yaml:"pages"`
}
