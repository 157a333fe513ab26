// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest reads syllabus files into normalized documents. Each file
// format has a Reader; the Ingester walks a directory and dispatches by
// extension.
package ingest

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// Reader extracts plain text from one file. Pages holds per-page text for
// paginated formats and the whole text once otherwise.
type Reader interface {
	Read(path string) (text string, pages []string, err error)
}

// BatchResult holds the outcome of a directory ingest.
type BatchResult struct {
	Ingested int
	Skipped  int
	Failed   int
}

// Total returns the number of files considered.
func (r BatchResult) Total() int {
	return r.Ingested + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed to read.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Ingester maps file extensions to readers.
type Ingester struct {
	fs      afero.Fs
	readers map[string]Reader
}

// New returns an Ingester for plain text, Markdown, and HTML on fsys, and
// PDF through the pdftotext command.
func New(fsys afero.Fs) *Ingester {
	text := TextReader{Fs: fsys}
	html := HTMLReader{Fs: fsys}
	return &Ingester{
		fs: fsys,
		readers: map[string]Reader{
			".txt":  text,
			".md":   text,
			".html": html,
			".htm":  html,
			".pdf":  NewPDFReader(),
		},
	}
}

// Register sets the reader for ext, replacing any existing one.
func (g *Ingester) Register(ext string, r Reader) {
	g.readers[strings.ToLower(ext)] = r
}

// Supports reports whether path has a registered extension.
func (g *Ingester) Supports(path string) bool {
	_, ok := g.readers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IngestFile reads one file into a document.
func (g *Ingester) IngestFile(path string) (types.Document, error) {
	r, ok := g.readers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return types.Document{}, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	text, pages, err := r.Read(path)
	if err != nil {
		return types.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(pages) == 0 {
		pages = []string{text}
	}
	return types.Document{
		ID:    DocumentID(path, text),
		Path:  path,
		Text:  text,
		Pages: pages,
	}, nil
}

// IngestDir reads every supported file under dir in lexical order, printing
// one status line per file to w. Unsupported files are skipped silently
// and counted; unreadable ones are reported and counted as failures.
func (g *Ingester) IngestDir(dir string, w io.Writer) ([]types.Document, BatchResult, error) {
	var (
		docs   []types.Document
		result BatchResult
	)
	err := afero.Walk(g.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !g.Supports(path) {
			result.Skipped++
			return nil
		}
		doc, err := g.IngestFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed:   %s (%v)\n", path, err)
			result.Failed++
			return nil
		}
		fmt.Fprintf(w, "ingested: %s (%s)\n", path, doc.ID)
		docs = append(docs, doc)
		result.Ingested++
		return nil
	})
	if err != nil {
		return nil, result, fmt.Errorf("walking %s: %w", dir, err)
	}
	return docs, result, nil
}

// DocumentID derives a stable identifier from the path and text length:
// the first 12 hex characters of SHA-256(path + "-" + len(text)).
func DocumentID(path, text string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%d", path, len(text))))
	return fmt.Sprintf("%x", sum)[:12]
}

// TextReader reads plain text and Markdown files verbatim.
type TextReader struct {
	Fs afero.Fs
}

// Read implements Reader.
func (r TextReader) Read(path string) (string, []string, error) {
	data, err := afero.ReadFile(r.Fs, path)
	if err != nil {
		return "", nil, err
	}
	text := string(data)
	return text, []string{text}, nil
}
