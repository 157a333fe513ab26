// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const binPdftotext = "pdftotext"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// PDFReader runs pdftotext (poppler-utils) and splits its output into pages
// on form feeds.
type PDFReader struct {
	exec executor
}

// NewPDFReader returns a reader backed by the pdftotext on PATH.
func NewPDFReader() *PDFReader {
	return &PDFReader{exec: osExecutor{}}
}

// Read implements Reader.
func (r *PDFReader) Read(path string) (string, []string, error) {
	if _, err := r.exec.LookPath(binPdftotext); err != nil {
		return "", nil, fmt.Errorf("%s not found on PATH: %w", binPdftotext, err)
	}

	var out bytes.Buffer
	if err := r.exec.RunPiped(binPdftotext, []string{"-layout", "-enc", "UTF-8", path, "-"}, nil, &out); err != nil {
		return "", nil, fmt.Errorf("running %s: %w", binPdftotext, err)
	}

	pages := strings.Split(out.String(), "\f")
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return strings.Join(pages, "\n"), pages, nil
}
