// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trace records every extraction and planning call in an
// append-only JSON Lines log. Stages receive a Logger so tests can run
// without touching the file system.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Entry is one logged interaction.
type Entry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Tag       string         `json:"tag"`
	Prompt    string         `json:"prompt"`
	Response  string         `json:"response"`
	Metadata  map[string]any `json:"metadata"`
}

// Logger receives trace entries. Implementations must be safe for
// concurrent use.
type Logger interface {
	Log(e Entry)
}

// Nop discards every entry.
type Nop struct{}

// Log implements Logger.
func (Nop) Log(Entry) {}

// OrNop returns l, or Nop when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop{}
	}
	return l
}

// FileLogger appends entries to a file, one JSON object per line. A mutex
// serializes writes so parallel pipelines never interleave lines.
type FileLogger struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
	now  func() time.Time
	warn io.Writer
}

// NewFileLogger returns a logger appending to path on fs. The parent
// directory is created on first write.
func NewFileLogger(fs afero.Fs, path string) *FileLogger {
	return &FileLogger{fs: fs, path: path, now: time.Now, warn: os.Stderr}
}

// Path returns the log file location.
func (l *FileLogger) Path() string {
	return l.path
}

// Log stamps the entry with an id and timestamp and appends it. Write
// failures are reported as warnings and never interrupt the caller.
func (l *FileLogger) Log(e Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now().UTC()
	}
	if e.Metadata == nil {
		e.Metadata = map[string]any{}
	}

	line, err := json.Marshal(e)
	if err != nil {
		fmt.Fprintf(l.warn, "warning: trace entry %s not encoded: %v\n", e.Tag, err)
		return
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.fs.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		fmt.Fprintf(l.warn, "warning: trace directory: %v\n", err)
		return
	}
	f, err := l.fs.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(l.warn, "warning: opening trace log: %v\n", err)
		return
	}
	defer f.Close()
	if _, err := f.Write(line); err != nil {
		fmt.Fprintf(l.warn, "warning: writing trace log: %v\n", err)
	}
}

// Recorder keeps entries in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Log implements Logger.
func (r *Recorder) Log(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Tags returns the tag of every recorded entry in order.
func (r *Recorder) Tags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	tags := make([]string, len(r.entries))
	for i, e := range r.entries {
		tags[i] = e.Tag
	}
	return tags
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
