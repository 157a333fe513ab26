// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// The filename is the key name and the trimmed contents are the value.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// KeyAnthropic names the Claude API key file.
const KeyAnthropic = "anthropic-api-key"

// DefaultDir is where the CLI looks for secret files.
const DefaultDir = ".secrets"

// Store holds loaded secrets by key name.
type Store map[string]string

// Load reads every regular, non-hidden file in dir on fsys. A missing
// directory yields an empty Store. Unreadable files are reported on warn
// and skipped.
func Load(fsys afero.Fs, dir string, warn io.Writer) (Store, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	store := make(Store)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := afero.ReadFile(fsys, filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			store[name] = value
		}
	}
	return store, nil
}

// Resolve returns override when set, else the stored value for key.
func (s Store) Resolve(key, override string) string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	return s[key]
}
