// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes planned assignments to calendar, spreadsheet and
// structured result files. Every writer takes an afero.Fs so callers choose
// the file system.
package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

// Default file names under the output directory.
const (
	CalendarFile = "calendar.ics"
	CSVFile      = "tasks.csv"
	DatabaseFile = "tasks.db"
)

// AssignmentsFile returns the assignments result file name for a project.
func AssignmentsFile(project string) string {
	return project + "_assignments.yaml"
}

// PlanFile returns the plan result file name for a project.
func PlanFile(project string) string {
	return project + "_plan.yaml"
}

// WriteYAML marshals v to path, creating parent directories.
func WriteYAML(fs afero.Fs, path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeFile(fs, path, data)
}

// ReadYAML unmarshals the YAML file at path into v.
func ReadYAML(fs afero.Fs, path string, v any) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// WriteJSON marshals v as indented JSON to path.
func WriteJSON(fs afero.Fs, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeFile(fs, path, append(data, '\n'))
}

func writeFile(fs afero.Fs, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
