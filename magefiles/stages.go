//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Stage runs a single pipeline stage through the CLI.
type Stage mg.Namespace

// Ingest reads data/raw into the document store.
func (Stage) Ingest() error { return stage("ingest") }

// Extract detects assignments in the ingested documents.
func (Stage) Extract() error { return stage("extract") }

// Plan estimates and schedules milestone tasks.
func (Stage) Plan() error { return stage("plan") }

// Export writes the calendar, CSV, and plan database.
func (Stage) Export() error { return stage("export") }

func stage(name string) error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath(), name)
}
