// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Read syllabus documents into the project's document store",
	Long: `Ingest walks a directory (default data/raw) and reads every .txt, .md,
.html, .htm, and .pdf file into plain text. PDFs are converted with
pdftotext. The project's previously ingested documents are replaced.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir := rawDir(cfg)
	if len(args) == 1 {
		dir = args[0]
	}

	result, err := ingestStage(cfg, dir, os.Stdout, newTraceLogger(cfg))
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed ingestion", result.Failed)
	}
	return nil
}
