// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Ingest, extract, plan, and export in one pass",
	Long: `Run chains every stage: documents under dir (default data/raw) are
ingested, assignments extracted, plans built, and the calendar, CSV, and
database written. Documents that fail a stage are reported and the rest
continue; the command exits non-zero if any failed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAll,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runAll(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	n, err := newNormalizer(cfg)
	if err != nil {
		return err
	}
	tl := newTraceLogger(cfg)
	dir := rawDir(cfg)
	if len(args) == 1 {
		dir = args[0]
	}

	ingested, err := ingestStage(cfg, dir, os.Stdout, tl)
	if err != nil {
		return err
	}
	records, summary, err := extractStage(cmd.Context(), cfg, newExtractor(cfg, n, tl), os.Stdout)
	if err != nil {
		return err
	}
	planned, err := planStage(cmd.Context(), cfg, newPlanner(cfg, tl), records, os.Stdout)
	if err != nil {
		return err
	}
	if err := exportStage(cmd.Context(), cfg, planned, os.Stdout); err != nil {
		return err
	}

	if failed := ingested.Failed + summary.Failed; failed > 0 {
		return fmt.Errorf("%d document(s) failed", failed)
	}
	return nil
}
