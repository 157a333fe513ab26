// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the plan as a calendar, a CSV task sheet, and a SQLite database",
	Long: `Export reads out/<project>_plan.yaml and writes out/calendar.ics (one
event per assignment and per task), out/tasks.csv, and out/tasks.db. The
database keeps every project's plan; show reads from it.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	planned, err := readPlan(cfg)
	if err != nil {
		return err
	}
	return exportStage(cmd.Context(), cfg, planned, os.Stdout)
}
