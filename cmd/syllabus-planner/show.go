// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/syllabus-planner/internal/export"
	"github.com/pdiddy/syllabus-planner/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the project's scheduled tasks as a table",
	Long: `Show reads the plan database written by export and prints one row per
task: course, assignment, task, start, due, and hours.`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().String("course", "", "only show tasks for this course")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	course, _ := cmd.Flags().GetString("course")

	s, err := store.Open(outPath(cfg, export.DatabaseFile))
	if err != nil {
		return err
	}
	defer s.Close()

	taskRows, err := s.TaskRows(cmd.Context(), cfg.Project, course)
	if err != nil {
		return err
	}
	if len(taskRows) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No planned tasks for project %s. Run export first.\n", cfg.Project)
		return nil
	}

	rows := make([]export.Row, len(taskRows))
	for i, r := range taskRows {
		rows[i] = export.Row{
			Course:     r.Course,
			Assignment: r.Assignment,
			Task:       r.Task,
			Start:      r.Start,
			Due:        r.Due,
			Hours:      r.Hours,
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), export.Table(rows))
	return nil
}
