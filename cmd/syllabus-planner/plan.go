// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Estimate effort and schedule milestone tasks for each assignment",
	Long: `Plan reads out/<project>_assignments.yaml, estimates the hours each
assignment needs from its deliverables and weight, splits the effort into
milestone tasks, and schedules them backward from the due date. Results are
written to out/<project>_plan.yaml and .json.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().Bool("generate", false, "ask the Claude API for milestone tasks before using the heuristic")
	viper.BindPFlag("planning.generate", planCmd.Flags().Lookup("generate"))

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	records, err := readAssignments(cfg)
	if err != nil {
		return err
	}
	_, err = planStage(cmd.Context(), cfg, newPlanner(cfg, newTraceLogger(cfg)), records, os.Stdout)
	return err
}
