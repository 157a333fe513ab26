// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Detect assignments in the project's ingested documents",
	Long: `Extract scans each ingested document for assignments: title, due date,
deliverables, weight, and course. The rule engine is always available; in
generative mode the Claude API is tried first and rules take over when it
fails or finds nothing. Results are written to out/<project>_assignments.yaml
and .json.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("mode", "", "extraction mode: rule or generative")
	extractCmd.Flags().String("model", "", "AI model identifier for generative extraction")
	viper.BindPFlag("extraction.mode", extractCmd.Flags().Lookup("mode"))
	viper.BindPFlag("extraction.model", extractCmd.Flags().Lookup("model"))

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	n, err := newNormalizer(cfg)
	if err != nil {
		return err
	}
	ex := newExtractor(cfg, n, newTraceLogger(cfg))

	_, summary, err := extractStage(cmd.Context(), cfg, ex, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed extraction", summary.Failed)
	}
	return nil
}
