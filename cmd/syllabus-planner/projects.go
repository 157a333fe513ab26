// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/syllabus-planner/internal/docstore"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects with ingested documents",
	RunE:  runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ds, err := docstore.Open(documentsPath(cfg))
	if err != nil {
		return err
	}
	defer ds.Close()

	names, err := ds.Projects()
	if err != nil {
		return err
	}
	for _, name := range names {
		docs, err := ds.List(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d documents\n", name, len(docs))
	}
	return nil
}
