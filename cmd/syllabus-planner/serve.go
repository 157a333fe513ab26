// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/syllabus-planner/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve extraction and planning as MCP tools over stdio",
	Long: `Serve starts a Model Context Protocol server on stdin/stdout with two
tools: extract_assignments returns the assignment records found in a text,
and plan_assignment returns them with scheduled milestone tasks.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	n, err := newNormalizer(cfg)
	if err != nil {
		return err
	}
	tl := newTraceLogger(cfg)
	s := mcpserver.NewServer(newExtractor(cfg, n, tl), newPlanner(cfg, tl), version)
	return mcpserver.Serve(s)
}
