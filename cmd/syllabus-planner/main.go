// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the syllabus-planner CLI.
// Stages: ingest, extract, plan, export. run chains all four; show
// displays the stored plan; serve exposes extraction over MCP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/syllabus-planner/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command for the syllabus-planner CLI.
var rootCmd = &cobra.Command{
	Use:   "syllabus-planner",
	Short: "Turn course syllabi into assignment deadlines and study plans",
	Long: `syllabus-planner reads syllabus documents, detects assignments with
their due dates, deliverables, and weights, estimates the effort each one
needs, and schedules milestone tasks backward from every deadline.

Each stage is a subcommand: ingest, extract, plan, and export. run chains
them; show prints the stored plan as a table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(afero.NewOsFs(), secrets.DefaultDir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./syllabus-planner.yaml or ~/.config/syllabus-planner/syllabus-planner.yaml)")
	pf.StringP("project", "p", "", "project name; outputs are prefixed with it")
	pf.String("data-dir", "", "data directory (contains raw/ and processed/)")
	pf.String("out-dir", "", "output directory for results, calendar, CSV, and database")
	pf.String("timezone", "", "IANA time zone for dates without an offset")
	pf.Int("workers", 0, "documents processed concurrently")

	for key, flag := range map[string]string{
		"project":  "project",
		"data_dir": "data-dir",
		"out_dir":  "out-dir",
		"timezone": "timezone",
		"workers":  "workers",
	} {
		viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func setDefaults() {
	viper.SetDefault("project", "default")
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("out_dir", "out")
	viper.SetDefault("timezone", "UTC")
	viper.SetDefault("workers", 4)
	viper.SetDefault("extraction.mode", "rule")
	viper.SetDefault("extraction.model", "")
	viper.SetDefault("extraction.api_key", "")
	viper.SetDefault("extraction.max_retries", 3)
	viper.SetDefault("planning.generate", false)
	viper.SetDefault("planning.model", "")
	viper.SetDefault("planning.api_key", "")
	viper.SetDefault("planning.max_retries", 3)
	viper.SetDefault("trace.enabled", true)
	viper.SetDefault("trace.path", filepath.Join("logs", "interactions.log"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("syllabus-planner")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "syllabus-planner"))
		}
	}

	setDefaults()
	viper.SetEnvPrefix("SYLLABUS_PLANNER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
