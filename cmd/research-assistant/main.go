// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-assistant CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-assistant/internal/config"
	"github.com/pdiddy/research-assistant/internal/secrets"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir is where API key files live.
const secretsDir = ".secrets/"

// loadedConfig is built once in the persistent pre-run and shared by
// subcommands.
var loadedConfig *types.Config

// rootCmd is the base command for the research-assistant CLI.
var rootCmd = &cobra.Command{
	Use:   "research-assistant",
	Short: "Claude-driven web research from the command line",
	Long: `research-assistant answers research questions by decomposing them into
sub-queries, searching the web, fetching and cleaning page content, extracting
attributed facts with Claude, and synthesizing agreements, contradictions,
knowledge gaps, and an overall answer into a markdown report.

Completed runs are archived locally; use the history subcommand to list past
reports or search previously extracted facts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// version runs without configuration.
		if cmd.Name() == "version" {
			return nil
		}

		s, err := secrets.Load(secretsDir)
		if err != nil {
			return err
		}

		cfgFile, _ := cmd.Root().PersistentFlags().GetString("config")
		cfg, err := config.Load(cfgFile, s)
		if err != nil {
			return err
		}
		loadedConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-assistant.yaml or ~/.config/research-assistant/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
