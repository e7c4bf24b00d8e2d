// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-assistant/internal/archive"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived research runs",
	Long: `History lists past research runs recorded in the local archive, newest
first. Use --search to run a full-text query over archived fact claims
instead.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("search")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := archive.Open(loadedConfig.Output.ArchiveDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if query != "" {
		matches, err := store.SearchFacts(cmd.Context(), query)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("No matching facts.")
			return nil
		}
		for _, m := range matches {
			fmt.Printf("[%s] %s\n", m.Confidence, m.Claim)
			if m.Caveat != "" {
				fmt.Printf("    caveat: %s\n", m.Caveat)
			}
			fmt.Printf("    from %q via %s\n", m.Question, m.SourceURL)
		}
		return nil
	}

	entries, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Question)
		fmt.Printf("    %d sources, %d facts", e.SourceCount, e.FactCount)
		if e.ReportPath != "" {
			fmt.Printf(", report: %s", e.ReportPath)
		}
		fmt.Println()
	}
	return nil
}

func init() {
	historyCmd.Flags().String("search", "", "full-text search over archived fact claims")
	historyCmd.Flags().Int("limit", 10, "maximum number of runs to list")

	rootCmd.AddCommand(historyCmd)
}
