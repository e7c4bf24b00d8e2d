// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/internal/agent"
	"github.com/pdiddy/research-assistant/internal/archive"
	"github.com/pdiddy/research-assistant/internal/backoff"
	"github.com/pdiddy/research-assistant/internal/decompose"
	"github.com/pdiddy/research-assistant/internal/facts"
	"github.com/pdiddy/research-assistant/internal/fetch"
	"github.com/pdiddy/research-assistant/internal/llm"
	"github.com/pdiddy/research-assistant/internal/logging"
	"github.com/pdiddy/research-assistant/internal/report"
	"github.com/pdiddy/research-assistant/internal/synthesize"
	"github.com/pdiddy/research-assistant/internal/websearch"
	"github.com/pdiddy/research-assistant/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [question]",
	Short: "Research a question and produce a markdown report",
	Long: `Research runs the full pipeline for a question: decompose into sub-queries,
search each one, fetch and clean the results, extract attributed facts, and
synthesize an answer. The report is written to the configured report directory
and the run is recorded in the local archive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	cfg := loadedConfig

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	retry := backoff.Default()
	client := llm.NewClaudeClient(cfg.AI, &http.Client{}, retry, log)

	selector, err := websearch.NewSelector(cfg.Search, &http.Client{}, log)
	if err != nil {
		return err
	}

	engine := agent.New(
		decompose.New(client, cfg.Agent, log),
		selector,
		fetch.New(cfg.Fetch, retry, log),
		facts.New(client, cfg.Agent, log),
		synthesize.New(client, log),
		log,
	)

	result, err := engine.Research(cmd.Context(), question)
	if err != nil {
		if errors.Is(err, agent.ErrNoSources) {
			return fmt.Errorf("%w\nCheck your internet connection or try a different question", err)
		}
		return err
	}

	path, err := report.Save(result, cfg.Output.ReportDir)
	if err != nil {
		return err
	}

	if cfg.Output.SaveIntermediate {
		if _, err := report.SaveSources(result, cfg.Output.ReportDir); err != nil {
			log.Warn("saving intermediate sources failed", zap.Error(err))
		}
	}

	if err := archiveRun(cmd.Context(), cfg.Output.ArchiveDir, result, path); err != nil {
		// The report is already on disk; archiving is best-effort.
		log.Warn("archiving run failed", zap.Error(err))
	}

	printSummary(result, path)
	return nil
}

func archiveRun(ctx context.Context, dir string, result *types.ResearchReport, path string) error {
	store, err := archive.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(ctx, result, path)
}

func printSummary(result *types.ResearchReport, path string) {
	fmt.Printf("Question: %s\n", result.Question)
	fmt.Printf("Sub-queries: %d, sources: %d, facts: %d\n",
		len(result.SubQueries), len(result.Sources), len(result.Facts))
	fmt.Println()
	fmt.Println(result.Synthesis.Answer)
	fmt.Println()
	fmt.Fprintf(os.Stdout, "Report saved to: %s\n", path)
}

func init() {
	rootCmd.AddCommand(researchCmd)
}
