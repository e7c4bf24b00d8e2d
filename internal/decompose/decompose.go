// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decompose turns one research question into several searchable
// sub-queries via the model client. Decomposition is never fatal: every
// failure mode falls back to searching the original question as-is.
package decompose

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/internal/jsonx"
	"github.com/pdiddy/research-assistant/internal/llm"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// decomposePromptTmpl instructs the model to return a bare JSON array of
// search queries covering the question's key aspects.
var decomposePromptTmpl = template.Must(template.New("decompose").Parse(`You are a research assistant helping decompose complex questions into searchable sub-queries.

Original question: {{.Question}}

Your task is to break this into {{.Min}}-{{.Max}} specific, searchable sub-queries that:
1. Cover key aspects of the main question
2. Can be answered by web search
3. Are specific enough for good search results

Consider what information is needed to fully answer this question:
- Core concepts that need definition
- Related technologies or methods to explore
- Different perspectives or use cases
- Recent developments or current state
- Practical implications or applications

Return ONLY a JSON array of query strings, nothing else:
["query 1", "query 2", "query 3"]

Example:
Question: "What are the benefits of microservices architecture?"
Output: ["microservices architecture definition benefits", "microservices vs monolithic architecture comparison", "microservices implementation challenges"]
`))

// Decomposer generates sub-queries within configured bounds.
type Decomposer struct {
	client llm.Client
	min    int
	max    int
	log    *zap.Logger
}

// New builds a Decomposer with the agent's decomposition bounds
// (defaults 3-5).
func New(client llm.Client, cfg types.AgentConfig, log *zap.Logger) *Decomposer {
	if cfg.MinSubQueries <= 0 {
		cfg.MinSubQueries = 3
	}
	if cfg.MaxSubQueries < cfg.MinSubQueries {
		cfg.MaxSubQueries = 5
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Decomposer{client: client, min: cfg.MinSubQueries, max: cfg.MaxSubQueries, log: log}
}

// Decompose returns sub-queries for question. The result is never empty:
// model failures, unparseable responses, and under-sized decompositions all
// collapse to the single-element fallback [question]. Over-sized
// decompositions are truncated to the maximum.
func (d *Decomposer) Decompose(ctx context.Context, question string) []string {
	prompt, err := renderPrompt(question, d.min, d.max)
	if err != nil {
		d.log.Error("rendering decompose prompt", zap.Error(err))
		return []string{question}
	}

	response, err := d.client.Complete(ctx, prompt)
	if err != nil {
		d.log.Warn("decomposition model call failed, falling back to original question", zap.Error(err))
		return []string{question}
	}

	queries, err := parseQueries(response)
	if err != nil {
		d.log.Warn("decomposition response unparseable, falling back to original question", zap.Error(err))
		return []string{question}
	}

	// An under-sized decomposition is a total failure, not partial success:
	// the generated queries are discarded wholesale.
	if len(queries) < d.min {
		d.log.Warn("too few sub-queries, falling back to original question",
			zap.Int("got", len(queries)), zap.Int("min", d.min))
		return []string{question}
	}

	if len(queries) > d.max {
		d.log.Info("truncating sub-queries", zap.Int("got", len(queries)), zap.Int("max", d.max))
		queries = queries[:d.max]
	}

	d.log.Info("decomposed question", zap.Int("sub_queries", len(queries)))
	return queries
}

// parseQueries extracts the JSON string array from the model response,
// trimming entries and dropping empty ones.
func parseQueries(response string) ([]string, error) {
	var raw []string
	if err := jsonx.UnmarshalArray(response, &raw); err != nil {
		return nil, err
	}

	queries := raw[:0]
	for _, q := range raw {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	return queries, nil
}

func renderPrompt(question string, min, max int) (string, error) {
	var buf bytes.Buffer
	err := decomposePromptTmpl.Execute(&buf, struct {
		Question string
		Min, Max int
	}{Question: question, Min: min, Max: max})
	return buf.String(), err
}
