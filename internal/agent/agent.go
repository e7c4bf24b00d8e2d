// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent orchestrates the research pipeline: decompose the question,
// search each sub-query, fetch and clean the results, extract attributed
// facts, and synthesize an answer. The engine holds no state between runs.
package agent

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// ErrNoSources is the run's single hard stop: every search came back empty
// or every fetch failed, so there is nothing to research from.
var ErrNoSources = errors.New("no sources found or all content fetches failed")

// Decomposer turns a question into searchable sub-queries. Implementations
// never fail; the worst case is the original question as the only query.
type Decomposer interface {
	Decompose(ctx context.Context, question string) []string
}

// Searcher finds result links for one sub-query. Implementations absorb
// provider failures; an empty slice is the only no-results signal.
type Searcher interface {
	Search(ctx context.Context, query string) []types.SearchResult
}

// Fetcher retrieves one page's readable text. Empty means skip the result.
type Fetcher interface {
	Fetch(ctx context.Context, url string) string
}

// Extractor pulls question-relevant facts from one source.
type Extractor interface {
	Extract(ctx context.Context, question string, src types.Source) ([]types.Fact, error)
}

// Synthesizer reconciles the full fact set into the final analysis.
type Synthesizer interface {
	Synthesize(ctx context.Context, question string, facts []types.Fact) types.Synthesis
}

// Engine runs the five-stage pipeline sequentially.
type Engine struct {
	decomposer  Decomposer
	searcher    Searcher
	fetcher     Fetcher
	extractor   Extractor
	synthesizer Synthesizer
	log         *zap.Logger
	now         func() time.Time
}

// New wires an Engine.
func New(d Decomposer, s Searcher, f Fetcher, e Extractor, syn Synthesizer, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		decomposer:  d,
		searcher:    s,
		fetcher:     f,
		extractor:   e,
		synthesizer: syn,
		log:         log,
		now:         time.Now,
	}
}

// Research runs the pipeline for question and returns the assembled report.
// Stage failures degrade the run rather than aborting it; the only error is
// ErrNoSources when nothing at all could be gathered.
func (e *Engine) Research(ctx context.Context, question string) (*types.ResearchReport, error) {
	e.log.Info("starting research", zap.String("question", question))

	subQueries := e.decomposer.Decompose(ctx, question)
	if len(subQueries) == 0 {
		subQueries = []string{question}
	}
	e.log.Info("sub-queries ready", zap.Strings("queries", subQueries))

	sources := e.gather(ctx, subQueries)
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	e.log.Info("sources gathered", zap.Int("count", len(sources)))

	facts := e.extract(ctx, question, sources)
	e.log.Info("facts extracted", zap.Int("count", len(facts)))

	var synthesis types.Synthesis
	if len(facts) == 0 {
		// Nothing for the model to reconcile; answer honestly instead.
		e.log.Warn("no facts extracted from any source")
		synthesis = types.Synthesis{
			Agreements:     []string{},
			Contradictions: []types.Contradiction{},
			Gaps:           []string{"No sources found with relevant information"},
			Answer:         "Unable to answer the question due to lack of sources.",
		}
	} else {
		synthesis = e.synthesizer.Synthesize(ctx, question, facts)
	}

	return &types.ResearchReport{
		Question:   question,
		SubQueries: subQueries,
		Sources:    sources,
		Facts:      facts,
		Synthesis:  synthesis,
		Timestamp:  e.now(),
	}, nil
}

// gather searches each sub-query and fetches every result, in order. Source
// order follows (sub-query, result) encounter order. Failed searches and
// fetches are skipped.
func (e *Engine) gather(ctx context.Context, queries []string) []types.Source {
	var sources []types.Source
	for _, query := range queries {
		results := e.searcher.Search(ctx, query)
		if len(results) == 0 {
			e.log.Warn("no search results", zap.String("query", query))
			continue
		}

		for _, result := range results {
			content := e.fetcher.Fetch(ctx, result.URL)
			if content == "" {
				e.log.Warn("no content fetched", zap.String("url", result.URL))
				continue
			}
			sources = append(sources, types.Source{
				URL:       result.URL,
				Title:     result.Title,
				Content:   content,
				FetchTime: e.now(),
			})
		}
	}
	return sources
}

// extract runs fact extraction per source. A failed extraction contributes
// zero facts and the run continues.
func (e *Engine) extract(ctx context.Context, question string, sources []types.Source) []types.Fact {
	var facts []types.Fact
	for _, src := range sources {
		extracted, err := e.extractor.Extract(ctx, question, src)
		if err != nil {
			e.log.Warn("fact extraction failed", zap.String("url", src.URL), zap.Error(err))
			continue
		}
		facts = append(facts, extracted...)
	}
	return facts
}
