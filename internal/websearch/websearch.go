// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch queries web search backends and returns result stubs for
// the content fetcher. Backends implement the Provider interface per the
// Strategy pattern; the Selector tries an ordered chain of providers until
// one returns results.
package websearch

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// Provider searches a single web backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error)
}

// Selector runs an ordered chain of providers. In auto mode the chain is
// DuckDuckGo followed by Google when credentials exist; explicit modes hold
// exactly one provider and never fall back.
type Selector struct {
	providers  []Provider
	maxResults int
	log        *zap.Logger
}

// NewSelector builds the provider chain from configuration. An empty chain
// is a startup configuration error: explicit google mode without credentials
// fails here rather than at search time.
func NewSelector(cfg types.SearchConfig, client *http.Client, log *zap.Logger) (*Selector, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}

	mode := cfg.Provider
	if mode == "" {
		mode = types.ProviderAuto
	}

	var providers []Provider
	switch mode {
	case types.ProviderDuckDuckGo:
		providers = []Provider{NewDuckDuckGo(client, cfg.UserAgent)}

	case types.ProviderGoogle:
		g, err := NewGoogle(client, cfg.GoogleAPIKey, cfg.GoogleCSEID)
		if err != nil {
			return nil, err
		}
		providers = []Provider{g}

	case types.ProviderAuto:
		providers = []Provider{NewDuckDuckGo(client, cfg.UserAgent)}
		if g, err := NewGoogle(client, cfg.GoogleAPIKey, cfg.GoogleCSEID); err == nil {
			providers = append(providers, g)
		} else {
			log.Info("google fallback not configured", zap.Error(err))
		}

	default:
		return nil, fmt.Errorf("unknown search provider %q: use auto, duckduckgo, or google", mode)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no search providers available")
	}

	maxResults := cfg.MaxResultsPerQuery
	if maxResults <= 0 {
		maxResults = 3
	}

	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	log.Info("search providers configured", zap.Strings("chain", names), zap.String("mode", string(mode)))

	return &Selector{providers: providers, maxResults: maxResults, log: log}, nil
}

// Search tries each provider in chain order and returns the first non-empty
// result set. Provider errors are logged and treated as empty results; the
// selector itself never fails, it just returns nothing.
func (s *Selector) Search(ctx context.Context, query string) []types.SearchResult {
	for _, p := range s.providers {
		results, err := p.Search(ctx, query, s.maxResults)
		if err != nil {
			s.log.Warn("search provider failed",
				zap.String("provider", p.Name()),
				zap.String("query", query),
				zap.Error(err))
			continue
		}
		if len(results) > 0 {
			s.log.Info("search results",
				zap.String("provider", p.Name()),
				zap.String("query", query),
				zap.Int("count", len(results)))
			return results
		}
		s.log.Warn("search provider returned no results",
			zap.String("provider", p.Name()),
			zap.String("query", query))
	}
	return nil
}

// Providers exposes the chain order for logging and tests.
func (s *Selector) Providers() []string {
	names := make([]string, len(s.providers))
	for i, p := range s.providers {
		names[i] = p.Name()
	}
	return names
}
