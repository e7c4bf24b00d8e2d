// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-assistant pipeline:
// search results, fetched sources, extracted facts, and the final research report.
package types

import (
	"strings"
	"time"
)

// SearchResult represents a single web search hit. Results are ephemeral:
// they exist only long enough to be handed to the content fetcher.
type SearchResult struct {
	// URL is the page address to fetch.
	URL string `json:"url" yaml:"url"`

	// Title is the page title as reported by the search provider.
	Title string `json:"title" yaml:"title"`

	// Snippet is the short result description from the provider.
	Snippet string `json:"snippet" yaml:"snippet"`
}

// Source is a successfully fetched page. Content is clean extracted text,
// truncated to the configured word limit, and is never empty: a fetch that
// yields no text produces no Source at all.
type Source struct {
	URL       string    `json:"url" yaml:"url"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	FetchTime time.Time `json:"fetch_time" yaml:"fetch_time"`
}

// Confidence is the three-valued reliability rating attached to a Fact.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// NormalizeConfidence maps a raw model-supplied confidence string onto the
// enum. Case is ignored; anything unrecognized (including empty) becomes
// medium rather than being dropped.
func NormalizeConfidence(raw string) Confidence {
	switch Confidence(strings.ToLower(strings.TrimSpace(raw))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceLow:
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

// Fact is one atomic claim extracted from a single source. Claim is never
// empty and SourceURL always names exactly one source.
type Fact struct {
	// Claim is the factual statement.
	Claim string `json:"claim" yaml:"claim"`

	// Caveat notes limitations or conditions; empty when none apply.
	Caveat string `json:"caveat,omitempty" yaml:"caveat,omitempty"`

	// Confidence is high, medium, or low.
	Confidence Confidence `json:"confidence" yaml:"confidence"`

	// SourceURL attributes the claim to the page it came from.
	SourceURL string `json:"source_url" yaml:"source_url"`
}

// Contradiction records a conflict between sources, produced only by the
// synthesis stage.
type Contradiction struct {
	// Issue describes the conflicting claim.
	Issue string `json:"issue" yaml:"issue"`

	// Sources lists the URLs on each side of the conflict, in model order.
	Sources []string `json:"sources" yaml:"sources"`

	// Explanation suggests why the conflict might exist.
	Explanation string `json:"explanation" yaml:"explanation"`
}

// Synthesis is the cross-source analysis of the gathered facts. Answer is
// always non-empty: a synthesis that cannot produce one is a failure and is
// replaced by the deterministic fallback.
type Synthesis struct {
	Agreements     []string        `json:"agreements" yaml:"agreements"`
	Contradictions []Contradiction `json:"contradictions" yaml:"contradictions"`
	Gaps           []string        `json:"gaps" yaml:"gaps"`
	Answer         string          `json:"answer" yaml:"answer"`
}

// ResearchReport is the terminal artifact of one research run. It is owned by
// the run that created it and never mutated after assembly.
type ResearchReport struct {
	Question   string    `json:"question" yaml:"question"`
	SubQueries []string  `json:"sub_queries" yaml:"sub_queries"`
	Sources    []Source  `json:"sources" yaml:"sources"`
	Facts      []Fact    `json:"facts" yaml:"facts"`
	Synthesis  Synthesis `json:"synthesis" yaml:"synthesis"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// FactsByConfidence buckets the report's facts by confidence level,
// preserving extraction order within each bucket.
func (r *ResearchReport) FactsByConfidence() map[Confidence][]Fact {
	buckets := make(map[Confidence][]Fact)
	for _, f := range r.Facts {
		buckets[f.Confidence] = append(buckets[f.Confidence], f)
	}
	return buckets
}
