// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package facts extracts attributed claims from fetched source content using
// the model client. Each fact carries the URL of the source it came from so
// contradictions can be traced back during synthesis.
package facts

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/internal/jsonx"
	"github.com/pdiddy/research-assistant/internal/llm"
	"github.com/pdiddy/research-assistant/pkg/types"
)

var extractPromptTmpl = template.Must(template.New("extract").Parse(`You are extracting key facts from a source for research purposes.

Research question: {{.Question}}

Source URL: {{.URL}}
Source content:
{{.Content}}

Your task is to extract 2-3 key facts or claims that are relevant to answering the research question.

For each fact:
1. State it clearly and concisely
2. Note any caveats or conditions
3. Rate confidence (high/medium/low) based on:
   - Whether the source provides evidence
   - Whether it's a primary or secondary source
   - Whether it's opinion vs fact

Focus on factual claims, not opinions. Note contradictions with common knowledge. Prioritize information that directly answers the research question.

Return ONLY valid JSON in this format:
{
  "facts": [
    {
      "claim": "Clear, factual statement",
      "caveat": "Any limitations or conditions (or null)",
      "confidence": "high"
    }
  ]
}

If no relevant facts found, return: {"facts": []}
`))

// extractResponse mirrors the JSON envelope the model is asked to produce.
type extractResponse struct {
	Facts []struct {
		Claim      string `json:"claim"`
		Caveat     string `json:"caveat"`
		Confidence string `json:"confidence"`
	} `json:"facts"`
}

// Extractor pulls facts out of one source at a time.
type Extractor struct {
	client   llm.Client
	maxChars int
	log      *zap.Logger
}

// New builds an Extractor. maxChars bounds how much source content is placed
// in the prompt (default 10000).
func New(client llm.Client, cfg types.AgentConfig, log *zap.Logger) *Extractor {
	if cfg.MaxSourceChars <= 0 {
		cfg.MaxSourceChars = 10000
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{client: client, maxChars: cfg.MaxSourceChars, log: log}
}

// Extract returns the facts the model finds in src that bear on question.
// An empty slice with a nil error means the source had nothing relevant.
// Facts with empty claims are dropped; unknown confidence values are
// normalized to medium.
func (e *Extractor) Extract(ctx context.Context, question string, src types.Source) ([]types.Fact, error) {
	content := src.Content
	if len(content) > e.maxChars {
		content = content[:e.maxChars]
	}

	prompt, err := renderPrompt(question, src.URL, content)
	if err != nil {
		return nil, fmt.Errorf("rendering extract prompt: %w", err)
	}

	response, err := e.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extracting facts from %s: %w", src.URL, err)
	}

	var parsed extractResponse
	if err := jsonx.UnmarshalObject(response, &parsed); err != nil {
		return nil, fmt.Errorf("parsing facts from %s: %w", src.URL, err)
	}

	var out []types.Fact
	for _, f := range parsed.Facts {
		claim := strings.TrimSpace(f.Claim)
		if claim == "" {
			continue
		}
		out = append(out, types.Fact{
			Claim:      claim,
			Caveat:     strings.TrimSpace(f.Caveat),
			Confidence: types.NormalizeConfidence(f.Confidence),
			SourceURL:  src.URL,
		})
	}

	e.log.Info("extracted facts", zap.String("url", src.URL), zap.Int("facts", len(out)))
	return out, nil
}

func renderPrompt(question, url, content string) (string, error) {
	var buf bytes.Buffer
	err := extractPromptTmpl.Execute(&buf, struct {
		Question, URL, Content string
	}{Question: question, URL: url, Content: content})
	return buf.String(), err
}
