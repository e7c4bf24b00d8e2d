// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesize reconciles facts from multiple sources into agreements,
// contradictions, gaps, and an overall answer. Synthesis never fails outright:
// when the model call or its response is unusable, a deterministic fallback
// built from the highest-confidence claims stands in.
package synthesize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/internal/jsonx"
	"github.com/pdiddy/research-assistant/internal/llm"
	"github.com/pdiddy/research-assistant/pkg/types"
)

var synthesizePromptTmpl = template.Must(template.New("synthesize").Parse(`You are synthesizing research findings from multiple sources.

Original question: {{.Question}}

Facts gathered from {{.NumSources}} sources:
{{.FactsJSON}}

Your task is to analyze these facts and provide:

1. AREAS OF AGREEMENT: What do multiple sources agree on? List the key consensus points.

2. CONTRADICTIONS: Where do sources conflict? For each contradiction:
   - What is the conflicting claim?
   - Which sources support each side?
   - Why might this conflict exist? (different contexts, outdated info, etc.)

3. KNOWLEDGE GAPS: What important aspects are missing or unclear? What questions remain unanswered?

4. OVERALL ANSWER: Provide a concise answer (1-2 paragraphs max). Focus on key findings only. Weigh evidence quality and give higher confidence facts more weight.

Return ONLY valid JSON in this format:
{
  "agreements": [
    "Point of agreement 1",
    "Point of agreement 2"
  ],
  "contradictions": [
    {
      "issue": "Description of the contradiction",
      "sources": ["url1", "url2"],
      "explanation": "Why this might exist"
    }
  ],
  "gaps": [
    "Missing information 1",
    "Unanswered question 2"
  ],
  "answer": "Concise answer to the original question. 1-2 paragraphs maximum. Focus on key findings only."
}

If there are no contradictions or gaps, use empty arrays: "contradictions": [], "gaps": []
`))

// Synthesizer analyzes the gathered fact set as a whole.
type Synthesizer struct {
	client llm.Client
	log    *zap.Logger
}

func New(client llm.Client, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synthesizer{client: client, log: log}
}

// Synthesize produces the analysis for question from facts. It always
// returns a usable Synthesis: model failures and unparseable responses fall
// back to a deterministic summary built from the claims themselves. The
// caller handles the zero-fact case before calling.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, facts []types.Fact) types.Synthesis {
	prompt, err := renderPrompt(question, facts)
	if err != nil {
		s.log.Error("rendering synthesis prompt", zap.Error(err))
		return fallback(facts)
	}

	response, err := s.client.Complete(ctx, prompt)
	if err != nil {
		s.log.Warn("synthesis model call failed, using fallback", zap.Error(err))
		return fallback(facts)
	}

	synthesis, err := parseSynthesis(response)
	if err != nil {
		s.log.Warn("synthesis response unusable, using fallback", zap.Error(err))
		return fallback(facts)
	}

	s.log.Info("synthesis complete",
		zap.Int("agreements", len(synthesis.Agreements)),
		zap.Int("contradictions", len(synthesis.Contradictions)),
		zap.Int("gaps", len(synthesis.Gaps)))
	return synthesis
}

// parseSynthesis decodes the model's JSON envelope. A synthesis without an
// answer is treated as a failure.
func parseSynthesis(response string) (types.Synthesis, error) {
	var synthesis types.Synthesis
	if err := jsonx.UnmarshalObject(response, &synthesis); err != nil {
		return types.Synthesis{}, err
	}
	if strings.TrimSpace(synthesis.Answer) == "" {
		return types.Synthesis{}, fmt.Errorf("synthesis missing answer")
	}
	return synthesis, nil
}

// fallback builds a deterministic synthesis from the facts when the model
// cannot. High-confidence claims anchor the answer when any exist.
func fallback(facts []types.Fact) types.Synthesis {
	var highClaims []string
	for _, f := range facts {
		if f.Confidence == types.ConfidenceHigh {
			highClaims = append(highClaims, f.Claim)
		}
	}

	var answer string
	if len(highClaims) > 0 {
		joined := highClaims
		if len(joined) > 3 {
			joined = joined[:3]
		}
		answer = fmt.Sprintf("Based on %d high-confidence sources: %s", len(highClaims), strings.Join(joined, " "))
	} else {
		key := "No clear consensus."
		if len(facts) > 0 {
			key = facts[0].Claim
		}
		answer = "Multiple sources discuss this topic, but confidence levels vary. Key points include: " + key
	}

	return types.Synthesis{
		Agreements:     []string{"Multiple sources found"},
		Contradictions: []types.Contradiction{},
		Gaps:           []string{"Detailed analysis unavailable due to synthesis error"},
		Answer:         answer,
	}
}

// renderPrompt serializes the facts as indented JSON and counts distinct
// source URLs for the prompt header.
func renderPrompt(question string, facts []types.Fact) (string, error) {
	factsJSON, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return "", err
	}

	sources := map[string]struct{}{}
	for _, f := range facts {
		sources[f.SourceURL] = struct{}{}
	}

	var buf bytes.Buffer
	err = synthesizePromptTmpl.Execute(&buf, struct {
		Question   string
		NumSources int
		FactsJSON  string
	}{Question: question, NumSources: len(sources), FactsJSON: string(factsJSON)})
	return buf.String(), err
}
