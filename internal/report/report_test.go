// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-assistant/pkg/types"
)

func sampleReport() *types.ResearchReport {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	return &types.ResearchReport{
		Question:   "Is fusion energy close to commercial viability?",
		SubQueries: []string{"fusion ignition milestones", "commercial fusion timelines"},
		Sources: []types.Source{
			{URL: "https://a.com", Title: "Fusion at NIF", Content: "long content here", FetchTime: ts},
			{URL: "https://b.com", Title: "", Content: "more content", FetchTime: ts},
		},
		Facts: []types.Fact{
			{Claim: "Ignition achieved in 2022", Caveat: "laser energy only", Confidence: types.ConfidenceHigh, SourceURL: "https://a.com"},
			{Claim: "Commercial plants 2040s at earliest", Confidence: types.ConfidenceMedium, SourceURL: "https://b.com"},
			{Claim: "Some startups claim 2030", Confidence: types.ConfidenceLow, SourceURL: "https://b.com"},
		},
		Synthesis: types.Synthesis{
			Agreements: []string{"Scientific breakeven is real"},
			Contradictions: []types.Contradiction{
				{Issue: "Timeline estimates differ", Sources: []string{"https://a.com", "https://b.com"}, Explanation: "Different assumptions"},
			},
			Gaps:   []string{"Cost data is sparse"},
			Answer: "Fusion works in the lab; commercialization is distant.",
		},
		Timestamp: ts,
	}
}

func TestMarkdown_Sections(t *testing.T) {
	md := Markdown(sampleReport())

	assert.Contains(t, md, "# Research Report: Is fusion energy close to commercial viability?")
	assert.Contains(t, md, "## Answer\n\nFusion works in the lab")
	assert.Contains(t, md, "- fusion ignition milestones")
	assert.Contains(t, md, "## Areas of Agreement")
	assert.Contains(t, md, "### Timeline estimates differ")
	assert.Contains(t, md, "Sources: https://a.com, https://b.com")
	assert.Contains(t, md, "- Cost data is sparse")

	// Confidence buckets ordered high, medium, low.
	high := strings.Index(md, "### High Confidence")
	medium := strings.Index(md, "### Medium Confidence")
	low := strings.Index(md, "### Low Confidence")
	require.True(t, high >= 0 && medium >= 0 && low >= 0)
	assert.Less(t, high, medium)
	assert.Less(t, medium, low)

	assert.Contains(t, md, "Ignition achieved in 2022 *(laser energy only)*")
	// Untitled source falls back to its URL.
	assert.Contains(t, md, "2. [https://b.com](https://b.com)")
}

func TestMarkdown_OmitsEmptySections(t *testing.T) {
	r := sampleReport()
	r.Facts = nil
	r.Synthesis.Agreements = nil
	r.Synthesis.Contradictions = nil
	r.Synthesis.Gaps = nil

	md := Markdown(r)
	assert.NotContains(t, md, "## Key Facts")
	assert.NotContains(t, md, "## Areas of Agreement")
	assert.NotContains(t, md, "## Contradictions")
	assert.NotContains(t, md, "## Knowledge Gaps")
	assert.Contains(t, md, "## Sources")
}

func TestSave_WritesTimestampedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := Save(sampleReport(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "research_report_20260314_150926.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Research Report:")
}

func TestSaveSources_PreviewTruncated(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport()
	r.Sources[0].Content = strings.Repeat("x", 1500)

	path, err := SaveSources(r, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sources_20260314_150926.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var dump sourceDump
	require.NoError(t, yaml.Unmarshal(data, &dump))
	assert.Equal(t, r.Question, dump.Question)
	require.Len(t, dump.Sources, 2)
	assert.Equal(t, 1500, dump.Sources[0].ContentLength)
	assert.Len(t, dump.Sources[0].Preview, 1003)
	assert.True(t, strings.HasSuffix(dump.Sources[0].Preview, "..."))
}
