// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders completed research reports to markdown and persists
// them under the configured output directory.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// filenameTimeLayout names report files research_report_YYYYMMDD_HHMMSS.md.
const filenameTimeLayout = "20060102_150405"

// sourcePreviewChars bounds content previews in the debug sources dump.
const sourcePreviewChars = 1000

// Markdown renders report as a human-readable markdown document: the answer
// first, then the analysis sections, then facts bucketed by confidence, and
// finally the source list.
func Markdown(report *types.ResearchReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research Report: %s\n\n", report.Question)
	fmt.Fprintf(&b, "Generated: %s\n\n", report.Timestamp.Format("2006-01-02 15:04:05"))

	b.WriteString("## Answer\n\n")
	b.WriteString(report.Synthesis.Answer)
	b.WriteString("\n\n")

	b.WriteString("## Sub-Queries\n\n")
	for _, q := range report.SubQueries {
		fmt.Fprintf(&b, "- %s\n", q)
	}
	b.WriteString("\n")

	if len(report.Synthesis.Agreements) > 0 {
		b.WriteString("## Areas of Agreement\n\n")
		for _, a := range report.Synthesis.Agreements {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		b.WriteString("\n")
	}

	if len(report.Synthesis.Contradictions) > 0 {
		b.WriteString("## Contradictions\n\n")
		for _, c := range report.Synthesis.Contradictions {
			fmt.Fprintf(&b, "### %s\n\n", c.Issue)
			if len(c.Sources) > 0 {
				fmt.Fprintf(&b, "- Sources: %s\n", strings.Join(c.Sources, ", "))
			}
			if c.Explanation != "" {
				fmt.Fprintf(&b, "- Explanation: %s\n", c.Explanation)
			}
			b.WriteString("\n")
		}
	}

	if len(report.Synthesis.Gaps) > 0 {
		b.WriteString("## Knowledge Gaps\n\n")
		for _, g := range report.Synthesis.Gaps {
			fmt.Fprintf(&b, "- %s\n", g)
		}
		b.WriteString("\n")
	}

	writeFacts(&b, report)
	writeSources(&b, report)

	return b.String()
}

// writeFacts emits facts grouped by confidence, highest first.
func writeFacts(b *strings.Builder, report *types.ResearchReport) {
	if len(report.Facts) == 0 {
		return
	}

	b.WriteString("## Key Facts\n\n")
	buckets := report.FactsByConfidence()
	for _, conf := range []types.Confidence{types.ConfidenceHigh, types.ConfidenceMedium, types.ConfidenceLow} {
		facts := buckets[conf]
		if len(facts) == 0 {
			continue
		}
		fmt.Fprintf(b, "### %s Confidence\n\n", confidenceHeading(conf))
		for _, f := range facts {
			fmt.Fprintf(b, "- %s", f.Claim)
			if f.Caveat != "" {
				fmt.Fprintf(b, " *(%s)*", f.Caveat)
			}
			fmt.Fprintf(b, " — [%s](%s)\n", f.SourceURL, f.SourceURL)
		}
		b.WriteString("\n")
	}
}

func confidenceHeading(conf types.Confidence) string {
	switch conf {
	case types.ConfidenceHigh:
		return "High"
	case types.ConfidenceLow:
		return "Low"
	default:
		return "Medium"
	}
}

func writeSources(b *strings.Builder, report *types.ResearchReport) {
	b.WriteString("## Sources\n\n")
	for i, src := range report.Sources {
		title := src.Title
		if title == "" {
			title = src.URL
		}
		fmt.Fprintf(b, "%d. [%s](%s) (fetched %s)\n",
			i+1, title, src.URL, src.FetchTime.Format("2006-01-02 15:04:05"))
	}
}

// Save writes the markdown rendering of report into dir, creating it if
// needed, and returns the file path.
func Save(report *types.ResearchReport, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("research_report_%s.md", report.Timestamp.Format(filenameTimeLayout)))
	if err := os.WriteFile(path, []byte(Markdown(report)), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// sourceDump is the YAML shape of the intermediate sources file.
type sourceDump struct {
	Question string `yaml:"question"`
	Sources  []struct {
		URL           string `yaml:"url"`
		Title         string `yaml:"title"`
		ContentLength int    `yaml:"content_length"`
		Preview       string `yaml:"preview"`
	} `yaml:"sources"`
}

// SaveSources writes a debugging dump of the gathered sources, with content
// previews, next to the report.
func SaveSources(report *types.ResearchReport, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	dump := sourceDump{Question: report.Question}
	for _, src := range report.Sources {
		preview := src.Content
		if len(preview) > sourcePreviewChars {
			preview = preview[:sourcePreviewChars] + "..."
		}
		dump.Sources = append(dump.Sources, struct {
			URL           string `yaml:"url"`
			Title         string `yaml:"title"`
			ContentLength int    `yaml:"content_length"`
			Preview       string `yaml:"preview"`
		}{URL: src.URL, Title: src.Title, ContentLength: len(src.Content), Preview: preview})
	}

	data, err := yaml.Marshal(dump)
	if err != nil {
		return "", fmt.Errorf("marshaling sources: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("sources_%s.yaml", report.Timestamp.Format(filenameTimeLayout)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing sources: %w", err)
	}
	return path, nil
}
