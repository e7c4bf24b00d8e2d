// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves web pages and extracts clean readable text for the
// fact extraction stage. Every unrecoverable condition yields empty content;
// callers treat that uniformly as "skip this result" and never learn why.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/internal/backoff"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// contentSelectors are tried in order to locate the main text of a page
// before falling back to <body>.
var contentSelectors = []string{"main", "article", ".content", "#content", ".main-content", "#main-content"}

// noiseSelector removes navigation, scripts, and other non-content elements
// before text extraction.
const noiseSelector = "nav, footer, header, aside, script, style, noscript, iframe, form, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// Fetcher retrieves pages with a bounded retry budget.
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
	retry  backoff.Policy
	log    *zap.Logger
}

// New builds a Fetcher. The HTTP client's timeout follows cfg.Timeout; the
// retry policy governs waits between attempts on 5xx and timeouts.
func New(cfg types.FetchConfig, retry backoff.Policy, log *zap.Logger) *Fetcher {
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 2
	}
	if cfg.MaxContentWords <= 0 {
		cfg.MaxContentWords = 5000
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; research-assistant/0.1)"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		retry:  retry,
		log:    log,
	}
}

// Fetch retrieves url and returns its readable text, truncated to the
// configured word limit. It returns "" for anything unrecoverable: 4xx
// status, exhausted retries, pages with no extractable text, or transport
// failures. 5xx responses and timeouts are retried with backoff.
func (f *Fetcher) Fetch(ctx context.Context, url string) string {
	f.log.Info("fetching content", zap.String("url", url))

	for attempt := 0; attempt < f.cfg.RetryAttempts; attempt++ {
		content, retryable := f.fetchOnce(ctx, url)
		if content != "" {
			return content
		}
		if !retryable {
			return ""
		}
		if attempt < f.cfg.RetryAttempts-1 {
			if err := f.retry.Wait(ctx, attempt); err != nil {
				return ""
			}
		}
	}

	f.log.Warn("all fetch attempts failed", zap.String("url", url))
	return ""
}

// fetchOnce performs a single GET. retryable is true only for 5xx responses
// and timeouts.
func (f *Fetcher) fetchOnce(ctx context.Context, url string) (content string, retryable bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.log.Warn("invalid fetch URL", zap.String("url", url), zap.Error(err))
		return "", false
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			f.log.Warn("fetch timeout", zap.String("url", url))
			return "", true
		}
		f.log.Warn("fetch request failed", zap.String("url", url), zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		f.log.Warn("server error", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return "", true
	case resp.StatusCode != http.StatusOK:
		// 404s, paywalled 403s, and the rest are final.
		f.log.Warn("fetch rejected", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return "", false
	}

	text, err := extractText(resp.Body)
	if err != nil || text == "" {
		f.log.Warn("no content extracted", zap.String("url", url))
		return "", false
	}

	return truncateWords(text, f.cfg.MaxContentWords), false
}

// isTimeout reports whether err is a client or dial timeout.
func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// extractText parses HTML and returns the cleaned main body text. Noise
// elements are removed first; the content selectors are tried in order with
// <body> as the fallback.
func extractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	var main *goquery.Selection
	for _, sel := range contentSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			main = s.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return cleanWhitespace(main.Text()), nil
}

// cleanWhitespace trims each line and drops blank ones.
func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// truncateWords caps text at max whitespace-separated words.
func truncateWords(text string, max int) string {
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	return strings.Join(words[:max], " ")
}
