// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// ddgBaseURL is the DuckDuckGo HTML endpoint. Declared as a var so tests
// can substitute an httptest server.
var ddgBaseURL = "https://html.duckduckgo.com/html/"

const defaultUserAgent = "Mozilla/5.0 (compatible; research-assistant/0.1)"

// DuckDuckGo queries the credential-free DuckDuckGo HTML endpoint.
type DuckDuckGo struct {
	client    *http.Client
	userAgent string
}

// NewDuckDuckGo builds the provider. userAgent falls back to the package
// default when empty.
func NewDuckDuckGo(client *http.Client, userAgent string) *DuckDuckGo {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &DuckDuckGo{client: client, userAgent: userAgent}
}

// Name returns the backend identifier.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search fetches the HTML results page and scrapes result stubs from it.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	endpoint := fmt.Sprintf("%s?q=%s", ddgBaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing results page: %w", err)
	}

	var results []types.SearchResult
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return true
		}

		target := resolveRedirect(href)
		if target == "" {
			return true
		}

		title := strings.TrimSpace(link.Text())
		if title == "" {
			title = "Untitled"
		}

		results = append(results, types.SearchResult{
			URL:     target,
			Title:   title,
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
		})
		return len(results) < maxResults
	})

	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<encoded> redirect links to
// the destination URL. Plain links pass through untouched.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if uddg := u.Query().Get("uddg"); uddg != "" {
		return uddg
	}

	// Scheme-relative redirect targets come back as "//duckduckgo.com/l/...".
	if u.Scheme == "" && u.Host == "" && !strings.HasPrefix(href, "/") {
		return ""
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String()
}
