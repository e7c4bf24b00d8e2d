// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// googleAPIBase is the Custom Search JSON API endpoint. Declared as a var so
// tests can substitute an httptest server.
var googleAPIBase = "https://www.googleapis.com/customsearch/v1"

// googleMaxPerRequest is the API's hard cap on results per request.
const googleMaxPerRequest = 10

// Google queries the Google Custom Search JSON API. Requires an API key and
// a Custom Search Engine ID.
type Google struct {
	client *http.Client
	apiKey string
	cseID  string
}

// NewGoogle builds the provider, failing when either credential is missing.
func NewGoogle(client *http.Client, apiKey, cseID string) (*Google, error) {
	if apiKey == "" || cseID == "" {
		return nil, fmt.Errorf("google search credentials missing: set google_api_key and google_cse_id")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Google{client: client, apiKey: apiKey, cseID: cseID}, nil
}

// Name returns the backend identifier.
func (g *Google) Name() string { return "google" }

// Custom Search JSON API response structures.
type googleResponse struct {
	Items []googleItem `json:"items"`
}

type googleItem struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Search queries the Custom Search API. Result counts above the API cap of
// 10 are clamped.
func (g *Google) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	if maxResults <= 0 || maxResults > googleMaxPerRequest {
		maxResults = googleMaxPerRequest
	}

	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.cseID)
	params.Set("q", query)
	params.Set("num", fmt.Sprintf("%d", maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google API returned HTTP %d", resp.StatusCode)
	}

	var gr googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("parsing google response: %w", err)
	}

	var results []types.SearchResult
	for _, item := range gr.Items {
		if item.Link == "" {
			continue
		}
		title := item.Title
		if title == "" {
			title = "Untitled"
		}
		results = append(results, types.SearchResult{
			URL:     item.Link,
			Title:   title,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
