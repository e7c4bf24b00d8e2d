// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// fakeProvider returns canned results or a canned error.
type fakeProvider struct {
	name    string
	results []types.SearchResult
	err     error
	calls   int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(_ context.Context, _ string, _ int) ([]types.SearchResult, error) {
	f.calls++
	return f.results, f.err
}

func stub(url string) []types.SearchResult {
	return []types.SearchResult{{URL: url, Title: "t", Snippet: "s"}}
}

func TestNewSelector_ExplicitDuckDuckGo(t *testing.T) {
	sel, err := NewSelector(types.SearchConfig{Provider: types.ProviderDuckDuckGo}, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"duckduckgo"}, sel.Providers())
}

func TestNewSelector_GoogleWithoutCredentials(t *testing.T) {
	_, err := NewSelector(types.SearchConfig{Provider: types.ProviderGoogle}, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestNewSelector_AutoWithGoogleCredentials(t *testing.T) {
	cfg := types.SearchConfig{
		Provider:     types.ProviderAuto,
		GoogleAPIKey: "key",
		GoogleCSEID:  "cse",
	}
	sel, err := NewSelector(cfg, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"duckduckgo", "google"}, sel.Providers())
}

func TestNewSelector_AutoWithoutGoogleCredentials(t *testing.T) {
	sel, err := NewSelector(types.SearchConfig{Provider: types.ProviderAuto}, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"duckduckgo"}, sel.Providers())
}

func TestNewSelector_UnknownProvider(t *testing.T) {
	_, err := NewSelector(types.SearchConfig{Provider: "bing"}, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestNewSelector_DefaultsToAuto(t *testing.T) {
	sel, err := NewSelector(types.SearchConfig{}, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"duckduckgo"}, sel.Providers())
}

func TestSelectorSearch_FirstProviderWins(t *testing.T) {
	primary := &fakeProvider{name: "primary", results: stub("https://a.example")}
	fallback := &fakeProvider{name: "fallback", results: stub("https://b.example")}
	sel := &Selector{providers: []Provider{primary, fallback}, maxResults: 5, log: zap.NewNop()}

	got := sel.Search(context.Background(), "q")
	require.Len(t, got, 1)
	assert.Equal(t, "https://a.example", got[0].URL)
	assert.Equal(t, 0, fallback.calls)
}

func TestSelectorSearch_FallbackOnEmpty(t *testing.T) {
	primary := &fakeProvider{name: "primary"}
	fallback := &fakeProvider{name: "fallback", results: stub("https://b.example")}
	sel := &Selector{providers: []Provider{primary, fallback}, maxResults: 5, log: zap.NewNop()}

	got := sel.Search(context.Background(), "q")
	require.Len(t, got, 1)
	assert.Equal(t, "https://b.example", got[0].URL)
}

func TestSelectorSearch_ErrorTreatedAsEmpty(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: fmt.Errorf("backend down")}
	fallback := &fakeProvider{name: "fallback", results: stub("https://b.example")}
	sel := &Selector{providers: []Provider{primary, fallback}, maxResults: 5, log: zap.NewNop()}

	got := sel.Search(context.Background(), "q")
	require.Len(t, got, 1)
	assert.Equal(t, "https://b.example", got[0].URL)
}

func TestSelectorSearch_AllEmptyReturnsNil(t *testing.T) {
	sel := &Selector{
		providers:  []Provider{&fakeProvider{name: "a"}, &fakeProvider{name: "b", err: fmt.Errorf("down")}},
		maxResults: 5,
		log:        zap.NewNop(),
	}
	assert.Empty(t, sel.Search(context.Background(), "q"))
}
