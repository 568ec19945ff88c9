package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSearchWithoutKeyReturnsMock(t *testing.T) {
	ws := NewWebSearch(WebSearchOptions{})

	got := ws.Search(context.Background(), "fusion energy breakthrough")
	assert.Equal(t, "[Mock search: fusion energy breakthrough] (Set TAVILY_API_KEY to enable real searches)", got)
}

func TestWebSearchFormatsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/search", r.URL.Path)
		w.Write([]byte(`{"results": [
			{"title": "First", "content": "alpha"},
			{"title": "Second", "content": "` + strings.Repeat("b", 300) + `"}
		]}`))
	}))
	defer srv.Close()

	ws := NewWebSearch(WebSearchOptions{APIKey: "test-key", BaseURL: srv.URL})
	got := ws.Search(context.Background(), "anything")

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "- First: alpha", lines[0])
	assert.Equal(t, "- Second: "+strings.Repeat("b", 200), lines[1], "content is capped at 200 characters")
}

func TestWebSearchErrorsBecomeText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	ws := NewWebSearch(WebSearchOptions{APIKey: "test-key", BaseURL: srv.URL, RequestTimeout: time.Second})
	got := ws.Search(context.Background(), "anything")

	assert.True(t, strings.HasPrefix(got, "Search error:"), "got %q", got)
}

func TestWikipediaReturnsTruncatedExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "query", r.URL.Query().Get("action"))
		require.Equal(t, "Fusion power", r.URL.Query().Get("titles"))
		w.Write([]byte(`{"query": {"pages": {"12345": {"extract": "` + strings.Repeat("x", 600) + `"}}}}`))
	}))
	defer srv.Close()

	wp := NewWikipedia(WikipediaOptions{BaseURL: srv.URL})
	got := wp.Lookup(context.Background(), "Fusion power")

	assert.Equal(t, strings.Repeat("x", 500), got)
}

func TestWikipediaEmptyExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query": {"pages": {"-1": {"extract": ""}}}}`))
	}))
	defer srv.Close()

	wp := NewWikipedia(WikipediaOptions{BaseURL: srv.URL})
	assert.Equal(t, "No content found", wp.Lookup(context.Background(), "Nonexistent"))
}

func TestWikipediaNoPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query": {"pages": {}}}`))
	}))
	defer srv.Close()

	wp := NewWikipedia(WikipediaOptions{BaseURL: srv.URL})
	assert.Equal(t, "No Wikipedia article for: Nonexistent", wp.Lookup(context.Background(), "Nonexistent"))
}

func TestWikipediaErrorsBecomeText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	wp := NewWikipedia(WikipediaOptions{BaseURL: srv.URL})
	got := wp.Lookup(context.Background(), "Anything")
	assert.True(t, strings.HasPrefix(got, "Wikipedia error:"), "got %q", got)
}
