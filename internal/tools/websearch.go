// Package tools implements the research tools exposed to the model
// collaborator. Tool failures never abort a forecast: every error is
// converted into advisory text the model can see and work around.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/Alias1177/Forecaster/internal/platform/http"
)

const webSearchMaxResults = 5

// WebSearch is a Tavily search API client. Without an API key it degrades
// to a fixed mock response instead of calling out.
type WebSearch struct {
	apiKey     string
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// WebSearchOptions holds options for creating a new WebSearch client
type WebSearchOptions struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
}

// NewWebSearch creates a new Tavily search client
func NewWebSearch(options WebSearchOptions) *WebSearch {
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}

	return &WebSearch{
		apiKey:  options.APIKey,
		baseURL: baseURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout: options.RequestTimeout,
		}),
		logger: log.With().Str("component", "web_search").Logger(),
	}
}

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search queries the web for current information. The result is a
// newline-joined list of up to 5 summaries, or advisory text when the
// search is mocked or fails.
func (w *WebSearch) Search(ctx context.Context, query string) string {
	if w.apiKey == "" {
		return fmt.Sprintf("[Mock search: %s] (Set TAVILY_API_KEY to enable real searches)", query)
	}

	body, err := json.Marshal(tavilyRequest{APIKey: w.apiKey, Query: query, MaxResults: webSearchMaxResults})
	if err != nil {
		return fmt.Sprintf("Search error: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return fmt.Sprintf("Search error: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.DoRequest(ctx, req)
	if err != nil {
		w.logger.Warn().Err(err).Str("query", query).Msg("Web search failed")
		return fmt.Sprintf("Search error: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("Search error: %v", err)
	}

	var data tavilyResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		w.logger.Warn().Err(err).Msg("Error parsing Tavily response")
		return fmt.Sprintf("Search error: %v", err)
	}

	lines := make([]string, 0, len(data.Results))
	for _, r := range data.Results {
		lines = append(lines, fmt.Sprintf("- %s: %s", r.Title, truncate(r.Content, 200)))
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
