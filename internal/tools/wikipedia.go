package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/Alias1177/Forecaster/internal/platform/http"
)

const wikipediaExtractLimit = 500

// Wikipedia fetches introductory page extracts for background context and
// base rates
type Wikipedia struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// WikipediaOptions holds options for creating a new Wikipedia client
type WikipediaOptions struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// NewWikipedia creates a new Wikipedia API client
func NewWikipedia(options WikipediaOptions) *Wikipedia {
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org"
	}

	return &Wikipedia{
		baseURL: baseURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout: options.RequestTimeout,
		}),
		logger: log.With().Str("component", "wikipedia").Logger(),
	}
}

type wikipediaResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Lookup returns the first 500 characters of the page's introductory
// extract, a "no content" message, or advisory error text on failure.
func (w *Wikipedia) Lookup(ctx context.Context, topic string) string {
	params := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"titles":      {topic},
		"prop":        {"extracts"},
		"explaintext": {"true"},
		"exintro":     {"true"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/w/api.php?"+params.Encode(), nil)
	if err != nil {
		return fmt.Sprintf("Wikipedia error: %v", err)
	}

	resp, err := w.httpClient.DoRequest(ctx, req)
	if err != nil {
		w.logger.Warn().Err(err).Str("topic", topic).Msg("Wikipedia lookup failed")
		return fmt.Sprintf("Wikipedia error: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("Wikipedia error: %v", err)
	}

	var data wikipediaResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		w.logger.Warn().Err(err).Msg("Error parsing Wikipedia response")
		return fmt.Sprintf("Wikipedia error: %v", err)
	}

	for _, page := range data.Query.Pages {
		if page.Extract == "" {
			return "No content found"
		}
		return truncate(page.Extract, wikipediaExtractLimit)
	}
	return fmt.Sprintf("No Wikipedia article for: %s", topic)
}
