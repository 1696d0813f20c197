// Google Custom Search [Searcher] implementation
//
// Talks to the Custom Search JSON API (customsearch/v1). One page of results
// per query; ranking order is the API order.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/scorefinder/internal/models"
	"github.com/desertthunder/scorefinder/internal/shared"
	"golang.org/x/time/rate"
)

const defaultSearchBaseURL = "https://www.googleapis.com"

// notationKeywords bias the query toward drum notation file hits.
var notationKeywords = []string{"drum", "notation", "OR", "musicxml", "OR", "midi", "OR", "sheet music"}

// SearchService implements [Searcher] backed by the Google Custom Search JSON API.
type SearchService struct {
	baseURL    string
	apiKey     string
	engineID   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSearchService creates a new search service instance.
//
// baseURL may be empty to use the production endpoint; tests point it at an
// httptest server.
func NewSearchService(baseURL, apiKey, engineID string) *SearchService {
	if baseURL == "" {
		baseURL = defaultSearchBaseURL
	}

	return &SearchService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		engineID:   engineID,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
	}
}

// Name returns the provider name.
func (s *SearchService) Name() string {
	return "Google Custom Search"
}

// BuildQuery assembles the search query string from a title, optional artist
// and the notation keywords.
func BuildQuery(title, artist string) string {
	parts := []string{title}
	if artist != "" {
		parts = append(parts, artist)
	}
	parts = append(parts, notationKeywords...)
	return strings.Join(parts, " ")
}

// Search queries the Custom Search API and maps each item to a
// [models.SearchResult]. Excluded URLs are skipped without consuming a rank.
func (s *SearchService) Search(ctx context.Context, title, artist string, exclude map[string]struct{}) ([]models.SearchResult, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	query := url.Values{}
	query.Set("key", s.apiKey)
	query.Set("cx", s.engineID)
	query.Set("q", BuildQuery(title, artist))
	query.Set("num", "10")

	apiURL := s.baseURL + "/customsearch/v1?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("%w: search API error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("%w: search API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var searchResp struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Link == "" {
			continue
		}
		if _, skip := exclude[item.Link]; skip {
			continue
		}

		results = append(results, models.SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Format:  models.DetectFormatWithSnippet(item.Link, item.Snippet),
			Rank:    len(results) + 1,
		})
	}

	return results, nil
}
