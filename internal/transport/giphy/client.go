package giphy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.giphy.com/v1/gifs/search"

	defaultQuery = "reaction"
	searchLimit  = 12
	maxResults   = 8
)

type image struct {
	URL string `json:"url"`
}

type searchResponse struct {
	Data []struct {
		Images struct {
			DownsizedMedium image `json:"downsized_medium"`
			Downsized       image `json:"downsized"`
			Original        image `json:"original"`
		} `json:"images"`
	} `json:"data"`
}

// Client looks up reaction GIFs. Search never fails: errors degrade to an empty list.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client

	baseURL string
	apiKey  string
}

func New(logger *slog.Logger, baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		logger:     logger.With("component", "giphy"),
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Search returns up to 8 GIF URLs for query, in the order GIPHY ranks them.
func (that *Client) Search(ctx context.Context, query string) []string {
	log := that.logger.With("method", "Search")

	query = strings.TrimSpace(query)
	if query == "" {
		query = defaultQuery
	}

	urls, err := that.search(ctx, query)
	if err != nil {
		log.Warn("gif search failed", "query", query, "error", err)
		return []string{}
	}

	return urls
}

func (that *Client) search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("api_key", that.apiKey)
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(searchLimit))
	params.Set("rating", "g")
	params.Set("lang", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, that.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := that.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GIPHY HTTP error: status %d", resp.StatusCode)
	}

	var body searchResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	urls := make([]string, 0, maxResults)
	for _, gif := range body.Data {
		if len(urls) == maxResults {
			break
		}

		switch {
		case gif.Images.DownsizedMedium.URL != "":
			urls = append(urls, gif.Images.DownsizedMedium.URL)
		case gif.Images.Downsized.URL != "":
			urls = append(urls, gif.Images.Downsized.URL)
		case gif.Images.Original.URL != "":
			urls = append(urls, gif.Images.Original.URL)
		}
	}

	return urls, nil
}
