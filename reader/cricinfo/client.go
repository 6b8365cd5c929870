package cricinfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"cricketflow/config"
	"cricketflow/logger"
)

// ErrNotFound reports an unknown match id upstream.
var ErrNotFound = errors.New("match not found")

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Client fetches match documents and the summary feed. All requests share
// one rate limiter so polling many matches stays polite upstream.
type Client struct {
	httpClient *http.Client
	baseURL    string
	summaryURL string
	limiter    *rate.Limiter
	log        *logger.Log
}

// NewClient creates a feed client from the reader configuration.
func NewClient(cfg *config.Config) *Client {
	rl := cfg.Reader.RateLimit
	burst := rl.BurstSize
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Reader.Timeout},
		baseURL:    cfg.Source.Cricinfo.BaseURL,
		summaryURL: cfg.Source.Cricinfo.SummaryURL,
		limiter:    rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), burst),
		log:        logger.GetLogger(),
	}
}

// FetchMatch retrieves and decodes the raw match document for one match id.
func (c *Client) FetchMatch(ctx context.Context, matchID string) (*MatchDocument, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/matches/engine/match/%s.json", c.baseURL, matchID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match %s: %w", matchID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("match %s: unexpected status code %d", matchID, resp.StatusCode)
	}

	var doc MatchDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode match %s: %w", matchID, err)
	}

	return &doc, nil
}
