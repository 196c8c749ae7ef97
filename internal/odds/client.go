package odds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	BaseURL  = "https://api.the-odds-api.com/v4"
	SportKey = "basketball_nba"
)

// Client fetches NBA player prop lines from The Odds API.
type Client struct {
	baseURL    string
	apiKey     string
	bookmaker  string
	httpClient *http.Client

	// QuotaRemaining mirrors the feed's x-requests-remaining header
	// after the most recent call (-1 before any call succeeds).
	QuotaRemaining int
}

// New creates an odds client. bookmaker is the feed's bookmaker key
// (e.g. "fanduel"); lines from other books are discarded.
func New(baseURL, apiKey, bookmaker string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL:        baseURL,
		apiKey:         apiKey,
		bookmaker:      bookmaker,
		httpClient:     &http.Client{Timeout: 20 * time.Second},
		QuotaRemaining: -1,
	}
}

// FetchEvents lists today's scheduled games.
func (c *Client) FetchEvents(ctx context.Context) ([]Event, error) {
	query := url.Values{"apiKey": {c.apiKey}}
	body, err := c.get(ctx, fmt.Sprintf("/sports/%s/events", SportKey), query)
	if err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decoding events: %w", err)
	}

	log.Printf("[odds-client] ✓ Fetched %d events (quota remaining: %d)", len(events), c.QuotaRemaining)
	return events, nil
}

// FetchEventProps fetches the configured bookmaker's player prop lines
// for one event. An event with no props listed yet returns an empty
// slice, not an error.
func (c *Client) FetchEventProps(ctx context.Context, eventID string) ([]PropLine, error) {
	query := url.Values{
		"apiKey":     {c.apiKey},
		"regions":    {"us"},
		"oddsFormat": {"american"},
		"markets":    {strings.Join(MarketKeys(), ",")},
		"bookmakers": {c.bookmaker},
	}
	body, err := c.get(ctx, fmt.Sprintf("/sports/%s/events/%s/odds", SportKey, eventID), query)
	if err != nil {
		return nil, fmt.Errorf("fetching props for event %s: %w", eventID, err)
	}

	var resp eventOddsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding props for event %s: %w", eventID, err)
	}

	return parsePropLines(&resp, c.bookmaker), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if remaining := resp.Header.Get("x-requests-remaining"); remaining != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(remaining)); err == nil {
			c.QuotaRemaining = n
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
