package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	BaseURL = "https://stats.nba.com/stats"

	// stats.nba.com rejects requests without a full browser header set.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Client fetches league-wide game logs from the NBA stats API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an NBA stats client with a custom base URL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchLeagueGameLog fetches every player box score line in the season
// between the two dates (inclusive), in MM/DD/YYYY feed format.
func (c *Client) FetchLeagueGameLog(ctx context.Context, season string, from, to time.Time) (*leagueGameLogResponse, error) {
	query := url.Values{
		"LeagueID":     {"00"},
		"Season":       {season},
		"SeasonType":   {"Regular Season"},
		"PlayerOrTeam": {"P"},
		"Sorter":       {"DATE"},
		"Direction":    {"ASC"},
		"Counter":      {"0"},
		"DateFrom":     {from.Format("01/02/2006")},
		"DateTo":       {to.Format("01/02/2006")},
	}

	u := fmt.Sprintf("%s/leaguegamelog?%s", c.baseURL, query.Encode())
	log.Printf("[nba-client] Fetching league game log %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d from stats API", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var result leagueGameLogResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}
