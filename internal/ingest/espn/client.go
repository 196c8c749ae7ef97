package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/exec"
	"time"
)

const (
	BaseURL       = "https://site.api.espn.com/apis/site/v2/sports"
	BasketballNBA = "basketball/nba"
)

// Client handles ESPN API requests
// Note: Uses curl internally because ESPN blocks Go's HTTP client fingerprint
type Client struct {
	baseURL string
}

// New creates a new ESPN API client with a custom base URL
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{baseURL: baseURL}
}

// FetchScoreboard fetches the slate for a specific date (YYYYMMDD).
// A zero date fetches ESPN's "today".
func (c *Client) FetchScoreboard(ctx context.Context, date time.Time) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/%s/scoreboard", c.baseURL, BasketballNBA)
	if !date.IsZero() {
		url = fmt.Sprintf("%s?dates=%s", url, date.Format("20060102"))
	}
	return c.fetch(ctx, url)
}

// FetchGameSummary fetches a game's summary, including player box scores.
func (c *Client) FetchGameSummary(ctx context.Context, gameID string) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/%s/summary?event=%s", c.baseURL, BasketballNBA, gameID)
	return c.fetch(ctx, url)
}

// fetch makes an HTTP GET request using curl
// ESPN blocks Go's HTTP client but curl works reliably
func (c *Client) fetch(ctx context.Context, url string) (map[string]interface{}, error) {
	cmd := exec.CommandContext(ctx, "curl", "-s", "-L", "-m", "15", url)

	output, err := cmd.Output()
	if err != nil {
		log.Printf("[espn-client] ❌ curl failed: %v", err)
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("curl failed: %s (stderr: %s)", err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("curl execution failed: %w", err)
	}

	// HTML means an error page (403, 404), not a payload.
	if len(output) > 0 && output[0] == '<' {
		return nil, fmt.Errorf("ESPN returned HTML error page: %s", truncate(output, 200))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w (body: %s)", err, truncate(output, 200))
	}

	return result, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
