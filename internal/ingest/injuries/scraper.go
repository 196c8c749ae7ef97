package injuries

import (
	"context"
	"fmt"
)

// Scraper fetches and parses the injury report in one step.
type Scraper struct {
	client *Client
}

func NewScraper(client *Client) *Scraper {
	return &Scraper{client: client}
}

// FetchOutPlayers returns the set of players currently ruled out.
func (s *Scraper) FetchOutPlayers(ctx context.Context) (map[string]bool, error) {
	html, err := s.client.FetchReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching injury report: %w", err)
	}

	report, err := ParseReport(html)
	if err != nil {
		return nil, fmt.Errorf("parsing injury report: %w", err)
	}

	return report.Out(), nil
}
