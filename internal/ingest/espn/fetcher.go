package espn

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fortuna/augur/internal/store"
)

// Fetcher assembles the full slate of final box scores for a date.
type Fetcher struct {
	client *Client
}

func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// FetchFinalBoxScores returns every player line from the date's
// completed games. A single game's summary failing does not abort the
// slate; grading can proceed on partial data and void unmatched picks.
func (f *Fetcher) FetchFinalBoxScores(ctx context.Context, date time.Time) ([]*store.GameLog, error) {
	scoreboard, err := f.client.FetchScoreboard(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetching scoreboard for %s: %w", date.Format("2006-01-02"), err)
	}

	gameIDs := ParseFinalGameIDs(scoreboard)
	if len(gameIDs) == 0 {
		log.Printf("[espn-fetcher] ⊘ No completed games on %s", date.Format("2006-01-02"))
		return nil, nil
	}

	var lines []*store.GameLog
	var fetched int
	for _, gameID := range gameIDs {
		summary, err := f.client.FetchGameSummary(ctx, gameID)
		if err != nil {
			log.Printf("[espn-fetcher] ⚠️ Failed to fetch game %s: %v", gameID, err)
			continue
		}

		gameLines, err := ParseBoxScore(summary, date)
		if err != nil {
			log.Printf("[espn-fetcher] ⚠️ Failed to parse game %s: %v", gameID, err)
			continue
		}

		lines = append(lines, gameLines...)
		fetched++
	}

	log.Printf("[espn-fetcher] ✓ Fetched %d player lines from %d/%d games", len(lines), fetched, len(gameIDs))
	return lines, nil
}
