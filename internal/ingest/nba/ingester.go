package nba

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fortuna/augur/internal/store/repository"
)

// Ingester pulls the trailing game-log window into the database.
type Ingester struct {
	client *Client
	repo   *repository.GameLogRepository
	season string
}

func NewIngester(client *Client, repo *repository.GameLogRepository, season string) *Ingester {
	return &Ingester{client: client, repo: repo, season: season}
}

// IngestWindow fetches and upserts every qualifying box score line in
// the trailing windowDays ending at asOf. Re-running over the same
// window is safe; rows upsert on (player, game date).
func (i *Ingester) IngestWindow(ctx context.Context, asOf time.Time, windowDays int) (int, error) {
	from := asOf.AddDate(0, 0, -windowDays)

	resp, err := i.client.FetchLeagueGameLog(ctx, i.season, from, asOf)
	if err != nil {
		return 0, fmt.Errorf("fetching game logs: %w", err)
	}

	logs, err := ParseGameLogs(resp)
	if err != nil {
		return 0, fmt.Errorf("parsing game logs: %w", err)
	}

	var stored int
	for _, gl := range logs {
		if err := i.repo.Upsert(ctx, gl); err != nil {
			log.Printf("[nba-ingester] ⚠️ Failed to store %s %s: %v",
				gl.PlayerName, gl.GameDate.Format("2006-01-02"), err)
			continue
		}
		stored++
	}

	log.Printf("[nba-ingester] ✓ Stored %d/%d game log rows", stored, len(logs))
	return stored, nil
}
