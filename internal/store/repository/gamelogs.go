package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fortuna/augur/internal/store"
)

// GameLogRepository handles game-log data access
type GameLogRepository struct {
	db *store.Database
}

// NewGameLogRepository creates a new game-log repository
func NewGameLogRepository(db *store.Database) *GameLogRepository {
	return &GameLogRepository{db: db}
}

// Upsert inserts or updates a game log. Re-ingesting a game supersedes
// the old row rather than mutating it in place.
func (r *GameLogRepository) Upsert(ctx context.Context, gl *store.GameLog) error {
	query := `
		INSERT INTO game_logs (player_name, game_date, team, opponent, is_home, minutes,
			points, rebounds, assists, steals, blocks, threes_made, turnovers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (player_name, game_date) DO UPDATE SET
			team = EXCLUDED.team,
			opponent = EXCLUDED.opponent,
			is_home = EXCLUDED.is_home,
			minutes = EXCLUDED.minutes,
			points = EXCLUDED.points,
			rebounds = EXCLUDED.rebounds,
			assists = EXCLUDED.assists,
			steals = EXCLUDED.steals,
			blocks = EXCLUDED.blocks,
			threes_made = EXCLUDED.threes_made,
			turnovers = EXCLUDED.turnovers,
			updated_at = NOW()
		RETURNING log_id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		gl.PlayerName, gl.GameDate, gl.Team, gl.Opponent, gl.IsHome, gl.Minutes,
		gl.Points, gl.Rebounds, gl.Assists, gl.Steals, gl.Blocks,
		gl.ThreesMade, gl.Turnovers,
	).Scan(&gl.LogID)

	if err != nil {
		return fmt.Errorf("upserting game log: %w", err)
	}

	return nil
}

// ListSince returns all game logs on or after a date, ordered by
// player then game date ascending, the shape the projection builder
// consumes directly.
func (r *GameLogRepository) ListSince(ctx context.Context, since time.Time) ([]*store.GameLog, error) {
	query := `
		SELECT log_id, player_name, game_date, team, opponent, is_home, minutes,
			points, rebounds, assists, steals, blocks, threes_made, turnovers,
			created_at, updated_at
		FROM game_logs
		WHERE game_date >= $1
		ORDER BY player_name, game_date
	`

	rows, err := r.db.DB().QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("querying game logs: %w", err)
	}
	defer rows.Close()

	return r.scanGameLogs(rows)
}

// ListRecentByPlayer returns a player's most recent games, newest first
func (r *GameLogRepository) ListRecentByPlayer(ctx context.Context, playerName string, limit int) ([]*store.GameLog, error) {
	query := `
		SELECT log_id, player_name, game_date, team, opponent, is_home, minutes,
			points, rebounds, assists, steals, blocks, threes_made, turnovers,
			created_at, updated_at
		FROM game_logs
		WHERE player_name = $1
		ORDER BY game_date DESC
		LIMIT $2
	`

	rows, err := r.db.DB().QueryContext(ctx, query, playerName, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent game logs: %w", err)
	}
	defer rows.Close()

	return r.scanGameLogs(rows)
}

// CountPlayers returns the number of distinct players with logs since a date
func (r *GameLogRepository) CountPlayers(ctx context.Context, since time.Time) (int, error) {
	query := `SELECT COUNT(DISTINCT player_name) FROM game_logs WHERE game_date >= $1`

	var count int
	if err := r.db.DB().QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting players: %w", err)
	}

	return count, nil
}

// scanGameLogs scans multiple game-log rows
func (r *GameLogRepository) scanGameLogs(rows *sql.Rows) ([]*store.GameLog, error) {
	var logs []*store.GameLog
	for rows.Next() {
		gl := &store.GameLog{}
		err := rows.Scan(
			&gl.LogID, &gl.PlayerName, &gl.GameDate, &gl.Team, &gl.Opponent, &gl.IsHome,
			&gl.Minutes, &gl.Points, &gl.Rebounds, &gl.Assists, &gl.Steals,
			&gl.Blocks, &gl.ThreesMade, &gl.Turnovers, &gl.CreatedAt, &gl.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning game log: %w", err)
		}
		logs = append(logs, gl)
	}

	return logs, rows.Err()
}
