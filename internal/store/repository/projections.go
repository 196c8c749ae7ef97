package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fortuna/augur/internal/store"
)

// ProjectionRepository handles projection data access
type ProjectionRepository struct {
	db *store.Database
}

// NewProjectionRepository creates a new projection repository
func NewProjectionRepository(db *store.Database) *ProjectionRepository {
	return &ProjectionRepository{db: db}
}

// ReplaceForDate deletes any existing projections for the run date and
// inserts the new set in one transaction. Projections are recomputed
// wholesale every run; there is no incremental update.
func (r *ProjectionRepository) ReplaceForDate(ctx context.Context, runDate time.Time, projections []*store.Projection) error {
	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning projection replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projections WHERE run_date = $1`, runDate); err != nil {
		return fmt.Errorf("clearing prior projections: %w", err)
	}

	query := `
		INSERT INTO projections (run_date, player_name, next_opponent, projected_minutes,
			points, rebounds, assists, threes_made, steals, blocks, pra,
			consistency, games_played)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING projection_id
	`

	for _, p := range projections {
		err := tx.QueryRowContext(ctx, query,
			runDate, p.PlayerName, p.NextOpponent, p.ProjectedMinutes,
			p.Points, p.Rebounds, p.Assists, p.ThreesMade, p.Steals, p.Blocks,
			p.PRA, p.Consistency, p.GamesPlayed,
		).Scan(&p.ProjectionID)
		if err != nil {
			return fmt.Errorf("inserting projection for %s: %w", p.PlayerName, err)
		}
		p.RunDate = runDate
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing projection replace: %w", err)
	}

	return nil
}

// ListForDate returns all projections for a run date
func (r *ProjectionRepository) ListForDate(ctx context.Context, runDate time.Time) ([]*store.Projection, error) {
	query := `
		SELECT projection_id, run_date, player_name, next_opponent, projected_minutes,
			points, rebounds, assists, threes_made, steals, blocks, pra,
			consistency, games_played, created_at
		FROM projections
		WHERE run_date = $1
		ORDER BY points DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, runDate)
	if err != nil {
		return nil, fmt.Errorf("querying projections: %w", err)
	}
	defer rows.Close()

	return r.scanProjections(rows)
}

// LatestRunDate returns the most recent run date with projections
func (r *ProjectionRepository) LatestRunDate(ctx context.Context) (time.Time, error) {
	query := `SELECT MAX(run_date) FROM projections`

	var latest sql.NullTime
	if err := r.db.DB().QueryRowContext(ctx, query).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("querying latest run date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, fmt.Errorf("no projections have been built yet")
	}

	return latest.Time, nil
}

// scanProjections scans multiple projection rows
func (r *ProjectionRepository) scanProjections(rows *sql.Rows) ([]*store.Projection, error) {
	var projections []*store.Projection
	for rows.Next() {
		p := &store.Projection{}
		err := rows.Scan(
			&p.ProjectionID, &p.RunDate, &p.PlayerName, &p.NextOpponent,
			&p.ProjectedMinutes, &p.Points, &p.Rebounds, &p.Assists,
			&p.ThreesMade, &p.Steals, &p.Blocks, &p.PRA,
			&p.Consistency, &p.GamesPlayed, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning projection: %w", err)
		}
		projections = append(projections, p)
	}

	return projections, rows.Err()
}
