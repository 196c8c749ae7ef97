package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fortuna/augur/internal/store"
)

// EdgeRepository handles pick-sheet data access
type EdgeRepository struct {
	db *store.Database
}

// NewEdgeRepository creates a new edge repository
func NewEdgeRepository(db *store.Database) *EdgeRepository {
	return &EdgeRepository{db: db}
}

// SaveSheet persists a run date's pick sheet. Sheets are immutable:
// a row already present for (run_date, player, category, line) is
// left untouched rather than overwritten.
func (r *EdgeRepository) SaveSheet(ctx context.Context, runDate time.Time, edges []*store.Edge) (int, error) {
	query := `
		INSERT INTO edges (run_date, player_name, category, line, projection, edge, side, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_date, player_name, category, line) DO NOTHING
	`

	inserted := 0
	for _, e := range edges {
		res, err := r.db.DB().ExecContext(ctx, query,
			runDate, e.PlayerName, e.Category, e.Line, e.Projection, e.Edge, e.Side, e.Price,
		)
		if err != nil {
			return inserted, fmt.Errorf("inserting edge for %s %s: %w", e.PlayerName, e.Category, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
		e.RunDate = runDate
	}

	return inserted, nil
}

// ListForDate returns the pick sheet for a run date, highest edge first
func (r *EdgeRepository) ListForDate(ctx context.Context, runDate time.Time) ([]*store.Edge, error) {
	query := `
		SELECT edge_id, run_date, player_name, category, line, projection, edge, side, price, created_at
		FROM edges
		WHERE run_date = $1
		ORDER BY ABS(edge) DESC, player_name
	`

	rows, err := r.db.DB().QueryContext(ctx, query, runDate)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}
	defer rows.Close()

	return r.scanEdges(rows)
}

// LatestRunDate returns the most recent run date with a pick sheet
func (r *EdgeRepository) LatestRunDate(ctx context.Context) (time.Time, error) {
	query := `SELECT MAX(run_date) FROM edges`

	var latest sql.NullTime
	if err := r.db.DB().QueryRowContext(ctx, query).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("querying latest edge run date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, fmt.Errorf("no pick sheets have been written yet")
	}

	return latest.Time, nil
}

// scanEdges scans multiple edge rows
func (r *EdgeRepository) scanEdges(rows *sql.Rows) ([]*store.Edge, error) {
	var edges []*store.Edge
	for rows.Next() {
		e := &store.Edge{}
		err := rows.Scan(
			&e.EdgeID, &e.RunDate, &e.PlayerName, &e.Category, &e.Line,
			&e.Projection, &e.Edge, &e.Side, &e.Price, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		edges = append(edges, e)
	}

	return edges, rows.Err()
}
