package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fortuna/augur/internal/store"
)

// ResultRepository handles the append-only results ledger
type ResultRepository struct {
	db *store.Database
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *store.Database) *ResultRepository {
	return &ResultRepository{db: db}
}

// Append adds graded records to the ledger and returns how many were
// actually inserted. The unique key on (graded_date, player, category,
// side, line) makes re-grading the same day a no-op, so grading twice
// and grading once yield identical aggregate statistics.
func (r *ResultRepository) Append(ctx context.Context, records []*store.ResultRecord) (int, error) {
	query := `
		INSERT INTO results (graded_date, player_name, category, side, line,
			projection, edge, price, actual, result, margin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (graded_date, player_name, category, side, line) DO NOTHING
	`

	inserted := 0
	for _, rec := range records {
		res, err := r.db.DB().ExecContext(ctx, query,
			rec.GradedDate, rec.PlayerName, rec.Category, rec.Side, rec.Line,
			rec.Projection, rec.Edge, rec.Price, rec.Actual, rec.Result, rec.Margin,
		)
		if err != nil {
			return inserted, fmt.Errorf("appending result for %s %s: %w", rec.PlayerName, rec.Category, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}

	return inserted, nil
}

// ListForDate returns all graded records for a date
func (r *ResultRepository) ListForDate(ctx context.Context, gradedDate time.Time) ([]*store.ResultRecord, error) {
	query := `
		SELECT record_id, graded_date, player_name, category, side, line,
			projection, edge, price, actual, result, margin, created_at
		FROM results
		WHERE graded_date = $1
		ORDER BY margin DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, gradedDate)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// Summary aggregates the full ledger. Voids are excluded from the
// win-rate numerator and denominator.
func (r *ResultRepository) Summary(ctx context.Context) (*store.LedgerSummary, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE result = 'WIN') AS wins,
			COUNT(*) FILTER (WHERE result = 'LOSS') AS losses,
			COUNT(*) FILTER (WHERE result = 'VOID') AS voids
		FROM results
	`

	var total, wins, losses, voids int
	err := r.db.DB().QueryRowContext(ctx, query).Scan(&total, &wins, &losses, &voids)
	if err != nil {
		return nil, fmt.Errorf("aggregating ledger: %w", err)
	}

	summary := store.Summarize(wins, losses, voids)

	byCategory, err := r.summaryByCategory(ctx)
	if err != nil {
		return nil, err
	}
	summary.ByCategory = byCategory

	return summary, nil
}

// summaryByCategory aggregates the ledger per category
func (r *ResultRepository) summaryByCategory(ctx context.Context) ([]store.CategorySummary, error) {
	query := `
		SELECT
			category,
			COUNT(*) FILTER (WHERE result = 'WIN') AS wins,
			COUNT(*) FILTER (WHERE result = 'LOSS') AS losses,
			COUNT(*) FILTER (WHERE result = 'VOID') AS voids
		FROM results
		GROUP BY category
		ORDER BY category
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("aggregating ledger by category: %w", err)
	}
	defer rows.Close()

	var summaries []store.CategorySummary
	for rows.Next() {
		cs := store.CategorySummary{}
		if err := rows.Scan(&cs.Category, &cs.Wins, &cs.Losses, &cs.Voids); err != nil {
			return nil, fmt.Errorf("scanning category summary: %w", err)
		}
		cs.WinRate = store.DecidedWinRate(cs.Wins, cs.Losses)
		summaries = append(summaries, cs)
	}

	return summaries, rows.Err()
}

// PruneBefore deletes ledger records graded before the cutoff date.
// The ledger is otherwise append-only; this is the one explicit
// maintenance operation.
func (r *ResultRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.DB().ExecContext(ctx, `DELETE FROM results WHERE graded_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning ledger: %w", err)
	}

	return res.RowsAffected()
}

// scanRecords scans multiple result rows
func (r *ResultRepository) scanRecords(rows *sql.Rows) ([]*store.ResultRecord, error) {
	var records []*store.ResultRecord
	for rows.Next() {
		rec := &store.ResultRecord{}
		err := rows.Scan(
			&rec.RecordID, &rec.GradedDate, &rec.PlayerName, &rec.Category,
			&rec.Side, &rec.Line, &rec.Projection, &rec.Edge, &rec.Price,
			&rec.Actual, &rec.Result, &rec.Margin, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
