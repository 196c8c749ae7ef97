package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/augur/internal/store"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

// List returns all active teams
func (r *TeamRepository) List(ctx context.Context) ([]*store.Team, error) {
	query := `
		SELECT team_id, abbreviation, full_name, short_name, is_active, created_at, updated_at
		FROM teams
		WHERE is_active = TRUE
		ORDER BY abbreviation
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []*store.Team
	for rows.Next() {
		team := &store.Team{}
		err := rows.Scan(
			&team.TeamID, &team.Abbreviation, &team.FullName, &team.ShortName,
			&team.IsActive, &team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// GetByAbbreviation finds a team by its three-letter code
func (r *TeamRepository) GetByAbbreviation(ctx context.Context, abbr string) (*store.Team, error) {
	query := `
		SELECT team_id, abbreviation, full_name, short_name, is_active, created_at, updated_at
		FROM teams
		WHERE abbreviation = $1
	`

	team := &store.Team{}
	err := r.db.DB().QueryRowContext(ctx, query, abbr).Scan(
		&team.TeamID, &team.Abbreviation, &team.FullName, &team.ShortName,
		&team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("team not found: %s", abbr)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return team, nil
}
