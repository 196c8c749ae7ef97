package nba

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fortuna/augur/internal/store"
)

// leagueGameLogResponse is the stats API's tabular envelope: column
// headers plus untyped row arrays.
type leagueGameLogResponse struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

// ParseGameLogs converts the tabular response into game log rows.
// Zero-minute lines (DNPs recorded with a stat row) are dropped.
// Malformed rows are skipped with a warning rather than failing the
// whole batch.
func ParseGameLogs(resp *leagueGameLogResponse) ([]*store.GameLog, error) {
	set := findResultSet(resp, "LeagueGameLog")
	if set == nil {
		return nil, fmt.Errorf("response has no LeagueGameLog result set")
	}

	cols := map[string]int{}
	for i, h := range set.Headers {
		cols[h] = i
	}
	for _, required := range []string{"PLAYER_NAME", "TEAM_ABBREVIATION", "GAME_DATE", "MATCHUP", "MIN", "PTS", "REB", "AST", "STL", "BLK", "FG3M", "TOV"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("response missing column %s", required)
		}
	}

	logs := make([]*store.GameLog, 0, len(set.RowSet))
	var skipped int

	for _, row := range set.RowSet {
		entry, err := parseRow(row, cols)
		if err != nil {
			log.Printf("[nba-parser] ⚠️ Skipping malformed row: %v", err)
			skipped++
			continue
		}
		if entry == nil {
			continue // zero minutes
		}
		logs = append(logs, entry)
	}

	if skipped > 0 {
		log.Printf("[nba-parser] ⚠️ Skipped %d malformed rows", skipped)
	}

	return logs, nil
}

func findResultSet(resp *leagueGameLogResponse, name string) *resultSet {
	for i := range resp.ResultSets {
		if resp.ResultSets[i].Name == name {
			return &resp.ResultSets[i]
		}
	}
	return nil
}

func parseRow(row []interface{}, cols map[string]int) (*store.GameLog, error) {
	name, err := cellString(row, cols["PLAYER_NAME"])
	if err != nil {
		return nil, fmt.Errorf("player name: %w", err)
	}

	team, err := cellString(row, cols["TEAM_ABBREVIATION"])
	if err != nil {
		return nil, fmt.Errorf("team: %w", err)
	}

	dateStr, err := cellString(row, cols["GAME_DATE"])
	if err != nil {
		return nil, fmt.Errorf("game date: %w", err)
	}
	gameDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("game date %q: %w", dateStr, err)
	}

	matchup, err := cellString(row, cols["MATCHUP"])
	if err != nil {
		return nil, fmt.Errorf("matchup: %w", err)
	}
	opponent, isHome, err := ParseMatchup(matchup)
	if err != nil {
		return nil, err
	}

	minutes, err := cellFloat(row, cols["MIN"])
	if err != nil {
		return nil, fmt.Errorf("minutes: %w", err)
	}
	if minutes <= 0 {
		return nil, nil
	}

	ints := map[string]int{}
	for _, col := range []string{"PTS", "REB", "AST", "STL", "BLK", "FG3M", "TOV"} {
		v, err := cellFloat(row, cols[col])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", col, err)
		}
		ints[col] = int(v)
	}

	return &store.GameLog{
		PlayerName: name,
		GameDate:   gameDate,
		Team:       team,
		Opponent:   opponent,
		IsHome:     isHome,
		Minutes:    minutes,
		Points:     ints["PTS"],
		Rebounds:   ints["REB"],
		Assists:    ints["AST"],
		Steals:     ints["STL"],
		Blocks:     ints["BLK"],
		ThreesMade: ints["FG3M"],
		Turnovers:  ints["TOV"],
	}, nil
}

// ParseMatchup extracts the opponent abbreviation and venue from the
// feed's matchup string: "BOS vs. LAL" is a Boston home game, "BOS @
// LAL" a road game.
func ParseMatchup(matchup string) (opponent string, isHome bool, err error) {
	if parts := strings.Split(matchup, " vs. "); len(parts) == 2 {
		return strings.TrimSpace(parts[1]), true, nil
	}
	if parts := strings.Split(matchup, " @ "); len(parts) == 2 {
		return strings.TrimSpace(parts[1]), false, nil
	}
	return "", false, fmt.Errorf("unrecognized matchup format %q", matchup)
}

func cellString(row []interface{}, idx int) (string, error) {
	if idx >= len(row) {
		return "", fmt.Errorf("row too short for column %d", idx)
	}
	s, ok := row[idx].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("cell %d is not a string (%T)", idx, row[idx])
	}
	return s, nil
}

func cellFloat(row []interface{}, idx int) (float64, error) {
	if idx >= len(row) {
		return 0, fmt.Errorf("row too short for column %d", idx)
	}
	switch v := row[idx].(type) {
	case float64:
		return v, nil
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("cell %d is not numeric (%T)", idx, row[idx])
}
