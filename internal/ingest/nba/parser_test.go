package nba

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leagueGameLogFixture = `{
	"resultSets": [
		{
			"name": "LeagueGameLog",
			"headers": ["SEASON_ID", "PLAYER_NAME", "TEAM_ABBREVIATION", "GAME_DATE", "MATCHUP", "MIN", "FG3M", "REB", "AST", "STL", "BLK", "TOV", "PTS"],
			"rowSet": [
				["22025", "Jayson Tatum", "BOS", "2026-03-14", "BOS vs. LAL", 36.0, 4, 8, 5, 1, 0, 2, 31],
				["22025", "Luka Doncic", "LAL", "2026-03-14", "LAL @ BOS", 38.0, 3, 9, 11, 2, 1, 4, 34],
				["22025", "Deep Bench", "BOS", "2026-03-14", "BOS vs. LAL", 0.0, 0, 0, 0, 0, 0, 0, 0],
				["22025", "Bad Row", "BOS", "not-a-date", "BOS vs. LAL", 20.0, 1, 2, 3, 0, 0, 1, 10]
			]
		}
	]
}`

func TestParseGameLogs(t *testing.T) {
	var resp leagueGameLogResponse
	require.NoError(t, json.Unmarshal([]byte(leagueGameLogFixture), &resp))

	logs, err := ParseGameLogs(&resp)
	require.NoError(t, err)
	require.Len(t, logs, 2, "zero-minute and malformed rows are dropped")

	tatum := logs[0]
	assert.Equal(t, "Jayson Tatum", tatum.PlayerName)
	assert.Equal(t, "BOS", tatum.Team)
	assert.Equal(t, "LAL", tatum.Opponent)
	assert.True(t, tatum.IsHome)
	assert.Equal(t, 31, tatum.Points)
	assert.Equal(t, 4, tatum.ThreesMade)
	assert.InDelta(t, 36.0, tatum.Minutes, 1e-9)

	luka := logs[1]
	assert.Equal(t, "BOS", luka.Opponent)
	assert.False(t, luka.IsHome)
	assert.Equal(t, 11, luka.Assists)
}

func TestParseGameLogsMissingResultSet(t *testing.T) {
	resp := leagueGameLogResponse{ResultSets: []resultSet{{Name: "SomethingElse"}}}
	_, err := ParseGameLogs(&resp)
	assert.Error(t, err)
}

func TestParseGameLogsMissingColumn(t *testing.T) {
	resp := leagueGameLogResponse{ResultSets: []resultSet{{
		Name:    "LeagueGameLog",
		Headers: []string{"PLAYER_NAME", "GAME_DATE"},
	}}}
	_, err := ParseGameLogs(&resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestParseMatchup(t *testing.T) {
	opp, home, err := ParseMatchup("DEN vs. MIN")
	require.NoError(t, err)
	assert.Equal(t, "MIN", opp)
	assert.True(t, home)

	opp, home, err = ParseMatchup("DEN @ MIN")
	require.NoError(t, err)
	assert.Equal(t, "MIN", opp)
	assert.False(t, home)

	_, _, err = ParseMatchup("DEN-MIN")
	assert.Error(t, err)
}
