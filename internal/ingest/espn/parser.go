package espn

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/augur/internal/store"
)

// ESPN stat labels for dynamic parsing (more robust than hardcoded indices)
const (
	statLabelMinutes = "MIN"
	statLabelPoints  = "PTS"
	statLabelReb     = "REB"
	statLabelAst     = "AST"
	statLabelStl     = "STL"
	statLabelBlk     = "BLK"
	statLabelTO      = "TO"
	statLabel3PT     = "3PT" // Format: "X-Y"
)

// ParseFinalGameIDs extracts the IDs of completed games from a
// scoreboard payload. In-progress and scheduled games are skipped.
func ParseFinalGameIDs(scoreboardData map[string]interface{}) []string {
	events := extractArray(scoreboardData, "events")

	var ids []string
	for _, eventInterface := range events {
		event, ok := eventInterface.(map[string]interface{})
		if !ok {
			continue
		}
		gameID := extractString(event, "id")
		if gameID == "" {
			continue
		}

		status := extractMap(event, "status")
		statusType := extractMap(status, "type")
		if completed, ok := statusType["completed"].(bool); !ok || !completed {
			continue
		}

		ids = append(ids, gameID)
	}

	return ids
}

// ParseBoxScore extracts one box line per player who logged minutes in
// a game summary payload. gameDate stamps every line.
func ParseBoxScore(summaryData map[string]interface{}, gameDate time.Time) ([]*store.GameLog, error) {
	boxscore := extractMap(summaryData, "boxscore")
	if len(boxscore) == 0 {
		return nil, fmt.Errorf("no boxscore data found")
	}

	playersData := extractArray(boxscore, "players")
	if len(playersData) == 0 {
		return nil, fmt.Errorf("no players data in boxscore")
	}

	var lines []*store.GameLog
	for _, teamDataInterface := range playersData {
		teamData, ok := teamDataInterface.(map[string]interface{})
		if !ok {
			continue
		}

		statistics := extractArray(teamData, "statistics")
		if len(statistics) == 0 {
			continue
		}

		statGroup, ok := statistics[0].(map[string]interface{})
		if !ok {
			continue
		}

		// Build stat name -> index mapping for dynamic parsing
		statIndexMap := make(map[string]int)
		for i, nameInterface := range extractArray(statGroup, "names") {
			if name, ok := nameInterface.(string); ok {
				statIndexMap[name] = i
			}
		}

		for _, athleteInterface := range extractArray(statGroup, "athletes") {
			athleteData, ok := athleteInterface.(map[string]interface{})
			if !ok {
				continue
			}

			if didNotPlay, ok := athleteData["didNotPlay"].(bool); ok && didNotPlay {
				continue
			}

			line, err := parseBoxLine(athleteData, gameDate, statIndexMap)
			if err != nil {
				log.Printf("[espn-parser] ⚠️ Skipping player line: %v", err)
				continue
			}
			if line.Minutes <= 0 {
				continue
			}

			lines = append(lines, line)
		}
	}

	return lines, nil
}

func parseBoxLine(athleteData map[string]interface{}, gameDate time.Time, statIndexMap map[string]int) (*store.GameLog, error) {
	athlete := extractMap(athleteData, "athlete")
	name := fallbackString(extractString(athlete, "displayName"), extractString(athlete, "shortName"))
	if name == "" {
		return nil, fmt.Errorf("athlete has no name")
	}

	stats := extractArray(athleteData, "stats")
	if len(stats) == 0 {
		return nil, fmt.Errorf("no stats array for %s", name)
	}

	getStat := func(label string) interface{} {
		if idx, ok := statIndexMap[label]; ok && idx < len(stats) {
			return stats[idx]
		}
		return nil
	}

	line := &store.GameLog{
		PlayerName: name,
		GameDate:   gameDate,
	}

	if minStat := getStat(statLabelMinutes); minStat != nil {
		line.Minutes = parseMinutes(fmt.Sprint(minStat))
	}
	if ptsStat := getStat(statLabelPoints); ptsStat != nil {
		line.Points = parseInt(ptsStat)
	}
	if rebStat := getStat(statLabelReb); rebStat != nil {
		line.Rebounds = parseInt(rebStat)
	}
	if astStat := getStat(statLabelAst); astStat != nil {
		line.Assists = parseInt(astStat)
	}
	if stlStat := getStat(statLabelStl); stlStat != nil {
		line.Steals = parseInt(stlStat)
	}
	if blkStat := getStat(statLabelBlk); blkStat != nil {
		line.Blocks = parseInt(blkStat)
	}
	if toStat := getStat(statLabelTO); toStat != nil {
		line.Turnovers = parseInt(toStat)
	}
	if threePtStat := getStat(statLabel3PT); threePtStat != nil {
		made, _ := parseShotFormat(fmt.Sprint(threePtStat))
		line.ThreesMade = made
	}

	return line, nil
}

// Helper functions

func extractString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

func fallbackString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func extractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mapVal, ok := v.(map[string]interface{}); ok {
			return mapVal
		}
	}
	return nil
}

func extractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if arr, ok := v.([]interface{}); ok {
			return arr
		}
	}
	return nil
}

func parseInt(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n
		}
	}
	return 0
}

// parseMinutes handles both "34" and "34:21" forms.
func parseMinutes(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return 0
	}

	if parts := strings.Split(s, ":"); len(parts) == 2 {
		mins, err1 := strconv.Atoi(parts[0])
		secs, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil {
			return float64(mins) + float64(secs)/60.0
		}
		return 0
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return 0
}

// parseShotFormat splits ESPN's "made-attempted" shot strings.
func parseShotFormat(s string) (made, attempted int) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return 0, 0
	}
	made, _ = strconv.Atoi(parts[0])
	attempted, _ = strconv.Atoi(parts[1])
	return made, attempted
}
