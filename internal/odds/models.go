package odds

import (
	"time"

	"github.com/fortuna/augur/internal/store"
)

// Event is one scheduled game from the odds feed.
type Event struct {
	ID           string    `json:"id"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
}

// PropLine is one player prop offered by the configured bookmaker.
type PropLine struct {
	PlayerName string         `json:"player_name"`
	Category   store.Category `json:"category"`
	Side       store.Side     `json:"side"`
	Line       float64        `json:"line"`
	Price      int            `json:"price"`
	EventID    string         `json:"event_id"`
}

// eventOddsResponse is the wire shape of the per-event odds endpoint.
type eventOddsResponse struct {
	ID         string      `json:"id"`
	Bookmakers []bookmaker `json:"bookmakers"`
}

type bookmaker struct {
	Key     string   `json:"key"`
	Markets []market `json:"markets"`
}

type market struct {
	Key      string    `json:"key"`
	Outcomes []outcome `json:"outcomes"`
}

type outcome struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int     `json:"price"`
	Point       float64 `json:"point"`
}

// marketCategories maps the feed's market keys onto prop categories.
var marketCategories = map[string]store.Category{
	"player_points":                  store.CategoryPoints,
	"player_rebounds":                store.CategoryRebounds,
	"player_assists":                 store.CategoryAssists,
	"player_threes":                  store.CategoryThrees,
	"player_points_rebounds_assists": store.CategoryPRA,
	"player_steals":                  store.CategorySteals,
	"player_blocks":                  store.CategoryBlocks,
}

// MarketKeys lists every market the client requests, in a stable order.
func MarketKeys() []string {
	return []string{
		"player_points",
		"player_rebounds",
		"player_assists",
		"player_threes",
		"player_points_rebounds_assists",
		"player_steals",
		"player_blocks",
	}
}
