package store

import (
	"database/sql"
	"time"
)

// Category identifies a statistical prop market.
type Category string

const (
	CategoryPoints   Category = "PTS"
	CategoryRebounds Category = "REB"
	CategoryAssists  Category = "AST"
	CategoryThrees   Category = "3PM"
	CategoryPRA      Category = "PRA"
	CategorySteals   Category = "STL"
	CategoryBlocks   Category = "BLK"
)

// Categories lists every prop market the pipeline projects and grades.
var Categories = []Category{
	CategoryPoints, CategoryRebounds, CategoryAssists,
	CategoryThrees, CategoryPRA, CategorySteals, CategoryBlocks,
}

// Side is the direction of a recommended or graded bet.
type Side string

const (
	SideOver  Side = "OVER"
	SideUnder Side = "UNDER"
)

// Result is the graded outcome of a pick.
type Result string

const (
	ResultWin  Result = "WIN"
	ResultLoss Result = "LOSS"
	// ResultVoid means no actual-stat match was found (DNP, postponement).
	// Void records are excluded from win-rate denominators.
	ResultVoid Result = "VOID"
)

// Team represents an NBA franchise
type Team struct {
	TeamID       int       `json:"team_id" db:"team_id"`
	Abbreviation string    `json:"abbreviation" db:"abbreviation"`
	FullName     string    `json:"full_name" db:"full_name"`
	ShortName    string    `json:"short_name" db:"short_name"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// GameLog is one player's box score line for one game. Rows with zero
// minutes are never stored; they pollute per-minute rates.
type GameLog struct {
	LogID      int       `json:"log_id" db:"log_id"`
	PlayerName string    `json:"player_name" db:"player_name"`
	GameDate   time.Time `json:"game_date" db:"game_date"`
	Team       string    `json:"team" db:"team"`
	Opponent   string    `json:"opponent" db:"opponent"`
	IsHome     bool      `json:"is_home" db:"is_home"`
	Minutes    float64   `json:"minutes" db:"minutes"`
	Points     int       `json:"points" db:"points"`
	Rebounds   int       `json:"rebounds" db:"rebounds"`
	Assists    int       `json:"assists" db:"assists"`
	Steals     int       `json:"steals" db:"steals"`
	Blocks     int       `json:"blocks" db:"blocks"`
	ThreesMade int       `json:"threes_made" db:"threes_made"`
	Turnovers  int       `json:"turnovers" db:"turnovers"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Projection is one eligible player's projected line for a run date.
// The set for a run date replaces the prior run wholesale.
type Projection struct {
	ProjectionID     int       `json:"projection_id" db:"projection_id"`
	RunDate          time.Time `json:"run_date" db:"run_date"`
	PlayerName       string    `json:"player_name" db:"player_name"`
	NextOpponent     string    `json:"next_opponent,omitempty" db:"next_opponent"`
	ProjectedMinutes float64   `json:"projected_minutes" db:"projected_minutes"`
	Points           float64   `json:"points" db:"points"`
	Rebounds         float64   `json:"rebounds" db:"rebounds"`
	Assists          float64   `json:"assists" db:"assists"`
	ThreesMade       float64   `json:"threes_made" db:"threes_made"`
	Steals           float64   `json:"steals" db:"steals"`
	Blocks           float64   `json:"blocks" db:"blocks"`
	PRA              float64   `json:"pra" db:"pra"`
	Consistency      float64   `json:"consistency" db:"consistency"`
	GamesPlayed      int       `json:"games_played" db:"games_played"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// ValueFor returns the projected value for a prop category.
func (p *Projection) ValueFor(cat Category) (float64, bool) {
	switch cat {
	case CategoryPoints:
		return p.Points, true
	case CategoryRebounds:
		return p.Rebounds, true
	case CategoryAssists:
		return p.Assists, true
	case CategoryThrees:
		return p.ThreesMade, true
	case CategoryPRA:
		return p.PRA, true
	case CategorySteals:
		return p.Steals, true
	case CategoryBlocks:
		return p.Blocks, true
	}
	return 0, false
}

// Edge is one flagged opportunity on a run date's pick sheet.
// Edge = projection - line; sheets are immutable once written.
type Edge struct {
	EdgeID     int       `json:"edge_id" db:"edge_id"`
	RunDate    time.Time `json:"run_date" db:"run_date"`
	PlayerName string    `json:"player_name" db:"player_name"`
	Category   Category  `json:"category" db:"category"`
	Line       float64   `json:"line" db:"line"`
	Projection float64   `json:"projection" db:"projection"`
	Edge       float64   `json:"edge" db:"edge"`
	Side       Side      `json:"side" db:"side"`
	Price      int       `json:"price" db:"price"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ResultRecord is a graded Edge row in the append-only ledger.
type ResultRecord struct {
	RecordID   int             `json:"record_id" db:"record_id"`
	GradedDate time.Time       `json:"graded_date" db:"graded_date"`
	PlayerName string          `json:"player_name" db:"player_name"`
	Category   Category        `json:"category" db:"category"`
	Side       Side            `json:"side" db:"side"`
	Line       float64         `json:"line" db:"line"`
	Projection float64         `json:"projection" db:"projection"`
	Edge       float64         `json:"edge" db:"edge"`
	Price      int             `json:"price" db:"price"`
	Actual     sql.NullFloat64 `json:"actual,omitempty" db:"actual"`
	Result     Result          `json:"result" db:"result"`
	Margin     float64         `json:"margin" db:"margin"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// CategorySummary aggregates graded results for one category.
type CategorySummary struct {
	Category Category `json:"category" db:"category"`
	Wins     int      `json:"wins" db:"wins"`
	Losses   int      `json:"losses" db:"losses"`
	Voids    int      `json:"voids" db:"voids"`
	WinRate  float64  `json:"win_rate" db:"win_rate"`
}

// LedgerSummary aggregates the results ledger. Win rate is
// wins/(wins+losses); voids are excluded from both sides.
type LedgerSummary struct {
	TotalGraded int               `json:"total_graded"`
	Wins        int               `json:"wins"`
	Losses      int               `json:"losses"`
	Voids       int               `json:"voids"`
	WinRate     float64           `json:"win_rate"`
	ByCategory  []CategorySummary `json:"by_category"`
}

// Summarize builds the ledger aggregate from raw counts. Voids count
// toward the total graded but never enter the win rate; a ledger with
// no settled picks has a win rate of zero.
func Summarize(wins, losses, voids int) *LedgerSummary {
	return &LedgerSummary{
		TotalGraded: wins + losses + voids,
		Wins:        wins,
		Losses:      losses,
		Voids:       voids,
		WinRate:     DecidedWinRate(wins, losses),
	}
}

// DecidedWinRate returns wins over settled picks (wins + losses).
func DecidedWinRate(wins, losses int) float64 {
	if decided := wins + losses; decided > 0 {
		return float64(wins) / float64(decided)
	}
	return 0
}
