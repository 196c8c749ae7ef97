package projection

import (
	"log"
	"math"
	"time"

	"github.com/fortuna/augur/internal/config"
	"github.com/fortuna/augur/internal/store"
)

// Builder turns a window of game logs into per-player projections.
type Builder struct {
	cfg config.ModelConfig
}

// NewBuilder creates a projection builder with the given model tuning.
func NewBuilder(cfg config.ModelConfig) *Builder {
	return &Builder{cfg: cfg}
}

// SkipCounts reports why players were rejected during a build.
type SkipCounts struct {
	SampleSize  int `json:"sample_size"`
	Consistency int `json:"consistency"`
}

// Build computes one projection per eligible player. Logs must be
// ordered by player then game date ascending (the repository's
// ListSince shape). nextOpponents maps player name to the upcoming
// opponent abbreviation; missing entries mean neutral matchup factors.
func (b *Builder) Build(runDate time.Time, logs []*store.GameLog, nextOpponents map[string]string) ([]*store.Projection, SkipCounts) {
	var projections []*store.Projection
	var skipped SkipCounts

	for _, games := range groupByPlayer(logs) {
		proj, reason := b.buildPlayer(runDate, games, nextOpponents[games[0].PlayerName])
		switch reason {
		case skipNone:
			projections = append(projections, proj)
		case skipSampleSize:
			skipped.SampleSize++
		case skipConsistency:
			skipped.Consistency++
		}
	}

	log.Printf("[projections] Built %d projections (skipped %d sample size, %d consistency)",
		len(projections), skipped.SampleSize, skipped.Consistency)

	return projections, skipped
}

type skipReason int

const (
	skipNone skipReason = iota
	skipSampleSize
	skipConsistency
)

// buildPlayer projects a single player from their qualifying games,
// oldest first.
func (b *Builder) buildPlayer(runDate time.Time, games []*store.GameLog, opponent string) (*store.Projection, skipReason) {
	// Zero-minute rows are filtered at ingestion; drop any stragglers
	// so they cannot skew the pooled rates.
	games = filterQualifying(games)

	if len(games) < b.cfg.MinGames {
		return nil, skipSampleSize
	}

	long := lastN(games, b.longestWindow())

	consistency, ok := pointsConsistency(long)
	if !ok || consistency > b.cfg.ConsistencyCeiling {
		return nil, skipConsistency
	}

	minutes := b.blendMinutes(games)

	raw := map[store.Category]float64{}
	for _, cat := range rateCategories {
		rate := b.blendRate(games, cat)
		value := rate * minutes
		if b.cfg.UseMatchupFactors && opponent != "" {
			value *= DefenseFactor(opponent, cat) * PaceFactor(opponent)
		}
		raw[cat] = value
	}

	// The composite regresses its own unregressed component sum, so
	// PRA tuning is independent of the per-category factors.
	rawPRA := raw[store.CategoryPoints] + raw[store.CategoryRebounds] + raw[store.CategoryAssists]

	proj := &store.Projection{
		RunDate:          runDate,
		PlayerName:       games[0].PlayerName,
		NextOpponent:     opponent,
		ProjectedMinutes: minutes,
		Points:           raw[store.CategoryPoints] * b.regression(store.CategoryPoints),
		Rebounds:         raw[store.CategoryRebounds] * b.regression(store.CategoryRebounds),
		Assists:          raw[store.CategoryAssists] * b.regression(store.CategoryAssists),
		ThreesMade:       raw[store.CategoryThrees] * b.regression(store.CategoryThrees),
		Steals:           raw[store.CategorySteals] * b.regression(store.CategorySteals),
		Blocks:           raw[store.CategoryBlocks] * b.regression(store.CategoryBlocks),
		PRA:              rawPRA * b.regression(store.CategoryPRA),
		Consistency:      consistency,
		GamesPlayed:      len(games),
	}

	return proj, skipNone
}

var rateCategories = []store.Category{
	store.CategoryPoints, store.CategoryRebounds, store.CategoryAssists,
	store.CategoryThrees, store.CategorySteals, store.CategoryBlocks,
}

// blendRate computes the weighted blend of pooled per-minute rates
// over the configured trailing windows. Each window rate is
// sum(stat)/sum(minutes) over the window, not a mean of per-game
// ratios, which keeps garbage-time stints from dominating.
func (b *Builder) blendRate(games []*store.GameLog, cat store.Category) float64 {
	var blended float64
	for i, window := range b.cfg.RateWindows {
		blended += b.cfg.RateWeights[i] * pooledRate(lastN(games, window), cat)
	}
	return blended
}

// blendMinutes blends mean minutes over the configured windows.
func (b *Builder) blendMinutes(games []*store.GameLog) float64 {
	var blended float64
	for i, window := range b.cfg.MinutesWindows {
		blended += b.cfg.MinutesWeights[i] * meanMinutes(lastN(games, window))
	}
	return blended
}

func (b *Builder) regression(cat store.Category) float64 {
	if factor, ok := b.cfg.Regression[cat]; ok {
		return factor
	}
	return 1.0
}

func (b *Builder) longestWindow() int {
	longest := 0
	for _, w := range b.cfg.RateWindows {
		if w > longest {
			longest = w
		}
	}
	return longest
}

// pointsConsistency returns the coefficient of variation of points
// over the window. A zero mean has no defined CV; the player is
// treated as maximally inconsistent (ok=false). Zero variance yields
// 0 and always passes.
func pointsConsistency(games []*store.GameLog) (float64, bool) {
	mean := meanPoints(games)
	if mean <= 0 {
		return 0, false
	}
	return stdPoints(games, mean) / mean, true
}

// pooledRate is sum(stat)/sum(minutes) over the window.
func pooledRate(games []*store.GameLog, cat store.Category) float64 {
	var statTotal, minutesTotal float64
	for _, g := range games {
		statTotal += float64(statFor(g, cat))
		minutesTotal += g.Minutes
	}
	if minutesTotal == 0 {
		return 0
	}
	return statTotal / minutesTotal
}

func statFor(g *store.GameLog, cat store.Category) int {
	switch cat {
	case store.CategoryPoints:
		return g.Points
	case store.CategoryRebounds:
		return g.Rebounds
	case store.CategoryAssists:
		return g.Assists
	case store.CategoryThrees:
		return g.ThreesMade
	case store.CategorySteals:
		return g.Steals
	case store.CategoryBlocks:
		return g.Blocks
	}
	return 0
}

func meanMinutes(games []*store.GameLog) float64 {
	if len(games) == 0 {
		return 0
	}
	var total float64
	for _, g := range games {
		total += g.Minutes
	}
	return total / float64(len(games))
}

func meanPoints(games []*store.GameLog) float64 {
	if len(games) == 0 {
		return 0
	}
	var total float64
	for _, g := range games {
		total += float64(g.Points)
	}
	return total / float64(len(games))
}

// stdPoints is the sample standard deviation of points.
func stdPoints(games []*store.GameLog, mean float64) float64 {
	if len(games) < 2 {
		return 0
	}
	var sumSq float64
	for _, g := range games {
		diff := float64(g.Points) - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(games)-1))
}

// lastN returns the trailing n games, or all of them when fewer exist.
func lastN(games []*store.GameLog, n int) []*store.GameLog {
	if len(games) <= n {
		return games
	}
	return games[len(games)-n:]
}

func filterQualifying(games []*store.GameLog) []*store.GameLog {
	qualified := games[:0:0]
	for _, g := range games {
		if g.Minutes > 0 {
			qualified = append(qualified, g)
		}
	}
	return qualified
}

// groupByPlayer splits player-ordered logs into per-player slices.
func groupByPlayer(logs []*store.GameLog) [][]*store.GameLog {
	var groups [][]*store.GameLog
	start := 0
	for i := 1; i <= len(logs); i++ {
		if i == len(logs) || logs[i].PlayerName != logs[start].PlayerName {
			groups = append(groups, logs[start:i])
			start = i
		}
	}
	return groups
}
