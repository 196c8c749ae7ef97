package edge

import (
	"log"
	"math"
	"sort"
	"time"

	"github.com/fortuna/augur/internal/config"
	"github.com/fortuna/augur/internal/odds"
	"github.com/fortuna/augur/internal/store"
)

// Detector compares projections against market lines and flags the
// gaps worth betting.
type Detector struct {
	cfg config.EdgeConfig
}

func NewDetector(cfg config.EdgeConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Detect builds the pick sheet for a run date. projections is the
// run's projection set keyed by exact player name; lines are the
// bookmaker's prop offerings; injured is the set of players listed
// Out (ignored unless ExcludeInjured is set).
//
// The sheet is deduplicated on (player, category, line) and sorted by
// absolute edge descending, ties broken by player name for a stable
// order.
func (d *Detector) Detect(runDate time.Time, projections []*store.Projection, lines []odds.PropLine, injured map[string]bool) []*store.Edge {
	byPlayer := make(map[string]*store.Projection, len(projections))
	for _, p := range projections {
		byPlayer[p.PlayerName] = p
	}

	type dedupeKey struct {
		player   string
		category store.Category
		line     float64
	}
	seen := map[dedupeKey]bool{}

	var sheet []*store.Edge
	var skippedInjured int

	for _, line := range lines {
		if d.cfg.Excluded(line.Category) {
			continue
		}

		proj, ok := byPlayer[line.PlayerName]
		if !ok {
			continue
		}
		if d.cfg.ExcludeInjured && injured[line.PlayerName] {
			skippedInjured++
			continue
		}

		projected, ok := proj.ValueFor(line.Category)
		if !ok {
			continue
		}

		gap := projected - line.Line
		side := store.SideOver
		if gap < 0 {
			if d.cfg.OversOnly {
				continue
			}
			side = store.SideUnder
		}
		if line.Side != side {
			continue
		}

		if math.Abs(gap) < d.cfg.MinEdgeFor(line.Category) || math.Abs(gap) > d.cfg.MaxEdge {
			continue
		}

		key := dedupeKey{line.PlayerName, line.Category, line.Line}
		if seen[key] {
			continue
		}
		seen[key] = true

		sheet = append(sheet, &store.Edge{
			RunDate:    runDate,
			PlayerName: line.PlayerName,
			Category:   line.Category,
			Line:       line.Line,
			Projection: projected,
			Edge:       gap,
			Side:       side,
			Price:      line.Price,
		})
	}

	sort.SliceStable(sheet, func(i, j int) bool {
		ai, aj := math.Abs(sheet[i].Edge), math.Abs(sheet[j].Edge)
		if ai != aj {
			return ai > aj
		}
		return sheet[i].PlayerName < sheet[j].PlayerName
	})

	if skippedInjured > 0 {
		log.Printf("[edge-detector] ⊘ Skipped %d lines for injured players", skippedInjured)
	}
	log.Printf("[edge-detector] ✓ Flagged %d edges from %d lines", len(sheet), len(lines))

	return sheet
}

// Distribution buckets the sheet's absolute edges for reporting.
// Bounds track the configured minimum edge so the buckets describe
// the active band: [Min, Lower), [Lower, Upper), [Upper, ...).
type Distribution struct {
	Min   float64 `json:"min"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`

	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

// Distribute summarizes the sheet's edge sizes.
func (d *Detector) Distribute(sheet []*store.Edge) Distribution {
	dist := Distribution{
		Min:   d.cfg.MinEdge,
		Lower: d.cfg.MinEdge + 1,
		Upper: d.cfg.MinEdge + 2,
	}
	for _, e := range sheet {
		abs := math.Abs(e.Edge)
		switch {
		case abs < dist.Lower:
			dist.Small++
		case abs < dist.Upper:
			dist.Medium++
		default:
			dist.Large++
		}
	}
	return dist
}
