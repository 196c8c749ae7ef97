package edge

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/augur/internal/config"
	"github.com/fortuna/augur/internal/odds"
	"github.com/fortuna/augur/internal/store"
)

var runDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func balancedEdges(t *testing.T) config.EdgeConfig {
	t.Helper()
	_, edges, err := config.Preset("balanced")
	require.NoError(t, err)
	return edges
}

func pointsProjection(player string, points float64) *store.Projection {
	return &store.Projection{RunDate: runDate, PlayerName: player, Points: points}
}

func overLine(player string, line float64) odds.PropLine {
	return odds.PropLine{
		PlayerName: player,
		Category:   store.CategoryPoints,
		Side:       store.SideOver,
		Line:       line,
		Price:      -110,
	}
}

func TestDetectBandBoundariesAreInclusive(t *testing.T) {
	cfg := balancedEdges(t)
	d := NewDetector(cfg)

	projections := []*store.Projection{pointsProjection("Boundary Low", 22.5)}
	lines := []odds.PropLine{overLine("Boundary Low", 22.5 - cfg.MinEdge)}
	sheet := d.Detect(runDate, projections, lines, nil)
	require.Len(t, sheet, 1, "edge exactly at the minimum must be kept")

	lines = []odds.PropLine{overLine("Boundary Low", 22.5 - cfg.MaxEdge)}
	sheet = d.Detect(runDate, projections, lines, nil)
	require.Len(t, sheet, 1, "edge exactly at the maximum must be kept")

	lines = []odds.PropLine{overLine("Boundary Low", 22.5 - cfg.MaxEdge - 0.5)}
	sheet = d.Detect(runDate, projections, lines, nil)
	assert.Empty(t, sheet, "edge past the maximum is a data-error signal")

	lines = []odds.PropLine{overLine("Boundary Low", 22.5 - cfg.MinEdge + 0.5)}
	sheet = d.Detect(runDate, projections, lines, nil)
	assert.Empty(t, sheet, "edge under the minimum is noise")
}

func TestDetectOversOnlyDropsNegativeEdges(t *testing.T) {
	cfg := balancedEdges(t)
	cfg.OversOnly = true
	d := NewDetector(cfg)

	projections := []*store.Projection{pointsProjection("Fading Star", 20.0)}
	lines := []odds.PropLine{
		overLine("Fading Star", 23.5),
		{PlayerName: "Fading Star", Category: store.CategoryPoints, Side: store.SideUnder, Line: 23.5, Price: -110},
	}

	sheet := d.Detect(runDate, projections, lines, nil)
	assert.Empty(t, sheet)
}

func TestDetectUnderWhenBothDirectionsAllowed(t *testing.T) {
	cfg := balancedEdges(t)
	cfg.OversOnly = false
	d := NewDetector(cfg)

	projections := []*store.Projection{pointsProjection("Fading Star", 20.0)}
	lines := []odds.PropLine{
		{PlayerName: "Fading Star", Category: store.CategoryPoints, Side: store.SideUnder, Line: 23.5, Price: -105},
	}

	sheet := d.Detect(runDate, projections, lines, nil)
	require.Len(t, sheet, 1)
	assert.Equal(t, store.SideUnder, sheet[0].Side)
	assert.InDelta(t, -3.5, sheet[0].Edge, 1e-9)
}

func TestDetectDeduplicatesRepeatedLines(t *testing.T) {
	d := NewDetector(balancedEdges(t))

	projections := []*store.Projection{pointsProjection("Double Listed", 28.0)}
	lines := []odds.PropLine{
		overLine("Double Listed", 24.5),
		overLine("Double Listed", 24.5),
	}

	sheet := d.Detect(runDate, projections, lines, nil)
	assert.Len(t, sheet, 1)
}

func TestDetectSortsByAbsoluteEdgeDescending(t *testing.T) {
	cfg := balancedEdges(t)
	cfg.OversOnly = false
	d := NewDetector(cfg)

	projections := []*store.Projection{
		pointsProjection("Small Edge", 25.0),
		pointsProjection("Big Edge", 30.0),
		pointsProjection("Under Edge", 20.0),
	}
	lines := []odds.PropLine{
		overLine("Small Edge", 22.5),
		overLine("Big Edge", 24.5),
		{PlayerName: "Under Edge", Category: store.CategoryPoints, Side: store.SideUnder, Line: 24.5, Price: -110},
	}

	sheet := d.Detect(runDate, projections, lines, nil)
	require.Len(t, sheet, 3)
	assert.Equal(t, "Big Edge", sheet[0].PlayerName)
	assert.Equal(t, "Under Edge", sheet[1].PlayerName)
	assert.Equal(t, "Small Edge", sheet[2].PlayerName)
	for i := 1; i < len(sheet); i++ {
		assert.GreaterOrEqual(t, math.Abs(sheet[i-1].Edge), math.Abs(sheet[i].Edge))
	}
}

func TestDetectSkipsUnprojectedPlayersAndExcludedCategories(t *testing.T) {
	cfg := balancedEdges(t)
	cfg.ExcludeCategories = []store.Category{store.CategoryPRA}
	d := NewDetector(cfg)

	projections := []*store.Projection{
		{RunDate: runDate, PlayerName: "Projected", Points: 28.0, PRA: 45.0},
	}
	lines := []odds.PropLine{
		overLine("Nobody Knows Him", 12.5),
		{PlayerName: "Projected", Category: store.CategoryPRA, Side: store.SideOver, Line: 41.5, Price: -110},
		overLine("Projected", 24.5),
	}

	sheet := d.Detect(runDate, projections, lines, nil)
	require.Len(t, sheet, 1)
	assert.Equal(t, store.CategoryPoints, sheet[0].Category)
}

func TestDetectCategoryMinEdgeOverride(t *testing.T) {
	cfg := balancedEdges(t)
	cfg.CategoryMinEdge = map[store.Category]float64{store.CategoryThrees: 1.0}
	d := NewDetector(cfg)

	projections := []*store.Projection{
		{RunDate: runDate, PlayerName: "Sniper", ThreesMade: 3.8},
	}
	lines := []odds.PropLine{
		{PlayerName: "Sniper", Category: store.CategoryThrees, Side: store.SideOver, Line: 2.5, Price: -118},
	}

	sheet := d.Detect(runDate, projections, lines, nil)
	require.Len(t, sheet, 1)
	assert.InDelta(t, 1.3, sheet[0].Edge, 1e-9)
}

func TestDetectExcludesInjuredPlayers(t *testing.T) {
	cfg := balancedEdges(t)
	cfg.ExcludeInjured = true
	d := NewDetector(cfg)

	projections := []*store.Projection{pointsProjection("Hurt Guy", 28.0)}
	lines := []odds.PropLine{overLine("Hurt Guy", 24.5)}

	sheet := d.Detect(runDate, projections, lines, map[string]bool{"Hurt Guy": true})
	assert.Empty(t, sheet)

	cfg.ExcludeInjured = false
	sheet = NewDetector(cfg).Detect(runDate, projections, lines, map[string]bool{"Hurt Guy": true})
	assert.Len(t, sheet, 1)
}

func TestDistribute(t *testing.T) {
	sheet := []*store.Edge{
		{Edge: 2.1}, {Edge: -2.9}, {Edge: 3.5}, {Edge: 4.0}, {Edge: -5.5},
	}
	dist := NewDetector(balancedEdges(t)).Distribute(sheet)
	assert.Equal(t, Distribution{Min: 2, Lower: 3, Upper: 4, Small: 2, Medium: 1, Large: 2}, dist)
}

func TestDistributeBoundsFollowMinEdge(t *testing.T) {
	_, cfg, err := config.Preset("aggressive")
	require.NoError(t, err)

	sheet := []*store.Edge{
		{Edge: 1.6}, {Edge: 2.4}, {Edge: -2.6}, {Edge: 3.5}, {Edge: 7.9},
	}
	dist := NewDetector(cfg).Distribute(sheet)

	assert.Equal(t, 1.5, dist.Min)
	assert.Equal(t, 2.5, dist.Lower)
	assert.Equal(t, 3.5, dist.Upper)
	assert.Equal(t, 2, dist.Small)
	assert.Equal(t, 1, dist.Medium)
	assert.Equal(t, 2, dist.Large)
}
