package projection

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/augur/internal/config"
	"github.com/fortuna/augur/internal/store"
)

func balancedModel(t *testing.T) config.ModelConfig {
	t.Helper()
	model, _, err := config.Preset("balanced")
	require.NoError(t, err)
	return model
}

// steadyLogs produces n identical qualifying games for a player.
func steadyLogs(player string, n int, points int, minutes float64) []*store.GameLog {
	logs := make([]*store.GameLog, 0, n)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		logs = append(logs, &store.GameLog{
			PlayerName: player,
			GameDate:   base.AddDate(0, 0, i*2),
			Opponent:   "BOS",
			Minutes:    minutes,
			Points:     points,
			Rebounds:   5,
			Assists:    4,
			ThreesMade: 2,
			Steals:     1,
			Blocks:     1,
		})
	}
	return logs
}

func TestBuildRejectsThinSamples(t *testing.T) {
	model := balancedModel(t)
	b := NewBuilder(model)

	logs := steadyLogs("Thin Sample", model.MinGames-1, 20, 32)
	projections, skipped := b.Build(time.Now(), logs, nil)

	assert.Empty(t, projections)
	assert.Equal(t, 1, skipped.SampleSize)
	assert.Zero(t, skipped.Consistency)
}

func TestBuildAcceptsExactlyMinGames(t *testing.T) {
	model := balancedModel(t)
	b := NewBuilder(model)

	logs := steadyLogs("Exact Min", model.MinGames, 20, 32)
	projections, skipped := b.Build(time.Now(), logs, nil)

	require.Len(t, projections, 1)
	assert.Zero(t, skipped.SampleSize)
	assert.Equal(t, model.MinGames, projections[0].GamesPlayed)
}

func TestBuildZeroVariancePassesConsistency(t *testing.T) {
	model := balancedModel(t)
	b := NewBuilder(model)

	// Identical scoring every night: CV is exactly 0.
	logs := steadyLogs("Metronome", 12, 25, 34)
	projections, skipped := b.Build(time.Now(), logs, nil)

	require.Len(t, projections, 1)
	assert.Zero(t, skipped.Consistency)
	assert.Equal(t, 0.0, projections[0].Consistency)
}

func TestBuildRejectsVolatileScorers(t *testing.T) {
	model := balancedModel(t)
	b := NewBuilder(model)

	// Alternating 2 and 40 point games blows past any sane CV ceiling.
	logs := steadyLogs("Boom Bust", 12, 0, 30)
	for i, g := range logs {
		if i%2 == 0 {
			g.Points = 2
		} else {
			g.Points = 40
		}
	}
	projections, skipped := b.Build(time.Now(), logs, nil)

	assert.Empty(t, projections)
	assert.Equal(t, 1, skipped.Consistency)
}

func TestBuildRejectsScorelessWindow(t *testing.T) {
	model := balancedModel(t)
	b := NewBuilder(model)

	// Mean points of zero has no defined CV; the player is skipped
	// rather than divided by zero.
	logs := steadyLogs("Scoreless", 12, 0, 20)
	projections, skipped := b.Build(time.Now(), logs, nil)

	assert.Empty(t, projections)
	assert.Equal(t, 1, skipped.Consistency)
}

func TestBuildSteadyPlayerProjectsNearAverage(t *testing.T) {
	model := balancedModel(t)
	b := NewBuilder(model)

	logs := steadyLogs("Steady Vet", 12, 24, 32)
	projections, _ := b.Build(time.Now(), logs, nil)
	require.Len(t, projections, 1)

	proj := projections[0]
	// Uniform games make every window rate identical, so the
	// projection is the season line shrunk by the regression factor.
	assert.InDelta(t, 24*model.Regression[store.CategoryPoints], proj.Points, 0.01)
	assert.InDelta(t, 32.0, proj.ProjectedMinutes, 0.01)
	assert.InDelta(t, (24+5+4)*model.Regression[store.CategoryPRA], proj.PRA, 0.01)
}

func TestBuildRecentFormOutweighsOldForm(t *testing.T) {
	model := balancedModel(t)
	b := NewBuilder(model)

	// Same season totals, opposite trajectories: the heating-up
	// player must project higher because short windows carry the
	// most weight.
	heating := steadyLogs("Heating Up", 10, 0, 30)
	cooling := steadyLogs("Cooling Off", 10, 0, 30)
	for i := range heating {
		if i < 5 {
			heating[i].Points = 10
			cooling[i].Points = 30
		} else {
			heating[i].Points = 30
			cooling[i].Points = 10
		}
	}

	hot, _ := b.Build(time.Now(), heating, nil)
	cold, _ := b.Build(time.Now(), cooling, nil)
	require.Len(t, hot, 1)
	require.Len(t, cold, 1)
	assert.Greater(t, hot[0].Points, cold[0].Points)
}

func TestBuildPooledRateIgnoresShortStintNoise(t *testing.T) {
	model := balancedModel(t)
	b := NewBuilder(model)

	// One 2-minute, 4-point stint. A mean-of-ratios model would see a
	// 2.0 pts/min game and inflate the projection; pooling keeps it
	// proportional to total production.
	logs := steadyLogs("Pooled", 10, 20, 30)
	logs[len(logs)-1].Minutes = 2
	logs[len(logs)-1].Points = 4

	projections, _ := b.Build(time.Now(), logs, nil)
	require.Len(t, projections, 1)
	// 9 games of 20/30 plus 4-in-2 pools to exactly 2/3 pts per
	// minute over every window.
	assert.Less(t, projections[0].Points, 24.0)
}

func TestBuildUnknownOpponentIsNeutral(t *testing.T) {
	model := balancedModel(t)
	model.UseMatchupFactors = true
	b := NewBuilder(model)

	logs := steadyLogs("Road Trip", 12, 22, 33)
	withUnknown, _ := b.Build(time.Now(), logs, map[string]string{"Road Trip": "XXX"})
	withNone, _ := b.Build(time.Now(), logs, nil)
	require.Len(t, withUnknown, 1)
	require.Len(t, withNone, 1)

	assert.InDelta(t, withNone[0].Points, withUnknown[0].Points, 1e-9)
	assert.Equal(t, "XXX", withUnknown[0].NextOpponent)
}

func TestBuildDropsZeroMinuteRows(t *testing.T) {
	model := balancedModel(t)
	b := NewBuilder(model)

	logs := steadyLogs("DNP Prone", model.MinGames, 20, 30)
	logs = append(logs, &store.GameLog{
		PlayerName: "DNP Prone",
		GameDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Minutes:    0,
	})

	projections, _ := b.Build(time.Now(), logs, nil)
	require.Len(t, projections, 1)
	assert.Equal(t, model.MinGames, projections[0].GamesPlayed)
}

func TestBuildGroupsMultiplePlayers(t *testing.T) {
	model := balancedModel(t)
	b := NewBuilder(model)

	logs := steadyLogs("Alpha", 12, 18, 30)
	logs = append(logs, steadyLogs("Bravo", 12, 26, 36)...)
	logs = append(logs, steadyLogs("Charlie", 3, 10, 20)...)

	projections, skipped := b.Build(time.Now(), logs, nil)
	require.Len(t, projections, 2)
	assert.Equal(t, 1, skipped.SampleSize)

	names := []string{projections[0].PlayerName, projections[1].PlayerName}
	assert.ElementsMatch(t, []string{"Alpha", "Bravo"}, names)
}

func TestDefenseFactorDefaultsToNeutral(t *testing.T) {
	assert.Equal(t, 1.0, DefenseFactor("NOPE", store.CategoryPoints))
	assert.Equal(t, 1.0, PaceFactor("NOPE"))
}

func TestRegressionFactorsShrink(t *testing.T) {
	model := balancedModel(t)
	for cat, factor := range model.Regression {
		assert.Truef(t, factor > 0 && factor <= 1.0, "%s factor %.2f out of range", cat, factor)
	}
}

func ExampleBuilder_Build() {
	model, _, _ := config.Preset("balanced")
	b := NewBuilder(model)
	projections, _ := b.Build(time.Now(), steadyLogs("Steady Vet", 12, 24, 32), nil)
	fmt.Println(len(projections))
	// Output: 1
}
