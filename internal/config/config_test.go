package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/augur/internal/store"
)

func TestPresetsValidate(t *testing.T) {
	for _, name := range []string{"balanced", "conservative", "aggressive"} {
		model, edges, err := Preset(name)
		require.NoError(t, err, name)
		assert.NoError(t, model.Validate(), name)

		cfg := Config{Model: model, Edges: edges}
		assert.NoError(t, cfg.Validate(), name)
	}
}

func TestPresetUnknown(t *testing.T) {
	_, _, err := Preset("yolo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yolo")
}

func TestPresetDifferences(t *testing.T) {
	balanced, balancedEdges, err := Preset("balanced")
	require.NoError(t, err)
	conservative, conservativeEdges, err := Preset("conservative")
	require.NoError(t, err)
	aggressive, aggressiveEdges, err := Preset("aggressive")
	require.NoError(t, err)

	assert.Greater(t, conservative.MinGames, balanced.MinGames)
	assert.Less(t, aggressive.MinGames, balanced.MinGames)
	assert.Less(t, conservative.ConsistencyCeiling, balanced.ConsistencyCeiling)

	assert.Greater(t, conservativeEdges.MinEdge, balancedEdges.MinEdge)
	assert.True(t, conservativeEdges.Excluded(store.CategoryPRA))
	assert.False(t, balancedEdges.Excluded(store.CategoryPRA))
	assert.False(t, aggressiveEdges.OversOnly)
}

func TestModelValidateCatchesBadWeights(t *testing.T) {
	model, _, err := Preset("balanced")
	require.NoError(t, err)

	model.RateWeights = []float64{0.5, 0.3, 0.3}
	err = model.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1.0")

	model.RateWeights = []float64{0.5, 0.5}
	err = model.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "align")
}

func TestModelValidateCatchesBadRegression(t *testing.T) {
	model, _, err := Preset("balanced")
	require.NoError(t, err)

	model.Regression[store.CategoryPoints] = 1.2
	assert.Error(t, model.Validate())

	model.Regression[store.CategoryPoints] = 0
	assert.Error(t, model.Validate())
}

func TestConfigValidateEdgeBand(t *testing.T) {
	model, edges, err := Preset("balanced")
	require.NoError(t, err)

	cfg := Config{Model: model, Edges: edges}
	cfg.Edges.MaxEdge = cfg.Edges.MinEdge - 1
	require.Error(t, cfg.Validate())

	cfg.Edges.MinEdge = -1
	cfg.Edges.MaxEdge = 5
	require.Error(t, cfg.Validate())
}

func TestConfigValidateHours(t *testing.T) {
	model, edges, err := Preset("balanced")
	require.NoError(t, err)

	cfg := Config{Model: model, Edges: edges, EdgeRunHour: 24}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EDGE_RUN_HOUR")
}

func TestMinEdgeForFallsBack(t *testing.T) {
	edges := EdgeConfig{
		MinEdge:         2.0,
		CategoryMinEdge: map[store.Category]float64{store.CategoryThrees: 1.0},
	}

	assert.Equal(t, 1.0, edges.MinEdgeFor(store.CategoryThrees))
	assert.Equal(t, 2.0, edges.MinEdgeFor(store.CategoryPoints))
}

func TestLoadUsesPresetFromEnv(t *testing.T) {
	t.Setenv("AUGUR_PRESET", "conservative")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Model.MinGames)
	assert.True(t, cfg.Edges.Excluded(store.CategoryPRA))
}

func TestLoadRejectsUnknownPreset(t *testing.T) {
	t.Setenv("AUGUR_PRESET", "nonsense")

	_, err := Load()
	assert.Error(t, err)
}

func TestTodayAndYesterday(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 42, 7, 0, time.UTC)

	today := Today(now)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), today)

	yesterday := Yesterday(now)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), yesterday)

	// Month boundary
	assert.Equal(t,
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		Yesterday(time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)))
}
