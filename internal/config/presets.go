package config

import (
	"fmt"

	"github.com/fortuna/augur/internal/store"
)

// Preset returns named model/edge tunings. What used to be separate
// near-identical script variants are now just presets over one
// pipeline.
func Preset(name string) (ModelConfig, EdgeConfig, error) {
	switch name {
	case "balanced":
		return balancedModel(), EdgeConfig{
			MinEdge:        2.0,
			MaxEdge:        6.0,
			OversOnly:      true,
			ExcludeInjured: true,
		}, nil

	case "conservative":
		model := balancedModel()
		model.MinGames = 10
		model.ConsistencyCeiling = 0.45
		return model, EdgeConfig{
			MinEdge:   3.5,
			MaxEdge:   6.0,
			OversOnly: true,
			// PRA was the worst performer historically; the
			// conservative tuning stops betting it entirely.
			ExcludeCategories: []store.Category{store.CategoryPRA},
			ExcludeInjured:    true,
		}, nil

	case "aggressive":
		model := balancedModel()
		model.MinGames = 5
		model.ConsistencyCeiling = 0.65
		return model, EdgeConfig{
			MinEdge:   1.5,
			MaxEdge:   8.0,
			OversOnly: false,
			CategoryMinEdge: map[store.Category]float64{
				store.CategoryThrees: 1.0,
				store.CategorySteals: 0.8,
				store.CategoryBlocks: 0.8,
			},
			ExcludeInjured: true,
		}, nil
	}

	return ModelConfig{}, EdgeConfig{}, fmt.Errorf("unknown preset %q (want balanced, conservative, or aggressive)", name)
}

func balancedModel() ModelConfig {
	return ModelConfig{
		MinGames: 7,

		RateWindows: []int{3, 5, 10},
		// Heavier weight on the shortest window to capture recent form.
		RateWeights: []float64{0.50, 0.30, 0.20},

		// Minutes are steadier than rates; blend only the longer windows.
		MinutesWindows: []int{5, 10},
		MinutesWeights: []float64{0.70, 0.30},

		Regression: map[store.Category]float64{
			store.CategoryPoints:   0.92,
			store.CategoryRebounds: 0.94,
			store.CategoryAssists:  0.93,
			store.CategoryThrees:   0.90,
			store.CategoryPRA:      0.89,
			store.CategorySteals:   0.91,
			store.CategoryBlocks:   0.91,
		},

		ConsistencyCeiling: 0.55,
		UseMatchupFactors:  true,
	}
}
