package projection

import "github.com/fortuna/augur/internal/store"

// Defensive strength multipliers keyed by opponent abbreviation.
// 1.0 = league average, <1.0 = tough defense, >1.0 = weak defense.
// Teams not listed are average and resolve to neutral.
var defenseFactors = map[store.Category]map[string]float64{
	store.CategoryPoints: {
		// Elite defenses
		"MIN": 0.92, "BOS": 0.93, "MIL": 0.94, "ORL": 0.94, "MIA": 0.95,
		// Good defenses
		"NYK": 0.96, "CLE": 0.96, "PHI": 0.97, "OKC": 0.97, "LAC": 0.97,
		"DEN": 0.98, "GSW": 0.98,
		// Weak defenses
		"NOP": 1.03, "ATL": 1.04, "DET": 1.04, "UTA": 1.05, "BKN": 1.05,
		"SAS": 1.06, "POR": 1.06, "SAC": 1.07, "CHO": 1.07, "WAS": 1.08,
	},
	store.CategoryRebounds: {
		"CLE": 0.93, "OKC": 0.94, "MEM": 0.95, "NOP": 0.95, "MIN": 0.96,
		"LAL": 0.96, "SAC": 0.97, "PHI": 0.97,
		"HOU": 1.04, "POR": 1.04, "GSW": 1.05, "CHO": 1.05, "TOR": 1.06,
	},
	store.CategoryAssists: {
		"BOS": 0.94, "MIA": 0.95, "CLE": 0.95, "OKC": 0.96, "NYK": 0.96,
		"SAC": 1.05, "IND": 1.05, "WAS": 1.06, "POR": 1.06, "ATL": 1.07,
	},
	store.CategoryThrees: {
		"BOS": 0.93, "MIA": 0.94, "CLE": 0.95, "MIL": 0.95, "ORL": 0.96,
		"SAC": 1.06, "GSW": 1.05, "IND": 1.05, "WAS": 1.06, "POR": 1.07,
	},
}

// Pace multipliers keyed by opponent abbreviation. Faster opponents
// mean more possessions and more counting-stat opportunities.
var paceFactors = map[string]float64{
	"SAC": 1.04, "IND": 1.04, "ATL": 1.03, "BOS": 1.03, "MIN": 1.02,
	"PHX": 1.02, "GSW": 1.02, "LAL": 1.02,
	"CHO": 0.97, "SAS": 0.97, "UTA": 0.97, "DET": 0.98, "WAS": 0.98,
	"TOR": 0.98, "BKN": 0.98,
}

// DefenseFactor returns the opponent's defensive multiplier for a
// category. Unknown opponents and uncovered categories are neutral.
func DefenseFactor(opponent string, cat store.Category) float64 {
	byTeam, ok := defenseFactors[cat]
	if !ok {
		return 1.0
	}
	if factor, ok := byTeam[opponent]; ok {
		return factor
	}
	return 1.0
}

// PaceFactor returns the opponent's pace multiplier, neutral when the
// opponent is unrecognized.
func PaceFactor(opponent string) float64 {
	if factor, ok := paceFactors[opponent]; ok {
		return factor
	}
	return 1.0
}
