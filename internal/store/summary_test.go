package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeExcludesVoidsFromWinRate(t *testing.T) {
	summary := Summarize(3, 2, 5)

	assert.Equal(t, 10, summary.TotalGraded)
	assert.Equal(t, 3, summary.Wins)
	assert.Equal(t, 2, summary.Losses)
	assert.Equal(t, 5, summary.Voids)
	assert.InDelta(t, 0.60, summary.WinRate, 1e-12, "voids must not dilute the rate")
}

func TestSummarizeAllVoids(t *testing.T) {
	summary := Summarize(0, 0, 4)

	assert.Equal(t, 4, summary.TotalGraded)
	assert.Zero(t, summary.WinRate)
}

func TestSummarizeEmptyLedger(t *testing.T) {
	summary := Summarize(0, 0, 0)

	assert.Zero(t, summary.TotalGraded)
	assert.Zero(t, summary.WinRate)
}

func TestDecidedWinRate(t *testing.T) {
	assert.InDelta(t, 0.75, DecidedWinRate(3, 1), 1e-12)
	assert.Zero(t, DecidedWinRate(0, 0))
	assert.Zero(t, DecidedWinRate(0, 5))
	assert.Equal(t, 1.0, DecidedWinRate(5, 0))
}
