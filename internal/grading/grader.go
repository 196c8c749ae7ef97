package grading

import (
	"database/sql"
	"log"
	"time"

	"github.com/fortuna/augur/internal/store"
)

// Grader settles a pick sheet against the night's box scores.
type Grader struct{}

func NewGrader() *Grader {
	return &Grader{}
}

// Grade produces one ledger record per edge. gradedDate is the date
// the picks were made (the sheet's run date), not the grading time.
//
// A pick whose player cannot be matched to any box score is VOID with
// no actual and zero margin. Pushes (actual exactly on the line) lose:
// books refund them, but treating refunds as losses keeps the win
// rate honest.
func (g *Grader) Grade(gradedDate time.Time, edges []*store.Edge, boxScores []*store.GameLog) []*store.ResultRecord {
	byPlayer := make(map[string]*store.GameLog, len(boxScores))
	names := make([]string, 0, len(boxScores))
	for _, line := range boxScores {
		byPlayer[line.PlayerName] = line
		names = append(names, line.PlayerName)
	}
	resolver := NewResolver(names)

	records := make([]*store.ResultRecord, 0, len(edges))
	var voids int

	for _, e := range edges {
		record := &store.ResultRecord{
			GradedDate: gradedDate,
			PlayerName: e.PlayerName,
			Category:   e.Category,
			Side:       e.Side,
			Line:       e.Line,
			Projection: e.Projection,
			Edge:       e.Edge,
			Price:      e.Price,
		}

		matched, ok := resolver.Resolve(e.PlayerName)
		if !ok {
			record.Result = store.ResultVoid
			voids++
			records = append(records, record)
			continue
		}

		actual := actualFor(byPlayer[matched], e.Category)
		record.Actual = sql.NullFloat64{Float64: actual, Valid: true}
		record.Result, record.Margin = settle(e.Side, e.Line, actual)
		records = append(records, record)
	}

	log.Printf("[grader] ✓ Graded %d picks (%d void)", len(records), voids)
	return records
}

// settle decides a single pick. Margin is positive for wins and
// negative for losses regardless of side.
func settle(side store.Side, line, actual float64) (store.Result, float64) {
	margin := actual - line
	if side == store.SideUnder {
		margin = line - actual
	}
	if margin > 0 {
		return store.ResultWin, margin
	}
	return store.ResultLoss, margin
}

func actualFor(box *store.GameLog, cat store.Category) float64 {
	switch cat {
	case store.CategoryPoints:
		return float64(box.Points)
	case store.CategoryRebounds:
		return float64(box.Rebounds)
	case store.CategoryAssists:
		return float64(box.Assists)
	case store.CategoryThrees:
		return float64(box.ThreesMade)
	case store.CategoryPRA:
		return float64(box.Points + box.Rebounds + box.Assists)
	case store.CategorySteals:
		return float64(box.Steals)
	case store.CategoryBlocks:
		return float64(box.Blocks)
	}
	return 0
}

// Highlights picks the best hit and worst miss from a graded batch
// by margin. Void records never qualify.
func Highlights(records []*store.ResultRecord) (best, worst *store.ResultRecord) {
	for _, r := range records {
		if r.Result == store.ResultVoid {
			continue
		}
		if r.Result == store.ResultWin && (best == nil || r.Margin > best.Margin) {
			best = r
		}
		if r.Result == store.ResultLoss && (worst == nil || r.Margin < worst.Margin) {
			worst = r
		}
	}
	return best, worst
}
