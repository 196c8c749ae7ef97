package notify

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/augur/internal/edge"
	"github.com/fortuna/augur/internal/store"
)

// EdgeSheetMessage formats a run's pick sheet for the chat. The
// distribution's bounds drive the bucket labels so they stay truthful
// under any edge band.
func EdgeSheetMessage(runDate time.Time, sheet []*store.Edge, dist edge.Distribution, quotaRemaining int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>🎯 Edge Sheet %s</b>\n\n", runDate.Format("Mon Jan 2"))

	if len(sheet) == 0 {
		b.WriteString("No edges cleared the thresholds today.\n")
		return b.String()
	}

	for i, e := range sheet {
		if i >= 15 {
			fmt.Fprintf(&b, "\n…and %d more on the attached sheet.\n", len(sheet)-i)
			break
		}
		fmt.Fprintf(&b, "%s <b>%s</b> %s %s %.1f (proj %.1f, edge %+.1f)\n",
			sideEmoji(e.Side), e.PlayerName, e.Category, strings.ToLower(string(e.Side)), e.Line, e.Projection, e.Edge)
	}

	fmt.Fprintf(&b, "\nEdges: %d total | %s-%s: %d | %s-%s: %d | %s+: %d\n",
		len(sheet),
		fnum(dist.Min), fnum(dist.Lower), dist.Small,
		fnum(dist.Lower), fnum(dist.Upper), dist.Medium,
		fnum(dist.Upper), dist.Large)

	if quotaRemaining >= 0 {
		fmt.Fprintf(&b, "Odds API quota remaining: %d\n", quotaRemaining)
	}

	return b.String()
}

// GradingMessage formats a graded batch with the ledger summary.
func GradingMessage(gradedDate time.Time, records []*store.ResultRecord, summary *store.LedgerSummary, best, worst *store.ResultRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>📊 Results %s</b>\n\n", gradedDate.Format("Mon Jan 2"))

	if len(records) == 0 {
		b.WriteString("Nothing to grade.\n")
		return b.String()
	}

	var wins, losses, voids int
	for _, r := range records {
		switch r.Result {
		case store.ResultWin:
			wins++
		case store.ResultLoss:
			losses++
		case store.ResultVoid:
			voids++
		}
	}

	fmt.Fprintf(&b, "Tonight: %d-%d", wins, losses)
	if voids > 0 {
		fmt.Fprintf(&b, " (%d void)", voids)
	}
	b.WriteString("\n")

	if best != nil {
		fmt.Fprintf(&b, "Best hit: %s %s %s %.1f, actual %.0f (+%.1f)\n",
			best.PlayerName, best.Category, strings.ToLower(string(best.Side)), best.Line, best.Actual.Float64, best.Margin)
	}
	if worst != nil {
		fmt.Fprintf(&b, "Worst miss: %s %s %s %.1f, actual %.0f (%.1f)\n",
			worst.PlayerName, worst.Category, strings.ToLower(string(worst.Side)), worst.Line, worst.Actual.Float64, worst.Margin)
	}

	if summary != nil {
		fmt.Fprintf(&b, "\n<b>All time:</b> %d-%d (%.1f%%), %d void\n",
			summary.Wins, summary.Losses, summary.WinRate*100, summary.Voids)
		for _, cat := range summary.ByCategory {
			if cat.Wins+cat.Losses == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s: %d-%d (%.1f%%)\n", cat.Category, cat.Wins, cat.Losses, cat.WinRate*100)
		}
	}

	return b.String()
}

// PipelineFailureMessage reports a fatal run failure.
func PipelineFailureMessage(stage string, err error) string {
	return fmt.Sprintf("<b>⚠️ Pipeline failure</b>\n\nStage: %s\nError: %s", stage, err)
}

// EdgeSheetCSV renders the sheet as a CSV attachment.
func EdgeSheetCSV(sheet []*store.Edge) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"player", "category", "side", "line", "projection", "edge", "price"}); err != nil {
		return nil, err
	}

	for _, e := range sheet {
		record := []string{
			e.PlayerName,
			string(e.Category),
			string(e.Side),
			strconv.FormatFloat(e.Line, 'f', 1, 64),
			strconv.FormatFloat(e.Projection, 'f', 2, 64),
			strconv.FormatFloat(e.Edge, 'f', 2, 64),
			strconv.Itoa(e.Price),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// fnum renders a bucket bound without trailing zeros (2, 2.5).
func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sideEmoji(side store.Side) string {
	if side == store.SideUnder {
		return "🔻"
	}
	return "🔺"
}
