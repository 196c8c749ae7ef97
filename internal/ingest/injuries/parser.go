package injuries

import (
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Report holds the scraped injury designations keyed by player name.
type Report struct {
	Statuses map[string]string
}

// Out returns the set of players ruled out. Day-to-day and questionable
// players stay eligible; only a hard Out designation excludes a pick.
func (r *Report) Out() map[string]bool {
	out := map[string]bool{}
	for player, status := range r.Statuses {
		if strings.EqualFold(status, "Out") {
			out[player] = true
		}
	}
	return out
}

// ParseReport extracts player injury statuses from the rendered page.
// The report is a sequence of per-team tables whose rows are
// [name, position, date, status, comment].
func ParseReport(html string) (*Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	report := &Report{Statuses: map[string]string{}}

	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		name := strings.TrimSpace(cells.Eq(0).Text())
		status := strings.TrimSpace(cells.Eq(3).Text())
		if name == "" || status == "" {
			return
		}

		report.Statuses[name] = status
	})

	if len(report.Statuses) == 0 {
		return nil, fmt.Errorf("no injury rows found (page layout may have changed)")
	}

	log.Printf("[injuries-parser] ✓ Parsed %d injury designations (%d out)",
		len(report.Statuses), len(report.Out()))

	return report, nil
}
