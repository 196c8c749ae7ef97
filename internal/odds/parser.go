package odds

import (
	"log"

	"github.com/fortuna/augur/internal/store"
)

// parsePropLines flattens one event's odds response into prop lines
// from the requested bookmaker. Unknown markets and outcomes without a
// player description are skipped.
func parsePropLines(resp *eventOddsResponse, bookmakerKey string) []PropLine {
	var lines []PropLine

	for _, book := range resp.Bookmakers {
		if book.Key != bookmakerKey {
			continue
		}
		for _, m := range book.Markets {
			cat, ok := marketCategories[m.Key]
			if !ok {
				log.Printf("[odds-parser] ⊘ Skipping unknown market %q", m.Key)
				continue
			}
			for _, o := range m.Outcomes {
				side, ok := parseSide(o.Name)
				if !ok || o.Description == "" {
					continue
				}
				lines = append(lines, PropLine{
					PlayerName: o.Description,
					Category:   cat,
					Side:       side,
					Line:       o.Point,
					Price:      o.Price,
					EventID:    resp.ID,
				})
			}
		}
	}

	return lines
}

func parseSide(name string) (store.Side, bool) {
	switch name {
	case "Over":
		return store.SideOver, true
	case "Under":
		return store.SideUnder, true
	}
	return "", false
}
