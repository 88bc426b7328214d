package resolve

import (
	"strings"

	"github.com/sells-group/roster-cli/internal/model"
)

// FindByName returns roster records whose normalized name, in either
// "LAST FIRST MIDDLE" or "FIRST MIDDLE LAST" order, contains the normalized
// text. Results keep roster order. A limit <= 0 returns every hit; an empty
// query returns nothing.
func FindByName(roster []model.RosterRecord, text string, limit int) []model.RosterRecord {
	q := Normalize(text)
	if q == "" {
		return nil
	}

	var out []model.RosterRecord
	for _, rec := range roster {
		if !nameContains(rec, q) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func nameContains(rec model.RosterRecord, q string) bool {
	last := Normalize(rec.LastName)
	given := Normalize(rec.FirstName + " " + rec.MiddleName)
	return strings.Contains(Normalize(last+" "+given), q) ||
		strings.Contains(Normalize(given+" "+last), q)
}
