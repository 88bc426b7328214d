// Package store persists the practitioner roster in SQLite or Postgres.
package store

import (
	"context"
	"regexp"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/model"
)

// DefaultTable is the roster table name used when none is configured.
const DefaultTable = "roster"

// RosterStore reads and replaces a roster table.
type RosterStore interface {
	// ListRoster returns every record in insertion order.
	ListRoster(ctx context.Context) ([]model.RosterRecord, error)
	// ReplaceRoster swaps the table contents for records in one transaction.
	ReplaceRoster(ctx context.Context, records []model.RosterRecord) (int64, error)
	Migrate(ctx context.Context) error
	Close() error
}

var rosterColumns = []string{
	"last_name",
	"first_name",
	"middle_name",
	"address",
	"registration_date",
	"registration_number",
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func checkTable(table string) (string, error) {
	if table == "" {
		return DefaultTable, nil
	}
	if !identRe.MatchString(table) {
		return "", eris.Errorf("store: invalid table name %q", table)
	}
	return table, nil
}

func recordValues(r model.RosterRecord) []any {
	return []any{r.LastName, r.FirstName, r.MiddleName, r.Address, r.RegistrationDate, r.RegistrationNumber}
}
