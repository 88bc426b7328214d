package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/roster-cli/internal/model"
)

// SQLiteStore implements RosterStore using modernc.org/sqlite.
type SQLiteStore struct {
	db    *sql.DB
	table string
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn, table string) (*SQLiteStore, error) {
	table, err := checkTable(table)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, table: table}, nil
}

// Migrate creates the roster table if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	last_name           TEXT NOT NULL DEFAULT '',
	first_name          TEXT NOT NULL DEFAULT '',
	middle_name         TEXT NOT NULL DEFAULT '',
	address             TEXT NOT NULL DEFAULT '',
	registration_date   TEXT NOT NULL DEFAULT '',
	registration_number TEXT NOT NULL DEFAULT ''
)`, s.table)
	_, err := s.db.ExecContext(ctx, stmt)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListRoster reads the table in rowid order.
func (s *SQLiteStore) ListRoster(ctx context.Context) ([]model.RosterRecord, error) {
	cols := make([]string, len(rosterColumns))
	for i, c := range rosterColumns {
		cols[i] = fmt.Sprintf("COALESCE(CAST(%s AS TEXT), '')", c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(cols, ", "), s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list roster from %s", s.table)
	}
	defer rows.Close() //nolint:errcheck

	records := make([]model.RosterRecord, 0)
	for rows.Next() {
		var r model.RosterRecord
		if err := rows.Scan(&r.LastName, &r.FirstName, &r.MiddleName, &r.Address, &r.RegistrationDate, &r.RegistrationNumber); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan roster row")
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate roster rows")
	}
	return records, nil
}

// ReplaceRoster deletes every row and inserts records in order.
func (s *SQLiteStore) ReplaceRoster(ctx context.Context, records []model.RosterRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+s.table); err != nil {
		return 0, eris.Wrapf(err, "sqlite: clear %s", s.table)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(rosterColumns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table, strings.Join(rosterColumns, ", "), placeholders))
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, recordValues(r)...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert record %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return int64(len(records)), nil
}
