package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/resilience"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// PostgresStore implements RosterStore using pgxpool.
type PostgresStore struct {
	pool    Pool
	table   pgx.Identifier
	closeFn func()
}

// NewPostgres connects to connString and pings the server.
func NewPostgres(ctx context.Context, connString, table string) (*PostgresStore, error) {
	table, err := checkTable(table)
	if err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 4
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := ping(ctx, pool, pingPolicy(cfg.ConnConfig.Host)); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool, table: splitIdent(table), closeFn: pool.Close}, nil
}

// pingPolicy retries the first ping a few times; a database that is still
// starting refuses connections briefly.
func pingPolicy(host string) resilience.Policy {
	p := resilience.PolicyFor(2)
	p.InitialBackoff = 250 * time.Millisecond
	p.MaxBackoff = 2 * time.Second
	p.Retryable = func(err error) bool {
		return !eris.Is(err, context.Canceled) && !eris.Is(err, context.DeadlineExceeded)
	}
	p.OnRetry = resilience.LogRetries("store.postgres", host)
	return p
}

func ping(ctx context.Context, pool Pool, p resilience.Policy) error {
	err := resilience.Do(ctx, p, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	return eris.Wrap(err, "postgres: ping")
}

// NewPostgresWithPool wraps an existing pool. Close does not close it.
func NewPostgresWithPool(pool Pool, table string) (*PostgresStore, error) {
	table, err := checkTable(table)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool, table: splitIdent(table)}, nil
}

func splitIdent(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}

// Migrate creates the roster table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id                  BIGSERIAL PRIMARY KEY,
	last_name           TEXT NOT NULL DEFAULT '',
	first_name          TEXT NOT NULL DEFAULT '',
	middle_name         TEXT NOT NULL DEFAULT '',
	address             TEXT NOT NULL DEFAULT '',
	registration_date   TEXT NOT NULL DEFAULT '',
	registration_number TEXT NOT NULL DEFAULT ''
)`, s.table.Sanitize())
	_, err := s.pool.Exec(ctx, stmt)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// ListRoster reads the table ordered by id, the insertion sequence.
func (s *PostgresStore) ListRoster(ctx context.Context) ([]model.RosterRecord, error) {
	cols := make([]string, len(rosterColumns))
	for i, c := range rosterColumns {
		cols[i] = fmt.Sprintf("COALESCE(%s::text, '')", c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(cols, ", "), s.table.Sanitize())

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list roster from %s", s.table.Sanitize())
	}
	defer rows.Close()

	return scanRoster(rows)
}

func scanRoster(rows pgx.Rows) ([]model.RosterRecord, error) {
	records := make([]model.RosterRecord, 0)
	for rows.Next() {
		var r model.RosterRecord
		if err := rows.Scan(&r.LastName, &r.FirstName, &r.MiddleName, &r.Address, &r.RegistrationDate, &r.RegistrationNumber); err != nil {
			return nil, eris.Wrap(err, "postgres: scan roster row")
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate roster rows")
	}
	return records, nil
}

// ReplaceRoster truncates the table and bulk-loads records with COPY.
func (s *PostgresStore) ReplaceRoster(ctx context.Context, records []model.RosterRecord) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, "TRUNCATE "+s.table.Sanitize()); err != nil {
		return 0, eris.Wrap(err, "postgres: truncate roster")
	}

	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = recordValues(r)
	}
	n, err := tx.CopyFrom(ctx, s.table, rosterColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrap(err, "postgres: copy roster")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit")
	}
	return n, nil
}
