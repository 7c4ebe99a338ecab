// Package postgres implements a Postgres repository using pgx v5. Rows are
// appended with the COPY protocol; reads go through the pool directly.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	gddl "dailyreports/internal/ddl"
	"dailyreports/internal/storage"
	pgddl "dailyreports/internal/storage/postgres/ddl"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN   string // connection string for pgxpool
	Table string // target table, optionally schema-qualified, e.g. "public.daily_reports"
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool    *pgxpool.Pool
	cfg     Config
	dialect pgddl.Dialect
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres ping: %w", err)
	}

	close := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg}, close, nil
}

func (r *Repository) Dialect() storage.Dialect { return r.dialect }

func (r *Repository) Table() string { return r.cfg.Table }

// TableExists resolves the quoted table name with to_regclass, which honors
// search_path for unqualified names.
func (r *Repository) TableExists(ctx context.Context) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		"SELECT to_regclass($1) IS NOT NULL",
		gddl.QuoteFQN(r.dialect, r.cfg.Table),
	).Scan(&ok)
	return ok, err
}

// Exec implements storage.Repository.Exec for Postgres.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	_, err := r.pool.Exec(ctx, sql)
	return err
}

// CopyFrom streams rows into the table with COPY FROM STDIN. The whole batch
// is one statement, so a rejected row fails the batch.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(ctx, pgx.Identifier(storage.SplitFQN(r.cfg.Table)), columns, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return n, fmt.Errorf("copy into %s: %s (%s): %w", r.cfg.Table, pgErr.Detail, pgErr.SQLState(), err)
		}
		return n, fmt.Errorf("copy into %s: %w", r.cfg.Table, err)
	}
	return n, nil
}

// SelectFloat64 reads columns cast to DOUBLE PRECISION. NULL reads as NaN.
func (r *Repository) SelectFloat64(ctx context.Context, columns []string) ([][]float64, error) {
	q, err := storage.SelectFloatSQL(r.dialect, r.cfg.Table, columns)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.cfg.Table, err)
	}
	defer rows.Close()

	var out [][]float64
	cells := make([]*float64, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.cfg.Table, err)
		}
		out = append(out, derefFloats(cells))
	}
	return out, rows.Err()
}

func derefFloats(cells []*float64) []float64 {
	row := make([]float64, len(cells))
	for i, p := range cells {
		if p == nil {
			row[i] = math.NaN()
		} else {
			row[i] = *p
		}
	}
	return row
}
