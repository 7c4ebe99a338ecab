// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql and the pure-Go modernc.org/sqlite driver. Batches are written
// with a prepared INSERT inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"dailyreports/internal/ddl"
	"dailyreports/internal/storage"
	sqliteddl "dailyreports/internal/storage/sqlite/ddl"
)

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db      *sql.DB
	cfg     Config
	dialect sqliteddl.Dialect
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
//
// DSN is passed directly to database/sql; for example:
//
//	"file:covid19.db?_pragma=busy_timeout(5000)"
//	"covid19.db"
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One writer at a time; also keeps ":memory:" on a single database.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

func (r *Repository) Dialect() storage.Dialect { return r.dialect }

func (r *Repository) Table() string { return r.cfg.Table }

// TableExists looks the table up in sqlite_master of the schema named by the
// table prefix, or of "main".
func (r *Repository) TableExists(ctx context.Context) (bool, error) {
	parts := storage.SplitFQN(r.cfg.Table)
	if len(parts) == 0 {
		return false, fmt.Errorf("sqlite: table name must not be empty")
	}
	master := "sqlite_master"
	if len(parts) > 1 {
		master = r.dialect.QuoteIdent(parts[0]) + ".sqlite_master"
	}
	q := "SELECT COUNT(*) FROM " + master + " WHERE type = 'table' AND name = ?"
	ok, err := storage.QueryExists(ctx, r.db, q, parts[len(parts)-1])
	if err != nil {
		return false, fmt.Errorf("sqlite: table lookup: %w", err)
	}
	return ok, nil
}

// CopyFrom inserts the given rows into the configured table using a single
// transaction and a prepared INSERT statement.
//
// It returns the number of rows inserted or an error; on error the
// transaction is rolled back and nothing from the batch is kept.
func (r *Repository) CopyFrom(
	ctx context.Context,
	columns []string,
	rows [][]any,
) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	stmtSQL := storage.InsertSQL(r.dialect, r.cfg.Table, columns, 1, func(int) string { return "?" })

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: CopyFrom: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Exec executes an arbitrary SQL statement (typically DDL) using the underlying
// database/sql connection.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// SelectFloat64 reads columns cast to REAL. NULL reads as NaN.
func (r *Repository) SelectFloat64(ctx context.Context, columns []string) ([][]float64, error) {
	q, err := storage.SelectFloatSQL(r.dialect, r.cfg.Table, columns)
	if err != nil {
		return nil, err
	}
	out, err := storage.QueryFloat64(ctx, r.db, q, len(columns))
	if err != nil {
		return nil, fmt.Errorf("sqlite: query %s: %w", ddl.QuoteFQN(r.dialect, r.cfg.Table), err)
	}
	return out, nil
}
