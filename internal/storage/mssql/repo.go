// Package mssql implements a Microsoft SQL Server repository using the
// go-mssqldb bulk copy API.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"dailyreports/internal/ddl"
	"dailyreports/internal/storage"
	msddl "dailyreports/internal/storage/mssql/ddl"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN   string
	Table string // e.g. "dbo.daily_reports"
}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db      *sql.DB
	cfg     Config
	dialect msddl.Dialect
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	close := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg}, close, nil
}

func (r *Repository) Dialect() storage.Dialect { return r.dialect }

func (r *Repository) Table() string { return r.cfg.Table }

func (r *Repository) quotedTable() string { return ddl.QuoteFQN(r.dialect, r.cfg.Table) }

// TableExists checks OBJECT_ID for a user table.
func (r *Repository) TableExists(ctx context.Context) (bool, error) {
	ok, err := storage.QueryExists(ctx, r.db,
		"SELECT CASE WHEN OBJECT_ID(@p1, N'U') IS NULL THEN 0 ELSE 1 END",
		r.quotedTable(),
	)
	if err != nil {
		return false, fmt.Errorf("object lookup: %w", err)
	}
	return ok, nil
}

// CopyFrom performs a bulk insert directly into the configured target table.
// The batch runs in one transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(r.quotedTable(), mssql.BulkOptions{}, columns...))
	if err != nil {
		rollback()
		return 0, fmt.Errorf("prepare bulk: %w", err)
	}
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i]...); err != nil {
			_ = stmt.Close()
			rollback()
			return 0, fmt.Errorf("bulk row %d: %w", i, err)
		}
	}
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		rollback()
		return 0, fmt.Errorf("bulk finalize: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		rollback()
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// Exec executes a SQL statement against the pool.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

// SelectFloat64 reads columns cast to FLOAT. NULL reads as NaN.
func (r *Repository) SelectFloat64(ctx context.Context, columns []string) ([][]float64, error) {
	q, err := storage.SelectFloatSQL(r.dialect, r.cfg.Table, columns)
	if err != nil {
		return nil, err
	}
	out, err := storage.QueryFloat64(ctx, r.db, q, len(columns))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.quotedTable(), err)
	}
	return out, nil
}
