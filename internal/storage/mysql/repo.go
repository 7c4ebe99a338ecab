// Package mysql implements a MySQL-backed storage.Repository using
// database/sql and github.com/go-sql-driver/mysql. Batches are written as
// multi-row INSERT statements inside one transaction.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"dailyreports/internal/ddl"
	"dailyreports/internal/storage"
	myddl "dailyreports/internal/storage/mysql/ddl"
)

// maxPlaceholders is the server's limit on prepared statement parameters.
const maxPlaceholders = 65535

// Config holds MySQL repository configuration.
type Config struct {
	DSN   string // go-sql-driver DSN, e.g. "user:pw@tcp(localhost:3306)/covid19"
	Table string
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db      *sql.DB
	cfg     Config
	dialect myddl.Dialect
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := mysql.ParseDSN(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	db, err := sql.Open("mysql", cfg.DSN)
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

// TableExists consults information_schema. An unqualified table is looked up
// in the connection's current database.
func (r *Repository) TableExists(ctx context.Context) (bool, error) {
	parts := storage.SplitFQN(r.cfg.Table)
	if len(parts) == 0 {
		return false, fmt.Errorf("table name must not be empty")
	}
	var (
		q    string
		args []any
	)
	if len(parts) == 1 {
		q = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?"
		args = []any{parts[0]}
	} else {
		q = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		args = []any{parts[0], parts[1]}
	}
	ok, err := storage.QueryExists(ctx, r.db, q, args...)
	if err != nil {
		return false, fmt.Errorf("table lookup: %w", err)
	}
	return ok, nil
}

// chunkRows returns how many rows of width columns fit in one statement.
func chunkRows(width int) int {
	if width <= 0 {
		return 0
	}
	n := maxPlaceholders / width
	if n < 1 {
		n = 1
	}
	return n
}

// CopyFrom appends rows with multi-row INSERTs in a single transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	step := chunkRows(len(columns))
	var inserted int64
	for start := 0; start < len(rows); start += step {
		end := min(start+step, len(rows))
		args := make([]any, 0, (end-start)*len(columns))
		for i, row := range rows[start:end] {
			if len(row) != len(columns) {
				rollback()
				return 0, fmt.Errorf("row %d: length %d != columns length %d", start+i, len(row), len(columns))
			}
			args = append(args, row...)
		}
		q := storage.InsertSQL(r.dialect, r.cfg.Table, columns, end-start, func(int) string { return "?" })
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			rollback()
			return 0, fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			rollback()
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// Exec executes a SQL statement against the pool.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

// SelectFloat64 reads columns cast to DOUBLE. NULL reads as NaN.
func (r *Repository) SelectFloat64(ctx context.Context, columns []string) ([][]float64, error) {
	q, err := storage.SelectFloatSQL(r.dialect, r.cfg.Table, columns)
	if err != nil {
		return nil, err
	}
	out, err := storage.QueryFloat64(ctx, r.db, q, len(columns))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", ddl.QuoteFQN(r.dialect, r.cfg.Table), err)
	}
	return out, nil
}
