// Package storage contains storage-agnostic contracts and utilities: the
// Repository interface every backend implements, the backend factory, table
// bootstrap from inferred columns, and the batched loader.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"dailyreports/internal/ddl"
)

// Dialect is the SQL surface of a backend.
type Dialect = ddl.Dialect

// Repository is one open connection to a store, bound to one table.
type Repository interface {
	// Dialect returns the backend's SQL dialect.
	Dialect() Dialect

	// Table returns the bound table name, possibly schema-qualified.
	Table() string

	// TableExists reports whether the bound table exists.
	TableExists(ctx context.Context) (bool, error)

	// Exec runs one statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// CopyFrom appends rows aligned to columns and returns the number of rows
	// inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// SelectFloat64 reads every row of the given columns as float64 values.
	// NULL reads as NaN.
	SelectFloat64(ctx context.Context, columns []string) ([][]float64, error)

	// Close releases the connection.
	Close()
}

// Config is the backend-agnostic repository configuration.
type Config struct {
	Kind  string // postgres, sqlite, mssql, mysql
	DSN   string // driver-native connection string
	Table string // bound table, e.g. "daily_reports" or "public.daily_reports"
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

// ErrUnknownKind is returned by New when no backend is registered for the kind.
var ErrUnknownKind = errors.New("unknown storage kind")

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. Backends call it from
// init().
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s: %w", cfg.Kind, ErrUnknownKind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted. The slice is a copy.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
