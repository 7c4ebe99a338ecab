//go:build integration

package mssql

import (
	"context"
	"os"
	"testing"
	"time"
)

// getTestDSN reads the MSSQL_TEST_DSN environment variable.
// If it is empty, the caller should skip the test.
func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("MSSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MSSQL_TEST_DSN not set; skipping MSSQL integration tests")
	}
	return dsn
}

// TestNewRepositoryIntegration verifies that NewRepository can successfully
// connect to a real SQL Server and that the returned Close function works.
func TestNewRepositoryIntegration(t *testing.T) {
	dsn := getTestDSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := Config{
		DSN:   dsn,
		Table: "dbo.repo_integration_test", // not used here
	}

	repo, closeFn, err := NewRepository(ctx, cfg)
	if err != nil {
		t.Fatalf("NewRepository() error = %v, want nil", err)
	}
	if repo == nil {
		t.Fatalf("NewRepository() repo = nil, want non-nil")
	}
	if closeFn == nil {
		t.Fatalf("NewRepository() closeFn = nil, want non-nil")
	}

	// Close should not panic or error.
	closeFn()
}

// TestCopyFromAndExecIntegration verifies that Exec, TableExists, CopyFrom
// and SelectFloat64 work together against a real SQL Server.
func TestCopyFromAndExecIntegration(t *testing.T) {
	dsn := getTestDSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, closeFn, err := NewRepository(ctx, Config{DSN: dsn, Table: "dbo.repo_copyfrom_test"})
	if err != nil {
		t.Fatalf("NewRepository() error = %v, want nil", err)
	}
	defer closeFn()

	_ = repo.Exec(ctx, "IF OBJECT_ID(N'dbo.repo_copyfrom_test', N'U') IS NOT NULL DROP TABLE dbo.repo_copyfrom_test;")

	if ok, err := repo.TableExists(ctx); err != nil || ok {
		t.Fatalf("TableExists() = %v, %v; want false, nil", ok, err)
	}
	if err := repo.Exec(ctx, `CREATE TABLE dbo.repo_copyfrom_test (confirmed BIGINT NULL, deaths FLOAT NULL);`); err != nil {
		t.Fatalf("Exec(CREATE TABLE) error = %v", err)
	}

	rows := [][]any{
		{int64(1), 0.0},
		{int64(2), nil},
		{int64(3), 1.0},
	}
	n, err := repo.CopyFrom(ctx, []string{"confirmed", "deaths"}, rows)
	if err != nil {
		t.Fatalf("CopyFrom() error = %v, want nil", err)
	}
	if n != int64(len(rows)) {
		t.Fatalf("CopyFrom() inserted = %d, want %d", n, len(rows))
	}

	got, err := repo.SelectFloat64(ctx, []string{"confirmed", "deaths"})
	if err != nil {
		t.Fatalf("SelectFloat64() error = %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("SelectFloat64() rows = %d, want %d", len(got), len(rows))
	}
}
