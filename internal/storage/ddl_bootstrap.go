package storage

import (
	"context"
	"fmt"
	"log"

	"dailyreports/internal/ddl"
	"dailyreports/internal/schema"
)

// EnsureTable creates the repository's table from cols when it does not exist
// yet and reports whether it did. An existing table is never altered, so later
// files must fit the structure inferred from the first one.
func EnsureTable(ctx context.Context, repo Repository, cols []schema.Column) (bool, error) {
	exists, err := repo.TableExists(ctx)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", repo.Table(), err)
	}
	if exists {
		return false, nil
	}

	d := repo.Dialect()
	stmt, err := ddl.BuildCreateTableSQL(ddl.FromColumns(repo.Table(), cols, d), d)
	if err != nil {
		return false, fmt.Errorf("build DDL: %w", err)
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return false, fmt.Errorf("apply DDL: %w", err)
	}
	log.Printf("storage: created table=%s kind=%s columns=%d", repo.Table(), d.Name(), len(cols))
	return true, nil
}
