// Package ddl defines a small, backend-agnostic model for SQL DDL and renders
// CREATE TABLE statements from it through a Dialect.
//
// Backend-specific packages (e.g., internal/storage/postgres/ddl) implement
// Dialect. This package owns validation and column rendering; the Dialect
// owns quoting, type names and the statement shell (for example the
// IF OBJECT_ID guard on SQL Server).
package ddl

import (
	"fmt"
	"strings"

	"dailyreports/internal/schema"
)

// BuildCreateTableSQL renders a CREATE TABLE statement from t.
//
// Rules:
//
//   - t.FQN must be non-empty; each dotted segment is quoted with d.
//
//   - Each column must have a non-empty Name and SQLType.
//
//   - A column is rendered as:
//
//     <quoted Name> <SQLType> [NOT NULL] [DEFAULT <Default>]
//
//   - Columns with PrimaryKey == true are collected into a trailing
//     PRIMARY KEY (...) clause.
func BuildCreateTableSQL(t TableDef, d Dialect) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(d.QuoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)

		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}

		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			// Default is emitted as raw SQL expression.
			sb.WriteString(def)
		}

		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, d.QuoteIdent(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return d.CreateTable(QuoteFQN(d, fqn), cols), nil
}

// FromColumns maps inferred columns onto a table definition. Report rows have
// no key, so every column is nullable and there is no primary key.
func FromColumns(fqn string, cols []schema.Column, d Dialect) TableDef {
	defs := make([]ColumnDef, len(cols))
	for i, c := range cols {
		defs[i] = ColumnDef{
			Name:     c.Name,
			SQLType:  d.MapType(c.Kind),
			Nullable: true,
		}
	}
	return TableDef{FQN: fqn, Columns: defs}
}
