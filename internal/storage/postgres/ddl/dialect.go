// Package ddl contains Postgres-specific SQL rendering.
package ddl

import (
	"fmt"
	"strings"

	gddl "dailyreports/internal/ddl"
	"dailyreports/internal/schema"
)

// Dialect renders Postgres SQL: "double-quoted" identifiers and
// CREATE TABLE IF NOT EXISTS.
type Dialect struct{}

var _ gddl.Dialect = Dialect{}

func (Dialect) Name() string { return "postgres" }

func (Dialect) QuoteIdent(id string) string { return gddl.QuoteWith(id, `"`, `"`) }

// MapType maps an inferred kind into a Postgres column type.
//
//	Int   -> BIGINT
//	Float -> DOUBLE PRECISION
//	Bool  -> BOOLEAN
//	Text  -> TEXT
func (Dialect) MapType(k schema.Kind) string {
	switch k {
	case schema.Int:
		return "BIGINT"
	case schema.Float:
		return "DOUBLE PRECISION"
	case schema.Bool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func (Dialect) FloatCast(expr string) string {
	return "CAST(" + expr + " AS DOUBLE PRECISION)"
}

func (Dialect) CreateTable(quotedFQN string, columnDefs []string) string {
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quotedFQN,
		strings.Join(columnDefs, ",\n  "),
	)
}
