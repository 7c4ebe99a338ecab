// Package ddl contains MySQL-specific SQL rendering.
package ddl

import (
	"fmt"
	"strings"

	gddl "dailyreports/internal/ddl"
	"dailyreports/internal/schema"
)

// Dialect renders MySQL SQL with `backtick` identifiers.
type Dialect struct{}

var _ gddl.Dialect = Dialect{}

func (Dialect) Name() string { return "mysql" }

func (Dialect) QuoteIdent(id string) string { return gddl.QuoteWith(id, "`", "`") }

func (Dialect) MapType(k schema.Kind) string {
	switch k {
	case schema.Int:
		return "BIGINT"
	case schema.Float:
		return "DOUBLE"
	case schema.Bool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func (Dialect) FloatCast(expr string) string { return "CAST(" + expr + " AS DOUBLE)" }

func (Dialect) CreateTable(quotedFQN string, columnDefs []string) string {
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quotedFQN,
		strings.Join(columnDefs, ",\n  "),
	)
}
