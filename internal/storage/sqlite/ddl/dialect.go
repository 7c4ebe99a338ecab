// Package ddl contains SQLite-specific SQL rendering.
//
// SQLite is dynamically typed, so MapType picks canonical affinities:
// booleans are stored as INTEGER 0/1 and floats as REAL.
package ddl

import (
	"fmt"
	"strings"

	gddl "dailyreports/internal/ddl"
	"dailyreports/internal/schema"
)

// Dialect renders SQLite SQL. Dotted table names such as "main.events" have
// each segment quoted.
type Dialect struct{}

var _ gddl.Dialect = Dialect{}

func (Dialect) Name() string { return "sqlite" }

func (Dialect) QuoteIdent(id string) string { return gddl.QuoteWith(id, `"`, `"`) }

func (Dialect) MapType(k schema.Kind) string {
	switch k {
	case schema.Int, schema.Bool:
		return "INTEGER"
	case schema.Float:
		return "REAL"
	default:
		return "TEXT"
	}
}

// FloatCast leaves expr as stored. CAST(... AS REAL) would turn any text
// into 0; read uncast, numeric text still scans as float64 and other text
// fails the scan.
func (Dialect) FloatCast(expr string) string { return expr }

func (Dialect) CreateTable(quotedFQN string, columnDefs []string) string {
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quotedFQN,
		strings.Join(columnDefs, ",\n  "),
	)
}
