package ddl

import (
	"strings"

	"dailyreports/internal/schema"
)

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: logical column name (unquoted; quoting/escaping happens at render time)
//   - SQLType: target SQL type (e.g., TEXT, BIGINT, DOUBLE PRECISION)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g., 0, CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the fully-qualified table name (FQN) and an ordered list of
// columns. The FQN is expected in dotted form (e.g., "schema.table") and will
// be quoted/escaped by renderers as needed.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Dialect is the per-backend SQL surface shared by DDL rendering and the
// correlation query.
type Dialect interface {
	// Name is the storage kind, e.g. "postgres".
	Name() string

	// QuoteIdent quotes one identifier segment.
	QuoteIdent(id string) string

	// MapType returns the column type used for an inferred kind.
	MapType(k schema.Kind) string

	// FloatCast wraps a value expression so it scans as a float64.
	FloatCast(expr string) string

	// CreateTable renders a CREATE TABLE statement for an already quoted
	// table name and rendered column definitions.
	CreateTable(quotedFQN string, columnDefs []string) string
}

// QuoteFQN quotes every dotted segment of fqn with d. Empty segments are
// dropped, so "dbo..t" renders as two segments.
func QuoteFQN(d Dialect, fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, d.QuoteIdent(p))
	}
	return strings.Join(out, ".")
}

// QuoteWith wraps id in open and end, doubling any end inside id.
func QuoteWith(id, open, end string) string {
	return open + strings.ReplaceAll(id, end, end+end) + end
}
