// Package ddl contains SQL Server-specific SQL rendering.
//
// The dialect:
//   - Uses bracket identifier quoting: [schema].[table], [col].
//   - Wraps CREATE TABLE in an IF OBJECT_ID(...) IS NULL guard since T-SQL
//     does not support CREATE TABLE IF NOT EXISTS.
package ddl

import (
	"fmt"
	"strings"

	gddl "dailyreports/internal/ddl"
	"dailyreports/internal/schema"
)

// Dialect renders T-SQL.
type Dialect struct{}

var _ gddl.Dialect = Dialect{}

func (Dialect) Name() string { return "mssql" }

// QuoteIdent quotes a single identifier segment using bracket syntax,
// escaping any closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func (Dialect) QuoteIdent(id string) string { return gddl.QuoteWith(id, "[", "]") }

// MapType maps an inferred kind into a SQL Server column type. Text uses
// NVARCHAR(MAX) so strings of any length load.
func (Dialect) MapType(k schema.Kind) string {
	switch k {
	case schema.Int:
		return "BIGINT"
	case schema.Float:
		return "FLOAT"
	case schema.Bool:
		return "BIT"
	default:
		return "NVARCHAR(MAX)"
	}
}

func (Dialect) FloatCast(expr string) string { return "CAST(" + expr + " AS FLOAT)" }

// CreateTable renders:
//
//	IF OBJECT_ID(N'[schema].[table]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [schema].[table] (
//	    [col1] TYPE,
//	    [col2] TYPE
//	  );
//	END;
func (Dialect) CreateTable(quotedFQN string, columnDefs []string) string {
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
		strings.ReplaceAll(quotedFQN, "'", "''"),
		quotedFQN,
		strings.Join(columnDefs, ",\n    "),
	)
}
