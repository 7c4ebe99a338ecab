package ddl

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyreports/internal/schema"
)

// testDialect quotes with double quotes and uses IF NOT EXISTS.
type testDialect struct{}

func (testDialect) Name() string                 { return "test" }
func (testDialect) QuoteIdent(id string) string  { return QuoteWith(id, `"`, `"`) }
func (testDialect) FloatCast(expr string) string { return "CAST(" + expr + " AS REAL)" }
func (testDialect) MapType(k schema.Kind) string {
	switch k {
	case schema.Int:
		return "BIGINT"
	case schema.Float:
		return "REAL"
	case schema.Bool:
		return "BOOLEAN"
	}
	return "TEXT"
}
func (testDialect) CreateTable(q string, cols []string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", q, strings.Join(cols, ",\n  "))
}

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		def         TableDef
		wantSQL     string
		errContains string
	}{
		{
			name:        "empty FQN returns error",
			def:         TableDef{FQN: " ", Columns: []ColumnDef{{Name: "id", SQLType: "INT"}}},
			errContains: "table FQN must not be empty",
		},
		{
			name:        "no columns returns error",
			def:         TableDef{FQN: "public.t"},
			errContains: "at least one column is required",
		},
		{
			name:        "column with empty name returns error",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "", SQLType: "INT"}}},
			errContains: "column with empty name",
		},
		{
			name:        "column with empty type returns error",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "id"}}},
			errContains: "missing SQLType",
		},
		{
			name:    "nullable column",
			def:     TableDef{FQN: "t", Columns: []ColumnDef{{Name: "Confirmed", SQLType: "BIGINT", Nullable: true}}},
			wantSQL: "CREATE TABLE IF NOT EXISTS \"t\" (\n  \"Confirmed\" BIGINT\n);",
		},
		{
			name: "not null, default and primary key",
			def: TableDef{
				FQN: "public.daily_reports",
				Columns: []ColumnDef{
					{Name: "id", SQLType: "BIGINT", PrimaryKey: true},
					{Name: "Deaths", SQLType: "REAL", Default: " 0 "},
				},
			},
			wantSQL: "CREATE TABLE IF NOT EXISTS \"public\".\"daily_reports\" (\n  \"id\" BIGINT NOT NULL,\n  \"Deaths\" REAL NOT NULL DEFAULT 0,\n  PRIMARY KEY (\"id\")\n);",
		},
		{
			name:    "identifiers with quotes and slashes",
			def:     TableDef{FQN: "t", Columns: []ColumnDef{{Name: `Province/State "x"`, SQLType: "TEXT", Nullable: true}}},
			wantSQL: "CREATE TABLE IF NOT EXISTS \"t\" (\n  \"Province/State \"\"x\"\"\" TEXT\n);",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := BuildCreateTableSQL(tt.def, testDialect{})
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, got)
		})
	}
}

func TestFromColumns(t *testing.T) {
	t.Parallel()

	def := FromColumns("daily_reports", []schema.Column{
		{Name: "Country/Region", Kind: schema.Text},
		{Name: "Confirmed", Kind: schema.Int},
		{Name: "Deaths", Kind: schema.Float},
	}, testDialect{})

	assert.Equal(t, TableDef{
		FQN: "daily_reports",
		Columns: []ColumnDef{
			{Name: "Country/Region", SQLType: "TEXT", Nullable: true},
			{Name: "Confirmed", SQLType: "BIGINT", Nullable: true},
			{Name: "Deaths", SQLType: "REAL", Nullable: true},
		},
	}, def)
}

func TestQuoteFQN(t *testing.T) {
	t.Parallel()
	d := testDialect{}
	assert.Equal(t, `"dbo"."t"`, QuoteFQN(d, "dbo.t"))
	assert.Equal(t, `"dbo"."t"`, QuoteFQN(d, "dbo..t"))
	assert.Equal(t, `"t"`, QuoteFQN(d, " t "))
	assert.Equal(t, "[a]]b]", QuoteWith("a]b", "[", "]"))
}

// benchmarkSink keeps BuildCreateTableSQL results live in benchmarks.
var benchmarkSink string

func BenchmarkBuildCreateTableSQL_LargeSchema(b *testing.B) {
	cols := make([]ColumnDef, 0, 64)
	for i := 0; i < 64; i++ {
		cols = append(cols, ColumnDef{Name: "col_" + strconv.Itoa(i), SQLType: "TEXT", Nullable: true})
	}
	def := TableDef{FQN: "large_table", Columns: cols}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sql, err := BuildCreateTableSQL(def, testDialect{})
		if err != nil {
			b.Fatalf("BuildCreateTableSQL() error = %v", err)
		}
		benchmarkSink = sql
	}
}
