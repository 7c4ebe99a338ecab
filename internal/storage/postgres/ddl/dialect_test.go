package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gddl "dailyreports/internal/ddl"
	"dailyreports/internal/schema"
)

func TestDialect_CreateTable(t *testing.T) {
	t.Parallel()

	cols := []schema.Column{
		{Name: "Province/State", Kind: schema.Text},
		{Name: "Confirmed", Kind: schema.Int},
		{Name: "Deaths", Kind: schema.Float},
		{Name: "Active", Kind: schema.Bool},
	}
	sql, err := gddl.BuildCreateTableSQL(gddl.FromColumns("public.daily_reports", cols, Dialect{}), Dialect{})
	require.NoError(t, err)

	want := "CREATE TABLE IF NOT EXISTS \"public\".\"daily_reports\" (\n" +
		"  \"Province/State\" TEXT,\n" +
		"  \"Confirmed\" BIGINT,\n" +
		"  \"Deaths\" DOUBLE PRECISION,\n" +
		"  \"Active\" BOOLEAN\n);"
	assert.Equal(t, want, sql)
}

func TestDialect_Quoting(t *testing.T) {
	t.Parallel()
	d := Dialect{}
	assert.Equal(t, "postgres", d.Name())
	assert.Equal(t, `"we""ird"`, d.QuoteIdent(`we"ird`))
	assert.Equal(t, `CAST("deaths" AS DOUBLE PRECISION)`, d.FloatCast(d.QuoteIdent("deaths")))
}
