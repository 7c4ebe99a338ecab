package cli

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyreports/internal/testinfra"
)

func TestPipeline_Postgres(t *testing.T) {
	ctr := testinfra.Postgres(t)
	db := []string{"--db-kind", "postgres", "--dsn", ctr.ConnString}

	out, err := run(t, nil, append([]string{"ingest", fixtures, "--batch-size", "4", "-v"}, db...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "loaded 9 rows from 2 files into daily_reports (created)")

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, ctr.ConnString)
	require.NoError(t, err)
	defer conn.Close(ctx)

	var n int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM daily_reports`).Scan(&n))
	assert.Equal(t, 9, n)

	_, err = conn.Exec(ctx, `CREATE TABLE cleaned_data AS
		SELECT "Confirmed" AS confirmed, "Deaths" AS deaths FROM daily_reports`)
	require.NoError(t, err)

	out, err = run(t, nil, append([]string{"correlate", "--format", "csv"}, db...)...)
	require.NoError(t, err)
	assert.Equal(t, ",confirmed,deaths\nconfirmed,1.000000,NaN\ndeaths,NaN,NaN\n", out)
}
