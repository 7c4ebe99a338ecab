package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"dailyreports/internal/ddl"
)

// SelectFloatSQL renders the projection query used by SelectFloat64:
//
//	SELECT CAST(<c1> AS <float>), ... FROM <table>
func SelectFloatSQL(d Dialect, table string, columns []string) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("select: at least one column is required")
	}
	exprs := make([]string, len(columns))
	for i, c := range columns {
		exprs[i] = d.FloatCast(d.QuoteIdent(c))
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), ddl.QuoteFQN(d, table)), nil
}

// InsertSQL renders INSERT INTO <table> (<cols>) VALUES followed by 'rows'
// groups of placeholders produced by ph (1-based argument index).
func InsertSQL(d Dialect, table string, columns []string, rows int, ph func(i int) string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.QuoteIdent(c)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", ddl.QuoteFQN(d, table), strings.Join(quoted, ", "))
	arg := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range columns {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(ph(arg))
			arg++
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// QueryFloat64 runs query on db and scans every row into float64 values,
// reading NULL as NaN.
func QueryFloat64(ctx context.Context, db *sql.DB, query string, width int) ([][]float64, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]float64
	cells := make([]sql.NullFloat64, width)
	dest := make([]any, width)
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make([]float64, width)
		for i, c := range cells {
			if c.Valid {
				row[i] = c.Float64
			} else {
				row[i] = math.NaN()
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// QueryExists runs a query returning one row with one integer or boolean
// column and reports whether it is non-zero.
func QueryExists(ctx context.Context, db *sql.DB, query string, args ...any) (bool, error) {
	var n int64
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n != 0, nil
}

// SplitFQN splits "schema.table" into its non-empty segments.
func SplitFQN(fqn string) []string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
