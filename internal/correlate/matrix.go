// Package correlate computes Pearson correlation matrices over numeric
// columns read from a store.
package correlate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrTooFewFields is returned when fewer than two fields are requested.
var ErrTooFewFields = errors.New("correlate: at least two fields are required")

// Matrix is a symmetric Pearson correlation matrix.
type Matrix struct {
	Fields []string
	Values [][]float64 // row-major, Values[i][j]; NaN when undefined
	N      [][]int     // pairwise complete observations behind Values[i][j]
}

// At returns the coefficient for the named pair.
func (m Matrix) At(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return m.Values[i][j], true
}

func (m Matrix) index(name string) int {
	for i, f := range m.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// MarshalJSON renders NaN coefficients as null.
func (m Matrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				values[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Fields []string     `json:"fields"`
		Values [][]*float64 `json:"values"`
		N      [][]int      `json:"n"`
	}{m.Fields, values, m.N})
}

// Compute returns the Pearson matrix of rows, where rows[k][i] is the value of
// fields[i] in observation k. NaN marks a missing value; each pair uses only
// the observations where both values are present. A pair with fewer than two
// such observations, or with zero variance on either side, is NaN.
func Compute(fields []string, rows [][]float64) (Matrix, error) {
	if len(fields) < 2 {
		return Matrix{}, ErrTooFewFields
	}
	w := len(fields)
	for k, r := range rows {
		if len(r) != w {
			return Matrix{}, fmt.Errorf("correlate: row %d has %d values, want %d", k, len(r), w)
		}
	}

	m := Matrix{
		Fields: append([]string(nil), fields...),
		Values: make([][]float64, w),
		N:      make([][]int, w),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, w)
		m.N[i] = make([]int, w)
	}

	x := make([]float64, 0, len(rows))
	y := make([]float64, 0, len(rows))
	for i := 0; i < w; i++ {
		for j := i; j < w; j++ {
			x, y = pairwise(rows, i, j, x[:0], y[:0])
			r := pearson(x, y, i == j)
			m.Values[i][j], m.Values[j][i] = r, r
			m.N[i][j], m.N[j][i] = len(x), len(x)
		}
	}
	return m, nil
}

// pairwise appends the observations where columns i and j are both present.
func pairwise(rows [][]float64, i, j int, x, y []float64) ([]float64, []float64) {
	for _, r := range rows {
		a, b := r[i], r[j]
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		x = append(x, a)
		y = append(y, b)
	}
	return x, y
}

func pearson(x, y []float64, diagonal bool) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	if diagonal {
		return 1
	}
	r := stat.Correlation(x, y, nil)
	// Rounding can push |r| slightly past 1.
	return math.Max(-1, math.Min(1, r))
}
