// Package schema infers column kinds from parsed report cells and converts
// cells into typed values for the store.
//
// The rules match the dtype inference of the tabular reader the reports were
// historically loaded with, so a table created here has the same column
// types that reader would have produced:
//
//   - missing cells are "" and the usual NA markers (NA, N/A, NaN, null, ...);
//   - a column of base-10 integers with no missing cell is Int;
//   - integers with gaps, and any float spelling, are Float;
//   - True/False literals with no missing cell are Bool;
//   - everything else is Text;
//   - a column whose cells are all missing is Float;
//   - a header-only input has Text columns.
package schema

import (
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind int

const (
	Text Kind = iota
	Int
	Float
	Bool
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return "text"
	}
}

// Column pairs a header name with its inferred Kind.
type Column struct {
	Name string
	Kind Kind
}

// Names returns the column names in order.
func Names(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether cell is read as a missing value.
func IsMissing(cell string) bool {
	_, ok := naValues[cell]
	return ok
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}

func parseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	// Go accepts hex floats and digit separators; the reports never mean those.
	if strings.ContainsAny(s, "_xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range values still parse as ±Inf, which the reader keeps.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// Infer returns one Column per header, in header order. Every row must have
// len(headers) cells.
func Infer(headers []string, rows [][]string) []Column {
	cols := make([]Column, len(headers))
	for i, h := range headers {
		cols[i] = Column{Name: h, Kind: inferColumn(rows, i)}
	}
	return cols
}

func inferColumn(rows [][]string, i int) Kind {
	if len(rows) == 0 {
		return Text
	}
	var present, missing int
	allInt, allFloat, allBool := true, true, true
	for _, r := range rows {
		cell := r[i]
		if IsMissing(cell) {
			missing++
			continue
		}
		present++
		if allInt {
			if _, ok := parseInt(cell); !ok {
				allInt = false
			}
		}
		if allFloat {
			if _, ok := parseFloat(cell); !ok {
				allFloat = false
			}
		}
		if allBool {
			if _, ok := parseBool(cell); !ok {
				allBool = false
			}
		}
		if !allInt && !allFloat && !allBool {
			return Text
		}
	}
	switch {
	case present == 0:
		return Float
	case allInt && missing == 0:
		return Int
	case allInt || allFloat:
		return Float
	case allBool && missing == 0:
		return Bool
	default:
		return Text
	}
}
