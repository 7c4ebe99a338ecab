package schema

import (
	"fmt"
	"math"
)

// Coerce converts one cell to the Go value stored for kind k: int64, float64,
// bool, string, or nil for a missing cell.
func Coerce(cell string, k Kind) (any, error) {
	if IsMissing(cell) {
		return nil, nil
	}
	switch k {
	case Int:
		if n, ok := parseInt(cell); ok {
			return n, nil
		}
	case Float:
		if f, ok := parseFloat(cell); ok {
			return f, nil
		}
	case Bool:
		if b, ok := parseBool(cell); ok {
			return b, nil
		}
	default:
		return cell, nil
	}
	return nil, fmt.Errorf("value %q is not a valid %s", cell, k)
}

// Row converts one record. cols and cells must have the same length.
func Row(cols []Column, cells []string) ([]any, error) {
	if len(cells) != len(cols) {
		return nil, fmt.Errorf("row has %d cells, want %d", len(cells), len(cols))
	}
	out := make([]any, len(cols))
	for i, c := range cols {
		v, err := Coerce(cells[i], c.Kind)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		// NaN and infinities are stored as NULL.
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			v = nil
		}
		out[i] = v
	}
	return out, nil
}
