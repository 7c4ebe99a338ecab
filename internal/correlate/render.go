package correlate

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Output formats accepted by Render.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	labelStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

// Render writes m to w in the given format. An empty format means table.
func Render(w io.Writer, m Matrix, format string) error {
	switch format {
	case "", FormatTable:
		_, err := fmt.Fprintln(w, renderTable(m))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case FormatCSV:
		return renderCSV(w, m)
	default:
		return fmt.Errorf("correlate: unknown format %q", format)
	}
}

// formatValue prints coefficients with six decimals and NaN as "NaN".
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func renderTable(m Matrix) string {
	headers := append([]string{""}, m.Fields...)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			default:
				return cellStyle
			}
		})
	for i, f := range m.Fields {
		cells := make([]string, 0, len(m.Fields)+1)
		cells = append(cells, f)
		for _, v := range m.Values[i] {
			cells = append(cells, formatValue(v))
		}
		t.Row(cells...)
	}
	return t.Render()
}

func renderCSV(w io.Writer, m Matrix) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, m.Fields...)); err != nil {
		return err
	}
	for i, f := range m.Fields {
		rec := make([]string, 0, len(m.Fields)+1)
		rec = append(rec, f)
		for _, v := range m.Values[i] {
			rec = append(rec, formatValue(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
