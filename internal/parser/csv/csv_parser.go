// Package csv parses a daily report file into a header and string cells.
//
// Parsing follows the tabular reader the reports were historically loaded
// with: the first record is the header, blank lines are skipped, rows shorter
// than the header are padded with empty cells, and rows wider than the header
// are an error.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader is returned when the input holds no records at all.
var ErrNoHeader = errors.New("csv: no header row")

// ParseError reports the 1-based input line of a malformed record.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// Options configures the CSV parser behavior. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each cell.
	TrimSpace bool

	// NormalizeHeaders rewrites header names to lower-case ASCII snake_case.
	NormalizeHeaders bool
}

// Table is a parsed file. Every row has exactly len(Headers) cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads all of r. See Parser.Parse.
func Parse(r io.Reader, opt Options) (*Table, error) {
	return NewParser(opt).Parse(r)
}

// Parse consumes r and returns its header and rows. A leading UTF-8 BOM is
// dropped. Empty input yields ErrNoHeader; a header-only input yields a Table
// with zero rows.
func (p *Parser) Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(newBOMReader(r))
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	// Width is checked below so short rows can be padded.
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, wrapReadErr(err)
	}
	t := &Table{Headers: headerNames(h, p.opt.NormalizeHeaders)}
	width := len(t.Headers)

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapReadErr(err)
		}
		if len(rec) > width {
			line, _ := cr.FieldPos(0)
			return nil, &ParseError{
				Line: line,
				Err:  fmt.Errorf("expected %d fields, saw %d", width, len(rec)),
			}
		}
		row := make([]string, width)
		for i, v := range rec {
			if p.opt.TrimSpace {
				v = strings.TrimSpace(v)
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// wrapReadErr lifts encoding/csv errors into ParseError so callers see one
// error shape with a line number.
func wrapReadErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("read csv: %w", err)
}
