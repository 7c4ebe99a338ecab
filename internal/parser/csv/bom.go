package csv

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// newBOMReader decodes r as UTF-8, dropping a leading byte order mark. A
// UTF-16 BOM switches decoding to UTF-16 so exported spreadsheets still parse.
func newBOMReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
