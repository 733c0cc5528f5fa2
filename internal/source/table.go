// Package source fetches the sample collection sheet and decodes it into
// an untyped RawTable. It knows nothing about the columns it carries.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrFetch wraps every transport, status or storage failure.
	ErrFetch = errors.New("fetch source")
	// ErrEmptySource is returned when the export has no header row.
	ErrEmptySource = errors.New("source has no header row")
)

// Fetcher retrieves the current contents of the remote sheet.
type Fetcher interface {
	Fetch(ctx context.Context) (*RawTable, error)
}

// RawTable is the fetched sheet: the header as exported plus one slice of
// cells per data row. Rows may be shorter than the header.
type RawTable struct {
	Header []string
	Rows   [][]string
	// SkippedLines counts malformed lines dropped while decoding.
	SkippedLines int
}

// naTokens are cell values read as missing, matched exactly (no trimming
// or case folding). Sheet exports and hand-typed entries use them for
// "no value".
var naTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNull reports whether v is an NA token.
func IsNull(v string) bool {
	_, ok := naTokens[v]
	return ok
}

// Cell returns row[col] and whether it holds a value. Missing cells,
// empty strings and NA tokens are all null.
func (t *RawTable) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return "", false
	}
	r := t.Rows[row]
	if col >= len(r) || IsNull(r[col]) {
		return "", false
	}
	return r[col], true
}

// ParseCSV decodes a CSV export. Lines the CSV reader rejects and lines
// with more fields than the header are skipped and counted.
func ParseCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmptySource
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	table := &RawTable{Header: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				table.SkippedLines++
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) > len(header) {
			table.SkippedLines++
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, err := io.ReadFull(r, buf)
	if err != nil || n < 3 {
		return io.MultiReader(strings.NewReader(string(buf[:n])), r)
	}
	if buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}
