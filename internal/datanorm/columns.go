package datanorm

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrMissingColumns is returned when the source lacks a required column.
var ErrMissingColumns = errors.New("source is missing required columns")

// NormalizeColumnName trims surrounding whitespace and lower-cases.
func NormalizeColumnName(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

// columnIndex maps normalized column names to their first position.
type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		name := NormalizeColumnName(h)
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

func (c columnIndex) require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := c[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}
