// Package normalize coerces textual report fields into typed cells. Every
// per-cell failure is soft: the cell becomes the empty marker and the caller
// decides whether a wholly-unusable column is fatal.
package normalize

import (
	"regexp"
	"time"

	"github.com/sellerledger/reconciler/internal/domain"
)

// tzSuffix matches a trailing space plus 3-4 uppercase-letter timezone
// abbreviation ("... 10:15:00 PST").
var tzSuffix = regexp.MustCompile(` [A-Z]{3,4}$`)

// dateFormats is the parse ladder for Amazon report timestamps.
var dateFormats = []string{
	"Jan 2, 2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"1/2/2006",
}

// Dates coerces the named column to timestamps in place. Already-typed cells
// are left alone, so the operation is idempotent. Returns
// *domain.MissingColumnError when the column is structurally absent.
func Dates(frame *domain.Frame, column string) error {
	if !frame.HasColumn(column) {
		return &domain.MissingColumnError{Column: column}
	}

	cells := frame.Column(column)
	for i, c := range cells {
		if c.Kind != domain.CellString {
			continue
		}
		if t, ok := parseDate(c.Str); ok {
			cells[i] = domain.TimeCell(t)
		} else {
			cells[i] = domain.Cell{}
		}
	}
	frame.ReplaceColumn(column, cells)
	return nil
}

func parseDate(s string) (time.Time, bool) {
	s = tzSuffix.ReplaceAllString(s, "")
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FilterByPeriod returns the rows whose date in the named column falls in the
// given month and year. Rows whose date failed to normalize are excluded.
func FilterByPeriod(frame *domain.Frame, column string, month time.Month, year int) (*domain.Frame, error) {
	if !frame.HasColumn(column) {
		return nil, &domain.MissingColumnError{Column: column}
	}
	return frame.FilterRows(func(row int) bool {
		c := frame.Cell(row, column)
		return c.Kind == domain.CellTime && c.Time.Month() == month && c.Time.Year() == year
	}), nil
}
