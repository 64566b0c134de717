// Package ingestion turns raw report bytes into frames. Amazon transaction
// exports carry a preamble before the real header row, so the header is
// located by scanning for a marker string; the fulfillment log is plain
// delimited text read as-is.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/sellerledger/reconciler/internal/domain"
)

// Read parses a report whose header row is the first line containing
// headerMarker (case-insensitive substring; domain.DefaultHeaderMarker when
// empty). The delimiter is sniffed from the first data line. Returns
// *domain.HeaderNotFoundError when no line matches and *domain.EmptyInputError
// when the report has a header but no data rows.
func Read(data []byte, headerMarker string) (*domain.Frame, error) {
	if headerMarker == "" {
		headerMarker = domain.DefaultHeaderMarker
	}
	marker := strings.ToLower(headerMarker)

	lines := splitLines(decode(data))

	headerAt := -1
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), marker) {
			headerAt = i
			break
		}
	}
	if headerAt == -1 {
		return nil, &domain.HeaderNotFoundError{Marker: headerMarker}
	}

	delim := ','
	if headerAt+1 < len(lines) {
		delim = sniffDelimiter(lines[headerAt+1])
	} else {
		delim = sniffDelimiter(lines[headerAt])
	}

	return parse(lines[headerAt:], delim)
}

// ReadDelimited parses already-well-formed delimited input whose first line is
// the header. The delimiter is sniffed from the header line. Used for the
// fulfillment log, whose date column is addressed purely by position
// (domain.FulfillmentDateIndex) rather than by a scanned label.
func ReadDelimited(data []byte) (*domain.Frame, error) {
	lines := splitLines(decode(data))
	if len(lines) == 0 {
		return nil, &domain.EmptyInputError{}
	}
	return parse(lines, sniffDelimiter(lines[0]))
}

func parse(lines []string, delim rune) (*domain.Frame, error) {
	r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	frame := domain.NewFrame(header)
	lineNum := 1
	for {
		lineNum++
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		// Field positions follow the header row; extras beyond the
		// header width are dropped, short rows pad with empty cells.
		cells := make([]domain.Cell, len(header))
		for i := range header {
			if i < len(row) {
				if v := strings.TrimSpace(row[i]); v != "" {
					cells[i] = domain.StringCell(v)
				}
			}
		}
		frame.AppendRow(cells)
	}

	if frame.Rows() == 0 {
		return nil, &domain.EmptyInputError{}
	}
	return frame, nil
}

// decode tolerates a UTF-8 byte-order mark.
func decode(data []byte) string {
	return strings.TrimPrefix(string(data), "\ufeff")
}

func splitLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := raw[:0]
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// sniffDelimiter picks the most frequent candidate delimiter in a line,
// defaulting to comma.
func sniffDelimiter(line string) rune {
	candidates := []rune{',', '\t', ';', '|'}
	best := ','
	bestCount := 0
	for _, c := range candidates {
		if n := strings.Count(line, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}
