package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/sellerledger/reconciler/internal/domain"
)

// FrameCSV encodes a frame as comma-delimited text, header row first, rows in
// frame order.
func FrameCSV(frame *domain.Frame) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(frame.Columns()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for r := 0; r < frame.Rows(); r++ {
		cells := frame.Row(r)
		record := make([]string, len(cells))
		for i, c := range cells {
			record[i] = c.Display()
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return buf.Bytes(), nil
}
