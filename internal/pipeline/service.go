// Package pipeline orchestrates one reconciliation run: ingest the reports,
// normalize, partition matched/unmatched, aggregate into P&L line items and
// serialise the spreadsheet artifacts. One invocation, synchronous, all
// frames transient; a fatal error aborts the run with no partial artifacts.
package pipeline

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sellerledger/reconciler/internal/aggregate"
	"github.com/sellerledger/reconciler/internal/domain"
	"github.com/sellerledger/reconciler/internal/ingestion"
	"github.com/sellerledger/reconciler/internal/normalize"
	"github.com/sellerledger/reconciler/internal/reconcile"
	"github.com/sellerledger/reconciler/internal/report"
	"github.com/sellerledger/reconciler/internal/repository"
)

// RunInput carries the pipeline entry-point parameters: the target period,
// the four report byte streams, and the optional external P&L workbook.
type RunInput struct {
	Month int
	Year  int

	Fulfillment []byte
	Unified     []byte
	Standard    []byte
	Invoiced    []byte

	// Template, when non-nil, is an external P&L workbook with a "Summary"
	// sheet; the external cell layout is used for it.
	Template []byte
}

// Service runs the pipeline and records the result for re-download.
type Service struct {
	store *repository.RunStore
}

// NewService creates a pipeline service. store may be nil, in which case
// results are returned but not retained.
func NewService(store *repository.RunStore) *Service {
	return &Service{store: store}
}

// Run executes the full pipeline and returns the run result. The result is
// also saved to the store, replacing the previous run.
func (s *Service) Run(in RunInput) (*domain.RunResult, error) {
	if in.Month < 1 || in.Month > 12 {
		return nil, fmt.Errorf("month must be 1-12, got %d", in.Month)
	}
	if in.Year < 2000 || in.Year > 2100 {
		return nil, fmt.Errorf("year %d out of range", in.Year)
	}

	var warnings []string

	// Fulfillment log: fixed positional date column, no header scan.
	fulfillment, err := ingestion.ReadDelimited(in.Fulfillment)
	if err != nil {
		return nil, fmt.Errorf("fulfillment report: %w", err)
	}
	cols := fulfillment.Columns()
	if len(cols) <= domain.FulfillmentDateIndex {
		return nil, &domain.MissingColumnError{
			Column: fmt.Sprintf("date (column index %d)", domain.FulfillmentDateIndex),
			Frame:  "fulfillment report",
		}
	}
	dateCol := cols[domain.FulfillmentDateIndex]
	if err := normalize.Dates(fulfillment, dateCol); err != nil {
		return nil, fmt.Errorf("fulfillment report: %w", err)
	}
	if n := validDates(fulfillment, dateCol); n == 0 {
		warnings = append(warnings, fmt.Sprintf(
			"no date in fulfillment column %q could be parsed", dateCol))
	}

	unified, err := s.readTransactions(in.Unified, "unified transaction report")
	if err != nil {
		return nil, err
	}
	standard, err := s.readTransactions(in.Standard, "standard orders deferred report")
	if err != nil {
		return nil, err
	}
	invoiced, err := s.readTransactions(in.Invoiced, "invoiced orders deferred report")
	if err != nil {
		return nil, err
	}

	// Copy-on-combine: the source frames stay untouched.
	combined := domain.Concat(unified, standard, invoiced)
	warnings = append(warnings, normalize.Money(combined)...)

	matched, unmatched, err := reconcile.Partition(combined, fulfillment, reconcile.DefaultPartitionOptions())
	if err != nil {
		return nil, err
	}

	// P&L input: matched orders plus every non-order transaction. Raw Order
	// rows are excluded from the second half so matched orders are not
	// counted twice, and Transfer rows are pure cash movement, not P&L.
	// A null type is neither, so the row stays in.
	rest := combined.FilterRows(func(row int) bool {
		t := combined.Cell(row, domain.ColType)
		return t.Kind != domain.CellString ||
			(t.Str != domain.TxnOrder && t.Str != domain.TxnTransfer)
	})
	pnlInput := domain.Concat(matched, rest)
	period, err := normalize.FilterByPeriod(pnlInput, domain.ColDateTime, time.Month(in.Month), in.Year)
	if err != nil {
		return nil, err
	}

	grouped, err := aggregate.GroupAndSum(period, domain.MonetaryColumns, aggregate.GroupKeys, nil)
	if err != nil {
		return nil, err
	}
	pnl, err := aggregate.DerivePnL(grouped)
	if err != nil {
		return nil, err
	}

	layout := report.LayoutBundled
	if in.Template != nil {
		layout = report.LayoutExternal
	}
	title := fmt.Sprintf("Amazon P&L - %s %d", time.Month(in.Month), in.Year)
	summaryXLSX, err := report.PopulateTemplate(in.Template, layout, title, pnl, grouped)
	if err != nil {
		return nil, fmt.Errorf("populate summary: %w", err)
	}

	nonOrderXLSX, err := s.nonOrderArtifact(unified, in.Month, in.Year)
	if err != nil {
		return nil, err
	}

	combinedCSV, err := report.FrameCSV(combined)
	if err != nil {
		return nil, fmt.Errorf("encode combined: %w", err)
	}
	matchedCSV, err := report.FrameCSV(matched)
	if err != nil {
		return nil, fmt.Errorf("encode matched: %w", err)
	}
	unmatchedCSV, err := report.FrameCSV(unmatched)
	if err != nil {
		return nil, fmt.Errorf("encode unmatched: %w", err)
	}

	res := &domain.RunResult{
		ID:        uuid.NewString(),
		Month:     in.Month,
		Year:      in.Year,
		CreatedAt: time.Now().UTC(),
		Counts: domain.RunCounts{
			FulfillmentRows: fulfillment.Rows(),
			CombinedRows:    combined.Rows(),
			MatchedRows:     matched.Rows(),
			UnmatchedRows:   unmatched.Rows(),
			GroupedRows:     grouped.Rows(),
		},
		Warnings: warnings,
		PnL:      pnl,
		Artifacts: map[domain.ArtifactKind][]byte{
			domain.ArtifactCombinedCSV:  combinedCSV,
			domain.ArtifactMatchedCSV:   matchedCSV,
			domain.ArtifactUnmatchedCSV: unmatchedCSV,
			domain.ArtifactSummaryXLSX:  summaryXLSX,
			domain.ArtifactNonOrderXLSX: nonOrderXLSX,
		},
	}

	if s.store != nil {
		if err := s.store.SaveRun(res); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
	}

	log.Printf("[pipeline] Run %s complete: %d combined, %d matched, %d unmatched, %d grouped, %d warnings",
		res.ID, combined.Rows(), matched.Rows(), unmatched.Rows(), grouped.Rows(), len(warnings))

	return res, nil
}

// readTransactions reads a header-scanned transaction export and normalizes
// its date/time column.
func (s *Service) readTransactions(data []byte, name string) (*domain.Frame, error) {
	frame, err := ingestion.Read(data, domain.DefaultHeaderMarker)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := normalize.Dates(frame, domain.ColDateTime); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return frame, nil
}

// nonOrderArtifact builds the second workbook: the unified report's non-order
// transactions for the target period, grouped.
func (s *Service) nonOrderArtifact(unified *domain.Frame, month, year int) ([]byte, error) {
	period, err := normalize.FilterByPeriod(unified, domain.ColDateTime, time.Month(month), year)
	if err != nil {
		return nil, err
	}
	grouped, err := aggregate.GroupAndSum(period, domain.MonetaryColumns, aggregate.GroupKeys,
		map[string]bool{domain.TxnOrder: true})
	if err != nil {
		return nil, err
	}
	data, err := report.FrameWorkbook(grouped, "Non-Order Transactions")
	if err != nil {
		return nil, fmt.Errorf("encode non-order workbook: %w", err)
	}
	return data, nil
}

func validDates(frame *domain.Frame, column string) int {
	n := 0
	for r := 0; r < frame.Rows(); r++ {
		if frame.Cell(r, column).Kind == domain.CellTime {
			n++
		}
	}
	return n
}
