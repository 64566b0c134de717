package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sellerledger/reconciler/internal/domain"
	"github.com/sellerledger/reconciler/internal/repository"
)

func fixtureInput() RunInput {
	fulfillment := strings.Join([]string{
		"amazon-order-id\tmerchant-order-id\tpurchase-date\tsku",
		"111-1\tM-1\t2024-11-02T10:00:00+00:00\tSKU-1",
		"222-2\tM-2\t2024-11-04T11:00:00+00:00\tSKU-2",
	}, "\n")

	header := "date/time,type,order id,description,fulfillment,product sales,selling fees,fba fees,promotional rebates,total"

	unified := strings.Join([]string{
		`"Includes Amazon Marketplace transactions"`,
		header,
		`"Nov 2, 2024 10:15:00 AM PST",Order,111-1,Widget,Amazon,"1,000.00",-150.00,-50.00,0,800.00`,
		`"Nov 3, 2024 1:00:00 PM PST",Order,999-9,Widget,Seller,100.00,-15.00,,,85.00`,
		`"Nov 5, 2024 2:00:00 PM PST",Refund,111-1,Widget,Amazon,-50.00,,,,-50.00`,
		`"Nov 9, 2024 3:00:00 PM PST",Service Fee,,Cost of Advertising,,,,,,-200.00`,
		`"Nov 20, 2024 4:00:00 PM PST",Transfer,,Transfer to bank,,,,,,-500.00`,
		`"Oct 9, 2024 3:00:00 PM PST",Adjustment,,Reimbursement,,,,,,10.00`,
	}, "\n")

	standard := strings.Join([]string{
		"some preamble",
		header,
		`"Nov 4, 2024 11:00:00 AM PST",Order,222-2,Widget,Seller,500.00,-75.00,,,425.00`,
	}, "\n")

	invoiced := strings.Join([]string{
		header,
		`"Nov 6, 2024 11:00:00 AM PST",Order,333-3,Widget,Seller,50.00,-7.50,,,42.50`,
	}, "\n")

	return RunInput{
		Month:       11,
		Year:        2024,
		Fulfillment: []byte(fulfillment),
		Unified:     []byte(unified),
		Standard:    []byte(standard),
		Invoiced:    []byte(invoiced),
	}
}

func TestRunEndToEnd(t *testing.T) {
	svc := NewService(nil)

	res, err := svc.Run(fixtureInput())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Counts.FulfillmentRows != 2 {
		t.Errorf("fulfillment rows: want 2, got %d", res.Counts.FulfillmentRows)
	}
	if res.Counts.CombinedRows != 8 {
		t.Errorf("combined rows: want 8, got %d", res.Counts.CombinedRows)
	}
	// 111-1 and 222-2 orders match the log; 999-9 and 333-3 orders do not,
	// and the refund on 111-1 is not an Order.
	if res.Counts.MatchedRows != 2 {
		t.Errorf("matched rows: want 2, got %d", res.Counts.MatchedRows)
	}
	if res.Counts.UnmatchedRows != 6 {
		t.Errorf("unmatched rows: want 6, got %d", res.Counts.UnmatchedRows)
	}
	// Grouped P&L rows: Amazon orders, Seller orders, Amazon refunds,
	// advertising. The October adjustment and the transfer are filtered out.
	if res.Counts.GroupedRows != 4 {
		t.Errorf("grouped rows: want 4, got %d", res.Counts.GroupedRows)
	}

	p := res.PnL
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"fba_sales", p.FBASales, "1000.00"},
		{"fbm_sales", p.FBMSales, "500.00"},
		{"fba_returns", p.FBAReturns, "-50.00"},
		{"fba_commissions", p.FBACommissions, "-150.00"},
		{"fbm_commissions", p.FBMCommissions, "-75.00"},
		{"advertising", p.Advertising, "-200.00"},
		{"service_fees_less_advertising", p.ServiceFeesLessAdvertising, "0"},
		{"fba_shipping", p.FBAShipping, "-50.00"},
		{"total_unaccounted", p.TotalUnaccounted, "0"},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("%s: want %s, got %s", c.name, c.want, c.got)
		}
	}

	for _, kind := range domain.ArtifactKinds {
		if len(res.Artifacts[kind]) == 0 {
			t.Errorf("artifact %s missing or empty", kind)
		}
	}

	matched := string(res.Artifacts[domain.ArtifactMatchedCSV])
	if !strings.Contains(matched, "111-1") || !strings.Contains(matched, "222-2") {
		t.Errorf("matched artifact missing orders: %q", matched)
	}
	if strings.Contains(matched, "999-9") {
		t.Errorf("unmatched order leaked into matched artifact")
	}
}

func TestRunKeepsBlankTypeRows(t *testing.T) {
	svc := NewService(nil)

	in := fixtureInput()
	in.Unified = append(in.Unified, []byte(
		"\n\"Nov 7, 2024 1:00:00 PM PST\",,,Mystery credit,,,,,,77.00")...)

	res, err := svc.Run(in)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The row is no known type, so no line item claims it; it must still
	// reach the P&L as unaccounted residue rather than vanish.
	want := decimal.RequireFromString("77.00")
	if !res.PnL.TotalUnaccounted.Equal(want) {
		t.Errorf("total_unaccounted: want %s, got %s", want, res.PnL.TotalUnaccounted)
	}
}

func TestRunSavesResultToStore(t *testing.T) {
	store, err := repository.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	svc := NewService(store)
	res, err := svc.Run(fixtureInput())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	latest, err := store.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if latest.ID != res.ID {
		t.Errorf("stored run id %s, want %s", latest.ID, res.ID)
	}

	data, err := store.Artifact(res.ID, domain.ArtifactSummaryXLSX)
	if err != nil {
		t.Fatalf("summary artifact: %v", err)
	}
	if len(data) == 0 {
		t.Error("summary artifact empty")
	}
}

func TestRunRejectsBadPeriod(t *testing.T) {
	svc := NewService(nil)

	in := fixtureInput()
	in.Month = 13
	if _, err := svc.Run(in); err == nil {
		t.Error("want error for month 13")
	}

	in = fixtureInput()
	in.Year = 99
	if _, err := svc.Run(in); err == nil {
		t.Error("want error for year 99")
	}
}

func TestRunHeaderNotFoundAbortsRun(t *testing.T) {
	svc := NewService(nil)

	in := fixtureInput()
	in.Unified = []byte("no header here\njust,some,rows\n")

	_, err := svc.Run(in)
	var headerErr *domain.HeaderNotFoundError
	if !errors.As(err, &headerErr) {
		t.Fatalf("want HeaderNotFoundError, got %v", err)
	}
	if !strings.Contains(err.Error(), "unified") {
		t.Errorf("error should name the report: %v", err)
	}
}

func TestRunEmptyReportAbortsRun(t *testing.T) {
	svc := NewService(nil)

	in := fixtureInput()
	in.Invoiced = []byte("date/time,type,order id\n")

	_, err := svc.Run(in)
	var emptyErr *domain.EmptyInputError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("want EmptyInputError, got %v", err)
	}
}

func TestRunMissingFulfillmentDateColumn(t *testing.T) {
	svc := NewService(nil)

	in := fixtureInput()
	in.Fulfillment = []byte("amazon-order-id\tmerchant-order-id\n111-1\tM-1\n")

	_, err := svc.Run(in)
	var colErr *domain.MissingColumnError
	if !errors.As(err, &colErr) {
		t.Fatalf("want MissingColumnError, got %v", err)
	}
}

func TestRunUnexpectedColumnWarning(t *testing.T) {
	svc := NewService(nil)

	in := fixtureInput()
	in.Invoiced = []byte(strings.Join([]string{
		"date/time,type,order id,description,fulfillment,product sales,mystery fee,total",
		`"Nov 6, 2024 11:00:00 AM PST",Order,333-3,Widget,Seller,50.00,1.00,42.50`,
	}, "\n"))

	res, err := svc.Run(in)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "mystery fee") {
			found = true
		}
	}
	if !found {
		t.Errorf("want a warning naming the unexpected column, got %v", res.Warnings)
	}
}
