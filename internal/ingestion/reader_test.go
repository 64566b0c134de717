package ingestion

import (
	"errors"
	"strings"
	"testing"

	"github.com/sellerledger/reconciler/internal/domain"
)

func TestReadLocatesHeaderCaseInsensitive(t *testing.T) {
	data := []byte("foo\nbar Date/Time baz\n1,2,3\n")

	frame, err := Read(data, "date/time")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	cols := frame.Columns()
	if len(cols) != 1 || cols[0] != "bar Date/Time baz" {
		t.Errorf("unexpected header: %v", cols)
	}
	if frame.Rows() != 1 {
		t.Errorf("want 1 data row, got %d", frame.Rows())
	}
}

func TestReadSkipsPreamble(t *testing.T) {
	data := []byte(strings.Join([]string{
		`"Includes Amazon Marketplace transactions"`,
		`"All amounts in USD"`,
		`date/time,type,order id,product sales,total`,
		`"Nov 2, 2024 10:15:00 AM PST",Order,112-111,"1,234.50","1,234.50"`,
		`"Nov 3, 2024 9:00:00 AM PST",Refund,112-222,-10.00,-10.00`,
	}, "\n"))

	frame, err := Read(data, "")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := frame.Columns(); len(got) != 5 || got[0] != "date/time" {
		t.Errorf("unexpected columns: %v", got)
	}
	if frame.Rows() != 2 {
		t.Fatalf("want 2 rows, got %d", frame.Rows())
	}
	if got := frame.Cell(0, "product sales").Str; got != "1,234.50" {
		t.Errorf("want raw %q, got %q", "1,234.50", got)
	}
	if got := frame.Cell(1, "type").Str; got != "Refund" {
		t.Errorf("want Refund, got %q", got)
	}
}

func TestReadTolerantOfBOM(t *testing.T) {
	data := []byte("\ufeffdate/time,type\n2024-11-01,Order\n")

	frame, err := Read(data, "date/time")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := frame.Columns()[0]; got != "date/time" {
		t.Errorf("BOM leaked into header: %q", got)
	}
}

func TestReadHeaderNotFound(t *testing.T) {
	_, err := Read([]byte("foo\nbar\nbaz\n"), "date/time")

	var headerErr *domain.HeaderNotFoundError
	if !errors.As(err, &headerErr) {
		t.Fatalf("want HeaderNotFoundError, got %v", err)
	}
	if headerErr.Marker != "date/time" {
		t.Errorf("want marker date/time, got %q", headerErr.Marker)
	}
}

func TestReadEmptyReport(t *testing.T) {
	_, err := Read([]byte("preamble\ndate/time,type\n"), "")

	var emptyErr *domain.EmptyInputError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("want EmptyInputError, got %v", err)
	}
}

func TestReadDelimitedSniffsTab(t *testing.T) {
	data := []byte("amazon-order-id\tmerchant-order-id\tpurchase-date\n112-111\tM-1\t2024-11-02\n112-222\tM-2\t2024-11-05\n")

	frame, err := ReadDelimited(data)
	if err != nil {
		t.Fatalf("ReadDelimited failed: %v", err)
	}
	if got := frame.Columns(); len(got) != 3 || got[2] != "purchase-date" {
		t.Errorf("unexpected columns: %v", got)
	}
	if frame.Rows() != 2 {
		t.Errorf("want 2 rows, got %d", frame.Rows())
	}
	if got := frame.Cell(1, "amazon-order-id").Str; got != "112-222" {
		t.Errorf("want 112-222, got %q", got)
	}
}

func TestReadDelimitedSniffsPipe(t *testing.T) {
	data := []byte("a|b|c\n1|2|3\n")

	frame, err := ReadDelimited(data)
	if err != nil {
		t.Fatalf("ReadDelimited failed: %v", err)
	}
	if got := frame.Cell(0, "c").Str; got != "3" {
		t.Errorf("want 3, got %q", got)
	}
}

func TestReadShortRowsPadded(t *testing.T) {
	data := []byte("date/time,type,total\n2024-11-01,Order\n")

	frame, err := Read(data, "")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if c := frame.Cell(0, "total"); !c.IsEmpty() {
		t.Errorf("want empty cell for missing field, got %+v", c)
	}
}
