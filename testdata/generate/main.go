// Generates synthetic Amazon report fixtures: a tab-delimited fulfillment
// log, a unified transaction export with a preamble before the header row,
// and the two deferred transaction exports. Deterministic (fixed seed) so the
// fixtures are stable across regenerations.
package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/sellerledger/reconciler/internal/domain"
)

const targetYear = 2024

const targetMonth = time.November

func main() {
	rng := rand.New(rand.NewSource(42))
	baseDir := findTestdataDir()

	orderIDs := make([]string, 40)
	for i := range orderIDs {
		orderIDs[i] = fmt.Sprintf("112-%07d-%07d", rng.Intn(10000000), rng.Intn(10000000))
	}

	writeFulfillment(baseDir, rng, orderIDs)
	writeTransactions(baseDir, rng, orderIDs)

	log.Printf("Fixtures written to %s", baseDir)
}

// writeFulfillment emits the fulfillment log: tab-delimited, date at column
// index 2, no preamble. The first 30 order ids are fulfilled; the rest are
// left out so some Order transactions end up unmatched.
func writeFulfillment(dir string, rng *rand.Rand, orderIDs []string) {
	f := mustCreate(filepath.Join(dir, "fulfillment.txt"))
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'
	must(w.Write([]string{"amazon-order-id", "merchant-order-id", "purchase-date", "sku", "quantity"}))

	for i, id := range orderIDs[:30] {
		day := rng.Intn(28) + 1
		must(w.Write([]string{
			id,
			fmt.Sprintf("M-%04d", i+1),
			fmt.Sprintf("%d-%02d-%02dT%02d:%02d:00+00:00", targetYear, targetMonth, day, rng.Intn(24), rng.Intn(60)),
			fmt.Sprintf("SKU-%03d", rng.Intn(12)+1),
			fmt.Sprintf("%d", rng.Intn(3)+1),
		}))
	}
	w.Flush()
	must(w.Error())
}

func writeTransactions(dir string, rng *rand.Rand, orderIDs []string) {
	writeExport(dir, "unified.csv", rng, orderIDs[:25], true)
	writeExport(dir, "standard_deferred.csv", rng, orderIDs[25:33], false)
	writeExport(dir, "invoiced_deferred.csv", rng, orderIDs[33:], false)
}

// writeExport emits a transaction export: preamble lines, then the header row
// containing "date/time", then data rows. Unified additionally carries
// non-order rows (refunds, fees, transfers).
func writeExport(dir, name string, rng *rand.Rand, orderIDs []string, unified bool) {
	f := mustCreate(filepath.Join(dir, name))
	defer f.Close()

	fmt.Fprintln(f, "\"Includes Amazon Marketplace, Fulfillment by Amazon (FBA), and Amazon Webstore transactions\"")
	fmt.Fprintln(f, "\"All amounts in USD, unless specified\"")

	w := csv.NewWriter(f)
	header := append([]string{
		"date/time", "settlement id", "type", "order id", "sku", "description",
		"quantity", "marketplace", "account type", "fulfillment",
	}, domain.MonetaryColumns...)
	must(w.Write(header))

	row := func(day int, typ, orderID, desc, fulfillment string, amounts map[string]string) {
		fields := make([]string, len(header))
		fields[0] = fmt.Sprintf("%s %d, %d %d:%02d:%02d PM PST",
			targetMonth.String()[:3], day, targetYear, rng.Intn(11)+1, rng.Intn(60), rng.Intn(60))
		fields[2] = typ
		fields[3] = orderID
		fields[5] = desc
		fields[7] = "amazon.com"
		fields[8] = "Standard Orders"
		fields[9] = fulfillment
		for col, v := range amounts {
			for i, h := range header {
				if h == col {
					fields[i] = v
				}
			}
		}
		must(w.Write(fields))
	}

	for _, id := range orderIDs {
		channel := domain.FulfillmentAmazon
		if rng.Intn(2) == 0 {
			channel = domain.FulfillmentSeller
		}
		sale := float64(rng.Intn(15000)+500) / 100
		row(rng.Intn(28)+1, domain.TxnOrder, id, fmt.Sprintf("Item %d", rng.Intn(50)), channel, map[string]string{
			"product sales": fmt.Sprintf("%.2f", sale),
			"selling fees":  fmt.Sprintf("%.2f", -sale*0.15),
			"total":         fmt.Sprintf("%.2f", sale*0.85),
		})
	}

	if unified {
		row(5, domain.TxnRefund, "", "Item 3", domain.FulfillmentAmazon, map[string]string{
			"product sales": "-42.99", "total": "-42.99",
		})
		row(9, domain.TxnServiceFee, "", domain.DescAdvertising, "", map[string]string{
			"total": "-310.25",
		})
		row(12, domain.TxnServiceFee, "", "Subscription", "", map[string]string{
			"total": "-39.99",
		})
		row(14, domain.TxnFBAInventoryFee, "", domain.DescStorageFee, "", map[string]string{
			"total": "-87.60",
		})
		row(15, domain.TxnFBAInventoryFee, "", domain.DescPartneredCarrier, "", map[string]string{
			"total": "-123.40",
		})
		row(20, domain.TxnTransfer, "", "Transfer to bank account", "", map[string]string{
			"total": "-1,250.00",
		})
		row(22, domain.TxnSafeT, "", "SAFE-T claim", "", map[string]string{
			"total": "18.75",
		})
	}

	w.Flush()
	must(w.Error())
}

func findTestdataDir() string {
	for _, dir := range []string{"testdata", filepath.Join("..", "..", "testdata")} {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return dir
		}
	}
	log.Fatal("testdata directory not found; run from the repository root")
	return ""
}

func mustCreate(path string) *os.File {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("create %s: %v", path, err)
	}
	return f
}

func must(err error) {
	if err != nil {
		log.Fatalf("write fixture: %v", err)
	}
}
