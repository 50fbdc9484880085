package main

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// invoiceTxn builds a normalized invoice transaction due on the given date.
func invoiceTxn(accountID, due, amt string) Transaction {
	return Transaction{
		AccountID: accountID,
		Kind:      KindInvoice,
		Reference: "INV-" + due,
		Date:      date(due),
		DueDate:   date(due),
		Amount:    amount(amt),
	}
}

// paymentTxn builds a normalized payment transaction (already negative).
func paymentTxn(accountID, day, amt string) Transaction {
	return Transaction{
		AccountID: accountID,
		Kind:      KindPayment,
		Reference: "PAY-" + day,
		Date:      date(day),
		DueDate:   date(day),
		Amount:    amount(amt).Neg(),
	}
}

func TestBuildAgingReportWorkedExample(t *testing.T) {
	transactions := []Transaction{
		invoiceTxn("acct-1", "2024-01-01", "500.00"),
		paymentTxn("acct-1", "2024-01-15", "200.00"),
		invoiceTxn("acct-1", "2024-02-01", "150.00"),
	}
	names := map[string]string{"acct-1": "Greenfield Pharmacy"}

	report := BuildAgingReport(transactions, names, date("2024-03-01"))

	require.Len(t, report.Details, 1)
	row := report.Details[0]
	assert.Equal(t, "acct-1", row.AccountID)
	assert.Equal(t, "Greenfield Pharmacy", row.AccountName)
	assert.True(t, row.Current.IsZero(), "current should be zero, got %s", row.Current)
	assert.True(t, amount("150.00").Equal(row.Days1To30), "days1To30 = %s", row.Days1To30)
	assert.True(t, amount("300.00").Equal(row.Days31To60), "days31To60 = %s", row.Days31To60)
	assert.True(t, row.Days61To90.IsZero())
	assert.True(t, row.Over90.IsZero())
	assert.True(t, amount("450.00").Equal(row.Total), "total = %s", row.Total)

	// Totals row mirrors the single detail row
	assert.True(t, amount("450.00").Equal(report.Totals.Total))
	assert.True(t, amount("150.00").Equal(report.Totals.Days1To30))
	assert.True(t, amount("300.00").Equal(report.Totals.Days31To60))
}

func TestBuildAgingReportBoundaryExactness(t *testing.T) {
	asOf := date("2024-06-30")

	cases := []struct {
		ageDays int
		bucket  string
	}{
		{-5, "current"},
		{0, "current"},
		{1, "days1To30"},
		{30, "days1To30"},
		{31, "days31To60"},
		{60, "days31To60"},
		{61, "days61To90"},
		{90, "days61To90"},
		{91, "over90"},
		{400, "over90"},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("age %d lands in %s", tc.ageDays, tc.bucket), func(t *testing.T) {
			due := asOf.AddDate(0, 0, -tc.ageDays).Format(dateLayout)
			txn := invoiceTxn("acct-1", due, "100.00")
			// A not-yet-due invoice is still issued before the reference date.
			txn.Date = date("2024-01-01")
			report := BuildAgingReport(
				[]Transaction{txn},
				map[string]string{"acct-1": "Acct"},
				asOf,
			)

			require.Len(t, report.Details, 1)
			row := report.Details[0]

			got := map[string]decimal.Decimal{
				"current":    row.Current,
				"days1To30":  row.Days1To30,
				"days31To60": row.Days31To60,
				"days61To90": row.Days61To90,
				"over90":     row.Over90,
			}
			for bucket, value := range got {
				if bucket == tc.bucket {
					assert.True(t, amount("100.00").Equal(value), "expected bucket %s to hold the amount, got %s", bucket, value)
				} else {
					assert.True(t, value.IsZero(), "expected bucket %s to be zero, got %s", bucket, value)
				}
			}
		})
	}
}

// TestBuildAgingReportBucketCoverage checks the exact-sum invariant over
// randomized ledgers: buckets always sum to the row total, and the totals row
// aggregates the details exactly.
func TestBuildAgingReportBucketCoverage(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	asOf := date("2025-01-15")

	for trial := 0; trial < 50; trial++ {
		var transactions []Transaction
		names := make(map[string]string)

		accountCount := 1 + rng.Intn(6)
		for a := 0; a < accountCount; a++ {
			accountID := fmt.Sprintf("acct-%d", a)
			names[accountID] = fmt.Sprintf("Account %d", a)

			invoiceCount := 1 + rng.Intn(8)
			for i := 0; i < invoiceCount; i++ {
				cents := 1 + rng.Intn(500000)
				due := asOf.AddDate(0, 0, -rng.Intn(200)+10).Format(dateLayout)
				transactions = append(transactions,
					invoiceTxn(accountID, due, decimal.New(int64(cents), -2).String()))
			}
			paymentCount := rng.Intn(4)
			for p := 0; p < paymentCount; p++ {
				cents := 1 + rng.Intn(300000)
				day := asOf.AddDate(0, 0, -rng.Intn(100)).Format(dateLayout)
				transactions = append(transactions,
					paymentTxn(accountID, day, decimal.New(int64(cents), -2).String()))
			}
		}

		report := BuildAgingReport(transactions, names, asOf)

		netByAccount := make(map[string]decimal.Decimal)
		for _, txn := range transactions {
			if txn.Date.After(asOf) {
				continue
			}
			netByAccount[txn.AccountID] = netByAccount[txn.AccountID].Add(txn.Amount)
		}

		var grand decimal.Decimal
		for _, row := range report.Details {
			sum := row.Current.Add(row.Days1To30).Add(row.Days31To60).Add(row.Days61To90).Add(row.Over90)
			require.True(t, sum.Equal(row.Total),
				"trial %d: buckets sum to %s but total is %s", trial, sum, row.Total)
			require.True(t, netByAccount[row.AccountID].Equal(row.Total),
				"trial %d: ledger nets to %s but total is %s", trial, netByAccount[row.AccountID], row.Total)
			grand = grand.Add(row.Total)
		}

		totalsSum := report.Totals.Current.Add(report.Totals.Days1To30).
			Add(report.Totals.Days31To60).Add(report.Totals.Days61To90).Add(report.Totals.Over90)
		require.True(t, totalsSum.Equal(report.Totals.Total), "trial %d: totals row does not cover", trial)
		require.True(t, grand.Equal(report.Totals.Total), "trial %d: totals row does not match details", trial)
	}
}

// TestBuildAgingReportIgnoresActivityAfterReferenceDate checks that a
// backdated report reflects only the ledger as it stood on the reference date.
func TestBuildAgingReportIgnoresActivityAfterReferenceDate(t *testing.T) {
	transactions := []Transaction{
		invoiceTxn("acct-1", "2024-01-01", "500.00"),
		invoiceTxn("acct-1", "2024-06-01", "999.00"), // not yet recorded as of March
	}
	names := map[string]string{"acct-1": "Acct"}

	report := BuildAgingReport(transactions, names, date("2024-03-01"))

	require.Len(t, report.Details, 1)
	row := report.Details[0]
	assert.True(t, row.Current.IsZero(), "current = %s", row.Current)
	assert.True(t, amount("500.00").Equal(row.Total), "total = %s", row.Total)
	assert.True(t, amount("500.00").Equal(report.Totals.Total))
}

// A payment dated after the reference date must not net against invoices that
// were already open on that date.
func TestBuildAgingReportIgnoresFuturePayments(t *testing.T) {
	transactions := []Transaction{
		invoiceTxn("acct-1", "2024-01-01", "500.00"),
		paymentTxn("acct-1", "2024-04-15", "500.00"),
	}
	names := map[string]string{"acct-1": "Acct"}

	report := BuildAgingReport(transactions, names, date("2024-03-01"))

	require.Len(t, report.Details, 1)
	row := report.Details[0]
	assert.True(t, amount("500.00").Equal(row.Days31To60), "days31To60 = %s", row.Days31To60)
	assert.True(t, amount("500.00").Equal(row.Total))
}

func TestBuildAgingReportOmitsSettledAccounts(t *testing.T) {
	transactions := []Transaction{
		invoiceTxn("settled", "2024-01-01", "250.00"),
		paymentTxn("settled", "2024-01-20", "250.00"),
		invoiceTxn("open", "2024-02-01", "80.00"),
	}
	names := map[string]string{"settled": "Settled", "open": "Open"}

	report := BuildAgingReport(transactions, names, date("2024-03-01"))

	require.Len(t, report.Details, 1)
	assert.Equal(t, "open", report.Details[0].AccountID)
}

func TestBuildAgingReportOverpaidAccount(t *testing.T) {
	transactions := []Transaction{
		invoiceTxn("acct-1", "2024-01-01", "100.00"),
		paymentTxn("acct-1", "2024-01-10", "160.00"),
	}
	names := map[string]string{"acct-1": "Overpaid"}

	report := BuildAgingReport(transactions, names, date("2024-03-01"))

	require.Len(t, report.Details, 1)
	row := report.Details[0]
	// Surplus credit shows as a negative current balance; coverage still holds.
	assert.True(t, amount("-60.00").Equal(row.Current), "current = %s", row.Current)
	assert.True(t, amount("-60.00").Equal(row.Total), "total = %s", row.Total)
	assert.True(t, row.Days1To30.IsZero())
	assert.True(t, row.Over90.IsZero())
}

func TestBuildAgingReportAllocatesCreditsOldestFirst(t *testing.T) {
	// Two invoices; the payment covers the older one entirely and part of the
	// newer one.
	transactions := []Transaction{
		invoiceTxn("acct-1", "2023-10-01", "300.00"), // over 90 days old
		invoiceTxn("acct-1", "2024-02-20", "200.00"), // 10 days old
		paymentTxn("acct-1", "2024-02-25", "350.00"),
	}
	names := map[string]string{"acct-1": "Acct"}

	report := BuildAgingReport(transactions, names, date("2024-03-01"))

	require.Len(t, report.Details, 1)
	row := report.Details[0]
	assert.True(t, row.Over90.IsZero(), "oldest invoice should be fully paid, over90 = %s", row.Over90)
	assert.True(t, amount("150.00").Equal(row.Days1To30), "days1To30 = %s", row.Days1To30)
	assert.True(t, amount("150.00").Equal(row.Total))
}

func TestBuildAgingReportOrdersDetailsByAccountName(t *testing.T) {
	transactions := []Transaction{
		invoiceTxn("z", "2024-02-01", "10.00"),
		invoiceTxn("a", "2024-02-01", "20.00"),
		invoiceTxn("m", "2024-02-01", "30.00"),
	}
	names := map[string]string{"z": "Zenith Drugs", "a": "Apex Medical", "m": "Midtown Chemists"}

	report := BuildAgingReport(transactions, names, date("2024-03-01"))

	require.Len(t, report.Details, 3)
	assert.Equal(t, "Apex Medical", report.Details[0].AccountName)
	assert.Equal(t, "Midtown Chemists", report.Details[1].AccountName)
	assert.Equal(t, "Zenith Drugs", report.Details[2].AccountName)
}

func TestBuildAgingReportEmptyLedger(t *testing.T) {
	report := BuildAgingReport(nil, nil, date("2024-03-01"))

	assert.Empty(t, report.Details)
	assert.True(t, report.Totals.Total.IsZero())
}
