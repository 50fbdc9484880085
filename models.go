package main

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind distinguishes receivable accounts (customers) from payable
// accounts (suppliers).
type AccountKind string

const (
	AccountKindCustomer AccountKind = "customer"
	AccountKindSupplier AccountKind = "supplier"
)

// TransactionKind tags a ledger entry with its source document type.
type TransactionKind string

const (
	KindInvoice     TransactionKind = "invoice"
	KindPayment     TransactionKind = "payment"
	KindCreditNote  TransactionKind = "credit_note"
	KindDebitNote   TransactionKind = "debit_note"
	KindManualEntry TransactionKind = "manual_entry"
)

// Account represents a customer or supplier ledger account
type Account struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Kind      AccountKind `json:"kind"`
	Email     *string     `json:"email"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Transaction is the normalized ledger entry every report computes over.
// Amount is signed: invoices and debit notes increase the account's
// outstanding balance, payments and credit notes decrease it, manual entries
// carry whatever sign the source gave them. Amount is never zero. DueDate
// equals Date for every kind except invoices and debit notes.
type Transaction struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Kind      TransactionKind `json:"kind"`
	Reference string          `json:"reference"`
	Date      time.Time       `json:"date"`
	DueDate   time.Time       `json:"due_date"`
	Amount    decimal.Decimal `json:"amount"`
	Seq       int64           `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
}

// AgingBucketSet groups an account's outstanding balance by how overdue it is.
// The five buckets always sum to Total exactly.
type AgingBucketSet struct {
	Current    decimal.Decimal `json:"current"`
	Days1To30  decimal.Decimal `json:"days_1_to_30"`
	Days31To60 decimal.Decimal `json:"days_31_to_60"`
	Days61To90 decimal.Decimal `json:"days_61_to_90"`
	Over90     decimal.Decimal `json:"over_90"`
	Total      decimal.Decimal `json:"total"`
}

// AgingReportRow is one account's bucket breakdown within an aging report.
type AgingReportRow struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	AgingBucketSet
}

// AgingReport is the full receivables or payables aging as of a reference date.
// Details holds one row per account with a nonzero outstanding balance; Totals
// aggregates every bucket across Details.
type AgingReport struct {
	AsOf    time.Time        `json:"as_of"`
	Details []AgingReportRow `json:"details"`
	Totals  AgingBucketSet   `json:"totals"`
}

// StatementRow is one ledger line in an account statement, carrying the
// running balance after applying the transaction.
type StatementRow struct {
	TransactionID  string          `json:"transaction_id"`
	Date           time.Time       `json:"date"`
	Reference      string          `json:"reference"`
	Kind           TransactionKind `json:"kind"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// Statement is a chronological ledger view for one account.
type Statement struct {
	AccountID      string          `json:"account_id"`
	From           *string         `json:"from,omitempty"`
	To             *string         `json:"to,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Rows           []StatementRow  `json:"rows"`
}

// RecordError reports one rejected record from a batch alongside its position,
// so partial imports stay auditable.
type RecordError struct {
	Index     int    `json:"index"`
	Reference string `json:"reference,omitempty"`
	Error     string `json:"error"`
}
