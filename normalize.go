package main

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// SourceDocument is one backend record awaiting normalization. Each document
// kind is its own type so the sign convention below stays exhaustive: adding
// a kind without a Normalize case is a compile error.
type SourceDocument interface {
	kind() TransactionKind
}

// InvoiceDoc is a sales or purchase invoice. Total is an unsigned magnitude.
type InvoiceDoc struct {
	AccountID string          `json:"account_id"`
	Reference string          `json:"reference"`
	Date      string          `json:"date"`
	DueDate   string          `json:"due_date"`
	Total     decimal.Decimal `json:"total"`
}

// PaymentDoc is a payment received from or made to an account. Amount is an
// unsigned magnitude; normalization applies the sign.
type PaymentDoc struct {
	AccountID string          `json:"account_id"`
	Reference string          `json:"reference"`
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
}

// CreditNoteDoc reduces an account's outstanding balance.
type CreditNoteDoc struct {
	AccountID string          `json:"account_id"`
	Reference string          `json:"reference"`
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
}

// DebitNoteDoc increases an account's outstanding balance.
type DebitNoteDoc struct {
	AccountID string          `json:"account_id"`
	Reference string          `json:"reference"`
	Date      string          `json:"date"`
	DueDate   string          `json:"due_date"`
	Amount    decimal.Decimal `json:"amount"`
}

// ManualEntryDoc is a hand-posted ledger adjustment. Amount keeps the sign the
// source gave it.
type ManualEntryDoc struct {
	AccountID string          `json:"account_id"`
	Reference string          `json:"reference"`
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
}

func (InvoiceDoc) kind() TransactionKind     { return KindInvoice }
func (PaymentDoc) kind() TransactionKind     { return KindPayment }
func (CreditNoteDoc) kind() TransactionKind  { return KindCreditNote }
func (DebitNoteDoc) kind() TransactionKind   { return KindDebitNote }
func (ManualEntryDoc) kind() TransactionKind { return KindManualEntry }

// Normalize converts one source document into the uniform signed Transaction.
// Sign convention: invoice and debit note positive, payment and credit note
// negative, manual entry as given. A missing or malformed date, a missing
// account, or a zero amount is a ValidationError.
func Normalize(doc SourceDocument) (Transaction, error) {
	switch d := doc.(type) {
	case InvoiceDoc:
		return normalizeDebitSide(KindInvoice, d.AccountID, d.Reference, d.Date, d.DueDate, d.Total)
	case DebitNoteDoc:
		return normalizeDebitSide(KindDebitNote, d.AccountID, d.Reference, d.Date, d.DueDate, d.Amount)
	case PaymentDoc:
		return normalizeCreditSide(KindPayment, d.AccountID, d.Reference, d.Date, d.Amount)
	case CreditNoteDoc:
		return normalizeCreditSide(KindCreditNote, d.AccountID, d.Reference, d.Date, d.Amount)
	case ManualEntryDoc:
		date, err := parseRequiredDate(d.Date)
		if err != nil {
			return Transaction{}, err
		}
		if err := requireAccount(d.AccountID); err != nil {
			return Transaction{}, err
		}
		if d.Amount.IsZero() {
			return Transaction{}, newValidationError("amount", ErrZeroAmount)
		}
		return Transaction{
			AccountID: d.AccountID,
			Kind:      KindManualEntry,
			Reference: d.Reference,
			Date:      date,
			DueDate:   date,
			Amount:    d.Amount,
		}, nil
	default:
		return Transaction{}, newValidationError("kind", ErrUnknownKind)
	}
}

// NormalizeAll normalizes a batch, skipping and reporting bad records instead
// of aborting, so partial results stay auditable.
func NormalizeAll(docs []SourceDocument) ([]Transaction, []RecordError) {
	transactions := make([]Transaction, 0, len(docs))
	recordErrors := make([]RecordError, 0)

	for i, doc := range docs {
		t, err := Normalize(doc)
		if err != nil {
			recordErrors = append(recordErrors, RecordError{
				Index:     i,
				Reference: documentReference(doc),
				Error:     err.Error(),
			})
			continue
		}
		transactions = append(transactions, t)
	}

	return transactions, recordErrors
}

// normalizeDebitSide handles the kinds that increase the outstanding balance.
// Invoices and debit notes must carry an explicit due date; payment terms are
// part of the document.
func normalizeDebitSide(kind TransactionKind, accountID, reference, dateStr, dueDateStr string, magnitude decimal.Decimal) (Transaction, error) {
	date, err := parseRequiredDate(dateStr)
	if err != nil {
		return Transaction{}, err
	}
	if err := requireAccount(accountID); err != nil {
		return Transaction{}, err
	}
	if dueDateStr == "" {
		return Transaction{}, newValidationError("due_date", ErrMissingDueDate)
	}
	dueDate, err := time.Parse(dateLayout, dueDateStr)
	if err != nil {
		return Transaction{}, newValidationError("due_date", err)
	}
	if magnitude.IsZero() {
		return Transaction{}, newValidationError("amount", ErrZeroAmount)
	}
	if magnitude.IsNegative() {
		return Transaction{}, newValidationError("amount", ErrNegativeAmount)
	}
	return Transaction{
		AccountID: accountID,
		Kind:      kind,
		Reference: reference,
		Date:      date,
		DueDate:   dueDate,
		Amount:    magnitude,
	}, nil
}

// normalizeCreditSide handles the kinds that reduce the outstanding balance.
func normalizeCreditSide(kind TransactionKind, accountID, reference, dateStr string, magnitude decimal.Decimal) (Transaction, error) {
	date, err := parseRequiredDate(dateStr)
	if err != nil {
		return Transaction{}, err
	}
	if err := requireAccount(accountID); err != nil {
		return Transaction{}, err
	}
	if magnitude.IsZero() {
		return Transaction{}, newValidationError("amount", ErrZeroAmount)
	}
	if magnitude.IsNegative() {
		return Transaction{}, newValidationError("amount", ErrNegativeAmount)
	}
	return Transaction{
		AccountID: accountID,
		Kind:      kind,
		Reference: reference,
		Date:      date,
		DueDate:   date,
		Amount:    magnitude.Neg(),
	}, nil
}

func parseRequiredDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, newValidationError("date", ErrMissingDate)
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, newValidationError("date", err)
	}
	return date, nil
}

func requireAccount(accountID string) error {
	if accountID == "" {
		return newValidationError("account_id", ErrMissingAccount)
	}
	return nil
}

func documentReference(doc SourceDocument) string {
	switch d := doc.(type) {
	case InvoiceDoc:
		return d.Reference
	case PaymentDoc:
		return d.Reference
	case CreditNoteDoc:
		return d.Reference
	case DebitNoteDoc:
		return d.Reference
	case ManualEntryDoc:
		return d.Reference
	default:
		return ""
	}
}
