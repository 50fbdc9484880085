package main

import (
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"pharmaledger/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Validation functions

// validateName validates that a name is not empty or just whitespace
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

// validateAccountKind validates the customer/supplier discriminator
func validateAccountKind(kind string) error {
	if kind != string(AccountKindCustomer) && kind != string(AccountKindSupplier) {
		return fmt.Errorf("kind must be either %q or %q", AccountKindCustomer, AccountKindSupplier)
	}
	return nil
}

// validateTransactionKind validates a ledger document kind tag
func validateTransactionKind(kind string) error {
	switch TransactionKind(kind) {
	case KindInvoice, KindPayment, KindCreditNote, KindDebitNote, KindManualEntry:
		return nil
	}
	return fmt.Errorf("unknown transaction kind %q", kind)
}

// handleDatabaseError converts database errors to appropriate HTTP responses
func handleDatabaseError(err error) (statusCode int, message string) {
	errorStr := err.Error()

	// Check for unique constraint violations
	if strings.Contains(errorStr, "duplicate key value violates unique constraint") {
		if strings.Contains(errorStr, "accounts_name_key") {
			return http.StatusConflict, "Account with this name already exists"
		}
		return http.StatusConflict, "Resource already exists"
	}

	// Check for foreign key violations (unknown account on a ledger insert)
	if strings.Contains(errorStr, "violates foreign key constraint") {
		return http.StatusBadRequest, "Referenced account does not exist"
	}

	// Check constraint: the ledger never stores a zero amount
	if strings.Contains(errorStr, "violates check constraint") {
		return http.StatusBadRequest, "Transaction violates a ledger constraint"
	}

	// Check for not found errors
	if strings.Contains(errorStr, "no rows in result set") {
		return http.StatusNotFound, "Resource not found"
	}

	// Default to internal server error
	return http.StatusInternalServerError, "Internal server error"
}

// UUID conversion utility functions

// parsePgUUID converts a string UUID into a pgtype.UUID
func parsePgUUID(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("invalid UUID format: %s", id)
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

// Decimal conversion utility functions

// numericFromDecimal converts a decimal amount into a pgtype.Numeric for storage
func numericFromDecimal(d decimal.Decimal) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(d.StringFixed(2)); err != nil {
		return pgtype.Numeric{}, fmt.Errorf("converting amount to numeric: %w", err)
	}
	return n, nil
}

// decimalFromNumeric converts a stored pgtype.Numeric back into a decimal amount
func decimalFromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(new(big.Int).Set(n.Int), n.Exp)
}

// Row conversion utility functions

// convertAccount converts a db.Account row to our Account struct
func convertAccount(a db.Account) Account {
	account := Account{
		ID:        uuid.UUID(a.ID.Bytes).String(),
		Name:      a.Name,
		Kind:      AccountKind(a.Kind),
		CreatedAt: a.CreatedAt.Time,
		UpdatedAt: a.UpdatedAt.Time,
	}
	if a.Email.Valid {
		email := a.Email.String
		account.Email = &email
	}
	return account
}

// convertTransaction converts a db.Transaction row to the normalized Transaction
func convertTransaction(t db.Transaction) Transaction {
	return Transaction{
		ID:        uuid.UUID(t.ID.Bytes).String(),
		AccountID: uuid.UUID(t.AccountID.Bytes).String(),
		Kind:      TransactionKind(t.Kind),
		Reference: t.Reference,
		Date:      t.TxnDate.Time,
		DueDate:   t.DueDate.Time,
		Amount:    decimalFromNumeric(t.Amount),
		Seq:       t.Seq,
		CreatedAt: t.CreatedAt.Time,
	}
}

// convertTransactions converts a slice of db rows in ledger order
func convertTransactions(rows []db.Transaction) []Transaction {
	transactions := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, convertTransaction(row))
	}
	return transactions
}

// parseDateParam parses an optional YYYY-MM-DD query parameter
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return &parsed, nil
}
