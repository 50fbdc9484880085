package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Account is a customer or supplier row.
type Account struct {
	ID        pgtype.UUID
	Name      string
	Kind      string
	Email     pgtype.Text
	CreatedAt pgtype.Timestamp
	UpdatedAt pgtype.Timestamp
}

// Transaction is a ledger row. Rows are immutable once inserted; corrections
// are recorded as new offsetting rows. Seq preserves insertion order for
// stable statement tie-breaks.
type Transaction struct {
	ID        pgtype.UUID
	AccountID pgtype.UUID
	Kind      string
	Reference string
	TxnDate   pgtype.Date
	DueDate   pgtype.Date
	Amount    pgtype.Numeric
	Seq       int64
	CreatedAt pgtype.Timestamp
}
