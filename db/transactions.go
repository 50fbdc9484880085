package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createTransaction = `
INSERT INTO transactions (account_id, kind, reference, txn_date, due_date, amount)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, account_id, kind, reference, txn_date, due_date, amount, seq, created_at
`

type CreateTransactionParams struct {
	AccountID pgtype.UUID
	Kind      string
	Reference string
	TxnDate   pgtype.Date
	DueDate   pgtype.Date
	Amount    pgtype.Numeric
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, createTransaction,
		arg.AccountID, arg.Kind, arg.Reference, arg.TxnDate, arg.DueDate, arg.Amount)
	var t Transaction
	err := row.Scan(&t.ID, &t.AccountID, &t.Kind, &t.Reference, &t.TxnDate, &t.DueDate,
		&t.Amount, &t.Seq, &t.CreatedAt)
	return t, err
}

const getTransactions = `
SELECT id, account_id, kind, reference, txn_date, due_date, amount, seq, created_at
FROM transactions
ORDER BY seq
`

func (q *Queries) GetTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, getTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

const getTransactionByID = `
SELECT id, account_id, kind, reference, txn_date, due_date, amount, seq, created_at
FROM transactions
WHERE id = $1
`

func (q *Queries) GetTransactionByID(ctx context.Context, id pgtype.UUID) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransactionByID, id)
	var t Transaction
	err := row.Scan(&t.ID, &t.AccountID, &t.Kind, &t.Reference, &t.TxnDate, &t.DueDate,
		&t.Amount, &t.Seq, &t.CreatedAt)
	return t, err
}

const getTransactionsByAccount = `
SELECT id, account_id, kind, reference, txn_date, due_date, amount, seq, created_at
FROM transactions
WHERE account_id = $1
ORDER BY seq
`

func (q *Queries) GetTransactionsByAccount(ctx context.Context, accountID pgtype.UUID) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, getTransactionsByAccount, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

const getTransactionsByKind = `
SELECT id, account_id, kind, reference, txn_date, due_date, amount, seq, created_at
FROM transactions
WHERE kind = $1
ORDER BY seq
`

func (q *Queries) GetTransactionsByKind(ctx context.Context, kind string) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, getTransactionsByKind, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

const getTransactionsByAccountKind = `
SELECT t.id, t.account_id, t.kind, t.reference, t.txn_date, t.due_date, t.amount, t.seq, t.created_at
FROM transactions t
JOIN accounts a ON a.id = t.account_id
WHERE a.kind = $1
ORDER BY t.seq
`

// GetTransactionsByAccountKind returns the full ledger for every account of the
// given kind (customer ledger feeds the receivables aging, supplier the payables).
func (q *Queries) GetTransactionsByAccountKind(ctx context.Context, accountKind string) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, getTransactionsByAccountKind, accountKind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

const findDuplicateTransaction = `
SELECT COUNT(*)
FROM transactions
WHERE account_id = $1
  AND kind = $2
  AND reference = $3
  AND txn_date = $4
  AND amount = $5
`

type FindDuplicateTransactionParams struct {
	AccountID pgtype.UUID
	Kind      string
	Reference string
	TxnDate   pgtype.Date
	Amount    pgtype.Numeric
}

func (q *Queries) FindDuplicateTransaction(ctx context.Context, arg FindDuplicateTransactionParams) (int64, error) {
	row := q.db.QueryRow(ctx, findDuplicateTransaction,
		arg.AccountID, arg.Kind, arg.Reference, arg.TxnDate, arg.Amount)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const sumAccountTransactionsBefore = `
SELECT COALESCE(SUM(amount), 0)
FROM transactions
WHERE account_id = $1
  AND txn_date < $2
`

type SumAccountTransactionsBeforeParams struct {
	AccountID pgtype.UUID
	Before    pgtype.Date
}

// SumAccountTransactionsBefore returns the signed balance of everything dated
// strictly before the given date. It seeds the statement opening balance.
func (q *Queries) SumAccountTransactionsBefore(ctx context.Context, arg SumAccountTransactionsBeforeParams) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumAccountTransactionsBefore, arg.AccountID, arg.Before)
	var sum pgtype.Numeric
	err := row.Scan(&sum)
	return sum, err
}

const deleteAllTransactions = `
DELETE FROM transactions
`

func (q *Queries) DeleteAllTransactions(ctx context.Context) error {
	_, err := q.db.Exec(ctx, deleteAllTransactions)
	return err
}

func scanTransactions(rows pgx.Rows) ([]Transaction, error) {
	var transactions []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Kind, &t.Reference, &t.TxnDate, &t.DueDate,
			&t.Amount, &t.Seq, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
