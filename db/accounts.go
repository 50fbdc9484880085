package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createAccount = `
INSERT INTO accounts (name, kind, email)
VALUES ($1, $2, $3)
RETURNING id, name, kind, email, created_at, updated_at
`

type CreateAccountParams struct {
	Name  string
	Kind  string
	Email pgtype.Text
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRow(ctx, createAccount, arg.Name, arg.Kind, arg.Email)
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.Kind, &a.Email, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

const getAccounts = `
SELECT id, name, kind, email, created_at, updated_at
FROM accounts
ORDER BY name
`

func (q *Queries) GetAccounts(ctx context.Context) ([]Account, error) {
	rows, err := q.db.Query(ctx, getAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Kind, &a.Email, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

const getAccountsByKind = `
SELECT id, name, kind, email, created_at, updated_at
FROM accounts
WHERE kind = $1
ORDER BY name
`

func (q *Queries) GetAccountsByKind(ctx context.Context, kind string) ([]Account, error) {
	rows, err := q.db.Query(ctx, getAccountsByKind, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Kind, &a.Email, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

const getAccountByID = `
SELECT id, name, kind, email, created_at, updated_at
FROM accounts
WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id pgtype.UUID) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.Kind, &a.Email, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

const deleteAccount = `
DELETE FROM accounts
WHERE id = $1
`

func (q *Queries) DeleteAccount(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteAccount, id)
	return err
}

const deleteAllAccounts = `
DELETE FROM accounts
`

func (q *Queries) DeleteAllAccounts(ctx context.Context) error {
	_, err := q.db.Exec(ctx, deleteAllAccounts)
	return err
}

const countAccountTransactions = `
SELECT COUNT(*)
FROM transactions
WHERE account_id = $1
`

func (q *Queries) CountAccountTransactions(ctx context.Context, accountID pgtype.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countAccountTransactions, accountID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
