package main

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RenderStatement produces the chronological ledger view for one account over
// an optional inclusive [from, to] range. Rows are ordered by date with ties
// kept in insertion order — never reordered by amount or kind. The running
// balance is seeded from the supplied opening balance; a nil opening balance
// is an IncompleteDataError, never an assumed zero.
func RenderStatement(accountID string, transactions []Transaction, opening *decimal.Decimal, from, to *time.Time) (Statement, error) {
	if opening == nil {
		return Statement{}, &IncompleteDataError{AccountID: accountID, Err: ErrMissingOpeningBalance}
	}

	selected := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.AccountID != accountID {
			continue
		}
		day := calendarDay(t.Date)
		if from != nil && day.Before(calendarDay(*from)) {
			continue
		}
		if to != nil && day.After(calendarDay(*to)) {
			continue
		}
		selected = append(selected, t)
	}

	// Same-date rows keep their ledger insertion order: the sequence number
	// when the store assigned one, the slice order otherwise.
	sort.SliceStable(selected, func(i, j int) bool {
		di, dj := calendarDay(selected[i].Date), calendarDay(selected[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return selected[i].Seq < selected[j].Seq
	})

	statement := Statement{
		AccountID:      accountID,
		OpeningBalance: *opening,
		ClosingBalance: *opening,
		Rows:           make([]StatementRow, 0, len(selected)),
	}
	if from != nil {
		f := from.Format(dateLayout)
		statement.From = &f
	}
	if to != nil {
		t := to.Format(dateLayout)
		statement.To = &t
	}

	balance := *opening
	for _, t := range selected {
		balance = balance.Add(t.Amount)
		statement.Rows = append(statement.Rows, StatementRow{
			TransactionID:  t.ID,
			Date:           t.Date,
			Reference:      t.Reference,
			Kind:           t.Kind,
			Amount:         t.Amount,
			RunningBalance: balance,
		})
	}
	statement.ClosingBalance = balance

	return statement, nil
}

// calendarDay strips the clock so range bounds and ordering compare calendar
// positions only.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
