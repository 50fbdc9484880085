package main

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// openItem is one debit-side ledger entry with the portion still unpaid after
// crediting payments against it.
type openItem struct {
	dueDate   time.Time
	seq       int64
	remaining decimal.Decimal
}

// BuildAgingReport classifies every account's outstanding balance by age as of
// the reference date. Transactions dated after the reference date are ignored,
// so a backdated report shows the ledger as it stood on that day. Within each
// account, credits (payments, credit notes and negative manual entries) are
// applied against debit items oldest-due-first; whatever remains of each debit
// item is bucketed by how many whole days past its due date the reference date
// falls. Accounts whose transactions net to zero are omitted from the details.
// The five buckets of every row, and of the totals, sum to that row's total
// exactly.
func BuildAgingReport(transactions []Transaction, accountNames map[string]string, asOf time.Time) AgingReport {
	cutoff := calendarDay(asOf)
	byAccount := make(map[string][]Transaction)
	for _, t := range transactions {
		if calendarDay(t.Date).After(cutoff) {
			continue
		}
		byAccount[t.AccountID] = append(byAccount[t.AccountID], t)
	}

	report := AgingReport{
		AsOf:    asOf,
		Details: make([]AgingReportRow, 0, len(byAccount)),
	}

	for accountID, accountTxns := range byAccount {
		buckets := buildAccountBuckets(accountTxns, asOf)
		if buckets.Total.IsZero() {
			continue
		}
		report.Details = append(report.Details, AgingReportRow{
			AccountID:      accountID,
			AccountName:    accountNames[accountID],
			AgingBucketSet: buckets,
		})
	}

	sort.Slice(report.Details, func(i, j int) bool {
		if report.Details[i].AccountName != report.Details[j].AccountName {
			return report.Details[i].AccountName < report.Details[j].AccountName
		}
		return report.Details[i].AccountID < report.Details[j].AccountID
	})

	for _, row := range report.Details {
		report.Totals.accumulate(row.AgingBucketSet)
	}

	return report
}

// buildAccountBuckets nets one account's ledger and buckets the open remainder.
func buildAccountBuckets(transactions []Transaction, asOf time.Time) AgingBucketSet {
	openItems := make([]openItem, 0, len(transactions))
	creditPool := decimal.Zero

	for _, t := range transactions {
		if t.Amount.IsPositive() {
			openItems = append(openItems, openItem{
				dueDate:   t.DueDate,
				seq:       t.Seq,
				remaining: t.Amount,
			})
		} else {
			creditPool = creditPool.Add(t.Amount.Neg())
		}
	}

	// Oldest due date first; insertion order breaks ties.
	sort.SliceStable(openItems, func(i, j int) bool {
		if !openItems[i].dueDate.Equal(openItems[j].dueDate) {
			return openItems[i].dueDate.Before(openItems[j].dueDate)
		}
		return openItems[i].seq < openItems[j].seq
	})

	for i := range openItems {
		if creditPool.IsZero() {
			break
		}
		applied := decimal.Min(openItems[i].remaining, creditPool)
		openItems[i].remaining = openItems[i].remaining.Sub(applied)
		creditPool = creditPool.Sub(applied)
	}

	var buckets AgingBucketSet
	for _, item := range openItems {
		if item.remaining.IsZero() {
			continue
		}
		buckets.addAged(ageDays(item.dueDate, asOf), item.remaining)
	}

	// Credit beyond every open debit item: the account is in surplus. It lands
	// signed in the current bucket so the coverage invariant stays exact.
	if creditPool.IsPositive() {
		buckets.addAged(0, creditPool.Neg())
	}

	return buckets
}

// ageDays is the whole number of calendar days from the due date to the
// reference date, floored. Time-of-day never shifts a bucket boundary.
func ageDays(dueDate, asOf time.Time) int {
	return int(calendarDay(asOf).Sub(calendarDay(dueDate)).Hours() / 24)
}

// addAged adds an amount to the bucket for the given age and to the total.
// Boundaries: <=0 current, 1-30, 31-60, 61-90, >90.
func (b *AgingBucketSet) addAged(days int, amount decimal.Decimal) {
	switch {
	case days <= 0:
		b.Current = b.Current.Add(amount)
	case days <= 30:
		b.Days1To30 = b.Days1To30.Add(amount)
	case days <= 60:
		b.Days31To60 = b.Days31To60.Add(amount)
	case days <= 90:
		b.Days61To90 = b.Days61To90.Add(amount)
	default:
		b.Over90 = b.Over90.Add(amount)
	}
	b.Total = b.Total.Add(amount)
}

// accumulate folds another bucket set into this one, field by field.
func (b *AgingBucketSet) accumulate(other AgingBucketSet) {
	b.Current = b.Current.Add(other.Current)
	b.Days1To30 = b.Days1To30.Add(other.Days1To30)
	b.Days31To60 = b.Days31To60.Add(other.Days31To60)
	b.Days61To90 = b.Days61To90.Add(other.Days61To90)
	b.Over90 = b.Over90.Add(other.Over90)
	b.Total = b.Total.Add(other.Total)
}
