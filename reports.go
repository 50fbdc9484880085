package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"pharmaledger/db"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Report handler functions

// @Summary Get aging report
// @Description Compute the receivables or payables aging as of a reference date. Credits are netted against the oldest open items; the remainder is bucketed as Current, 1-30, 31-60, 61-90 and over 90 days past due.
// @Tags reports
// @Produce json
// @Param kind query string false "receivable (default) or payable"
// @Param as_of query string false "Reference date YYYY-MM-DD (default: today)"
// @Success 200 {object} AgingReport "Aging report"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/reports/aging [get]
func getAgingReport(c *gin.Context) {
	accountKind := AccountKindCustomer
	switch c.DefaultQuery("kind", "receivable") {
	case "receivable":
		accountKind = AccountKindCustomer
	case "payable":
		accountKind = AccountKindSupplier
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be either \"receivable\" or \"payable\""})
		return
	}

	asOf := time.Now()
	if parsed, err := parseDateParam(c.Query("as_of")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	} else if parsed != nil {
		asOf = *parsed
	}

	dbTransactions, err := queries.GetTransactionsByAccountKind(context.Background(), string(accountKind))
	if err != nil {
		log.Printf("Error fetching ledger for aging report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing aging report"})
		return
	}

	dbAccounts, err := queries.GetAccountsByKind(context.Background(), string(accountKind))
	if err != nil {
		log.Printf("Error fetching accounts for aging report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing aging report"})
		return
	}

	accountNames := make(map[string]string, len(dbAccounts))
	for _, a := range dbAccounts {
		account := convertAccount(a)
		accountNames[account.ID] = account.Name
	}

	report := BuildAgingReport(convertTransactions(dbTransactions), accountNames, asOf)
	c.JSON(http.StatusOK, report)
}

// @Summary Get account statement
// @Description Render the running-balance statement for one account over an optional inclusive date range. The opening balance is the account balance immediately before the range start.
// @Tags reports
// @Produce json
// @Param id path string true "Account ID"
// @Param from query string false "Range start YYYY-MM-DD"
// @Param to query string false "Range end YYYY-MM-DD"
// @Success 200 {object} Statement "Account statement"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Account not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/accounts/{id}/statement [get]
func getAccountStatement(c *gin.Context) {
	accountUUID, err := parsePgUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	account, err := queries.GetAccountByID(context.Background(), accountUUID)
	if err != nil {
		log.Printf("Error finding account: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accountID := convertAccount(account).ID

	// Opening balance: everything dated strictly before the range start. An
	// unbounded statement opens at zero by definition.
	opening := decimal.Zero
	if from != nil {
		sum, err := queries.SumAccountTransactionsBefore(context.Background(), db.SumAccountTransactionsBeforeParams{
			AccountID: accountUUID,
			Before:    pgtype.Date{Time: *from, Valid: true},
		})
		if err != nil {
			log.Printf("Error computing opening balance: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing opening balance"})
			return
		}
		opening = decimalFromNumeric(sum)
	}

	dbTransactions, err := queries.GetTransactionsByAccount(context.Background(), accountUUID)
	if err != nil {
		log.Printf("Error fetching account ledger: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching account ledger"})
		return
	}

	statement, err := RenderStatement(accountID, convertTransactions(dbTransactions), &opening, from, to)
	if err != nil {
		log.Printf("Error rendering statement: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error rendering statement"})
		return
	}

	c.JSON(http.StatusOK, statement)
}
