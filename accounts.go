package main

import (
	"context"
	"log"
	"net/http"

	"pharmaledger/db"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgtype"
)

// Account handler functions

// @Summary Get all accounts
// @Description Retrieve all customer and supplier accounts, optionally filtered by kind
// @Tags accounts
// @Produce json
// @Param kind query string false "Account kind filter (customer or supplier)"
// @Success 200 {array} Account "List of accounts"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/accounts [get]
func getAccounts(c *gin.Context) {
	kind := c.Query("kind")

	var dbAccounts []db.Account
	var err error
	if kind != "" {
		if err := validateAccountKind(kind); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dbAccounts, err = queries.GetAccountsByKind(context.Background(), kind)
	} else {
		dbAccounts, err = queries.GetAccounts(context.Background())
	}
	if err != nil {
		log.Printf("Error fetching accounts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching accounts"})
		return
	}

	accounts := make([]Account, 0, len(dbAccounts))
	for _, dbAccount := range dbAccounts {
		accounts = append(accounts, convertAccount(dbAccount))
	}

	c.JSON(http.StatusOK, accounts)
}

// @Summary Create account
// @Description Create a new customer or supplier account
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body Account true "Account data (name and kind required, email optional)"
// @Success 201 {object} Account "Created account"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 409 {object} map[string]interface{} "Account already exists"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/accounts [post]
func createAccount(c *gin.Context) {
	var accountRequest Account
	if err := c.ShouldBindJSON(&accountRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// Validate required fields
	if err := validateName(accountRequest.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateAccountKind(string(accountRequest.Kind)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := db.CreateAccountParams{
		Name: accountRequest.Name,
		Kind: string(accountRequest.Kind),
	}

	// Handle optional email
	if accountRequest.Email != nil && *accountRequest.Email != "" {
		params.Email = pgtype.Text{String: *accountRequest.Email, Valid: true}
	}

	dbAccount, err := queries.CreateAccount(context.Background(), params)
	if err != nil {
		log.Printf("Error creating account: %v", err)
		statusCode, message := handleDatabaseError(err)
		c.JSON(statusCode, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusCreated, convertAccount(dbAccount))
}

// @Summary Get account
// @Description Retrieve a single account by ID
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} Account "Account"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Account not found"
// @Router /api/accounts/{id} [get]
func getAccount(c *gin.Context) {
	accountUUID, err := parsePgUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	dbAccount, err := queries.GetAccountByID(context.Background(), accountUUID)
	if err != nil {
		log.Printf("Error finding account: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	c.JSON(http.StatusOK, convertAccount(dbAccount))
}

// @Summary Delete account
// @Description Delete an account that has no ledger transactions
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} map[string]interface{} "Account deleted successfully"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Account not found"
// @Failure 409 {object} map[string]interface{} "Account has transactions"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/accounts/{id} [delete]
func deleteAccount(c *gin.Context) {
	accountUUID, err := parsePgUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	// First, get the account to ensure it exists
	if _, err := queries.GetAccountByID(context.Background(), accountUUID); err != nil {
		log.Printf("Error finding account: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	// The ledger is immutable: an account with recorded transactions can
	// never be removed, only left dormant.
	count, err := queries.CountAccountTransactions(context.Background(), accountUUID)
	if err != nil {
		log.Printf("Error counting account transactions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking account transactions"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Account has recorded transactions and cannot be deleted"})
		return
	}

	if err := queries.DeleteAccount(context.Background(), accountUUID); err != nil {
		log.Printf("Error deleting account: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
