package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"log"
	"net/http"

	"pharmaledger/db"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Transaction handler functions

// @Summary Post a ledger document
// @Description Record one invoice, payment, credit note, debit note or manual entry. The document is normalized into a signed ledger transaction.
// @Tags transactions
// @Accept json
// @Produce json
// @Param document body object{kind=string} true "Tagged document; remaining fields depend on kind"
// @Success 201 {object} Transaction "Recorded transaction"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/transactions [post]
func postTransaction(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var envelope struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	doc, err := decodeDocument(TransactionKind(envelope.Kind), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := Normalize(doc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recorded, err := insertTransaction(transaction)
	if err != nil {
		log.Printf("Error inserting transaction: %v", err)
		statusCode, message := handleDatabaseError(err)
		c.JSON(statusCode, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusCreated, recorded)
}

// @Summary Get transactions
// @Description Retrieve ledger transactions in insertion order, optionally filtered by account or document kind
// @Tags transactions
// @Produce json
// @Param account_id query string false "Account ID filter"
// @Param kind query string false "Document kind filter (invoice, payment, credit_note, debit_note, manual_entry)"
// @Success 200 {array} Transaction "List of transactions"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/transactions [get]
func getTransactions(c *gin.Context) {
	var dbTransactions []db.Transaction
	var err error

	if accountID := c.Query("account_id"); accountID != "" {
		accountUUID, parseErr := parsePgUUID(accountID)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
			return
		}
		dbTransactions, err = queries.GetTransactionsByAccount(context.Background(), accountUUID)
	} else if kind := c.Query("kind"); kind != "" {
		if err := validateTransactionKind(kind); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dbTransactions, err = queries.GetTransactionsByKind(context.Background(), kind)
	} else {
		dbTransactions, err = queries.GetTransactions(context.Background())
	}
	if err != nil {
		log.Printf("Error fetching transactions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching transactions"})
		return
	}

	c.JSON(http.StatusOK, convertTransactions(dbTransactions))
}

// @Summary Get transaction
// @Description Retrieve a single ledger transaction by ID
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} Transaction "Transaction"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Transaction not found"
// @Router /api/transactions/{id} [get]
func getTransaction(c *gin.Context) {
	transactionUUID, err := parsePgUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	dbTransaction, err := queries.GetTransactionByID(context.Background(), transactionUUID)
	if err != nil {
		log.Printf("Error finding transaction: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	c.JSON(http.StatusOK, convertTransaction(dbTransaction))
}

// @Summary Void transaction
// @Description Record an offsetting manual entry that cancels the given transaction. The original row is never modified.
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 201 {object} Transaction "Offsetting transaction"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Transaction not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/transactions/{id}/void [post]
func voidTransaction(c *gin.Context) {
	transactionUUID, err := parsePgUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	original, err := queries.GetTransactionByID(context.Background(), transactionUUID)
	if err != nil {
		log.Printf("Error finding transaction: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	offset := convertTransaction(original)
	offset.Kind = KindManualEntry
	offset.Reference = "VOID " + offset.Reference
	offset.Amount = offset.Amount.Neg()
	// Manual entries fall due on their own date, even when offsetting an invoice.
	offset.DueDate = offset.Date

	recorded, err := insertTransaction(offset)
	if err != nil {
		log.Printf("Error inserting void transaction: %v", err)
		statusCode, message := handleDatabaseError(err)
		c.JSON(statusCode, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusCreated, recorded)
}

// @Summary Upload CSV file
// @Description Bulk import ledger rows from a CSV file with columns Date,Due Date,Account,Kind,Reference,Amount. Returns the imported transactions, the skipped row count and per-row errors.
// @Tags transactions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file to upload"
// @Success 200 {object} map[string]interface{} "Upload result - message, transactions array, skipped_rows count, errors array"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/upload-csv [post]
func uploadCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading CSV file"})
		return
	}

	accountsByName, err := loadAccountsByName()
	if err != nil {
		log.Printf("Error loading accounts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading accounts"})
		return
	}

	transactions := make([]Transaction, 0)
	recordErrors := make([]RecordError, 0)
	skippedRows := 0

	// Skip header row if present
	start := 0
	if len(records) > 0 && records[0][0] == "Date" {
		start = 1
	}

	for i := start; i < len(records); i++ {
		record := records[i]
		if len(record) < 6 { // Need 6 columns: Date,Due Date,Account,Kind,Reference,Amount
			skippedRows++
			recordErrors = append(recordErrors, RecordError{Index: i, Error: "row has fewer than 6 columns"})
			continue
		}

		doc, err := documentFromCSVRow(record, accountsByName)
		if err != nil {
			skippedRows++
			recordErrors = append(recordErrors, RecordError{Index: i, Reference: record[4], Error: err.Error()})
			continue
		}

		transaction, err := Normalize(doc)
		if err != nil {
			skippedRows++
			recordErrors = append(recordErrors, RecordError{Index: i, Reference: record[4], Error: err.Error()})
			continue
		}

		// Check for duplicate transaction before inserting
		duplicate, err := isDuplicateTransaction(transaction)
		if err != nil {
			log.Printf("Error checking for duplicate transaction: %v", err)
			skippedRows++
			recordErrors = append(recordErrors, RecordError{Index: i, Reference: transaction.Reference, Error: "duplicate check failed"})
			continue
		}
		if duplicate {
			log.Printf("Skipping duplicate transaction: %s %s", transaction.Kind, transaction.Reference)
			skippedRows++
			recordErrors = append(recordErrors, RecordError{Index: i, Reference: transaction.Reference, Error: "duplicate transaction"})
			continue
		}

		recorded, err := insertTransaction(transaction)
		if err != nil {
			log.Printf("Error inserting transaction: %v", err)
			skippedRows++
			recordErrors = append(recordErrors, RecordError{Index: i, Reference: transaction.Reference, Error: "insert failed"})
			continue
		}

		transactions = append(transactions, recorded)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "CSV uploaded successfully",
		"transactions": transactions,
		"skipped_rows": skippedRows,
		"errors":       recordErrors,
	})
}

// decodeDocument unmarshals the request body into the document type its kind
// tag names.
func decodeDocument(kind TransactionKind, body []byte) (SourceDocument, error) {
	switch kind {
	case KindInvoice:
		var doc InvoiceDoc
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	case KindPayment:
		var doc PaymentDoc
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	case KindCreditNote:
		var doc CreditNoteDoc
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	case KindDebitNote:
		var doc DebitNoteDoc
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	case KindManualEntry:
		var doc ManualEntryDoc
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	default:
		return nil, newValidationError("kind", ErrUnknownKind)
	}
}

// documentFromCSVRow builds the tagged document for one CSV row. The Amount
// column is a signed value for manual entries and a magnitude otherwise.
func documentFromCSVRow(record []string, accountsByName map[string]string) (SourceDocument, error) {
	date := record[0]
	dueDate := record[1]
	accountName := record[2]
	kind := TransactionKind(record[3])
	reference := record[4]

	amount, err := decimal.NewFromString(record[5])
	if err != nil {
		return nil, newValidationError("amount", err)
	}

	accountID, ok := accountsByName[accountName]
	if !ok {
		return nil, newValidationError("account", ErrMissingAccount)
	}

	switch kind {
	case KindInvoice:
		return InvoiceDoc{AccountID: accountID, Reference: reference, Date: date, DueDate: dueDate, Total: amount}, nil
	case KindPayment:
		return PaymentDoc{AccountID: accountID, Reference: reference, Date: date, Amount: amount}, nil
	case KindCreditNote:
		return CreditNoteDoc{AccountID: accountID, Reference: reference, Date: date, Amount: amount}, nil
	case KindDebitNote:
		return DebitNoteDoc{AccountID: accountID, Reference: reference, Date: date, DueDate: dueDate, Amount: amount}, nil
	case KindManualEntry:
		return ManualEntryDoc{AccountID: accountID, Reference: reference, Date: date, Amount: amount}, nil
	default:
		return nil, newValidationError("kind", ErrUnknownKind)
	}
}

// loadAccountsByName maps account names to IDs for CSV rows, which carry names
// rather than UUIDs.
func loadAccountsByName() (map[string]string, error) {
	dbAccounts, err := queries.GetAccounts(context.Background())
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(dbAccounts))
	for _, a := range dbAccounts {
		byName[a.Name] = convertAccount(a).ID
	}
	return byName, nil
}

// insertTransaction stores a normalized transaction and returns the recorded row.
func insertTransaction(t Transaction) (Transaction, error) {
	accountUUID, err := parsePgUUID(t.AccountID)
	if err != nil {
		return Transaction{}, err
	}
	amount, err := numericFromDecimal(t.Amount)
	if err != nil {
		return Transaction{}, err
	}

	row, err := queries.CreateTransaction(context.Background(), db.CreateTransactionParams{
		AccountID: accountUUID,
		Kind:      string(t.Kind),
		Reference: t.Reference,
		TxnDate:   pgtype.Date{Time: t.Date, Valid: true},
		DueDate:   pgtype.Date{Time: t.DueDate, Valid: true},
		Amount:    amount,
	})
	if err != nil {
		return Transaction{}, err
	}
	return convertTransaction(row), nil
}

// isDuplicateTransaction reports whether an identical row is already recorded.
func isDuplicateTransaction(t Transaction) (bool, error) {
	accountUUID, err := parsePgUUID(t.AccountID)
	if err != nil {
		return false, err
	}
	amount, err := numericFromDecimal(t.Amount)
	if err != nil {
		return false, err
	}

	count, err := queries.FindDuplicateTransaction(context.Background(), db.FindDuplicateTransactionParams{
		AccountID: accountUUID,
		Kind:      string(t.Kind),
		Reference: t.Reference,
		TxnDate:   pgtype.Date{Time: t.Date, Valid: true},
		Amount:    amount,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
