package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestCreateAccountValidation tests proper validation for the createAccount endpoint
func TestCreateAccountValidation(t *testing.T) {
	requireTestDB(t)
	if err := cleanupTestData(); err != nil {
		t.Fatalf("Failed to cleanup test data: %v", err)
	}

	postAccount := func(t *testing.T, requestBody map[string]interface{}) *httptest.ResponseRecorder {
		t.Helper()
		body, err := json.Marshal(requestBody)
		assertNoError(t, err)
		return makeRequest("POST", "/api/accounts", bytes.NewBuffer(body))
	}

	t.Run("should fail with empty name", func(t *testing.T) {
		resp := postAccount(t, map[string]interface{}{
			"name": "",
			"kind": "customer",
		})

		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))

		if errorResp["error"] == nil {
			t.Error("Expected error message in response")
		}
	})

	t.Run("should fail with missing name", func(t *testing.T) {
		resp := postAccount(t, map[string]interface{}{
			"kind": "customer",
		})

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should fail with whitespace-only name", func(t *testing.T) {
		resp := postAccount(t, map[string]interface{}{
			"name": "   ",
			"kind": "supplier",
		})

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should fail with an unknown kind", func(t *testing.T) {
		resp := postAccount(t, map[string]interface{}{
			"name": "Valid Name",
			"kind": "reseller",
		})

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should fail with missing kind", func(t *testing.T) {
		resp := postAccount(t, map[string]interface{}{
			"name": "Valid Name",
		})

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should fail with a duplicate name", func(t *testing.T) {
		resp := postAccount(t, map[string]interface{}{
			"name": "Unique Pharmacy",
			"kind": "customer",
		})
		assertStatusCode(t, http.StatusCreated, resp.Code)

		resp = postAccount(t, map[string]interface{}{
			"name": "Unique Pharmacy",
			"kind": "customer",
		})

		assertStatusCode(t, http.StatusConflict, resp.Code)
	})

	t.Run("should fail with malformed JSON", func(t *testing.T) {
		resp := makeRequest("POST", "/api/accounts", bytes.NewBufferString("{not json"))

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})
}
