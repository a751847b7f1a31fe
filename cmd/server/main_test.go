package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/segyhp/receipt-debt-engine/internal/handler"
	"github.com/segyhp/receipt-debt-engine/internal/mocks"
	"github.com/segyhp/receipt-debt-engine/pkg/logger"
)

func TestSetupRoutes(t *testing.T) {
	debts := new(mocks.MockDebtService)
	receipts := new(mocks.MockReceiptPaymentService)

	var logs bytes.Buffer
	router := setupRoutes(
		logger.NewWithWriter(&logs, "info", "json"),
		handler.NewDebtHandler(debts),
		handler.NewReceiptPaymentHandler(receipts),
		handler.NewHealthHandler(nil, nil, time.Second),
	)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedType   string
	}{
		{name: "liveness", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK, expectedType: "application/json"},
		{name: "preflight answered by cors", method: http.MethodOptions, path: "/api/v1/debts", expectedStatus: http.StatusOK},
		{name: "bad debt id", method: http.MethodDelete, path: "/api/v1/debts/not-a-uuid", expectedStatus: http.StatusBadRequest, expectedType: "application/json"},
		{name: "bad receipt payment id", method: http.MethodPut, path: "/api/v1/receipt-payments/not-a-uuid", expectedStatus: http.StatusBadRequest, expectedType: "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedType, w.Header().Get("Content-Type"))
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	assert.Contains(t, logs.String(), `"path":"/health"`)
	debts.AssertExpectations(t)
	receipts.AssertExpectations(t)
}
