package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/receipt-debt-engine/internal/domain"
	"github.com/segyhp/receipt-debt-engine/internal/handler"
	"github.com/segyhp/receipt-debt-engine/internal/mocks"
	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
)

func newReceiptPaymentRouter(svc *mocks.MockReceiptPaymentService) *mux.Router {
	r := mux.NewRouter()
	handler.NewReceiptPaymentHandler(svc).RegisterRoutes(r.PathPrefix("/api/v1").Subrouter())
	return r
}

func TestReceiptPaymentHandler_Create(t *testing.T) {
	debtID := uuid.New()

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(svc *mocks.MockReceiptPaymentService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "paid supplier payment",
			requestBody: domain.CreateReceiptPaymentRequest{
				ExpenseType:   "supplier_payment",
				Amount:        4000000,
				PaymentMethod: 2,
				DebtRecordID:  &debtID,
				Status:        "paid",
			},
			setupMock: func(svc *mocks.MockReceiptPaymentService) {
				svc.On("Create", mock.Anything, mock.MatchedBy(func(req *domain.CreateReceiptPaymentRequest) bool {
					return req.DebtRecordID != nil && *req.DebtRecordID == debtID && req.Status == "paid"
				})).Return(&domain.CommitResult{ReceiptPayment: domain.ReceiptPayment{Status: domain.ReceiptPaymentStatusDebtPayment}}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "status outside draft and paid",
			requestBody:    domain.CreateReceiptPaymentRequest{ExpenseType: "rent", Amount: 10, PaymentMethod: 1, Status: "cancelled"},
			setupMock:      func(svc *mocks.MockReceiptPaymentService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   customError.ErrCodeValidation,
		},
		{
			name:           "missing expense type",
			requestBody:    domain.CreateReceiptPaymentRequest{Amount: 10, PaymentMethod: 1},
			setupMock:      func(svc *mocks.MockReceiptPaymentService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   customError.ErrCodeValidation,
		},
		{
			name:        "debt is not a supplier debt",
			requestBody: domain.CreateReceiptPaymentRequest{ExpenseType: "supplier_payment", Amount: 10, PaymentMethod: 1, DebtRecordID: &debtID},
			setupMock: func(svc *mocks.MockReceiptPaymentService) {
				svc.On("Create", mock.Anything, mock.Anything).
					Return(nil, customError.WrapInvalidReceiptPayment("receipt payments can only settle supplier debts")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   customError.ErrCodeInvalidReceiptPayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockReceiptPaymentService{}
			tt.setupMock(svc)

			w := send(newReceiptPaymentRouter(svc), http.MethodPost, "/api/v1/receipt-payments", tt.requestBody, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, decode(t, w).Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestReceiptPaymentHandler_Lifecycle(t *testing.T) {
	id := uuid.New()
	base := "/api/v1/receipt-payments/" + id.String()

	svc := &mocks.MockReceiptPaymentService{}
	svc.On("Get", mock.Anything, id).Return(&domain.ReceiptPayment{ID: id, Status: domain.ReceiptPaymentStatusDraft}, nil).Once()
	svc.On("Commit", mock.Anything, id).Return(&domain.CommitResult{ReceiptPayment: domain.ReceiptPayment{ID: id, Status: domain.ReceiptPaymentStatusPaid}}, nil).Once()
	svc.On("Commit", mock.Anything, id).Return(nil, customError.WrapReceiptPaymentState("PC-1", "paid", "committed")).Once()
	svc.On("Cancel", mock.Anything, id).Return(nil, customError.WrapReceiptPaymentState("PC-1", "paid", "cancelled")).Once()
	svc.On("Delete", mock.Anything, id).Return(nil).Once()

	router := newReceiptPaymentRouter(svc)

	assert.Equal(t, http.StatusOK, send(router, http.MethodGet, base, nil, nil).Code)
	assert.Equal(t, http.StatusOK, send(router, http.MethodPost, base+"/commit", nil, nil).Code)

	w := send(router, http.MethodPost, base+"/commit", nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, customError.ErrCodeReceiptPaymentState, decode(t, w).Code)

	w = send(router, http.MethodPost, base+"/cancel", nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, http.StatusNoContent, send(router, http.MethodDelete, base, nil, nil).Code)
	svc.AssertExpectations(t)
}

func TestReceiptPaymentHandler_Update(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		path           string
		requestBody    interface{}
		setupMock      func(svc *mocks.MockReceiptPaymentService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:        "draft edited",
			path:        "/api/v1/receipt-payments/" + id.String(),
			requestBody: `{"amount": 450000, "notes": "two trucks"}`,
			setupMock: func(svc *mocks.MockReceiptPaymentService) {
				svc.On("Update", mock.Anything, id, mock.MatchedBy(func(req *domain.UpdateReceiptPaymentRequest) bool {
					return req.Amount != nil && *req.Amount == 450000 && req.Notes != nil && *req.Notes == "two trucks" && req.ExpenseType == nil
				})).Return(&domain.ReceiptPayment{ID: id, Amount: 450000, Status: domain.ReceiptPaymentStatusDraft}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "committed payment",
			path:        "/api/v1/receipt-payments/" + id.String(),
			requestBody: `{"amount": 1}`,
			setupMock: func(svc *mocks.MockReceiptPaymentService) {
				svc.On("Update", mock.Anything, id, mock.Anything).
					Return(nil, customError.WrapReceiptPaymentState("PC-1", "paid", "updated")).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   customError.ErrCodeReceiptPaymentState,
		},
		{
			name:        "debt link on non supplier expense",
			path:        "/api/v1/receipt-payments/" + id.String(),
			requestBody: `{"expense_type": "rent", "debt_record_id": "` + uuid.NewString() + `"}`,
			setupMock: func(svc *mocks.MockReceiptPaymentService) {
				svc.On("Update", mock.Anything, id, mock.Anything).
					Return(nil, customError.WrapInvalidReceiptPayment("only supplier payments can settle a debt")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   customError.ErrCodeInvalidReceiptPayment,
		},
		{
			name:           "notes too long",
			path:           "/api/v1/receipt-payments/" + id.String(),
			requestBody:    `{"notes": "` + strings.Repeat("x", 1001) + `"}`,
			setupMock:      func(svc *mocks.MockReceiptPaymentService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   customError.ErrCodeValidation,
		},
		{
			name:           "invalid json",
			path:           "/api/v1/receipt-payments/" + id.String(),
			requestBody:    `{"amount":`,
			setupMock:      func(svc *mocks.MockReceiptPaymentService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   customError.ErrCodeValidation,
		},
		{
			name:           "invalid id",
			path:           "/api/v1/receipt-payments/PC-1",
			requestBody:    `{"amount": 1}`,
			setupMock:      func(svc *mocks.MockReceiptPaymentService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   customError.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockReceiptPaymentService{}
			tt.setupMock(svc)

			w := send(newReceiptPaymentRouter(svc), http.MethodPut, tt.path, tt.requestBody, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, decode(t, w).Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestReceiptPaymentHandler_List(t *testing.T) {
	t.Run("parses filters", func(t *testing.T) {
		svc := &mocks.MockReceiptPaymentService{}
		rent := domain.ExpenseTypeRent
		draft := domain.ReceiptPaymentStatusDraft

		svc.On("List", mock.Anything, domain.ReceiptPaymentFilter{
			Keyword:     "office",
			ExpenseType: &rent,
			Status:      &draft,
			Page:        1,
			Limit:       5,
		}).Return(&domain.ReceiptPaymentListResponse{Data: []domain.ReceiptPayment{}}, nil).Once()

		w := send(newReceiptPaymentRouter(svc), http.MethodGet,
			"/api/v1/receipt-payments?keyword=office&expenseType=rent&status=draft&page=1&limit=5", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown expense type", func(t *testing.T) {
		svc := &mocks.MockReceiptPaymentService{}
		w := send(newReceiptPaymentRouter(svc), http.MethodGet, "/api/v1/receipt-payments?expenseType=travel", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, customError.ErrCodeInvalidReceiptPayment, decode(t, w).Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := &mocks.MockReceiptPaymentService{}
		w := send(newReceiptPaymentRouter(svc), http.MethodGet, "/api/v1/receipt-payments?status=void", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, customError.ErrCodeValidation, decode(t, w).Code)
	})
}
