package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/segyhp/receipt-debt-engine/internal/domain"
	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
	"github.com/segyhp/receipt-debt-engine/pkg/response"
)

type ReceiptPaymentService interface {
	Create(ctx context.Context, request *domain.CreateReceiptPaymentRequest) (*domain.CommitResult, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ReceiptPayment, error)
	List(ctx context.Context, filter domain.ReceiptPaymentFilter) (*domain.ReceiptPaymentListResponse, error)
	Update(ctx context.Context, id uuid.UUID, request *domain.UpdateReceiptPaymentRequest) (*domain.ReceiptPayment, error)
	Commit(ctx context.Context, id uuid.UUID) (*domain.CommitResult, error)
	Cancel(ctx context.Context, id uuid.UUID) (*domain.ReceiptPayment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReceiptPaymentHandler struct {
	service   ReceiptPaymentService
	validator *validator.Validate
}

func NewReceiptPaymentHandler(service ReceiptPaymentService) *ReceiptPaymentHandler {
	return &ReceiptPaymentHandler{
		service:   service,
		validator: newValidator(),
	}
}

func (h *ReceiptPaymentHandler) RegisterRoutes(r *mux.Router) {
	payments := r.PathPrefix("/receipt-payments").Subrouter()
	payments.HandleFunc("", h.Create).Methods(http.MethodPost)
	payments.HandleFunc("", h.List).Methods(http.MethodGet)
	payments.HandleFunc("/{id}", h.Get).Methods(http.MethodGet)
	payments.HandleFunc("/{id}", h.Update).Methods(http.MethodPut)
	payments.HandleFunc("/{id}", h.Delete).Methods(http.MethodDelete)
	payments.HandleFunc("/{id}/commit", h.Commit).Methods(http.MethodPost)
	payments.HandleFunc("/{id}/cancel", h.Cancel).Methods(http.MethodPost)
}

func (h *ReceiptPaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateReceiptPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeInvalidJSON(w, err)
		return
	}
	if err := h.validator.Struct(request); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.service.Create(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, result)
}

func (h *ReceiptPaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filter := domain.ReceiptPaymentFilter{
		Keyword:    q.String("keyword"),
		SupplierID: q.String("supplierId"),
		StartDate:  q.Date("startDate"),
		EndDate:    q.Date("endDate"),
		Page:       q.Int("page"),
		Limit:      q.Int("limit"),
	}
	if err := q.Err(); err != nil {
		writeError(w, err)
		return
	}

	if raw := q.String("expenseType"); raw != "" {
		expenseType := domain.ExpenseType(raw)
		if !expenseType.Valid() {
			writeError(w, customError.WrapInvalidReceiptPayment("unknown expense type "+raw))
			return
		}
		filter.ExpenseType = &expenseType
	}
	if raw := q.String("status"); raw != "" {
		status := domain.ReceiptPaymentStatus(raw)
		switch status {
		case domain.ReceiptPaymentStatusDraft, domain.ReceiptPaymentStatusPaid,
			domain.ReceiptPaymentStatusDebtPayment, domain.ReceiptPaymentStatusCancelled:
			filter.Status = &status
		default:
			writeError(w, customError.WrapValidation(errors.New("unknown status "+raw)))
			return
		}
	}

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *ReceiptPaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	payment, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, payment)
}

// Update edits a draft receipt payment
func (h *ReceiptPaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var request domain.UpdateReceiptPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeInvalidJSON(w, err)
		return
	}
	if err := h.validator.Struct(request); err != nil {
		writeValidationError(w, err)
		return
	}

	payment, err := h.service.Update(r.Context(), id, &request)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, payment)
}

func (h *ReceiptPaymentHandler) Commit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Commit(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *ReceiptPaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	payment, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, payment)
}

func (h *ReceiptPaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}
