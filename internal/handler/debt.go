package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/segyhp/receipt-debt-engine/internal/domain"
	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
	"github.com/segyhp/receipt-debt-engine/pkg/response"
)

// IdempotencyKeyHeader overrides the code field of a payment request
const IdempotencyKeyHeader = "Idempotency-Key"

type DebtService interface {
	CreateDebt(ctx context.Context, request *domain.CreateDebtRequest) (*domain.DebtRecord, error)
	GetDebt(ctx context.Context, id uuid.UUID) (*domain.DebtDetail, error)
	ListDebts(ctx context.Context, filter domain.DebtFilter) (*domain.DebtListResponse, error)
	Summary(ctx context.Context) (*domain.DebtSummary, error)
	Overdue(ctx context.Context) ([]domain.DebtRecord, error)
	CloseDebt(ctx context.Context, id uuid.UUID) (*domain.DebtRecord, error)
	DeleteDebt(ctx context.Context, id uuid.UUID) error
	ApplyPayment(ctx context.Context, id uuid.UUID, request *domain.ApplyPaymentRequest) (*domain.PaymentResult, error)
	PaymentHistory(ctx context.Context, id uuid.UUID) (*domain.PaymentHistory, error)
	AuditDebt(ctx context.Context, id uuid.UUID) (*domain.LedgerAudit, error)
}

type DebtHandler struct {
	service   DebtService
	validator *validator.Validate
}

func NewDebtHandler(service DebtService) *DebtHandler {
	return &DebtHandler{
		service:   service,
		validator: newValidator(),
	}
}

// RegisterRoutes mounts the debt endpoints. Fixed paths come before {id}.
func (h *DebtHandler) RegisterRoutes(r *mux.Router) {
	debts := r.PathPrefix("/receipt-debts").Subrouter()
	debts.HandleFunc("", h.Create).Methods(http.MethodPost)
	debts.HandleFunc("", h.List).Methods(http.MethodGet)
	debts.HandleFunc("/summary", h.Summary).Methods(http.MethodGet)
	debts.HandleFunc("/overdue", h.Overdue).Methods(http.MethodGet)
	debts.HandleFunc("/{id}", h.Get).Methods(http.MethodGet)
	debts.HandleFunc("/{id}", h.Delete).Methods(http.MethodDelete)
	debts.HandleFunc("/{id}/close", h.Close).Methods(http.MethodPost)
	debts.HandleFunc("/{id}/payments", h.ApplyPayment).Methods(http.MethodPost)
	debts.HandleFunc("/{id}/payments", h.PaymentHistory).Methods(http.MethodGet)
	debts.HandleFunc("/{id}/audit", h.Audit).Methods(http.MethodGet)
}

func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeInvalidJSON(w, err)
		return
	}
	if err := h.validator.Struct(request); err != nil {
		writeValidationError(w, err)
		return
	}

	record, err := h.service.CreateDebt(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, record)
}

func (h *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filter := domain.DebtFilter{
		Keyword:      q.String("keyword"),
		CustomerID:   q.String("customerId"),
		SupplierID:   q.String("supplierId"),
		StartDueDate: q.Date("startDueDate"),
		EndDueDate:   q.Date("endDueDate"),
		Page:         q.Int("page"),
		Limit:        q.Int("limit"),
	}
	if err := q.Err(); err != nil {
		writeError(w, err)
		return
	}

	if raw := q.String("status"); raw != "" {
		status, ok := domain.ParseDebtStatus(raw)
		if !ok {
			writeError(w, customError.WrapValidation(errors.New("unknown status "+raw)))
			return
		}
		filter.Status = &status
	}
	if raw := q.String("type"); raw != "" {
		kind := domain.DebtKind(raw)
		if !kind.Valid() {
			writeError(w, customError.WrapInvalidDebtKind(raw))
			return
		}
		filter.Kind = &kind
	}

	result, err := h.service.ListDebts(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *DebtHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	detail, err := h.service.GetDebt(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, detail)
}

func (h *DebtHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, summary)
}

func (h *DebtHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Overdue(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, records)
}

func (h *DebtHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.service.CloseDebt(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, record)
}

func (h *DebtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteDebt(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

// ApplyPayment reconciles a payment against the debt. A replayed request
// answers 200 with the original result, a new one 201.
func (h *DebtHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var request domain.ApplyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeInvalidJSON(w, err)
		return
	}
	if key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader)); key != "" {
		request.Code = key
	}
	if err := h.validator.Struct(request); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.service.ApplyPayment(r.Context(), id, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	if result.Replayed {
		response.Success(w, result)
		return
	}
	response.Created(w, result)
}

func (h *DebtHandler) PaymentHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	history, err := h.service.PaymentHistory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, history)
}

func (h *DebtHandler) Audit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	audit, err := h.service.AuditDebt(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, audit)
}
