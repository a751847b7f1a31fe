package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
	"github.com/segyhp/receipt-debt-engine/pkg/response"
)

var statusByCode = map[string]int{
	customError.ErrCodeValidation:               http.StatusBadRequest,
	customError.ErrCodeInvalidAmount:            http.StatusBadRequest,
	customError.ErrCodeNegativeAmount:           http.StatusBadRequest,
	customError.ErrCodeInvalidDebtKind:          http.StatusBadRequest,
	customError.ErrCodeInvalidPaymentMethod:     http.StatusBadRequest,
	customError.ErrCodeInvalidReceiptPayment:    http.StatusBadRequest,
	customError.ErrCodeNotFound:                 http.StatusNotFound,
	customError.ErrCodeStaleRecordVersion:       http.StatusConflict,
	customError.ErrCodeIdempotencyConflict:      http.StatusConflict,
	customError.ErrCodeReconciliationInProgress: http.StatusConflict,
	customError.ErrCodeDuplicateCode:            http.StatusConflict,
	customError.ErrCodeReceiptPaymentState:      http.StatusConflict,
	customError.ErrCodeInvalidStatusTransition:  http.StatusConflict,
	customError.ErrCodeDebtAlreadySettled:       http.StatusUnprocessableEntity,
	customError.ErrCodeOverpaymentNotAllowed:    http.StatusUnprocessableEntity,
	customError.ErrCodeOutstandingBalance:       http.StatusUnprocessableEntity,
	customError.ErrCodeHasOutstandingBalance:    http.StatusUnprocessableEntity,
}

// StatusFor maps a business error code to an HTTP status
func StatusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := customError.CodeOf(err)
	status := StatusFor(code)

	message := "Internal server error"
	var businessErr *customError.BusinessError
	if errors.As(err, &businessErr) {
		message = businessErr.Message
	}

	// internals stay in the logs
	if status == http.StatusInternalServerError {
		response.ErrorWithCode(w, status, code, message, nil)
		return
	}
	response.ErrorWithCode(w, status, code, message, err)
}

func writeValidationError(w http.ResponseWriter, err error) {
	response.ErrorWithCode(w, http.StatusBadRequest, customError.ErrCodeValidation, "Validation failed", err)
}

func writeInvalidJSON(w http.ResponseWriter, err error) {
	response.ErrorWithCode(w, http.StatusBadRequest, customError.ErrCodeValidation, "Invalid JSON payload", err)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, customError.WrapValidation(err)
	}
	return id, nil
}

// queryParams reads optional query values, keeping the first parse error
type queryParams struct {
	values map[string][]string
	err    error
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{values: r.URL.Query()}
}

func (q *queryParams) String(key string) string {
	if v, ok := q.values[key]; ok && len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func (q *queryParams) Int(key string) int {
	raw := q.String(key)
	if raw == "" || q.err != nil {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.err = customError.WrapValidation(errors.New(key + " must be a number"))
		return 0
	}
	return n
}

// Date accepts YYYY-MM-DD or RFC3339
func (q *queryParams) Date(key string) *time.Time {
	raw := q.String(key)
	if raw == "" || q.err != nil {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	q.err = customError.WrapValidation(errors.New(key + " must be a date"))
	return nil
}

func (q *queryParams) Err() error {
	return q.err
}

func newValidator() *validator.Validate {
	return validator.New()
}
