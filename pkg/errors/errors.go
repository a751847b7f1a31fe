package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrNegativeAmount           = errors.New("amount would become negative")
	ErrDebtAlreadySettled       = errors.New("debt is already settled")
	ErrOverpaymentNotAllowed    = errors.New("payment exceeds remaining amount")
	ErrOutstandingBalance       = errors.New("debt still has an outstanding balance")
	ErrHasOutstandingBalance    = errors.New("cannot delete a debt with an outstanding balance")
	ErrStaleRecordVersion       = errors.New("record changed since it was read")
	ErrNotFound                 = errors.New("not found")
	ErrInvalidDebtKind          = errors.New("invalid debt kind")
	ErrInvalidPaymentMethod     = errors.New("invalid payment method")
	ErrInvalidStatusTransition  = errors.New("invalid status transition")
	ErrInvalidReceiptPayment    = errors.New("invalid receipt payment")
	ErrReceiptPaymentState      = errors.New("receipt payment is not in a valid state for this operation")
	ErrIdempotencyConflict      = errors.New("idempotency key already used")
	ErrReconciliationInProgress = errors.New("another reconciliation is in progress for this debt")
	ErrDuplicateCode            = errors.New("code already exists")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidAmount            = "INVALID_AMOUNT"
	ErrCodeNegativeAmount           = "NEGATIVE_AMOUNT"
	ErrCodeDebtAlreadySettled       = "DEBT_ALREADY_SETTLED"
	ErrCodeOverpaymentNotAllowed    = "OVERPAYMENT_NOT_ALLOWED"
	ErrCodeOutstandingBalance       = "OUTSTANDING_BALANCE"
	ErrCodeHasOutstandingBalance    = "HAS_OUTSTANDING_BALANCE"
	ErrCodeStaleRecordVersion       = "STALE_RECORD_VERSION"
	ErrCodeNotFound                 = "NOT_FOUND"
	ErrCodeInvalidDebtKind          = "INVALID_DEBT_KIND"
	ErrCodeInvalidPaymentMethod     = "INVALID_PAYMENT_METHOD"
	ErrCodeInvalidStatusTransition  = "INVALID_STATUS_TRANSITION"
	ErrCodeInvalidReceiptPayment    = "INVALID_RECEIPT_PAYMENT"
	ErrCodeReceiptPaymentState      = "RECEIPT_PAYMENT_STATE"
	ErrCodeIdempotencyConflict      = "IDEMPOTENCY_CONFLICT"
	ErrCodeReconciliationInProgress = "RECONCILIATION_IN_PROGRESS"
	ErrCodeDuplicateCode            = "DUPLICATE_CODE"
	ErrCodeValidation               = "VALIDATION_ERROR"
	ErrCodeDatabaseError            = "DATABASE_ERROR"
	ErrCodeCacheError               = "CACHE_ERROR"
	ErrCodeInternal                 = "INTERNAL_ERROR"
)

// CodeOf returns the business error code carried by err, or ErrCodeInternal
// when err is not a BusinessError.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ErrCodeInternal
}

// Wrap common errors with business context
func WrapInvalidAmount(amount int64) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Amount must be a positive integer, got %d", amount),
		ErrInvalidAmount,
	)
}

func WrapNegativeAmount(a, b int64) *BusinessError {
	return NewBusinessError(
		ErrCodeNegativeAmount,
		fmt.Sprintf("Subtracting %d from %d would be negative", b, a),
		ErrNegativeAmount,
	)
}

func WrapDebtAlreadySettled(code string) *BusinessError {
	return NewBusinessError(
		ErrCodeDebtAlreadySettled,
		fmt.Sprintf("Debt %s is already completed", code),
		ErrDebtAlreadySettled,
	)
}

func WrapOverpayment(amount, remaining int64) *BusinessError {
	return NewBusinessError(
		ErrCodeOverpaymentNotAllowed,
		fmt.Sprintf("Payment amount %d exceeds remaining amount %d", amount, remaining),
		ErrOverpaymentNotAllowed,
	)
}

func WrapOutstandingBalance(code string, remaining int64) *BusinessError {
	return NewBusinessError(
		ErrCodeOutstandingBalance,
		fmt.Sprintf("Debt %s cannot be closed, %d remaining", code, remaining),
		ErrOutstandingBalance,
	)
}

func WrapHasOutstandingBalance(code string, remaining int64) *BusinessError {
	return NewBusinessError(
		ErrCodeHasOutstandingBalance,
		fmt.Sprintf("Debt %s cannot be deleted, %d remaining", code, remaining),
		ErrHasOutstandingBalance,
	)
}

func WrapStaleRecordVersion(id string, expected int64) *BusinessError {
	return NewBusinessError(
		ErrCodeStaleRecordVersion,
		fmt.Sprintf("Record %s is no longer at version %d", id, expected),
		ErrStaleRecordVersion,
	)
}

func WrapNotFound(entity, id string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("%s with ID %s not found", entity, id),
		ErrNotFound,
	)
}

func WrapInvalidDebtKind(kind string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDebtKind,
		fmt.Sprintf("Unknown debt kind %q", kind),
		ErrInvalidDebtKind,
	)
}

func WrapInvalidPaymentMethod(method int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentMethod,
		fmt.Sprintf("Unknown payment method %d", method),
		ErrInvalidPaymentMethod,
	)
}

func WrapInvalidStatusTransition(from, to string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidStatusTransition,
		fmt.Sprintf("Cannot move from %s to %s", from, to),
		ErrInvalidStatusTransition,
	)
}

func WrapInvalidReceiptPayment(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidReceiptPayment,
		reason,
		ErrInvalidReceiptPayment,
	)
}

func WrapReceiptPaymentState(code, status, operation string) *BusinessError {
	return NewBusinessError(
		ErrCodeReceiptPaymentState,
		fmt.Sprintf("Receipt payment %s in status %s cannot be %s", code, status, operation),
		ErrReceiptPaymentState,
	)
}

func WrapIdempotencyConflict(key string) *BusinessError {
	return NewBusinessError(
		ErrCodeIdempotencyConflict,
		fmt.Sprintf("Idempotency key %s was already used for another debt", key),
		ErrIdempotencyConflict,
	)
}

func WrapReconciliationInProgress(id string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeReconciliationInProgress,
		fmt.Sprintf("Debt %s is being reconciled by another request", id),
		errors.Join(ErrReconciliationInProgress, err),
	)
}

func WrapStaleReceiptPayment(code string) *BusinessError {
	return NewBusinessError(
		ErrCodeStaleRecordVersion,
		fmt.Sprintf("Receipt payment %s changed since it was read", code),
		ErrStaleRecordVersion,
	)
}

func WrapDuplicateCode(entity, code string) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicateCode,
		fmt.Sprintf("%s with code %s already exists", entity, code),
		ErrDuplicateCode,
	)
}

func WrapValidation(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		"request validation failed",
		err,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
