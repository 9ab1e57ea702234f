package errors

import (
	"context"
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// Precondition violations: caller's fault, never retried automatically.
	ErrUnresolvedRoute = errors.New("route key is missing an origin or destination area")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")

	// Contention: safe to retry with backoff.
	ErrLockTimeout       = errors.New("lock wait timeout exceeded")
	ErrAllocationTimeout = errors.New("sequence allocation timed out")
	ErrCodeCollision     = errors.New("could not claim a unique fallback code")

	// Fatal to the calling operation.
	ErrStoreUnavailable = errors.New("store unavailable")

	// Business-rule rejections, surfaced verbatim.
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInsufficientPending = errors.New("insufficient pending balance")
	ErrWalletInactive      = errors.New("wallet is inactive")

	// A mutation would have broken balance == total_credited - total_debited.
	ErrLedgerInvariant = errors.New("ledger invariant violated")
)

// Kind groups errors by how a caller should react to them
type Kind int

const (
	KindUnknown Kind = iota
	KindPrecondition
	KindContention
	KindUnavailable
	KindBusinessRule
	KindNotFound
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindContention:
		return "contention"
	case KindUnavailable:
		return "unavailable"
	case KindBusinessRule:
		return "business_rule"
	case KindNotFound:
		return "not_found"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// KindOf classifies err. Wrapped errors are unwrapped.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrUnresolvedRoute), errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidInput):
		return KindPrecondition
	case errors.Is(err, ErrLockTimeout), errors.Is(err, ErrAllocationTimeout), errors.Is(err, ErrCodeCollision),
		errors.Is(err, context.DeadlineExceeded):
		return KindContention
	case errors.Is(err, ErrStoreUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrInsufficientPending), errors.Is(err, ErrWalletInactive):
		return KindBusinessRule
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrLedgerInvariant):
		return KindInvariant
	default:
		return KindUnknown
	}
}

// IsRetryable reports whether err is lock contention the caller may retry with backoff
func IsRetryable(err error) bool {
	return KindOf(err) == KindContention
}

// AppError represents application error with HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// FromError maps a core error onto the status a collaborator should surface
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch KindOf(err) {
	case KindPrecondition:
		return NewAppError(http.StatusBadRequest, err.Error(), err)
	case KindBusinessRule:
		return NewAppError(http.StatusUnprocessableEntity, err.Error(), err)
	case KindNotFound:
		return NewAppError(http.StatusNotFound, err.Error(), err)
	case KindContention:
		return NewAppError(http.StatusConflict, err.Error(), err)
	case KindUnavailable:
		return NewAppError(http.StatusServiceUnavailable, "store unavailable", err)
	default:
		return InternalError(err)
	}
}
