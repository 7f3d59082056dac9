package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound                 = errors.New("resource not found")
	ErrAlreadyExists            = errors.New("resource already exists")
	ErrInvalidInput             = errors.New("invalid input")
	ErrBadRequest               = errors.New("bad request")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrForbidden                = errors.New("forbidden")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrTokenExpired             = errors.New("token expired")
	ErrInvalidTransition        = errors.New("invalid verification status transition")
	ErrMissingRequiredDocuments = errors.New("required documents missing")
	ErrRejectionReasonRequired  = errors.New("rejection reason is required")
	ErrStorageFailure           = errors.New("document storage failure")
	ErrPayloadTooLarge          = errors.New("payload too large")
)

// Error codes returned to API clients
const (
	CodeBadRequest          = "ERR_BAD_REQUEST"
	CodeInvalidInput        = "ERR_INVALID_INPUT"
	CodeNotFound            = "ERR_NOT_FOUND"
	CodeConflict            = "ERR_CONFLICT"
	CodeUnauthorized        = "ERR_UNAUTHORIZED"
	CodeForbidden           = "ERR_FORBIDDEN"
	CodeInvalidCredentials  = "ERR_INVALID_CREDENTIALS"
	CodeInvalidTransition   = "ERR_INVALID_TRANSITION"
	CodeMissingDocuments    = "ERR_MISSING_REQUIRED_DOCUMENTS"
	CodeRejectionReason     = "ERR_REJECTION_REASON_REQUIRED"
	CodeStorageFailure      = "ERR_STORAGE_FAILURE"
	CodePayloadTooLarge     = "ERR_PAYLOAD_TOO_LARGE"
	CodeIdempotencyConflict = "ERR_IDEMPOTENCY_CONFLICT"
	CodeInternalError       = "ERR_INTERNAL"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
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
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return FromError(err).withMessage(message)
}

func (e *AppError) withMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

// FromError maps any error to an AppError. Sentinel domain errors keep their
// HTTP semantics and everything else becomes a 500.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, err.Error(), err)
	case errors.Is(err, ErrAlreadyExists):
		return NewAppError(http.StatusConflict, CodeConflict, err.Error(), err)
	case errors.Is(err, ErrInvalidTransition):
		return NewAppError(http.StatusConflict, CodeInvalidTransition, err.Error(), err)
	case errors.Is(err, ErrMissingRequiredDocuments):
		return NewAppError(http.StatusBadRequest, CodeMissingDocuments, err.Error(), err)
	case errors.Is(err, ErrRejectionReasonRequired):
		return NewAppError(http.StatusBadRequest, CodeRejectionReason, err.Error(), err)
	case errors.Is(err, ErrPayloadTooLarge):
		return NewAppError(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, err.Error(), err)
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, err.Error(), err)
	case errors.Is(err, ErrBadRequest):
		return NewAppError(http.StatusBadRequest, CodeBadRequest, err.Error(), err)
	case errors.Is(err, ErrInvalidCredentials):
		return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, err.Error(), err)
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrTokenExpired):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, err.Error(), err)
	case errors.Is(err, ErrForbidden):
		return NewAppError(http.StatusForbidden, CodeForbidden, err.Error(), err)
	case errors.Is(err, ErrStorageFailure):
		return NewAppError(http.StatusBadGateway, CodeStorageFailure, err.Error(), err)
	default:
		return InternalError(err)
	}
}
