package errors

import (
	"fmt"
	"net/http"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeProviderNotFound = "PROVIDER_NOT_FOUND"
	CodeNoCapacity       = "NO_CAPACITY"
	CodeNoAvailability   = "NO_AVAILABILITY"
	CodeInvalidSlot      = "INVALID_SLOT"
	CodeConflict         = "CONFLICT"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInternal         = "INTERNAL_ERROR"
	CodeTimeout          = "TIMEOUT"
	CodeRateLimited      = "RATE_LIMITED"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

// ProviderNotFound reports a booking request against an unknown provider.
func ProviderNotFound(name string) *AppError {
	return &AppError{
		Code:       CodeProviderNotFound,
		Message:    "Provider not found",
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"provider_name": name,
		},
	}
}

// NoCapacity reports an exhausted capacity counter: the provider is fully
// booked before the ledger is even consulted.
func NoCapacity(provider string) *AppError {
	return &AppError{
		Code:       CodeNoCapacity,
		Message:    fmt.Sprintf("%s is fully booked", provider),
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"provider_name": provider,
		},
	}
}

// NoAvailability reports that every derived slot for the date is taken even
// though the capacity counter was still positive.
func NoAvailability(provider, date string) *AppError {
	return &AppError{
		Code:       CodeNoAvailability,
		Message:    fmt.Sprintf("%s has no available slots on %s", provider, date),
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"provider_name": provider,
			"date":          date,
		},
	}
}

// InvalidSlot reports a requested time that is not one of the provider's
// derived slots; the caller should re-query availability.
func InvalidSlot(provider, t string) *AppError {
	return &AppError{
		Code:       CodeInvalidSlot,
		Message:    fmt.Sprintf("%s is not a bookable time for %s", t, provider),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"provider_name": provider,
			"time":          t,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Timeout(message string) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    message,
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

// RateLimited reports a client that exhausted its request budget for the
// current window.
func RateLimited() *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    "Too many requests. Please retry shortly.",
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// Unavailable reports a transient storage/infrastructure failure. The caller
// decides whether to retry; nothing is retried internally.
func Unavailable(service string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
