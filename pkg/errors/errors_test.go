package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := Conflict("slot already taken")
	if err.Error() != "CONFLICT: slot already taken" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	cause := fmt.Errorf("write failed")
	wrapped := Internal("insert failed", cause)
	if !errors.Is(wrapped, cause) {
		t.Error("expected wrapped error to unwrap to cause")
	}
}

func TestDomainConstructors(t *testing.T) {
	cases := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"provider not found", ProviderNotFound("Dr. A"), CodeProviderNotFound, http.StatusNotFound},
		{"no capacity", NoCapacity("Dr. A"), CodeNoCapacity, http.StatusConflict},
		{"no availability", NoAvailability("Dr. A", "2025-08-15"), CodeNoAvailability, http.StatusConflict},
		{"invalid slot", InvalidSlot("Dr. A", "09:30"), CodeInvalidSlot, http.StatusUnprocessableEntity},
		{"conflict", Conflict("raced"), CodeConflict, http.StatusConflict},
		{"unavailable", Unavailable("booking storage"), CodeUnavailable, http.StatusServiceUnavailable},
		{"invalid input", InvalidInput("bad date"), CodeInvalidInput, http.StatusBadRequest},
		{"timeout", Timeout("deadline exceeded"), CodeTimeout, http.StatusGatewayTimeout},
		{"rate limited", RateLimited(), CodeRateLimited, http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.StatusCode() != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.StatusCode())
			}
		})
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("raced")
	if AsAppError(appErr) != appErr {
		t.Error("expected AsAppError to return the same AppError")
	}

	plain := fmt.Errorf("boom")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("expected %s, got %s", CodeInternal, converted.Code)
	}
	if !errors.Is(converted, plain) {
		t.Error("expected converted error to wrap the original")
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(NoCapacity("Dr. A"), CodeNoCapacity) {
		t.Error("expected IsCode to match")
	}
	if IsCode(fmt.Errorf("boom"), CodeNoCapacity) {
		t.Error("expected IsCode to reject plain errors")
	}
}
