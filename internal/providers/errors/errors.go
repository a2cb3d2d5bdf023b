// Package errors defines sentinel errors for the providers domain.
// Repositories return these; the service layer translates them into
// AppErrors with HTTP semantics.
package errors

import "errors"

var ErrNotFound = errors.New("provider not found")
