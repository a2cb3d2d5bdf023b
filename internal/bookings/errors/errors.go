// Package errors defines sentinel errors for the bookings domain.
package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	// ErrSlotTaken is the unique (provider_name, date, time) index firing:
	// another booking already holds the slot.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrDuplicateReference is a reference collision on insert; callers
	// regenerate and retry.
	ErrDuplicateReference = errors.New("booking reference already exists")
)
