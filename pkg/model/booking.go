package model

import "time"

// Booking is one confirmed reservation: a single row per
// (provider_name, date, time) slot, enforced by a unique index.
// Bookings are never updated in place; a change of slot is a cancel
// followed by a fresh reservation.
type Booking struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Reference    string    `json:"reference" bson:"reference" validate:"required,len=8"`
	PatientName  string    `json:"patient_name" bson:"patient_name" validate:"required,min=1,max=100"`
	PatientAge   int       `json:"patient_age" bson:"patient_age" validate:"min=0,max=150"`
	ProviderName string    `json:"provider_name" bson:"provider_name" validate:"required,min=2,max=100"`
	Specialty    string    `json:"specialty" bson:"specialty" validate:"omitempty,max=100"`
	Date         string    `json:"date" bson:"date" validate:"required,valid_date"`
	Time         string    `json:"time" bson:"time" validate:"required,valid_time_range"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingRequest is the structured input produced by the external parsing
// collaborator. It is treated as untrusted: every field is validated before
// any storage access. Time is optional; when empty the service books the
// earliest available slot.
type BookingRequest struct {
	PatientName  string `json:"patient_name" validate:"required,min=1,max=100"`
	PatientAge   int    `json:"patient_age" validate:"min=0,max=150"`
	ProviderName string `json:"provider_name" validate:"required,min=2,max=100"`
	Date         string `json:"date" validate:"required,valid_date"`
	Time         string `json:"time" validate:"omitempty,valid_time_range"`
}
