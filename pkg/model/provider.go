package model

import "time"

// Provider is a bookable medical professional. The name is the identity:
// upserts replace by name and bookings reference providers by name, mirroring
// the providers collection's unique name index.
//
// RemainingCapacity is a pointer so an absent JSON field (defaulted to max on
// registration) stays distinguishable from an explicit zero, which marks a
// fully booked provider and is stored verbatim.
type Provider struct {
	ID                string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name              string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Specialty         string    `json:"specialty" bson:"specialty" validate:"required,min=2,max=100"`
	StartOfDay        string    `json:"start_of_day" bson:"start_of_day" validate:"required,valid_time_range"`
	EndOfDay          string    `json:"end_of_day" bson:"end_of_day" validate:"required,valid_time_range"`
	MaxCapacity       int       `json:"max_capacity" bson:"max_capacity" validate:"required,min=1,max=200"`
	RemainingCapacity *int      `json:"remaining_capacity,omitempty" bson:"remaining_capacity" validate:"omitempty,min=0"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Remaining returns the capacity counter, zero when unset.
func (p *Provider) Remaining() int {
	if p.RemainingCapacity == nil {
		return 0
	}
	return *p.RemainingCapacity
}
