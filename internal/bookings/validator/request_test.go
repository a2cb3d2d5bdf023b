package validator

import (
	"testing"

	"github.com/abhash31/ai-booking-assistant/pkg/model"
)

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		PatientName:  "John Smith",
		PatientAge:   42,
		ProviderName: "Dr. Sarah Chen",
		Date:         "2025-09-15",
		Time:         "10:00",
	}
}

func TestValidateRequestAcceptsWellFormedInput(t *testing.T) {
	v := NewBookingValidator()

	if err := v.ValidateRequest(validRequest()); err != nil {
		t.Fatalf("expected valid request to pass, got: %v", err)
	}
}

func TestValidateRequestAcceptsMissingTime(t *testing.T) {
	v := NewBookingValidator()

	req := validRequest()
	req.Time = ""

	if err := v.ValidateRequest(req); err != nil {
		t.Fatalf("time is optional, got: %v", err)
	}
}

func TestValidateRequestRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *model.BookingRequest)
	}{
		{"empty patient name", func(req *model.BookingRequest) { req.PatientName = "" }},
		{"negative age", func(req *model.BookingRequest) { req.PatientAge = -1 }},
		{"implausible age", func(req *model.BookingRequest) { req.PatientAge = 200 }},
		{"empty provider", func(req *model.BookingRequest) { req.ProviderName = "" }},
		{"empty date", func(req *model.BookingRequest) { req.Date = "" }},
		{"US-style date", func(req *model.BookingRequest) { req.Date = "09/15/2025" }},
		{"nonsense date", func(req *model.BookingRequest) { req.Date = "2025-13-45" }},
		{"12h time", func(req *model.BookingRequest) { req.Time = "2pm" }},
		{"out-of-range time", func(req *model.BookingRequest) { req.Time = "24:30" }},
	}

	v := NewBookingValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			if err := v.ValidateRequest(req); err == nil {
				t.Fatalf("expected validation error for %s", tt.name)
			}
		})
	}
}
