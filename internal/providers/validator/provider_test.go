package validator

import (
	"testing"

	"github.com/abhash31/ai-booking-assistant/pkg/model"
)

func intPtr(n int) *int {
	return &n
}

func validProvider() *model.Provider {
	return &model.Provider{
		Name:              "Dr. Sarah Chen",
		Specialty:         "Cardiology",
		StartOfDay:        "09:00",
		EndOfDay:          "17:00",
		MaxCapacity:       8,
		RemainingCapacity: intPtr(8),
	}
}

func TestValidateAcceptsWellFormedProvider(t *testing.T) {
	v := NewProviderValidator()

	if err := v.Validate(validProvider()); err != nil {
		t.Fatalf("expected valid provider to pass, got: %v", err)
	}
}

func TestValidateRejectsMalformedProviders(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.Provider)
	}{
		{"empty name", func(p *model.Provider) { p.Name = "" }},
		{"empty specialty", func(p *model.Provider) { p.Specialty = "" }},
		{"bad start time", func(p *model.Provider) { p.StartOfDay = "9am" }},
		{"bad end time", func(p *model.Provider) { p.EndOfDay = "25:00" }},
		{"zero capacity", func(p *model.Provider) { p.MaxCapacity = 0 }},
		{"negative remaining", func(p *model.Provider) { p.RemainingCapacity = intPtr(-1) }},
		{"excessive capacity", func(p *model.Provider) { p.MaxCapacity = 500; p.RemainingCapacity = intPtr(500) }},
	}

	v := NewProviderValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProvider()
			tt.mutate(p)
			if err := v.Validate(p); err == nil {
				t.Fatalf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestValidateRejectsInvertedWindow(t *testing.T) {
	v := NewProviderValidator()

	p := validProvider()
	p.StartOfDay = "17:00"
	p.EndOfDay = "09:00"

	err := v.Validate(p)
	if err == nil {
		t.Fatal("expected error for end before start")
	}

	var verrs ValidationErrors
	if !errorsAs(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if verrs[0].Field != "EndOfDay" {
		t.Errorf("expected EndOfDay field error, got %s", verrs[0].Field)
	}
}

func TestValidateRejectsRemainingAboveMax(t *testing.T) {
	v := NewProviderValidator()

	p := validProvider()
	p.MaxCapacity = 5
	p.RemainingCapacity = intPtr(6)

	if err := v.Validate(p); err == nil {
		t.Fatal("expected error for remaining above max")
	}
}

func errorsAs(err error, target *ValidationErrors) bool {
	verrs, ok := err.(ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}
