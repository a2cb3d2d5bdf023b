package testutil

import "github.com/abhash31/ai-booking-assistant/pkg/model"

type ProviderBuilder struct {
	provider model.Provider
}

func NewProviderBuilder() *ProviderBuilder {
	remaining := 8
	return &ProviderBuilder{
		provider: model.Provider{
			Name:              "Dr. Sarah Chen",
			Specialty:         "Cardiology",
			StartOfDay:        "09:00",
			EndOfDay:          "17:00",
			MaxCapacity:       8,
			RemainingCapacity: &remaining,
		},
	}
}

func (b *ProviderBuilder) WithName(name string) *ProviderBuilder {
	b.provider.Name = name
	return b
}

func (b *ProviderBuilder) WithSpecialty(specialty string) *ProviderBuilder {
	b.provider.Specialty = specialty
	return b
}

func (b *ProviderBuilder) WithWindow(start, end string) *ProviderBuilder {
	b.provider.StartOfDay = start
	b.provider.EndOfDay = end
	return b
}

func (b *ProviderBuilder) WithCapacity(maxCapacity, remaining int) *ProviderBuilder {
	b.provider.MaxCapacity = maxCapacity
	b.provider.RemainingCapacity = &remaining
	return b
}

func (b *ProviderBuilder) Build() model.Provider {
	return b.provider
}

type BookingRequestBuilder struct {
	req model.BookingRequest
}

func NewBookingRequestBuilder() *BookingRequestBuilder {
	return &BookingRequestBuilder{
		req: model.BookingRequest{
			PatientName:  "John Smith",
			PatientAge:   42,
			ProviderName: "Dr. Sarah Chen",
			Date:         "2025-09-15",
		},
	}
}

func (b *BookingRequestBuilder) WithPatient(name string, age int) *BookingRequestBuilder {
	b.req.PatientName = name
	b.req.PatientAge = age
	return b
}

func (b *BookingRequestBuilder) WithProvider(name string) *BookingRequestBuilder {
	b.req.ProviderName = name
	return b
}

func (b *BookingRequestBuilder) WithDate(date string) *BookingRequestBuilder {
	b.req.Date = date
	return b
}

func (b *BookingRequestBuilder) WithTime(t string) *BookingRequestBuilder {
	b.req.Time = t
	return b
}

func (b *BookingRequestBuilder) Build() model.BookingRequest {
	return b.req
}
