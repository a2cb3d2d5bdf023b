// Package events publishes booking lifecycle events. Delivery is best-effort
// after commit: the ledger is the source of truth and a lost event never
// un-books a slot.
package events

import (
	"context"

	"github.com/abhash31/ai-booking-assistant/pkg/kafka"
	"github.com/abhash31/ai-booking-assistant/pkg/logger"
	"github.com/abhash31/ai-booking-assistant/pkg/model"
)

const (
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"

	sourceService = "booking-api"
)

// BookingEvent is the wire payload for both confirmed and cancelled events.
type BookingEvent struct {
	Type         string `json:"type"`
	Reference    string `json:"reference"`
	PatientName  string `json:"patient_name"`
	ProviderName string `json:"provider_name"`
	Specialty    string `json:"specialty"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

type Publisher interface {
	PublishConfirmed(ctx context.Context, booking *model.Booking)
	PublishCancelled(ctx context.Context, booking *model.Booking)
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) PublishConfirmed(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingConfirmed, booking)
}

func (p *kafkaPublisher) PublishCancelled(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingCancelled, booking)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	event := BookingEvent{
		Type:         eventType,
		Reference:    booking.Reference,
		PatientName:  booking.PatientName,
		ProviderName: booking.ProviderName,
		Specialty:    booking.Specialty,
		Date:         booking.Date,
		Time:         booking.Time,
	}

	msg := kafka.NewMessage().
		WithKey(booking.ProviderName).
		WithValue(event).
		WithEventType(eventType).
		WithSource(sourceService).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"reference", booking.Reference,
			"error", err,
		)
		return
	}

	p.log.Debug("Booking event published",
		"event_type", eventType,
		"reference", booking.Reference,
	)
}

// NoopPublisher drops events; used when booking events are disabled.
type NoopPublisher struct{}

func NewNoopPublisher() Publisher {
	return NoopPublisher{}
}

func (NoopPublisher) PublishConfirmed(ctx context.Context, booking *model.Booking) {}
func (NoopPublisher) PublishCancelled(ctx context.Context, booking *model.Booking) {}
