package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhash31/ai-booking-assistant/internal/bookings/events"
	"github.com/abhash31/ai-booking-assistant/internal/bookings/service"
	"github.com/abhash31/ai-booking-assistant/pkg/config"
	"github.com/abhash31/ai-booking-assistant/pkg/kafka"
	kafka_config "github.com/abhash31/ai-booking-assistant/pkg/kafka/config"
	"github.com/abhash31/ai-booking-assistant/pkg/logger"
)

const (
	ServiceName   = "booking-notifier"
	consumerGroup = "booking-notifier"
)

// Consumes booking lifecycle events and renders the patient-facing
// confirmation and cancellation messages. Stands in for the downstream
// notification channel (SMS, chat callback).
func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingEventsTopic,
		consumerGroup,
		cfg.BookingEventsTopic+".dlq",
		handleEvent(cfg.Log),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	cfg.Log.Info("Notifier consuming", "topic", cfg.BookingEventsTopic, "group", consumerGroup)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Consumer stopped", "error", err)
	}
}

func handleEvent(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event events.BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			return fmt.Errorf("undecodable booking event: %w", err)
		}

		var text string
		switch event.Type {
		case events.TypeBookingConfirmed:
			text = service.FormatConfirmation(event, time.Now())
		case events.TypeBookingCancelled:
			text = service.FormatCancellation(event, time.Now())
		default:
			return fmt.Errorf("unknown booking event type: %s", event.Type)
		}

		log.Info("Notification dispatched",
			"event_id", msg.GetEventID(),
			"event_type", event.Type,
			"reference", event.Reference,
			"message", text,
		)
		return nil
	}
}
