package main

import (
	"github.com/abhash31/ai-booking-assistant/internal/bookings/events"
	bookinghandler "github.com/abhash31/ai-booking-assistant/internal/bookings/handler"
	bookingrepo "github.com/abhash31/ai-booking-assistant/internal/bookings/repository"
	bookingservice "github.com/abhash31/ai-booking-assistant/internal/bookings/service"
	bookingvalidator "github.com/abhash31/ai-booking-assistant/internal/bookings/validator"
	providerhandler "github.com/abhash31/ai-booking-assistant/internal/providers/handler"
	providerrepo "github.com/abhash31/ai-booking-assistant/internal/providers/repository"
	providerservice "github.com/abhash31/ai-booking-assistant/internal/providers/service"
	providervalidator "github.com/abhash31/ai-booking-assistant/internal/providers/validator"
	"github.com/abhash31/ai-booking-assistant/pkg/app"
	"github.com/abhash31/ai-booking-assistant/pkg/config"
	"github.com/abhash31/ai-booking-assistant/pkg/kafka"
	kafka_config "github.com/abhash31/ai-booking-assistant/pkg/kafka/config"
)

const ServiceName = "booking-api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting booking API")

	providerSvc, bookingSvc, producer := initServices(cfg)
	if producer != nil {
		defer producer.Close()
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		providerhandler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		providerhandler.NewProviderHandler(providerSvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (providerservice.ProviderService, bookingservice.BookingService, *kafka.Producer) {
	providerRepository := providerrepo.NewMongoProviderRepository(cfg)
	providerSvc := providerservice.NewProviderService(
		providerRepository,
		providervalidator.NewProviderValidator(),
		cfg,
	)

	publisher, producer := initPublisher(cfg)

	bookingSvc := bookingservice.NewBookingService(
		bookingrepo.NewMongoBookingRepository(cfg),
		bookingrepo.NewMongoSlotLockRepository(cfg),
		providerRepository,
		bookingvalidator.NewBookingValidator(),
		publisher,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return providerSvc, bookingSvc, producer
}

func initPublisher(cfg *config.Config) (events.Publisher, *kafka.Producer) {
	if !cfg.BookingEventsEnabled {
		cfg.Log.Info("Booking events disabled, using noop publisher")
		return events.NewNoopPublisher(), nil
	}

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsTopic+".dlq")
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	return events.NewKafkaPublisher(producer, cfg.Log), producer
}
