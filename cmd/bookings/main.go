package main

import (
	"context"
	"time"

	"calbook/internal/bookings/events"
	"calbook/internal/bookings/handler"
	"calbook/internal/bookings/repository"
	"calbook/internal/bookings/service"
	"calbook/internal/bookings/validator"
	"calbook/internal/migrations"
	"calbook/pkg/app"
	"calbook/pkg/config"
	kafka_config "calbook/pkg/kafka/config"
)

const (
	ServiceName      = "bookings"
	migrationTimeout = 2 * time.Minute
)

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()

	cfg.Log.Info("Starting Bookings service")
	cfg.SetStore()

	if cfg.AutoMigrate {
		runMigrations(cfg)
	}

	bookingRepo, err := repository.NewBookingRepository(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize booking repository", "error", err)
	}

	publisher := initPublisher(cfg)
	bookingService := initServices(cfg, bookingRepo, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, cfg.Log),
		handler.NewHealthHandler(bookingRepo, cfg.Log),
	)
	serverApp.OnShutdown(func(ctx context.Context) error {
		return publisher.Close()
	})
	serverApp.OnShutdown(func(ctx context.Context) error {
		cfg.GracefulShutdown()
		return nil
	})
	serverApp.Run()
}

func runMigrations(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()

	if err := migrations.Run(ctx, cfg); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
}

// initPublisher returns the background event publisher the service queues
// into. Closing it drains pending events before the broker connection closes.
func initPublisher(cfg *config.Config) *events.AsyncPublisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Booking events disabled")
		return events.NewAsyncPublisher(events.NopPublisher{}, cfg.EventPublishTimeout, cfg.EventQueueSize, cfg.Log)
	}

	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	publisher, err := events.NewKafkaPublisher(kafkaCfg, cfg.Log, cfg.KafkaBookingTopic, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to create booking event publisher", "error", err)
	}

	cfg.Log.Info("Booking events enabled", "topic", cfg.KafkaBookingTopic)
	return events.NewAsyncPublisher(publisher, cfg.EventPublishTimeout, cfg.EventQueueSize, cfg.Log)
}

func initServices(cfg *config.Config, bookingRepo repository.BookingRepository, publisher *events.AsyncPublisher) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.Location, cfg.EnforceTimeOrder)
	bookingService := service.NewBookingService(
		bookingRepo,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "store_driver", cfg.StoreDriver)
	return bookingService
}
