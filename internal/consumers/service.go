package consumers

import (
	"context"
	"log/slog"

	"futspot/internal/cache"
	"futspot/internal/config"
	"futspot/internal/database"
	"futspot/internal/logger"
	"futspot/internal/messaging"
	"futspot/internal/models"
	"futspot/internal/repository"
	"futspot/internal/schedule"
	"futspot/internal/service"
)

const queueGroup = "futspot-consumers"

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	cache    *cache.AvailabilityCache
	services *service.Services
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	clock, err := schedule.NewSystemClock(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Connect to NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, err
	}

	cs := &ConsumerService{db: db, nats: natsClient}

	repos := repository.NewRepositories(db)
	deps := service.Deps{
		Store:     repos,
		Clock:     clock,
		Publisher: natsClient,
	}
	// ExpireStale сбрасывает кеш освобожденных слотов
	if cfg.Cache.Enabled {
		if c, err := cache.NewAvailabilityCache(cfg.Cache); err != nil {
			slog.Warn("Availability cache disabled", "error", err)
		} else {
			cs.cache = c
			deps.Cache = c
		}
	}

	cs.services = service.NewServices(deps)
	cs.handlers = NewHandlers(repos.Users(), NewLogMailer(logger.WithFields("component", "mailer")))
	return cs, nil
}

// Reservations отдает сервис бронирований для фоновых задач
func (cs *ConsumerService) Reservations() *service.ReservationService {
	return cs.services.Reservations
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	for _, subject := range models.ReservationEvents {
		if _, err := cs.nats.SubscribeQueue(subject, queueGroup, cs.handlers.HandleReservationEvent); err != nil {
			return err
		}
	}

	slog.Info("All consumers started successfully", "subjects", len(models.ReservationEvents))
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.cache != nil {
		if err := cs.cache.Close(); err != nil {
			slog.Error("Error closing cache connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
