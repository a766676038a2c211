package service

import (
	"context"
	"fmt"
	"time"

	"futspot/internal/auth"
	"futspot/internal/booking"
	"futspot/internal/logger"
	"futspot/internal/messaging"
	"futspot/internal/metrics"
	"futspot/internal/models"
	"futspot/internal/repository"
	"futspot/internal/schedule"
)

// AvailabilityCache caches availability responses per (venue, date).
// Every invalidation bumps the pair's version; Set keeps resp only if the
// version is still the one read before the response was built.
type AvailabilityCache interface {
	Get(ctx context.Context, venueID int64, date string) (*models.AvailabilityResponse, error)
	Version(ctx context.Context, venueID int64, date string) (int64, error)
	Set(ctx context.Context, venueID int64, date string, version int64, resp *models.AvailabilityResponse) error
	InvalidateVenueDate(ctx context.Context, venueID int64, date string) error
	InvalidateVenue(ctx context.Context, venueID int64) error
}

// VenueIndex is the full-text venue index used by search.
type VenueIndex interface {
	IndexVenue(ctx context.Context, venue *models.Venue) error
	DeleteVenue(ctx context.Context, id int64) error
	SearchVenueIDs(ctx context.Context, city string, categories []string) ([]int64, error)
}

// PhotoStore uploads image bytes and returns their public URL.
type PhotoStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Deps - внешние зависимости сервисов. Cache, Index и Photos могут быть nil.
type Deps struct {
	Store     repository.Store
	Clock     schedule.Clock
	Publisher messaging.Publisher
	Cache     AvailabilityCache
	Index     VenueIndex
	Photos    PhotoStore
	Tokens    *auth.TokenManager
	Metrics   *metrics.Metrics
}

type Services struct {
	Auth          *AuthService
	Users         *UserService
	Venues        *VenueService
	Availability  *AvailabilityService
	Reservations  *ReservationService
	Ratings       *RatingService
	Notifications *NotificationService
	Stats         *StatsService
	Uploads       *UploadService
	MonthlyPlans  *MonthlyPlanService
}

func NewServices(d Deps) *Services {
	if d.Clock == nil {
		d.Clock = schedule.SystemClock{}
	}
	if d.Publisher == nil {
		d.Publisher = messaging.NopPublisher{}
	}

	fx := &effects{publisher: d.Publisher, cache: d.Cache, index: d.Index, metrics: d.Metrics}

	return &Services{
		Auth:          NewAuthService(d.Store, d.Tokens),
		Users:         NewUserService(d.Store, fx),
		Venues:        NewVenueService(d.Store, fx),
		Availability:  NewAvailabilityService(d.Store, d.Clock, d.Cache, d.Index),
		Reservations:  NewReservationService(d.Store, d.Clock, fx),
		Ratings:       NewRatingService(d.Store, d.Clock),
		Notifications: NewNotificationService(d.Store),
		Stats:         NewStatsService(d.Store, d.Clock),
		Uploads:       NewUploadService(d.Store, d.Photos, fx),
		MonthlyPlans:  NewMonthlyPlanService(d.Store),
	}
}

// effects выполняет побочные действия после коммита: события, кеш, индекс.
// Ошибки логируются и не возвращаются.
type effects struct {
	publisher messaging.Publisher
	cache     AvailabilityCache
	index     VenueIndex
	metrics   *metrics.Metrics
}

func (fx *effects) publish(ctx context.Context, subject string, event models.ReservationEvent) {
	event.Type = subject
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := fx.publisher.Publish(subject, event); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish reservation event",
			"error", err,
			"reservation_id", event.ReservationID,
			"event_type", subject)
	}
	fx.metrics.ReservationTransition(event.Status)
}

func (fx *effects) invalidateDate(ctx context.Context, venueID int64, date string) {
	if fx.cache == nil {
		return
	}
	if err := fx.cache.InvalidateVenueDate(ctx, venueID, date); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate availability cache",
			"error", err, "venue_id", venueID, "date", date)
	}
}

func (fx *effects) invalidateVenue(ctx context.Context, venueID int64) {
	if fx.cache == nil {
		return
	}
	if err := fx.cache.InvalidateVenue(ctx, venueID); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate availability cache",
			"error", err, "venue_id", venueID)
	}
}

// invalidatePlayer сбрасывает даты, где в disponibilidade виден игрок.
func (fx *effects) invalidatePlayer(ctx context.Context, store repository.Store, playerID int64) {
	if fx.cache == nil {
		return
	}
	list, err := store.Reservations().ListByPlayer(ctx, playerID)
	if err != nil {
		logger.WithContext(ctx).Warn("Failed to list player reservations for cache invalidation",
			"error", err, "player_id", playerID)
		return
	}

	seen := map[string]struct{}{}
	for _, r := range list {
		state, err := booking.Decode(r.Status, r.CancelledBy)
		if err != nil || !booking.IsActive(state) {
			continue
		}
		key := fmt.Sprintf("%d:%s", r.VenueID, r.Date)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		fx.invalidateDate(ctx, r.VenueID, r.Date)
	}
}

func (fx *effects) indexVenue(ctx context.Context, venue *models.Venue) {
	if fx.index == nil {
		return
	}
	if err := fx.index.IndexVenue(ctx, venue); err != nil {
		logger.WithContext(ctx).Warn("Failed to index venue", "error", err, "venue_id", venue.ID)
	}
}

func (fx *effects) deleteVenue(ctx context.Context, venueID int64) {
	if fx.index == nil {
		return
	}
	if err := fx.index.DeleteVenue(ctx, venueID); err != nil {
		logger.WithContext(ctx).Warn("Failed to remove venue from index", "error", err, "venue_id", venueID)
	}
}
