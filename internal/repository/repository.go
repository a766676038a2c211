package repository

import (
	"context"
	"errors"
	"fmt"

	"futspot/internal/database"
	"futspot/internal/models"

	"github.com/jmoiron/sqlx"
)

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePhoto(ctx context.Context, id int64, url string) error
}

type VenueFilter struct {
	City       string
	Categories []string
	// IDs restricts the result to these venues when non-nil.
	IDs []int64
}

type VenueStore interface {
	Create(ctx context.Context, venue *models.Venue) error
	GetByID(ctx context.Context, id int64) (*models.Venue, error)
	Update(ctx context.Context, venue *models.Venue) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Venue, error)
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
	Search(ctx context.Context, filter VenueFilter) ([]models.Venue, error)
	AppendPhoto(ctx context.Context, id int64, url string) error
}

type HoursStore interface {
	Lookup(ctx context.Context, venueID int64, weekday int) (*models.OperatingHours, error)
	ListForVenue(ctx context.Context, venueID int64) ([]models.OperatingHours, error)
	ListForVenuesOnWeekday(ctx context.Context, venueIDs []int64, weekday int) (map[int64]models.OperatingHours, error)
	ReplaceForVenue(ctx context.Context, venueID int64, hours []models.OperatingHours) error
}

type ReservationFilter struct {
	Date   string
	Status string
}

type ReservationStore interface {
	Create(ctx context.Context, r *models.Reservation) error
	GetByID(ctx context.Context, id int64) (*models.Reservation, error)
	GetForUpdate(ctx context.Context, id int64) (*models.Reservation, error)
	FindActive(ctx context.Context, venueID int64, date, start string) (*models.Reservation, error)
	ListActiveForVenueDate(ctx context.Context, venueID int64, date string) ([]models.ReservationWithPlayer, error)
	ActiveStartsForVenuesOnDate(ctx context.Context, venueIDs []int64, date string) (map[int64][]string, error)
	CountConfirmedForVenuesOnDate(ctx context.Context, venueIDs []int64, date string) (map[int64]int, error)
	UpdateStatus(ctx context.Context, id int64, status string, cancelledBy *string) error
	ListByPlayer(ctx context.Context, playerID int64) ([]models.PlayerReservation, error)
	ListByOwner(ctx context.Context, ownerID int64, filter ReservationFilter) ([]models.OwnerReservation, error)
	// ListStaleRequests returns requested reservations whose slot start, read
	// as local wall time ("YYYY-MM-DD HH:MM"), is after localFrom and at or
	// before localUntil.
	ListStaleRequests(ctx context.Context, localFrom, localUntil string, limit int) ([]models.Reservation, error)
}

type RatingStore interface {
	Create(ctx context.Context, rating *models.Rating) error
	GetByReservation(ctx context.Context, reservationID int64) (*models.Rating, error)
	SummaryForVenues(ctx context.Context, venueIDs []int64) (map[int64]models.RatingSummary, error)
	// SummaryGivenBy aggregates ratings written by a player, limited to the
	// venues of ownerID when it is not zero.
	SummaryGivenBy(ctx context.Context, playerID, ownerID int64) (models.RatingSummary, error)
	SummaryReceivedBy(ctx context.Context, ownerID int64) (models.RatingSummary, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	ListForUser(ctx context.Context, userID int64, read *bool) ([]models.NotificationDetail, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID int64, ids []string) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type StatsStore interface {
	// PlayerCounters counts a player's reservations, limited to the venues
	// of ownerID when it is not zero. Cancellations count when made by the player.
	PlayerCounters(ctx context.Context, playerID, ownerID int64) (models.ReservationCounters, error)
	// OwnerCounters counts reservations on an owner's venues.
	// Cancellations count when made by the owner.
	OwnerCounters(ctx context.Context, ownerID int64) (models.ReservationCounters, error)
}

type MonthlyPlanStore interface {
	Create(ctx context.Context, plan *models.MonthlyPlan) error
	GetByID(ctx context.Context, id int64) (*models.MonthlyPlan, error)
	GetByCPF(ctx context.Context, cpf string) (*models.MonthlyPlan, error)
	ListByVenue(ctx context.Context, venueID int64) ([]models.MonthlyPlan, error)
	Update(ctx context.Context, plan *models.MonthlyPlan) error
	Delete(ctx context.Context, id int64) error
}

// Store is the unit of work handed to the services.
type Store interface {
	Users() UserStore
	Venues() VenueStore
	Hours() HoursStore
	Reservations() ReservationStore
	Ratings() RatingStore
	Notifications() NotificationStore
	Stats() StatsStore
	MonthlyPlans() MonthlyPlanStore
	// WithTx runs fn against a transactional Store. Nested calls reuse the
	// outer transaction.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

type Repositories struct {
	db            *database.DB
	users         *UserRepository
	venues        *VenueRepository
	hours         *HoursRepository
	reservations  *ReservationRepository
	ratings       *RatingRepository
	notifications *NotificationRepository
	stats         *StatsRepository
	monthlyPlans  *MonthlyPlanRepository
}

func NewRepositories(db *database.DB) *Repositories {
	r := newRepositories(db.DB)
	r.db = db
	return r
}

func newRepositories(q sqlx.ExtContext) *Repositories {
	return &Repositories{
		users:         NewUserRepository(q),
		venues:        NewVenueRepository(q),
		hours:         NewHoursRepository(q),
		reservations:  NewReservationRepository(q),
		ratings:       NewRatingRepository(q),
		notifications: NewNotificationRepository(q),
		stats:         NewStatsRepository(q),
		monthlyPlans:  NewMonthlyPlanRepository(q),
	}
}

func (r *Repositories) Users() UserStore                 { return r.users }
func (r *Repositories) Venues() VenueStore               { return r.venues }
func (r *Repositories) Hours() HoursStore                { return r.hours }
func (r *Repositories) Reservations() ReservationStore   { return r.reservations }
func (r *Repositories) Ratings() RatingStore             { return r.ratings }
func (r *Repositories) Notifications() NotificationStore { return r.notifications }
func (r *Repositories) Stats() StatsStore                { return r.stats }
func (r *Repositories) MonthlyPlans() MonthlyPlanStore   { return r.monthlyPlans }

func (r *Repositories) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.InTx(ctx, func(tx *sqlx.Tx) error {
		return fn(newRepositories(tx))
	})
}

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicate, database.ConstraintName(err))
	}
	return err
}
