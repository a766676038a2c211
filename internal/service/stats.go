package service

import (
	"context"
	"fmt"
	"math"

	apperrors "futspot/internal/errors"
	"futspot/internal/models"
	"futspot/internal/repository"
	"futspot/internal/schedule"
)

const (
	msgUserNotFound   = "Usuário não encontrado."
	msgPlayerNotFound = "Jogador não encontrado."
)

// Метки поведения по проценту отмен
const (
	BehaviourNever     = "Nunca cancelou"
	BehaviourRarely    = "Raramente cancela"
	BehaviourSometimes = "Às vezes cancela"
	BehaviourOften     = "Cancela com frequência"
)

// CancellationRate is cancelled/decided as a rounded percentage.
func CancellationRate(cancelled, decided int) int {
	if decided == 0 {
		return 0
	}
	return int(math.Round(float64(cancelled) / float64(decided) * 100))
}

func BehaviourLabel(rate int) string {
	switch {
	case rate == 0:
		return BehaviourNever
	case rate <= 10:
		return BehaviourRarely
	case rate <= 30:
		return BehaviourSometimes
	default:
		return BehaviourOften
	}
}

// roundRating rounds an average score to one decimal.
func roundRating(avg *float64) *float64 {
	if avg == nil {
		return nil
	}
	v := math.Round(*avg*10) / 10
	return &v
}

type StatsService struct {
	store repository.Store
	clock schedule.Clock
}

func NewStatsService(store repository.Store, clock schedule.Clock) *StatsService {
	return &StatsService{store: store, clock: clock}
}

func (s *StatsService) playerStats(ctx context.Context, player *models.User, ownerID int64) (*models.PlayerStats, error) {
	counters, err := s.store.Stats().PlayerCounters(ctx, player.ID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}
	ratings, err := s.store.Ratings().SummaryGivenBy(ctx, player.ID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ratings: %w", err)
	}

	rate := CancellationRate(counters.CancelledBy, counters.Decided)
	return &models.PlayerStats{
		CreatedAt:        player.CreatedAt,
		TotalReservas:    counters.Confirmed,
		DistinctVenues:   counters.DistinctVenues,
		CancellationRate: rate,
		Behaviour:        BehaviourLabel(rate),
		AverageRating:    roundRating(ratings.Average),
		TotalRatings:     ratings.Count,
	}, nil
}

// PlayerStats summarizes the player's own history.
func (s *StatsService) PlayerStats(ctx context.Context, playerID int64) (*models.PlayerStats, error) {
	user, err := s.store.Users().GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound(msgUserNotFound)
	}
	return s.playerStats(ctx, user, 0)
}

// OwnerStats summarizes activity on the owner's venues.
func (s *StatsService) OwnerStats(ctx context.Context, ownerID int64) (*models.OwnerStats, error) {
	user, err := s.store.Users().GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound(msgUserNotFound)
	}

	venues, err := s.store.Venues().CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count venues: %w", err)
	}
	counters, err := s.store.Stats().OwnerCounters(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}
	ratings, err := s.store.Ratings().SummaryReceivedBy(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ratings: %w", err)
	}

	rate := CancellationRate(counters.CancelledBy, counters.Decided)
	return &models.OwnerStats{
		CreatedAt:        user.CreatedAt,
		TotalVenues:      venues,
		TotalReservas:    counters.Confirmed,
		TotalRevenue:     math.Round(counters.Revenue*100) / 100,
		CancellationRate: rate,
		Behaviour:        BehaviourLabel(rate),
		AverageRating:    roundRating(ratings.Average),
		TotalRatings:     ratings.Count,
	}, nil
}

// PlayerProfileForOwner shows a player's record limited to the owner's venues.
func (s *StatsService) PlayerProfileForOwner(ctx context.Context, ownerID, playerID int64) (*models.PlayerProfileForOwner, error) {
	player, err := s.store.Users().GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if player == nil || player.Role != models.RolePlayer {
		return nil, apperrors.NotFound(msgPlayerNotFound)
	}

	stats, err := s.playerStats(ctx, player, ownerID)
	if err != nil {
		return nil, err
	}
	return &models.PlayerProfileForOwner{
		Player: models.PlayerRef{ID: player.ID, Name: player.Name, Email: player.Email, PhotoURL: player.PhotoURL},
		Stats:  *stats,
	}, nil
}

// OwnerOccupancy reports confirmed slots against capacity per venue on date.
// An empty date means today.
func (s *StatsService) OwnerOccupancy(ctx context.Context, ownerID int64, date string) (*models.OccupancyResponse, error) {
	if date == "" {
		date = schedule.Today(s.clock.Now())
	}
	weekday, err := schedule.WeekdayOf(date)
	if err != nil {
		return nil, apperrors.Validation(msgInvalidDate)
	}

	venues, err := s.store.Venues().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}

	resp := &models.OccupancyResponse{Date: date, Venues: make([]models.VenueOccupancy, 0, len(venues))}
	if len(venues) == 0 {
		return resp, nil
	}

	ids := make([]int64, len(venues))
	for i, v := range venues {
		ids[i] = v.ID
	}
	hours, err := s.store.Hours().ListForVenuesOnWeekday(ctx, ids, int(weekday))
	if err != nil {
		return nil, fmt.Errorf("failed to get operating hours: %w", err)
	}
	confirmed, err := s.store.Reservations().CountConfirmedForVenuesOnDate(ctx, ids, date)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}

	for _, v := range venues {
		item := models.VenueOccupancy{VenueID: v.ID, VenueName: v.Name, Closed: true}

		var h *models.OperatingHours
		if row, ok := hours[v.ID]; ok {
			h = &row
		}
		grid, err := dayGrid(h)
		if err != nil {
			return nil, err
		}
		if grid != nil {
			item.Closed = false
			item.TotalSlots = len(grid)
			item.Occupied = min(confirmed[v.ID], item.TotalSlots)
		}
		resp.Venues = append(resp.Venues, item)
	}
	return resp, nil
}
