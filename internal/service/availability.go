package service

import (
	"context"
	"fmt"
	"strings"

	"futspot/internal/booking"
	apperrors "futspot/internal/errors"
	"futspot/internal/logger"
	"futspot/internal/models"
	"futspot/internal/repository"
	"futspot/internal/schedule"
)

const (
	msgVenueNotFound = "Local não encontrado."
	msgInvalidDate   = "Data inválida. Use o formato YYYY-MM-DD."
	msgPastDate      = "A data não pode ser anterior a hoje."
)

type AvailabilityService struct {
	store repository.Store
	clock schedule.Clock
	cache AvailabilityCache
	index VenueIndex
}

func NewAvailabilityService(store repository.Store, clock schedule.Clock, cache AvailabilityCache, index VenueIndex) *AvailabilityService {
	return &AvailabilityService{store: store, clock: clock, cache: cache, index: index}
}

// dayGrid returns the hourly slots of an open day, or nil when closed.
func dayGrid(h *models.OperatingHours) ([]string, error) {
	if !h.IsOpen() {
		return nil, nil
	}
	slots, err := schedule.BuildHourlySlots(*h.Start, *h.End)
	if err != nil {
		return nil, fmt.Errorf("invalid operating hours of venue %d: %w", h.VenueID, err)
	}
	return slots, nil
}

// Availability returns the slot-by-slot occupancy of a venue on date.
func (s *AvailabilityService) Availability(ctx context.Context, venueID int64, date string) (*models.AvailabilityResponse, error) {
	venue, err := s.store.Venues().GetByID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	if venue == nil {
		return nil, apperrors.NotFound(msgVenueNotFound)
	}

	weekday, err := schedule.WeekdayOf(date)
	if err != nil {
		return nil, apperrors.Validation(msgInvalidDate)
	}

	if cached := s.cached(ctx, venueID, date); cached != nil {
		return cached, nil
	}
	// версия читается до запросов к базе
	version, cacheable := s.cacheVersion(ctx, venueID, date)

	hours, err := s.store.Hours().Lookup(ctx, venueID, int(weekday))
	if err != nil {
		return nil, fmt.Errorf("failed to get operating hours: %w", err)
	}
	grid, err := dayGrid(hours)
	if err != nil {
		return nil, err
	}
	if grid == nil {
		resp := &models.AvailabilityResponse{Closed: true, Slots: []models.Slot{}}
		if cacheable {
			s.remember(ctx, venueID, date, version, resp)
		}
		return resp, nil
	}

	active, err := s.store.Reservations().ListActiveForVenueDate(ctx, venueID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	byStart := make(map[string]models.ReservationWithPlayer, len(active))
	for _, r := range active {
		start, err := schedule.Normalize(r.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid start of reservation %d: %w", r.Reservation.ID, err)
		}
		byStart[start] = r
	}

	slots := make([]models.Slot, 0, len(grid))
	for _, start := range grid {
		slot := models.Slot{Start: start, End: slotEnd(start), Status: models.SlotFree}
		if r, ok := byStart[start]; ok {
			slot.Status = models.SlotRequested
			if r.Status == string(booking.StatusConfirmed) {
				slot.Status = models.SlotOccupied
			}
			id := r.Reservation.ID
			player := r.PlayerRef
			slot.ReservationID = &id
			slot.Player = &player
		}
		slots = append(slots, slot)
	}

	resp := &models.AvailabilityResponse{Closed: false, Slots: slots}
	if cacheable {
		s.remember(ctx, venueID, date, version, resp)
	}
	return resp, nil
}

func (s *AvailabilityService) cached(ctx context.Context, venueID int64, date string) *models.AvailabilityResponse {
	if s.cache == nil {
		return nil
	}
	resp, err := s.cache.Get(ctx, venueID, date)
	if err != nil {
		logger.WithContext(ctx).Warn("Availability cache read failed", "error", err, "venue_id", venueID)
		return nil
	}
	return resp
}

func (s *AvailabilityService) cacheVersion(ctx context.Context, venueID int64, date string) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	version, err := s.cache.Version(ctx, venueID, date)
	if err != nil {
		logger.WithContext(ctx).Warn("Availability cache version read failed", "error", err, "venue_id", venueID)
		return 0, false
	}
	return version, true
}

func (s *AvailabilityService) remember(ctx context.Context, venueID int64, date string, version int64, resp *models.AvailabilityResponse) {
	if err := s.cache.Set(ctx, venueID, date, version, resp); err != nil {
		logger.WithContext(ctx).Warn("Availability cache write failed", "error", err, "venue_id", venueID)
	}
}

// freeSlots removes taken starts from the grid and, when date is today,
// every slot whose start minute is not after the current minute.
func (s *AvailabilityService) freeSlots(grid, taken []string, date string) []string {
	busy := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		if n, err := schedule.Normalize(t); err == nil {
			busy[n] = struct{}{}
		}
	}

	now := s.clock.Now()
	isToday := date == schedule.Today(now)
	nowMinute := schedule.MinuteOfDay(now)

	free := make([]string, 0, len(grid))
	for _, start := range grid {
		if _, ok := busy[start]; ok {
			continue
		}
		if isToday {
			m, _ := schedule.TimeToMinutes(start)
			if m <= nowMinute {
				continue
			}
		}
		free = append(free, start)
	}
	return free
}

// AvailableSlotsOnly returns the free slot starts of a venue on date.
func (s *AvailabilityService) AvailableSlotsOnly(ctx context.Context, venueID int64, date string) (*models.FreeSlotsResponse, error) {
	venue, err := s.store.Venues().GetByID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	if venue == nil {
		return nil, apperrors.NotFound(msgVenueNotFound)
	}

	weekday, err := schedule.WeekdayOf(date)
	if err != nil {
		return nil, apperrors.Validation(msgInvalidDate)
	}

	resp := &models.FreeSlotsResponse{VenueID: venueID, Date: date, FreeSlots: []string{}}

	hours, err := s.store.Hours().Lookup(ctx, venueID, int(weekday))
	if err != nil {
		return nil, fmt.Errorf("failed to get operating hours: %w", err)
	}
	grid, err := dayGrid(hours)
	if err != nil {
		return nil, err
	}
	if grid == nil {
		return resp, nil
	}

	taken, err := s.store.Reservations().ActiveStartsForVenuesOnDate(ctx, []int64{venueID}, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	resp.FreeSlots = s.freeSlots(grid, taken[venueID], date)
	return resp, nil
}

// SearchVenues filters venues by city and category and, when a date is
// given, attaches their free slots filtered by day period.
func (s *AvailabilityService) SearchVenues(ctx context.Context, q models.SearchVenuesQuery) ([]models.VenueSearchItem, error) {
	if q.Date != "" {
		if _, err := schedule.ParseDate(q.Date); err != nil {
			return nil, apperrors.Validation(msgInvalidDate)
		}
		if q.Date < schedule.Today(s.clock.Now()) {
			return nil, apperrors.Validation(msgPastDate)
		}
	}

	categories := make([]string, 0, len(q.Categories))
	for _, c := range q.Categories {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			categories = append(categories, c)
		}
	}

	venues, err := s.findVenues(ctx, q.City, categories)
	if err != nil {
		return nil, err
	}

	items := make([]models.VenueSearchItem, 0, len(venues))
	if len(venues) == 0 {
		return items, nil
	}

	ids := make([]int64, len(venues))
	for i, v := range venues {
		ids[i] = v.ID
	}

	ratings, err := s.store.Ratings().SummaryForVenues(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ratings: %w", err)
	}

	var (
		hours map[int64]models.OperatingHours
		taken map[int64][]string
	)
	if q.Date != "" {
		weekday, _ := schedule.WeekdayOf(q.Date)
		if hours, err = s.store.Hours().ListForVenuesOnWeekday(ctx, ids, int(weekday)); err != nil {
			return nil, fmt.Errorf("failed to get operating hours: %w", err)
		}
		if taken, err = s.store.Reservations().ActiveStartsForVenuesOnDate(ctx, ids, q.Date); err != nil {
			return nil, fmt.Errorf("failed to list reservations: %w", err)
		}
	}

	for _, v := range venues {
		summary := ratings[v.ID]
		item := models.VenueSearchItem{
			ID:            v.ID,
			Name:          v.Name,
			Description:   v.Description,
			City:          v.City,
			Address:       v.Address,
			Number:        v.Number,
			Category:      v.Category,
			HourlyPrice:   v.HourlyPrice,
			Photos:        photosOf(v.Photos),
			AverageRating: roundRating(summary.Average),
			TotalRatings:  summary.Count,
			FreeSlots:     []string{},
		}

		if q.Date != "" {
			var h *models.OperatingHours
			if row, ok := hours[v.ID]; ok {
				h = &row
			}
			grid, err := dayGrid(h)
			if err != nil {
				return nil, err
			}
			if grid != nil {
				free := s.freeSlots(grid, taken[v.ID], q.Date)
				item.FreeSlots = schedule.FilterByPeriod(free, q.Periods)
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// findVenues prefers the search index and falls back to SQL on index errors.
func (s *AvailabilityService) findVenues(ctx context.Context, city string, categories []string) ([]models.Venue, error) {
	filter := repository.VenueFilter{City: strings.TrimSpace(city), Categories: categories}

	if s.index != nil {
		ids, err := s.index.SearchVenueIDs(ctx, filter.City, categories)
		if err == nil {
			if len(ids) == 0 {
				return nil, nil
			}
			filter = repository.VenueFilter{IDs: ids}
		} else {
			logger.WithContext(ctx).Warn("Venue index search failed, using database", "error", err)
		}
	}

	venues, err := s.store.Venues().Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search venues: %w", err)
	}
	return venues, nil
}

func slotEnd(start string) string {
	m, _ := schedule.TimeToMinutes(start)
	return schedule.MinutesToTime(m + schedule.SlotMinutes)
}

func photosOf(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}
