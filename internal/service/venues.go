package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "futspot/internal/errors"
	"futspot/internal/models"
	"futspot/internal/repository"
	"futspot/internal/schedule"

	"github.com/lib/pq"
)

const (
	msgNotYourVenue     = "Você não é o locador deste local."
	msgVenueNameMissing = "O nome do local é obrigatório."
	msgAddressMissing   = "O endereço do local é obrigatório."
	msgInvalidCategory  = "Tipo de local inválido. Use society, futsal ou campo."
	msgInvalidPrice     = "O preço por hora deve ser de pelo menos 1."
	msgInvalidWeekday   = "Dia da semana inválido. Use valores de 0 (domingo) a 6 (sábado)."
	msgDuplicateWeekday = "Cada dia da semana pode aparecer apenas uma vez."
	msgHoursMissing     = "Informe início e fim para os dias abertos."
	msgHoursOrder       = "O horário de início deve ser anterior ao de fim."
)

type VenueService struct {
	store repository.Store
	fx    *effects
}

func NewVenueService(store repository.Store, fx *effects) *VenueService {
	return &VenueService{store: store, fx: fx}
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// apply copies the non-nil fields of req onto v.
func apply(v *models.Venue, req models.VenueRequest) {
	if req.Name != nil {
		v.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		v.Description = trimmed(req.Description)
	}
	if req.ZipCode != nil {
		v.ZipCode = trimmed(req.ZipCode)
	}
	if req.City != nil {
		v.City = trimmed(req.City)
	}
	if req.Address != nil {
		v.Address = strings.TrimSpace(*req.Address)
	}
	if req.Number != nil {
		v.Number = trimmed(req.Number)
	}
	if req.Category != nil {
		v.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.HourlyPrice != nil {
		v.HourlyPrice = *req.HourlyPrice
	}
	if req.Photos != nil {
		v.Photos = pq.StringArray(req.Photos)
	}
}

func validateVenue(v *models.Venue) error {
	if v.Name == "" {
		return apperrors.Validation(msgVenueNameMissing)
	}
	if v.Address == "" {
		return apperrors.Validation(msgAddressMissing)
	}
	valid := false
	for _, c := range models.Categories {
		if v.Category == c {
			valid = true
			break
		}
	}
	if !valid {
		return apperrors.Validation(msgInvalidCategory)
	}
	if v.HourlyPrice < 1 {
		return apperrors.Validation(msgInvalidPrice)
	}
	return nil
}

// buildHours validates a weekly schedule and normalizes its times.
func buildHours(venueID int64, in []models.HoursInput) ([]models.OperatingHours, error) {
	seen := map[int]bool{}
	out := make([]models.OperatingHours, 0, len(in))

	for _, h := range in {
		if h.Weekday < 0 || h.Weekday > 6 {
			return nil, apperrors.Validation(msgInvalidWeekday)
		}
		if seen[h.Weekday] {
			return nil, apperrors.Validation(msgDuplicateWeekday)
		}
		seen[h.Weekday] = true

		row := models.OperatingHours{VenueID: venueID, Weekday: h.Weekday, Open: h.Open}
		if h.Open {
			if trimmed(h.Start) == nil || trimmed(h.End) == nil {
				return nil, apperrors.Validation(msgHoursMissing)
			}
			start, err := schedule.TimeToMinutes(*h.Start)
			if err != nil {
				return nil, apperrors.Validation(msgInvalidTime)
			}
			end, err := schedule.TimeToMinutes(*h.End)
			if err != nil {
				return nil, apperrors.Validation(msgInvalidTime)
			}
			if start >= end {
				return nil, apperrors.Validation(msgHoursOrder)
			}
			s, e := schedule.MinutesToTime(start), schedule.MinutesToTime(end)
			row.Start, row.End = &s, &e
		}
		out = append(out, row)
	}
	return out, nil
}

// ownedVenue loads a venue and checks it belongs to ownerID.
func ownedVenue(ctx context.Context, tx repository.Store, ownerID, id int64) (*models.Venue, error) {
	venue, err := tx.Venues().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	if venue == nil {
		return nil, apperrors.NotFound(msgVenueNotFound)
	}
	if venue.OwnerID != ownerID {
		return nil, apperrors.Forbidden(msgNotYourVenue)
	}
	return venue, nil
}

func (s *VenueService) Create(ctx context.Context, ownerID int64, req models.VenueRequest) (*models.VenueDetail, error) {
	venue := &models.Venue{OwnerID: ownerID, Photos: pq.StringArray{}}
	apply(venue, req)
	if err := validateVenue(venue); err != nil {
		return nil, err
	}

	var input []models.HoursInput
	if req.Hours != nil {
		input = *req.Hours
	}
	if _, err := buildHours(0, input); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Venues().Create(ctx, venue); err != nil {
			return fmt.Errorf("failed to create venue: %w", err)
		}
		hours, _ := buildHours(venue.ID, input)
		if err := tx.Hours().ReplaceForVenue(ctx, venue.ID, hours); err != nil {
			return fmt.Errorf("failed to save operating hours: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.fx.indexVenue(ctx, venue)
	return s.Get(ctx, venue.ID)
}

// Update applies a partial update; hours are replaced when provided.
func (s *VenueService) Update(ctx context.Context, ownerID, id int64, req models.VenueRequest) (*models.VenueDetail, error) {
	var venue *models.Venue
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		venue, err = ownedVenue(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}

		apply(venue, req)
		if err := validateVenue(venue); err != nil {
			return err
		}
		if err := tx.Venues().Update(ctx, venue); err != nil {
			return fmt.Errorf("failed to update venue: %w", err)
		}

		if req.Hours != nil {
			hours, err := buildHours(venue.ID, *req.Hours)
			if err != nil {
				return err
			}
			if err := tx.Hours().ReplaceForVenue(ctx, venue.ID, hours); err != nil {
				return fmt.Errorf("failed to save operating hours: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.fx.indexVenue(ctx, venue)
	s.fx.invalidateVenue(ctx, venue.ID)
	return s.Get(ctx, venue.ID)
}

func (s *VenueService) Delete(ctx context.Context, ownerID, id int64) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := ownedVenue(ctx, tx, ownerID, id); err != nil {
			return err
		}
		if err := tx.Venues().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete venue: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.fx.deleteVenue(ctx, id)
	s.fx.invalidateVenue(ctx, id)
	return nil
}

func (s *VenueService) ListMine(ctx context.Context, ownerID int64) ([]models.Venue, error) {
	venues, err := s.store.Venues().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	return venues, nil
}

// Get returns a venue with its weekly hours and rating aggregate.
func (s *VenueService) Get(ctx context.Context, id int64) (*models.VenueDetail, error) {
	venue, err := s.store.Venues().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	if venue == nil {
		return nil, apperrors.NotFound(msgVenueNotFound)
	}

	hours, err := s.store.Hours().ListForVenue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get operating hours: %w", err)
	}
	ratings, err := s.store.Ratings().SummaryForVenues(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ratings: %w", err)
	}

	if venue.Photos == nil {
		venue.Photos = pq.StringArray{}
	}
	if hours == nil {
		hours = []models.OperatingHours{}
	}
	summary := ratings[id]
	return &models.VenueDetail{
		Venue:         *venue,
		Hours:         hours,
		AverageRating: roundRating(summary.Average),
		TotalRatings:  summary.Count,
	}, nil
}
