package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"futspot/internal/booking"
	apperrors "futspot/internal/errors"
	"futspot/internal/models"
	"futspot/internal/repository"
	"futspot/internal/schedule"
)

const (
	msgAlreadyRated     = "Este agendamento já foi avaliado."
	msgRateNotConfirmed = "Apenas agendamentos confirmados podem ser avaliados."
	msgRateBeforeStart  = "Você só pode avaliar após o horário do agendamento."
	msgInvalidScore     = "A nota deve estar entre 0 e 5."
)

type RatingService struct {
	store repository.Store
	clock schedule.Clock
}

func NewRatingService(store repository.Store, clock schedule.Clock) *RatingService {
	return &RatingService{store: store, clock: clock}
}

// Create rates a venue once per reservation, after the slot started.
func (s *RatingService) Create(ctx context.Context, playerID int64, req models.CreateRatingRequest) (*models.Rating, error) {
	if req.Score < 0 || req.Score > 5 || math.IsNaN(req.Score) {
		return nil, apperrors.Validation(msgInvalidScore)
	}
	score := math.Round(req.Score*10) / 10

	var rating models.Rating
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		res, err := tx.Reservations().GetByID(ctx, req.ReservationID)
		if err != nil {
			return fmt.Errorf("failed to get reservation: %w", err)
		}
		if res == nil || res.PlayerID != playerID {
			return apperrors.NotFound(msgReservationNotFound)
		}

		if res.Status != string(booking.StatusConfirmed) {
			return apperrors.Validation(msgRateNotConfirmed)
		}

		started, err := schedule.HasStarted(res.Date, res.Start, s.clock.Now())
		if err != nil {
			return apperrors.Internal(fmt.Errorf("reservation %d: %w", res.ID, err))
		}
		if !started {
			return apperrors.Validation(msgRateBeforeStart)
		}

		existing, err := tx.Ratings().GetByReservation(ctx, res.ID)
		if err != nil {
			return fmt.Errorf("failed to get rating: %w", err)
		}
		if existing != nil {
			return apperrors.Validation(msgAlreadyRated)
		}

		rating = models.Rating{
			VenueID:       res.VenueID,
			PlayerID:      playerID,
			ReservationID: res.ID,
			Score:         score,
			Comment:       req.Comment,
		}
		if err := tx.Ratings().Create(ctx, &rating); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.Validation(msgAlreadyRated)
			}
			return fmt.Errorf("failed to create rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rating, nil
}
