package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	apperrors "futspot/internal/errors"
	"futspot/internal/models"
	"futspot/internal/repository"
	"futspot/internal/schedule"
)

const (
	msgMonthlyPlanNotFound = "Mensalidade não encontrada."
	msgDuplicateCPF        = "Já existe uma mensalidade cadastrada com este CPF."
	msgInvalidCPF          = "CPF inválido. Informe os 11 dígitos."
	msgHolderRequired      = "O nome do responsável é obrigatório."
	msgPhoneRequired       = "O celular é obrigatório."
	msgInvalidPlanWeekday      = "O dia da semana deve estar entre 0 e 6."
	msgInvalidAmount       = "O valor da mensalidade não pode ser negativo."
	msgMonthlyPlanFields   = "Informe localId, nomeResponsavel, cpf, celular, diaSemana, horaInicio e valor."
)

// MonthlyPlanService manages mensalidades: a holder renting the same weekly
// slot of a venue by the month. Only the venue owner manages them.
type MonthlyPlanService struct {
	store repository.Store
}

func NewMonthlyPlanService(store repository.Store) *MonthlyPlanService {
	return &MonthlyPlanService{store: store}
}

// normalizeCPF keeps the digits of a CPF typed with or without punctuation.
func normalizeCPF(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == ' ':
		default:
			return "", apperrors.Validation(msgInvalidCPF)
		}
	}
	if b.Len() != 11 {
		return "", apperrors.Validation(msgInvalidCPF)
	}
	return b.String(), nil
}

func applyMonthlyPlan(plan *models.MonthlyPlan, req models.MonthlyPlanRequest) error {
	if req.HolderName != nil {
		plan.HolderName = strings.TrimSpace(*req.HolderName)
	}
	if req.CPF != nil {
		cpf, err := normalizeCPF(*req.CPF)
		if err != nil {
			return err
		}
		plan.CPF = cpf
	}
	if req.Phone != nil {
		plan.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Weekday != nil {
		plan.Weekday = *req.Weekday
	}
	if req.Start != nil {
		start, err := schedule.Normalize(*req.Start)
		if err != nil {
			return apperrors.Validation(msgInvalidTime)
		}
		plan.Start = start
	}
	if req.Amount != nil {
		plan.Amount = math.Round(*req.Amount*100) / 100
	}

	switch {
	case plan.HolderName == "":
		return apperrors.Validation(msgHolderRequired)
	case plan.Phone == "":
		return apperrors.Validation(msgPhoneRequired)
	case plan.Weekday < 0 || plan.Weekday > 6:
		return apperrors.Validation(msgInvalidPlanWeekday)
	case plan.Amount < 0 || math.IsNaN(plan.Amount):
		return apperrors.Validation(msgInvalidAmount)
	}
	return nil
}

// checkSlot requires the weekly start to be a bookable slot of the venue.
func checkSlot(ctx context.Context, tx repository.Store, plan *models.MonthlyPlan) error {
	hours, err := tx.Hours().Lookup(ctx, plan.VenueID, plan.Weekday)
	if err != nil {
		return fmt.Errorf("failed to get operating hours: %w", err)
	}
	grid, err := dayGrid(hours)
	if err != nil {
		return err
	}
	if grid == nil {
		return apperrors.Validation(msgClosedDay)
	}
	for _, start := range grid {
		if start == plan.Start {
			return nil
		}
	}
	return apperrors.Validation(msgOutsideHours)
}

// checkCPF rejects a CPF already used by another plan.
func checkCPF(ctx context.Context, tx repository.Store, plan *models.MonthlyPlan) error {
	existing, err := tx.MonthlyPlans().GetByCPF(ctx, plan.CPF)
	if err != nil {
		return fmt.Errorf("failed to look up CPF: %w", err)
	}
	if existing != nil && existing.ID != plan.ID {
		return apperrors.Validation(msgDuplicateCPF)
	}
	return nil
}

func (s *MonthlyPlanService) Create(ctx context.Context, ownerID int64, req models.MonthlyPlanRequest) (*models.MonthlyPlan, error) {
	if req.VenueID == 0 || req.HolderName == nil || req.CPF == nil || req.Phone == nil ||
		req.Weekday == nil || req.Start == nil || req.Amount == nil {
		return nil, apperrors.Validation(msgMonthlyPlanFields)
	}

	plan := &models.MonthlyPlan{VenueID: req.VenueID}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := ownedVenue(ctx, tx, ownerID, req.VenueID); err != nil {
			return err
		}
		if err := applyMonthlyPlan(plan, req); err != nil {
			return err
		}
		if err := checkSlot(ctx, tx, plan); err != nil {
			return err
		}
		if err := checkCPF(ctx, tx, plan); err != nil {
			return err
		}
		if err := tx.MonthlyPlans().Create(ctx, plan); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.Validation(msgDuplicateCPF)
			}
			return fmt.Errorf("failed to create monthly plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// ListByVenue returns the venue's plans by weekday, then start.
func (s *MonthlyPlanService) ListByVenue(ctx context.Context, ownerID, venueID int64) ([]models.MonthlyPlan, error) {
	if _, err := ownedVenue(ctx, s.store, ownerID, venueID); err != nil {
		return nil, err
	}
	plans, err := s.store.MonthlyPlans().ListByVenue(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly plans: %w", err)
	}
	return plans, nil
}

// ownedPlan loads a plan and checks its venue belongs to ownerID.
func ownedPlan(ctx context.Context, tx repository.Store, ownerID, id int64) (*models.MonthlyPlan, error) {
	plan, err := tx.MonthlyPlans().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.NotFound(msgMonthlyPlanNotFound)
	}
	if _, err := ownedVenue(ctx, tx, ownerID, plan.VenueID); err != nil {
		return nil, err
	}
	return plan, nil
}

// Update changes the given fields. The venue of a plan never changes.
func (s *MonthlyPlanService) Update(ctx context.Context, ownerID, id int64, req models.MonthlyPlanRequest) (*models.MonthlyPlan, error) {
	var plan *models.MonthlyPlan
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		plan, err = ownedPlan(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if err := applyMonthlyPlan(plan, req); err != nil {
			return err
		}
		if req.Weekday != nil || req.Start != nil {
			if err := checkSlot(ctx, tx, plan); err != nil {
				return err
			}
		}
		if req.CPF != nil {
			if err := checkCPF(ctx, tx, plan); err != nil {
				return err
			}
		}
		if err := tx.MonthlyPlans().Update(ctx, plan); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.Validation(msgDuplicateCPF)
			}
			return fmt.Errorf("failed to update monthly plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *MonthlyPlanService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := ownedPlan(ctx, tx, ownerID, id); err != nil {
			return err
		}
		if err := tx.MonthlyPlans().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete monthly plan: %w", err)
		}
		return nil
	})
}
