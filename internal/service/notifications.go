package service

import (
	"context"
	"fmt"

	apperrors "futspot/internal/errors"
	"futspot/internal/models"
	"futspot/internal/repository"
	"futspot/internal/schedule"

	"github.com/google/uuid"
)

const msgNotificationNotFound = "Notificação não encontrada."

// notice is a notification written inside the caller's transaction.
type notice struct {
	RecipientID   int64
	ReservationID *int64
	Type          string
	Title         string
	Message       string
}

func notify(ctx context.Context, tx repository.Store, n notice) error {
	err := tx.Notifications().Create(ctx, &models.Notification{
		UserID:        n.RecipientID,
		ReservationID: n.ReservationID,
		Type:          n.Type,
		Title:         n.Title,
		Message:       n.Message,
	})
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// displayDate renders an ISO date as dd/mm/yyyy for messages.
func displayDate(date string) string {
	t, err := schedule.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

type NotificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) *NotificationService {
	return &NotificationService{store: store}
}

// List returns the user's notifications, newest first, optionally by read flag.
func (s *NotificationService) List(ctx context.Context, userID int64, read *bool) ([]models.NotificationItem, error) {
	rows, err := s.store.Notifications().ListForUser(ctx, userID, read)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	items := make([]models.NotificationItem, len(rows))
	for i, n := range rows {
		items[i] = models.NotificationItem{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
		if n.ReservationID != nil {
			brief := &models.NotificationBrief{
				ID:         *n.ReservationID,
				Date:       n.ReservationDate,
				PlayerID:   n.PlayerID,
				PlayerName: n.PlayerName,
				VenueID:    n.VenueID,
				VenueName:  n.VenueName,
			}
			if n.ReservationStart != nil {
				if start, err := schedule.Normalize(*n.ReservationStart); err == nil {
					brief.Start = &start
				}
			}
			items[i].Reservation = brief
		}
	}
	return items, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (*models.UnreadCountResponse, error) {
	n, err := s.store.Notifications().CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	return &models.UnreadCountResponse{Count: n}, nil
}

// MarkRead marks one notification of its recipient as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID int64, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NotFound(msgNotificationNotFound)
	}
	n, err := s.store.Notifications().GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if n == nil {
		return apperrors.NotFound(msgNotificationNotFound)
	}
	if n.UserID != userID {
		return apperrors.Forbidden("Você não pode alterar esta notificação.")
	}
	if err := s.store.Notifications().MarkRead(ctx, userID, []string{id}); err != nil {
		return fmt.Errorf("failed to mark notification: %w", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.store.Notifications().MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications: %w", err)
	}
	return n, nil
}
