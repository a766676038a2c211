package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"futspot/internal/models"
	"futspot/internal/repository"

	"github.com/nats-io/stan.go"
)

type Handlers struct {
	users  repository.UserStore
	mailer Mailer
}

func NewHandlers(users repository.UserStore, mailer Mailer) *Handlers {
	return &Handlers{
		users:  users,
		mailer: mailer,
	}
}

// HandleReservationEvent обрабатывает любое событие бронирования.
// Сообщение подтверждается только после успешной отправки письма.
func (h *Handlers) HandleReservationEvent(m *stan.Msg) {
	if err := h.process(context.Background(), m.Data); err != nil {
		slog.Error("Failed to process reservation event",
			"subject", m.Subject, "sequence", m.Sequence, "error", err)
		return
	}
	m.Ack()
}

func (h *Handlers) process(ctx context.Context, data []byte) error {
	var event models.ReservationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		// битое сообщение подтверждается без обработки
		slog.Error("Failed to unmarshal reservation event", "error", err)
		return nil
	}

	slog.Info("Processing reservation event",
		"type", event.Type,
		"reservation_id", event.ReservationID,
		"recipient_id", event.RecipientID)

	recipient, err := h.users.GetByID(ctx, event.RecipientID)
	if err != nil {
		return fmt.Errorf("failed to load recipient: %w", err)
	}
	if recipient == nil {
		slog.Warn("Recipient not found, skipping email",
			"recipient_id", event.RecipientID, "reservation_id", event.ReservationID)
		return nil
	}

	email := Email{
		To:      recipient.Email,
		Name:    recipient.Name,
		Subject: event.Title,
		Body:    event.Message,
	}
	if err := h.mailer.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
