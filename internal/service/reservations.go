package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"futspot/internal/booking"
	apperrors "futspot/internal/errors"
	"futspot/internal/logger"
	"futspot/internal/models"
	"futspot/internal/repository"
	"futspot/internal/schedule"
)

const (
	msgReservationNotFound = "Agendamento não encontrado."
	msgClosedDay           = "Local fechado neste dia."
	msgOutsideHours        = "Horário fora do funcionamento do local."
	msgSlotTaken           = "Horário já reservado."
	msgInvalidTime         = "Horário inválido. Use o formato HH:MM."
	msgSlotPassed          = "O horário deste agendamento já passou."
	msgCannotCancel        = "Você não pode cancelar este agendamento."
	msgNotVenueOwner       = "Apenas o locador do local pode responder a este agendamento."
	msgAlreadyCancelled    = "Este agendamento já foi cancelado."
	msgNotRequested        = "Apenas agendamentos solicitados podem ser confirmados ou recusados."
	msgRefused             = "Este agendamento foi recusado e não pode ser cancelado."
	msgInvalidStatus       = "Status de agendamento inválido."
)

type ReservationService struct {
	store repository.Store
	clock schedule.Clock
	fx    *effects
}

func NewReservationService(store repository.Store, clock schedule.Clock, fx *effects) *ReservationService {
	return &ReservationService{store: store, clock: clock, fx: fx}
}

// transitionError maps state machine errors onto validation messages.
func transitionError(err error) error {
	switch {
	case errors.Is(err, booking.ErrAlreadyCancelled):
		return apperrors.Validation(msgAlreadyCancelled)
	case errors.Is(err, booking.ErrNotRequested):
		return apperrors.Validation(msgNotRequested)
	case errors.Is(err, booking.ErrRefused):
		return apperrors.Validation(msgRefused)
	}
	return apperrors.Internal(err)
}

func toReservationResponse(r *models.Reservation) *models.ReservationResponse {
	start, err := schedule.Normalize(r.Start)
	if err != nil {
		start = r.Start
	}
	return &models.ReservationResponse{
		ID:          r.ID,
		VenueID:     r.VenueID,
		PlayerID:    r.PlayerID,
		Date:        r.Date,
		Start:       start,
		End:         slotEnd(start),
		Status:      r.Status,
		CancelledBy: r.CancelledBy,
		Amount:      r.Amount,
	}
}

func reservationEvent(r *models.Reservation, venue *models.Venue, n notice) models.ReservationEvent {
	return models.ReservationEvent{
		ReservationID: r.ID,
		VenueID:       r.VenueID,
		PlayerID:      r.PlayerID,
		OwnerID:       venue.OwnerID,
		RecipientID:   n.RecipientID,
		Date:          r.Date,
		Start:         r.Start,
		Status:        r.Status,
		CancelledBy:   r.CancelledBy,
		Title:         n.Title,
		Message:       n.Message,
	}
}

// Create requests a slot for the player. The unique index on active slots
// settles races the pre-check misses.
func (s *ReservationService) Create(ctx context.Context, playerID int64, req models.CreateReservationRequest) (*models.ReservationResponse, error) {
	var (
		created models.Reservation
		venue   *models.Venue
		n       notice
	)

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		venue, err = tx.Venues().GetByID(ctx, req.VenueID)
		if err != nil {
			return fmt.Errorf("failed to get venue: %w", err)
		}
		if venue == nil {
			return apperrors.NotFound(msgVenueNotFound)
		}

		weekday, err := schedule.WeekdayOf(req.Date)
		if err != nil {
			return apperrors.Validation(msgInvalidDate)
		}

		hours, err := tx.Hours().Lookup(ctx, venue.ID, int(weekday))
		if err != nil {
			return fmt.Errorf("failed to get operating hours: %w", err)
		}
		if !hours.IsOpen() {
			return apperrors.Validation(msgClosedDay)
		}

		start, err := schedule.TimeToMinutes(req.Start)
		if err != nil {
			return apperrors.Validation(msgInvalidTime)
		}
		open, err := schedule.TimeToMinutes(*hours.Start)
		if err != nil {
			return fmt.Errorf("invalid operating hours of venue %d: %w", venue.ID, err)
		}
		closing, err := schedule.TimeToMinutes(*hours.End)
		if err != nil {
			return fmt.Errorf("invalid operating hours of venue %d: %w", venue.ID, err)
		}
		// only starts on the hourly grid of the window are bookable
		if !schedule.FitsWindow(start, open, closing) || (start-open)%schedule.SlotMinutes != 0 {
			return apperrors.Validation(msgOutsideHours)
		}
		startStr := schedule.MinutesToTime(start)

		passed, err := schedule.HasStarted(req.Date, startStr, s.clock.Now())
		if err != nil {
			return apperrors.Validation(msgInvalidDate)
		}
		if passed {
			return apperrors.Validation(msgSlotPassed)
		}

		existing, err := tx.Reservations().FindActive(ctx, venue.ID, req.Date, startStr)
		if err != nil {
			return fmt.Errorf("failed to check slot: %w", err)
		}
		if existing != nil {
			return apperrors.Conflict(msgSlotTaken)
		}

		status, cancelledBy := booking.Encode(booking.Requested{})
		created = models.Reservation{
			VenueID:     venue.ID,
			PlayerID:    playerID,
			Date:        req.Date,
			Start:       startStr,
			Status:      status,
			CancelledBy: cancelledBy,
			Amount:      venue.HourlyPrice,
		}
		if err := tx.Reservations().Create(ctx, &created); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.Conflict(msgSlotTaken)
			}
			return fmt.Errorf("failed to create reservation: %w", err)
		}

		player, err := tx.Users().GetByID(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to get player: %w", err)
		}
		playerName := "Um jogador"
		if player != nil {
			playerName = player.Name
		}

		id := created.ID
		n = notice{
			RecipientID:   venue.OwnerID,
			ReservationID: &id,
			Type:          models.NotificationRequested,
			Title:         "Nova solicitação de agendamento",
			Message: fmt.Sprintf("%s solicitou o horário das %s em %s no local %s.",
				playerName, startStr, displayDate(req.Date), venue.Name),
		}
		return notify(ctx, tx, n)
	})
	if err != nil {
		return nil, err
	}

	s.fx.invalidateDate(ctx, created.VenueID, created.Date)
	s.fx.publish(ctx, models.EventReservationRequested, reservationEvent(&created, venue, n))

	logger.WithContext(ctx).Info("Reservation requested",
		"reservation_id", created.ID, "venue_id", created.VenueID, "date", created.Date, "start", created.Start)

	return toReservationResponse(&created), nil
}

// decide applies an owner decision (confirm or refuse) to a requested reservation.
func (s *ReservationService) decide(ctx context.Context, ownerID, reservationID int64, next func(booking.State) (booking.State, error), build func(*models.Reservation, *models.Venue) notice, subject string) (*models.ReservationResponse, error) {
	var (
		res   *models.Reservation
		venue *models.Venue
		n     notice
	)

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		res, err = tx.Reservations().GetForUpdate(ctx, reservationID)
		if err != nil {
			return fmt.Errorf("failed to get reservation: %w", err)
		}
		if res == nil {
			return apperrors.NotFound(msgReservationNotFound)
		}

		venue, err = tx.Venues().GetByID(ctx, res.VenueID)
		if err != nil {
			return fmt.Errorf("failed to get venue: %w", err)
		}
		if venue == nil || venue.OwnerID != ownerID {
			return apperrors.Forbidden(msgNotVenueOwner)
		}

		state, err := booking.Decode(res.Status, res.CancelledBy)
		if err != nil {
			return apperrors.Internal(err)
		}
		nextState, err := next(state)
		if err != nil {
			return transitionError(err)
		}

		if err := s.ensureNotStarted(res); err != nil {
			return err
		}

		res.Status, res.CancelledBy = booking.Encode(nextState)
		if err := tx.Reservations().UpdateStatus(ctx, res.ID, res.Status, res.CancelledBy); err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}

		n = build(res, venue)
		return notify(ctx, tx, n)
	})
	if err != nil {
		return nil, err
	}

	s.fx.invalidateDate(ctx, res.VenueID, res.Date)
	s.fx.publish(ctx, subject, reservationEvent(res, venue, n))
	return toReservationResponse(res), nil
}

func (s *ReservationService) ensureNotStarted(res *models.Reservation) error {
	passed, err := schedule.HasStarted(res.Date, res.Start, s.clock.Now())
	if err != nil {
		return apperrors.Internal(fmt.Errorf("reservation %d: %w", res.ID, err))
	}
	if passed {
		return apperrors.Validation(msgSlotPassed)
	}
	return nil
}

func slotLabel(res *models.Reservation, venue *models.Venue) string {
	start, err := schedule.Normalize(res.Start)
	if err != nil {
		start = res.Start
	}
	return fmt.Sprintf("em %s no dia %s às %s", venue.Name, displayDate(res.Date), start)
}

// Confirm accepts a requested reservation on one of the owner's venues.
func (s *ReservationService) Confirm(ctx context.Context, ownerID, reservationID int64) (*models.ReservationResponse, error) {
	return s.decide(ctx, ownerID, reservationID, booking.Confirm, func(res *models.Reservation, venue *models.Venue) notice {
		id := res.ID
		return notice{
			RecipientID:   res.PlayerID,
			ReservationID: &id,
			Type:          models.NotificationAccepted,
			Title:         "Agendamento confirmado",
			Message:       fmt.Sprintf("Seu agendamento %s foi confirmado.", slotLabel(res, venue)),
		}
	}, models.EventReservationConfirmed)
}

// Refuse rejects a requested reservation on one of the owner's venues.
func (s *ReservationService) Refuse(ctx context.Context, ownerID, reservationID int64) (*models.ReservationResponse, error) {
	return s.decide(ctx, ownerID, reservationID, booking.Refuse, func(res *models.Reservation, venue *models.Venue) notice {
		id := res.ID
		return notice{
			RecipientID:   res.PlayerID,
			ReservationID: &id,
			Type:          models.NotificationRefused,
			Title:         "Agendamento recusado",
			Message:       fmt.Sprintf("Sua solicitação %s foi recusada pelo locador.", slotLabel(res, venue)),
		}
	}, models.EventReservationRefused)
}

// Cancel lets the player or the venue owner cancel, notifying the other side.
func (s *ReservationService) Cancel(ctx context.Context, userID, reservationID int64) (*models.ReservationResponse, error) {
	var (
		res   *models.Reservation
		venue *models.Venue
		n     notice
	)

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		res, err = tx.Reservations().GetForUpdate(ctx, reservationID)
		if err != nil {
			return fmt.Errorf("failed to get reservation: %w", err)
		}
		if res == nil {
			return apperrors.NotFound(msgReservationNotFound)
		}

		venue, err = tx.Venues().GetByID(ctx, res.VenueID)
		if err != nil {
			return fmt.Errorf("failed to get venue: %w", err)
		}
		if venue == nil {
			return apperrors.NotFound(msgVenueNotFound)
		}

		var actor booking.Actor
		switch userID {
		case res.PlayerID:
			actor = booking.ActorPlayer
		case venue.OwnerID:
			actor = booking.ActorOwner
		default:
			return apperrors.Forbidden(msgCannotCancel)
		}

		state, err := booking.Decode(res.Status, res.CancelledBy)
		if err != nil {
			return apperrors.Internal(err)
		}
		nextState, err := booking.Cancel(state, actor)
		if err != nil {
			return transitionError(err)
		}

		if err := s.ensureNotStarted(res); err != nil {
			return err
		}

		res.Status, res.CancelledBy = booking.Encode(nextState)
		if err := tx.Reservations().UpdateStatus(ctx, res.ID, res.Status, res.CancelledBy); err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}

		id := res.ID
		n = notice{ReservationID: &id, Type: models.NotificationCancelled, Title: "Agendamento cancelado"}
		if actor == booking.ActorOwner {
			n.RecipientID = res.PlayerID
			n.Message = fmt.Sprintf("O locador cancelou seu agendamento %s.", slotLabel(res, venue))
		} else {
			n.RecipientID = venue.OwnerID
			n.Message = fmt.Sprintf("O jogador cancelou o agendamento %s.", slotLabel(res, venue))
		}
		return notify(ctx, tx, n)
	})
	if err != nil {
		return nil, err
	}

	s.fx.invalidateDate(ctx, res.VenueID, res.Date)
	s.fx.publish(ctx, models.EventReservationCancelled, reservationEvent(res, venue, n))
	return toReservationResponse(res), nil
}

// ExpireStale cancels, on behalf of the system, requests still unanswered
// whose slot starts within lead from now. Slots that already started are left
// as they are. It returns how many were expired.
func (s *ReservationService) ExpireStale(ctx context.Context, lead time.Duration, limit int) (int, error) {
	now := s.clock.Now()
	const layout = schedule.DateLayout + " 15:04"
	stale, err := s.store.Reservations().ListStaleRequests(ctx, now.Format(layout), now.Add(lead).Format(layout), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale requests: %w", err)
	}

	expired := 0
	for _, candidate := range stale {
		var (
			res   *models.Reservation
			venue *models.Venue
			n     notice
			done  bool
		)

		err := s.store.WithTx(ctx, func(tx repository.Store) error {
			var err error
			res, err = tx.Reservations().GetForUpdate(ctx, candidate.ID)
			if err != nil || res == nil {
				return err
			}
			state, err := booking.Decode(res.Status, res.CancelledBy)
			if err != nil {
				return err
			}
			// answered since it was listed
			if _, ok := state.(booking.Requested); !ok {
				return nil
			}
			started, err := schedule.HasStarted(res.Date, res.Start, s.clock.Now())
			if err != nil || started {
				return err
			}
			nextState, err := booking.Cancel(state, booking.ActorSystem)
			if err != nil {
				return err
			}

			venue, err = tx.Venues().GetByID(ctx, res.VenueID)
			if err != nil {
				return err
			}
			if venue == nil {
				venue = &models.Venue{ID: res.VenueID}
			}

			res.Status, res.CancelledBy = booking.Encode(nextState)
			if err := tx.Reservations().UpdateStatus(ctx, res.ID, res.Status, res.CancelledBy); err != nil {
				return err
			}

			id := res.ID
			n = notice{
				RecipientID:   res.PlayerID,
				ReservationID: &id,
				Type:          models.NotificationCancelled,
				Title:         "Solicitação expirada",
				Message:       fmt.Sprintf("Sua solicitação %s expirou sem resposta do locador.", slotLabel(res, venue)),
			}
			if err := notify(ctx, tx, n); err != nil {
				return err
			}
			done = true
			return nil
		})
		if err != nil {
			logger.WithContext(ctx).Error("Failed to expire reservation request",
				"error", err, "reservation_id", candidate.ID)
			continue
		}
		if !done {
			continue
		}

		expired++
		s.fx.invalidateDate(ctx, res.VenueID, res.Date)
		s.fx.publish(ctx, models.EventReservationCancelled, reservationEvent(res, venue, n))
	}
	return expired, nil
}

// MyAgenda splits the player's reservations into upcoming and history.
func (s *ReservationService) MyAgenda(ctx context.Context, playerID int64) (*models.AgendaResponse, error) {
	rows, err := s.store.Reservations().ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	now := s.clock.Now()
	type keyed struct {
		card models.AgendaCard
		at   time.Time
	}
	var upcoming, history []keyed

	for _, r := range rows {
		start, err := schedule.Normalize(r.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid start of reservation %d: %w", r.ID, err)
		}
		at, err := schedule.SlotStart(r.Date, start, now.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid date of reservation %d: %w", r.ID, err)
		}
		state, err := booking.Decode(r.Status, r.CancelledBy)
		if err != nil {
			return nil, fmt.Errorf("invalid status of reservation %d: %w", r.ID, err)
		}

		card := models.AgendaCard{
			ID:           r.ID,
			VenueID:      r.VenueID,
			VenueName:    r.VenueName,
			VenueAddress: r.VenueAddress,
			Date:         r.Date,
			Start:        start,
			End:          slotEnd(start),
			Status:       r.Status,
		}
		if len(r.VenuePhotos) > 0 {
			photo := r.VenuePhotos[0]
			card.VenuePhoto = &photo
		}
		if r.RatingID != nil {
			card.Rating = &models.RatingCard{ID: *r.RatingID, Comment: r.RatingComment}
			if r.RatingScore != nil {
				card.Rating.Score = *r.RatingScore
			}
		}
		started := !at.After(now)
		_, confirmed := state.(booking.Confirmed)
		card.CanRate = confirmed && started && r.RatingID == nil

		if booking.IsActive(state) && at.Add(schedule.SlotMinutes*time.Minute).After(now) {
			upcoming = append(upcoming, keyed{card, at})
		} else {
			history = append(history, keyed{card, at})
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].at.Before(upcoming[j].at) })
	sort.SliceStable(history, func(i, j int) bool { return history[i].at.After(history[j].at) })

	resp := &models.AgendaResponse{
		Upcoming: make([]models.AgendaCard, len(upcoming)),
		History:  make([]models.AgendaCard, len(history)),
	}
	for i, k := range upcoming {
		resp.Upcoming[i] = k.card
	}
	for i, k := range history {
		resp.History[i] = k.card
	}
	return resp, nil
}

// OwnerReservations lists reservations on the owner's venues.
func (s *ReservationService) OwnerReservations(ctx context.Context, ownerID int64, date, status string) ([]models.OwnerReservationItem, error) {
	if date != "" {
		if _, err := schedule.ParseDate(date); err != nil {
			return nil, apperrors.Validation(msgInvalidDate)
		}
	}
	if status != "" {
		if _, err := booking.ParseStatus(status); err != nil {
			return nil, apperrors.Validation(msgInvalidStatus)
		}
	}

	rows, err := s.store.Reservations().ListByOwner(ctx, ownerID, repository.ReservationFilter{Date: date, Status: status})
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	items := make([]models.OwnerReservationItem, len(rows))
	for i, r := range rows {
		start, err := schedule.Normalize(r.Start)
		if err != nil {
			start = r.Start
		}
		items[i] = models.OwnerReservationItem{
			ID:        r.Reservation.ID,
			VenueID:   r.VenueID,
			VenueName: r.VenueName,
			Date:      r.Date,
			Start:     start,
			End:       slotEnd(start),
			Status:    r.Status,
			Amount:    r.Amount,
			Player:    r.PlayerRef,
		}
	}
	return items, nil
}
