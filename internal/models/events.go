package models

import "time"

// NATS Event Types
const (
	EventReservationRequested = "reservation.requested"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationRefused   = "reservation.refused"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvents lists every subject the consumers subscribe to.
var ReservationEvents = []string{
	EventReservationRequested,
	EventReservationConfirmed,
	EventReservationRefused,
	EventReservationCancelled,
}

// ReservationEvent is published after a reservation transition commits
type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID int64     `json:"reservation_id"`
	VenueID       int64     `json:"venue_id"`
	PlayerID      int64     `json:"player_id"`
	OwnerID       int64     `json:"owner_id"`
	RecipientID   int64     `json:"recipient_id"`
	Date          string    `json:"date"`
	Start         string    `json:"start"`
	Status        string    `json:"status"`
	CancelledBy   *string   `json:"cancelled_by,omitempty"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
}
