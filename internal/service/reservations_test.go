package service

import (
	"sync"
	"testing"
	"time"

	"futspot/internal/booking"
	apperrors "futspot/internal/errors"
	"futspot/internal/models"
	"futspot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReservation(t *testing.T) {
	f := newFixture(t)

	res := f.book(t, f.playerID, "08:00")

	assert.Equal(t, "08:00", res.Start)
	assert.Equal(t, "09:00", res.End)
	assert.Equal(t, string(booking.StatusRequested), res.Status)
	assert.Nil(t, res.CancelledBy)
	assert.Equal(t, 120.0, res.Amount)
	assert.Equal(t, []string{models.EventReservationRequested}, f.publisher.Subjects())

	unread, err := f.svc.Notifications.UnreadCount(f.ctx, f.ownerID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread.Count)
}

func TestCreateReservationRejectsInvalidSlots(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		venue int64
		date  string
		start string
		kind  apperrors.Kind
	}{
		{"unknown venue", 999, testDate, "08:00", apperrors.KindNotFound},
		{"bad date", 0, "03/06/2024", "08:00", apperrors.KindValidation},
		{"closed day", 0, "2024-06-02", "08:00", apperrors.KindValidation},
		{"no hours on weekday", 0, "2024-06-04", "08:00", apperrors.KindValidation},
		{"bad time", 0, testDate, "8h", apperrors.KindValidation},
		{"off the hourly grid", 0, testDate, "11:30", apperrors.KindValidation},
		{"ends after closing", 0, testDate, "12:00", apperrors.KindValidation},
		{"before opening", 0, testDate, "07:00", apperrors.KindValidation},
		{"already started", 0, "2024-05-27", "08:00", apperrors.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			venue := tt.venue
			if venue == 0 {
				venue = f.venueID
			}
			_, err := f.svc.Reservations.Create(f.ctx, f.playerID, models.CreateReservationRequest{
				VenueID: venue,
				Date:    tt.date,
				Start:   tt.start,
			})
			assertKind(t, err, tt.kind)
		})
	}
}

func TestCreateReservationConflict(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.playerID, "09:00")

	other := f.addUser(t, "Outro", "outro@futspot.test", models.RolePlayer)
	_, err := f.svc.Reservations.Create(f.ctx, other, models.CreateReservationRequest{
		VenueID: f.venueID, Date: testDate, Start: "09:00",
	})
	assertKind(t, err, apperrors.KindConflict)
}

// memstore runs whole transactions one at a time, so losers here are caught
// by the pre-check. The insert-time unique violation is covered by
// TestCreateReservationUniqueIndexRace through BeforeReservationInsert.
func TestCreateReservationConcurrent(t *testing.T) {
	f := newFixture(t)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Reservations.Create(f.ctx, f.playerID, models.CreateReservationRequest{
				VenueID: f.venueID, Date: testDate, Start: "10:00",
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if apperrors.Is(err, apperrors.KindConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
}

func TestCreateReservationUniqueIndexRace(t *testing.T) {
	f := newFixture(t)
	// the pre-check passed but another transaction won the insert
	f.store.BeforeReservationInsert = func(*models.Reservation) error {
		return repository.ErrDuplicate
	}

	_, err := f.svc.Reservations.Create(f.ctx, f.playerID, models.CreateReservationRequest{
		VenueID: f.venueID, Date: testDate, Start: "08:00",
	})
	assertKind(t, err, apperrors.KindConflict)

	unread, err := f.svc.Notifications.UnreadCount(f.ctx, f.ownerID)
	require.NoError(t, err)
	assert.Zero(t, unread.Count)
	assert.Empty(t, f.publisher.Subjects())
}

func TestConfirmAndRefuse(t *testing.T) {
	f := newFixture(t)
	first := f.book(t, f.playerID, "08:00")
	second := f.book(t, f.playerID, "09:00")

	confirmed, err := f.svc.Reservations.Confirm(f.ctx, f.ownerID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, string(booking.StatusConfirmed), confirmed.Status)

	f.clock.Set(at("2024-06-01 10:01"))
	refused, err := f.svc.Reservations.Refuse(f.ctx, f.ownerID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, string(booking.StatusRefused), refused.Status)

	_, err = f.svc.Reservations.Confirm(f.ctx, f.ownerID, first.ID)
	assertKind(t, err, apperrors.KindValidation)

	_, err = f.svc.Reservations.Confirm(f.ctx, f.playerID, second.ID)
	assertKind(t, err, apperrors.KindForbidden)

	_, err = f.svc.Reservations.Refuse(f.ctx, f.ownerID, 999)
	assertKind(t, err, apperrors.KindNotFound)

	// refused slot is free again
	f.book(t, f.playerID, "09:00")

	items, err := f.svc.Notifications.List(f.ctx, f.playerID, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.NotificationRefused, items[0].Type)
	assert.Equal(t, models.NotificationAccepted, items[1].Type)
}

func TestConfirmAfterSlotStarted(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.playerID, "08:00")

	f.clock.Set(at("2024-06-03 08:00"))
	_, err := f.svc.Reservations.Confirm(f.ctx, f.ownerID, res.ID)
	assertKind(t, err, apperrors.KindValidation)
}

func TestCancelReservation(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.playerID, "08:00")

	stranger := f.addUser(t, "Estranho", "estranho@futspot.test", models.RolePlayer)
	_, err := f.svc.Reservations.Cancel(f.ctx, stranger, res.ID)
	assertKind(t, err, apperrors.KindForbidden)

	cancelled, err := f.svc.Reservations.Cancel(f.ctx, f.playerID, res.ID)
	require.NoError(t, err)
	assert.Equal(t, string(booking.StatusCancelled), cancelled.Status)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, string(booking.ActorPlayer), *cancelled.CancelledBy)

	_, err = f.svc.Reservations.Cancel(f.ctx, f.playerID, res.ID)
	assertKind(t, err, apperrors.KindValidation)

	// owner got both the request and the cancellation
	unread, err := f.svc.Notifications.UnreadCount(f.ctx, f.ownerID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread.Count)
}

func TestOwnerCancelsConfirmed(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.playerID, "10:00")
	_, err := f.svc.Reservations.Confirm(f.ctx, f.ownerID, res.ID)
	require.NoError(t, err)

	f.clock.Set(at("2024-06-01 10:01"))
	cancelled, err := f.svc.Reservations.Cancel(f.ctx, f.ownerID, res.ID)
	require.NoError(t, err)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, string(booking.ActorOwner), *cancelled.CancelledBy)

	items, err := f.svc.Notifications.List(f.ctx, f.playerID, nil)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, models.NotificationCancelled, items[0].Type)
}

func TestCancelRefusedReservation(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.playerID, "10:00")
	_, err := f.svc.Reservations.Refuse(f.ctx, f.ownerID, res.ID)
	require.NoError(t, err)

	_, err = f.svc.Reservations.Cancel(f.ctx, f.playerID, res.ID)
	assertKind(t, err, apperrors.KindValidation)
}

func TestExpireStale(t *testing.T) {
	f := newFixture(t)
	started := f.book(t, f.playerID, "08:00")
	soon := f.book(t, f.playerID, "09:00")
	answered := f.book(t, f.playerID, "10:00")
	later := f.book(t, f.playerID, "11:00")
	_, err := f.svc.Reservations.Confirm(f.ctx, f.ownerID, answered.ID)
	require.NoError(t, err)

	f.clock.Set(at("2024-06-03 08:30"))
	n, err := f.svc.Reservations.ExpireStale(f.ctx, time.Hour, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.store.Reservations().GetByID(f.ctx, soon.ID)
	require.NoError(t, err)
	assert.Equal(t, string(booking.StatusCancelled), got.Status)
	require.NotNil(t, got.CancelledBy)
	assert.Equal(t, string(booking.ActorSystem), *got.CancelledBy)

	// 08:00 already started, 11:00 is beyond the lead
	for _, id := range []int64{started.ID, later.ID} {
		got, err = f.store.Reservations().GetByID(f.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, string(booking.StatusRequested), got.Status)
		assert.Nil(t, got.CancelledBy)
	}
	got, err = f.store.Reservations().GetByID(f.ctx, answered.ID)
	require.NoError(t, err)
	assert.Equal(t, string(booking.StatusConfirmed), got.Status)

	n, err = f.svc.Reservations.ExpireStale(f.ctx, time.Hour, 100)
	require.NoError(t, err)
	assert.Zero(t, n)

	unread, err := f.store.Notifications().CountUnread(f.ctx, f.playerID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)
}

func TestMyAgenda(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.playerID, "11:00")
	early := f.book(t, f.playerID, "08:00")
	gone := f.book(t, f.playerID, "09:00")
	_, err := f.svc.Reservations.Confirm(f.ctx, f.ownerID, early.ID)
	require.NoError(t, err)
	_, err = f.svc.Reservations.Cancel(f.ctx, f.playerID, gone.ID)
	require.NoError(t, err)

	agenda, err := f.svc.Reservations.MyAgenda(f.ctx, f.playerID)
	require.NoError(t, err)
	require.Len(t, agenda.Upcoming, 2)
	assert.Equal(t, "08:00", agenda.Upcoming[0].Start)
	assert.Equal(t, "11:00", agenda.Upcoming[1].Start)
	assert.False(t, agenda.Upcoming[0].CanRate)
	require.Len(t, agenda.History, 1)
	assert.Equal(t, gone.ID, agenda.History[0].ID)

	// the confirmed 08:00 game is over
	f.clock.Set(at("2024-06-03 09:30"))
	agenda, err = f.svc.Reservations.MyAgenda(f.ctx, f.playerID)
	require.NoError(t, err)
	require.Len(t, agenda.Upcoming, 1)
	require.Len(t, agenda.History, 2)
	assert.Equal(t, gone.ID, agenda.History[0].ID)
	assert.Equal(t, early.ID, agenda.History[1].ID)
	assert.True(t, agenda.History[1].CanRate)
	assert.False(t, agenda.History[0].CanRate)
}

func TestOwnerReservations(t *testing.T) {
	f := newFixture(t)
	first := f.book(t, f.playerID, "08:00")
	f.book(t, f.playerID, "09:00")
	_, err := f.svc.Reservations.Confirm(f.ctx, f.ownerID, first.ID)
	require.NoError(t, err)

	all, err := f.svc.Reservations.OwnerReservations(f.ctx, f.ownerID, testDate, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	confirmed, err := f.svc.Reservations.OwnerReservations(f.ctx, f.ownerID, "", string(booking.StatusConfirmed))
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, first.ID, confirmed[0].ID)
	assert.Equal(t, "Jogador", confirmed[0].Player.Name)

	_, err = f.svc.Reservations.OwnerReservations(f.ctx, f.ownerID, "", "pago")
	assertKind(t, err, apperrors.KindValidation)

	_, err = f.svc.Reservations.OwnerReservations(f.ctx, f.ownerID, "amanhã", "")
	assertKind(t, err, apperrors.KindValidation)
}
