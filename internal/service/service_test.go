package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"futspot/internal/auth"
	apperrors "futspot/internal/errors"
	"futspot/internal/models"
	"futspot/internal/repository/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday with 08:00-12:00 hours in the test venue.
const testDate = "2024-06-03"

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(subject string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *recordingPublisher) Subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.subjects...)
}

type fixture struct {
	ctx       context.Context
	store     *memstore.Store
	clock     *testClock
	publisher *recordingPublisher
	svc       *Services

	ownerID  int64
	playerID int64
	venueID  int64
}

func at(value string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:       context.Background(),
		store:     memstore.New(),
		clock:     &testClock{t: at("2024-06-01 10:00")},
		publisher: &recordingPublisher{},
	}
	f.store.Now = f.clock.Now
	f.svc = NewServices(Deps{
		Store:     f.store,
		Clock:     f.clock,
		Publisher: f.publisher,
		Tokens:    auth.NewTokenManager(auth.Config{Secret: "test-secret", TTLMin: 60}),
	})

	f.ownerID = f.addUser(t, "Dono", "dono@futspot.test", models.RoleOwner)
	f.playerID = f.addUser(t, "Jogador", "jogador@futspot.test", models.RolePlayer)

	venue, err := f.svc.Venues.Create(f.ctx, f.ownerID, models.VenueRequest{
		Name:        strPtr("Arena Central"),
		City:        strPtr("São Paulo"),
		Address:     strPtr("Rua das Flores"),
		Category:    strPtr("society"),
		HourlyPrice: func() *float64 { v := 120.0; return &v }(),
		Hours: &[]models.HoursInput{
			{Weekday: 1, Open: true, Start: strPtr("08:00"), End: strPtr("12:00")},
			{Weekday: 0, Open: false},
		},
	})
	require.NoError(t, err)
	f.venueID = venue.ID
	return f
}

func (f *fixture) addUser(t *testing.T, name, email, role string) int64 {
	t.Helper()
	resp, err := f.svc.Auth.Register(f.ctx, models.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "segredo123",
		Role:     role,
	})
	require.NoError(t, err)
	return resp.User.ID
}

func (f *fixture) book(t *testing.T, playerID int64, start string) *models.ReservationResponse {
	t.Helper()
	res, err := f.svc.Reservations.Create(f.ctx, playerID, models.CreateReservationRequest{
		VenueID: f.venueID,
		Date:    testDate,
		Start:   start,
	})
	require.NoError(t, err)
	return res
}

func assertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperrors.KindOf(err), "unexpected error: %v", err)
}
