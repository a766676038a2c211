package service

import (
	"testing"

	apperrors "futspot/internal/errors"
	"futspot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBehaviourLabel(t *testing.T) {
	tests := []struct {
		rate int
		want string
	}{
		{0, BehaviourNever},
		{1, BehaviourRarely},
		{10, BehaviourRarely},
		{11, BehaviourSometimes},
		{30, BehaviourSometimes},
		{31, BehaviourOften},
		{100, BehaviourOften},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BehaviourLabel(tt.rate), "rate %d", tt.rate)
	}
}

func TestCancellationRate(t *testing.T) {
	assert.Equal(t, 0, CancellationRate(0, 0))
	assert.Equal(t, 33, CancellationRate(1, 3))
	assert.Equal(t, 67, CancellationRate(2, 3))
	assert.Equal(t, 100, CancellationRate(4, 4))
}

func TestPlayerAndOwnerStats(t *testing.T) {
	f := newFixture(t)
	kept := f.book(t, f.playerID, "08:00")
	dropped := f.book(t, f.playerID, "09:00")
	refused := f.book(t, f.playerID, "10:00")
	f.book(t, f.playerID, "11:00")

	_, err := f.svc.Reservations.Confirm(f.ctx, f.ownerID, kept.ID)
	require.NoError(t, err)
	_, err = f.svc.Reservations.Cancel(f.ctx, f.playerID, dropped.ID)
	require.NoError(t, err)
	_, err = f.svc.Reservations.Refuse(f.ctx, f.ownerID, refused.ID)
	require.NoError(t, err)

	player, err := f.svc.Stats.PlayerStats(f.ctx, f.playerID)
	require.NoError(t, err)
	assert.Equal(t, 1, player.TotalReservas)
	assert.Equal(t, 1, player.DistinctVenues)
	// one cancellation out of three decided reservations
	assert.Equal(t, 33, player.CancellationRate)
	assert.Equal(t, BehaviourOften, player.Behaviour)
	assert.Nil(t, player.AverageRating)

	owner, err := f.svc.Stats.OwnerStats(f.ctx, f.ownerID)
	require.NoError(t, err)
	assert.Equal(t, 1, owner.TotalVenues)
	assert.Equal(t, 1, owner.TotalReservas)
	assert.Equal(t, 120.0, owner.TotalRevenue)
	assert.Equal(t, 0, owner.CancellationRate)
	assert.Equal(t, BehaviourNever, owner.Behaviour)

	profile, err := f.svc.Stats.PlayerProfileForOwner(f.ctx, f.ownerID, f.playerID)
	require.NoError(t, err)
	assert.Equal(t, "Jogador", profile.Player.Name)
	assert.Equal(t, 33, profile.Stats.CancellationRate)

	_, err = f.svc.Stats.PlayerProfileForOwner(f.ctx, f.ownerID, f.ownerID)
	assertKind(t, err, apperrors.KindNotFound)
}

func TestOwnerOccupancy(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.playerID, "08:00")
	f.book(t, f.playerID, "09:00")
	_, err := f.svc.Reservations.Confirm(f.ctx, f.ownerID, res.ID)
	require.NoError(t, err)

	occ, err := f.svc.Stats.OwnerOccupancy(f.ctx, f.ownerID, testDate)
	require.NoError(t, err)
	require.Len(t, occ.Venues, 1)
	assert.Equal(t, models.VenueOccupancy{
		VenueID:    f.venueID,
		VenueName:  "Arena Central",
		Occupied:   1,
		TotalSlots: 4,
	}, occ.Venues[0])

	// 2024-06-01 is a Saturday without hours
	occ, err = f.svc.Stats.OwnerOccupancy(f.ctx, f.ownerID, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", occ.Date)
	require.Len(t, occ.Venues, 1)
	assert.True(t, occ.Venues[0].Closed)

	_, err = f.svc.Stats.OwnerOccupancy(f.ctx, f.ownerID, "ontem")
	assertKind(t, err, apperrors.KindValidation)
}
