package service

import (
	"testing"

	apperrors "futspot/internal/errors"
	"futspot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priceOf(v float64) *float64 { return &v }

func validVenue() models.VenueRequest {
	return models.VenueRequest{
		Name:        strPtr("Quadra Nova"),
		Address:     strPtr("Av. Brasil"),
		Category:    strPtr("futsal"),
		HourlyPrice: priceOf(80),
	}
}

func TestCreateVenueValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*models.VenueRequest)
	}{
		{"missing name", func(r *models.VenueRequest) { r.Name = strPtr("  ") }},
		{"missing address", func(r *models.VenueRequest) { r.Address = nil }},
		{"unknown category", func(r *models.VenueRequest) { r.Category = strPtr("tenis") }},
		{"price below one", func(r *models.VenueRequest) { r.HourlyPrice = priceOf(0.5) }},
		{"weekday out of range", func(r *models.VenueRequest) {
			r.Hours = &[]models.HoursInput{{Weekday: 7, Open: false}}
		}},
		{"duplicated weekday", func(r *models.VenueRequest) {
			r.Hours = &[]models.HoursInput{{Weekday: 2}, {Weekday: 2}}
		}},
		{"open day without window", func(r *models.VenueRequest) {
			r.Hours = &[]models.HoursInput{{Weekday: 2, Open: true, Start: strPtr("08:00")}}
		}},
		{"window reversed", func(r *models.VenueRequest) {
			r.Hours = &[]models.HoursInput{{Weekday: 2, Open: true, Start: strPtr("18:00"), End: strPtr("08:00")}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validVenue()
			tt.mutate(&req)
			_, err := f.svc.Venues.Create(f.ctx, f.ownerID, req)
			assertKind(t, err, apperrors.KindValidation)
		})
	}
}

func TestCreateAndGetVenue(t *testing.T) {
	f := newFixture(t)
	index := &fakeIndex{}
	f.svc = NewServices(Deps{Store: f.store, Clock: f.clock, Index: index})

	req := validVenue()
	req.Category = strPtr(" FUTSAL ")
	req.Hours = &[]models.HoursInput{{Weekday: 6, Open: true, Start: strPtr("18:00:00"), End: strPtr("22:00")}}

	venue, err := f.svc.Venues.Create(f.ctx, f.ownerID, req)
	require.NoError(t, err)
	assert.Equal(t, "futsal", venue.Category)
	assert.NotNil(t, venue.Photos)
	require.Len(t, venue.Hours, 1)
	require.NotNil(t, venue.Hours[0].Start)
	assert.Equal(t, "18:00", *venue.Hours[0].Start)
	assert.Nil(t, venue.AverageRating)
	assert.Equal(t, []int64{venue.ID}, index.indexed)

	free, err := f.svc.Availability.AvailableSlotsOnly(f.ctx, venue.ID, "2024-06-01")
	require.NoError(t, err)
	// 10:00 on that Saturday, so every evening slot is still ahead
	assert.Equal(t, []string{"18:00", "19:00", "20:00", "21:00"}, free.FreeSlots)

	_, err = f.svc.Venues.Get(f.ctx, 999)
	assertKind(t, err, apperrors.KindNotFound)
}

func TestUpdateVenue(t *testing.T) {
	f := newFixture(t)
	cache := newFakeCache()
	f.svc = NewServices(Deps{Store: f.store, Clock: f.clock, Cache: cache})

	venue, err := f.svc.Venues.Update(f.ctx, f.ownerID, f.venueID, models.VenueRequest{HourlyPrice: priceOf(150)})
	require.NoError(t, err)
	assert.Equal(t, 150.0, venue.HourlyPrice)
	assert.Equal(t, "Arena Central", venue.Name)
	assert.Len(t, venue.Hours, 2)
	assert.NotEmpty(t, cache.invalidated)

	venue, err = f.svc.Venues.Update(f.ctx, f.ownerID, f.venueID, models.VenueRequest{
		Hours: &[]models.HoursInput{{Weekday: 1, Open: true, Start: strPtr("10:00"), End: strPtr("12:00")}},
	})
	require.NoError(t, err)
	require.Len(t, venue.Hours, 1)

	free, err := f.svc.Availability.AvailableSlotsOnly(f.ctx, f.venueID, testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00"}, free.FreeSlots)

	_, err = f.svc.Venues.Update(f.ctx, f.ownerID, f.venueID, models.VenueRequest{Category: strPtr("vôlei")})
	assertKind(t, err, apperrors.KindValidation)

	intruder := f.addUser(t, "Outro Dono", "outro.dono@futspot.test", models.RoleOwner)
	_, err = f.svc.Venues.Update(f.ctx, intruder, f.venueID, models.VenueRequest{HourlyPrice: priceOf(1)})
	assertKind(t, err, apperrors.KindForbidden)
}

func TestDeleteVenue(t *testing.T) {
	f := newFixture(t)
	index := &fakeIndex{}
	f.svc = NewServices(Deps{Store: f.store, Clock: f.clock, Index: index})

	intruder := f.addUser(t, "Outro Dono", "outro.dono@futspot.test", models.RoleOwner)
	assertKind(t, f.svc.Venues.Delete(f.ctx, intruder, f.venueID), apperrors.KindForbidden)

	require.NoError(t, f.svc.Venues.Delete(f.ctx, f.ownerID, f.venueID))
	assert.Equal(t, []int64{f.venueID}, index.deleted)

	mine, err := f.svc.Venues.ListMine(f.ctx, f.ownerID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	assertKind(t, f.svc.Venues.Delete(f.ctx, f.ownerID, f.venueID), apperrors.KindNotFound)
}
