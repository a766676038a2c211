package service

import (
	"context"
	"strings"
	"testing"

	apperrors "futspot/internal/errors"
	"futspot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePhotos struct {
	keys []string
}

func (p *fakePhotos) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	p.keys = append(p.keys, key)
	return "https://cdn.futspot.test/" + key, nil
}

func TestVenuePhotoUpload(t *testing.T) {
	f := newFixture(t)
	photos := &fakePhotos{}
	f.svc = NewServices(Deps{Store: f.store, Clock: f.clock, Photos: photos})

	resp, err := f.svc.Uploads.VenuePhoto(f.ctx, f.ownerID, f.venueID, "image/png", []byte("png"))
	require.NoError(t, err)
	require.Len(t, photos.keys, 1)
	assert.True(t, strings.HasPrefix(photos.keys[0], "locais/"), photos.keys[0])
	assert.True(t, strings.HasSuffix(resp.URL, ".png"), resp.URL)

	venue, err := f.svc.Venues.Get(f.ctx, f.venueID)
	require.NoError(t, err)
	assert.Equal(t, []string{resp.URL}, []string(venue.Photos))

	_, err = f.svc.Uploads.VenuePhoto(f.ctx, f.ownerID, f.venueID, "application/pdf", []byte("%PDF"))
	assertKind(t, err, apperrors.KindValidation)

	_, err = f.svc.Uploads.VenuePhoto(f.ctx, f.playerID, f.venueID, "image/png", []byte("png"))
	assertKind(t, err, apperrors.KindForbidden)
}

func TestProfilePhotoUpload(t *testing.T) {
	f := newFixture(t)
	photos := &fakePhotos{}
	f.svc = NewServices(Deps{Store: f.store, Clock: f.clock, Photos: photos})

	resp, err := f.svc.Uploads.ProfilePhoto(f.ctx, f.playerID, "image/jpeg", []byte("jpg"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(resp.URL, ".jpg"), resp.URL)

	me, err := f.svc.Users.Me(f.ctx, f.playerID)
	require.NoError(t, err)
	require.NotNil(t, me.PhotoURL)
	assert.Equal(t, resp.URL, *me.PhotoURL)
}

func TestUploadWithoutStorage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Uploads.ProfilePhoto(f.ctx, f.playerID, "image/webp", []byte("webp"))
	assertKind(t, err, apperrors.KindInternal)

	me, err := f.svc.Users.Me(f.ctx, f.playerID)
	require.NoError(t, err)
	assert.Nil(t, me.PhotoURL)
}

func TestProfileChangesRefreshCachedAvailability(t *testing.T) {
	f := newFixture(t)
	cache := newFakeCache()
	photos := &fakePhotos{}
	f.svc = NewServices(Deps{Store: f.store, Clock: f.clock, Cache: cache, Photos: photos})

	f.book(t, f.playerID, "08:00")
	cancelled := f.book(t, f.playerID, "09:00")
	_, err := f.svc.Reservations.Cancel(f.ctx, f.playerID, cancelled.ID)
	require.NoError(t, err)

	_, err = f.svc.Availability.Availability(f.ctx, f.venueID, testDate)
	require.NoError(t, err)
	cache.invalidated = nil

	_, err = f.svc.Users.Update(f.ctx, f.playerID, models.UpdateUserRequest{Name: strPtr("Jogador Novo")})
	require.NoError(t, err)
	assert.Equal(t, []string{cacheKey(f.venueID, testDate)}, cache.invalidated)

	resp, err := f.svc.Availability.Availability(f.ctx, f.venueID, testDate)
	require.NoError(t, err)
	require.NotNil(t, resp.Slots[0].Player)
	assert.Equal(t, "Jogador Novo", resp.Slots[0].Player.Name)

	photo, err := f.svc.Uploads.ProfilePhoto(f.ctx, f.playerID, "image/png", []byte("png"))
	require.NoError(t, err)

	resp, err = f.svc.Availability.Availability(f.ctx, f.venueID, testDate)
	require.NoError(t, err)
	require.NotNil(t, resp.Slots[0].Player.PhotoURL)
	assert.Equal(t, photo.URL, *resp.Slots[0].Player.PhotoURL)

	// у владельца без броней сбрасывать нечего
	cache.invalidated = nil
	_, err = f.svc.Users.Update(f.ctx, f.ownerID, models.UpdateUserRequest{Name: strPtr("Dono Novo")})
	require.NoError(t, err)
	assert.Empty(t, cache.invalidated)
}
