package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	apperrors "futspot/internal/errors"
	"futspot/internal/models"
	"futspot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	mu            sync.Mutex
	entries       map[string]*models.AvailabilityResponse
	versions      map[string]int64
	venueVersions map[int64]int64
	invalidated   []string
	staleWrites   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:       map[string]*models.AvailabilityResponse{},
		versions:      map[string]int64{},
		venueVersions: map[int64]int64{},
	}
}

func cacheKey(venueID int64, date string) string { return fmt.Sprintf("%d:%s", venueID, date) }

func (c *fakeCache) Get(ctx context.Context, venueID int64, date string) (*models.AvailabilityResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[cacheKey(venueID, date)], nil
}

func (c *fakeCache) version(venueID int64, date string) int64 {
	return c.versions[cacheKey(venueID, date)] + c.venueVersions[venueID]
}

func (c *fakeCache) Version(ctx context.Context, venueID int64, date string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version(venueID, date), nil
}

func (c *fakeCache) Set(ctx context.Context, venueID int64, date string, version int64, resp *models.AvailabilityResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version(venueID, date) != version {
		c.staleWrites++
		return nil
	}
	c.entries[cacheKey(venueID, date)] = resp
	return nil
}

func (c *fakeCache) InvalidateVenueDate(ctx context.Context, venueID int64, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey(venueID, date)
	c.versions[key]++
	delete(c.entries, key)
	c.invalidated = append(c.invalidated, key)
	return nil
}

func (c *fakeCache) InvalidateVenue(ctx context.Context, venueID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.venueVersions[venueID]++
	c.entries = map[string]*models.AvailabilityResponse{}
	c.invalidated = append(c.invalidated, fmt.Sprintf("%d:*", venueID))
	return nil
}

// interleavingStore runs afterList once, right after the first
// ListActiveForVenueDate returns.
type interleavingStore struct {
	repository.Store
	afterList func()
	once      sync.Once
}

func (s *interleavingStore) Reservations() repository.ReservationStore {
	return &interleavingReservations{ReservationStore: s.Store.Reservations(), parent: s}
}

type interleavingReservations struct {
	repository.ReservationStore
	parent *interleavingStore
}

func (r *interleavingReservations) ListActiveForVenueDate(ctx context.Context, venueID int64, date string) ([]models.ReservationWithPlayer, error) {
	active, err := r.ReservationStore.ListActiveForVenueDate(ctx, venueID, date)
	r.parent.once.Do(r.parent.afterList)
	return active, err
}

type fakeIndex struct {
	ids     []int64
	err     error
	indexed []int64
	deleted []int64
}

func (i *fakeIndex) IndexVenue(ctx context.Context, venue *models.Venue) error {
	i.indexed = append(i.indexed, venue.ID)
	return nil
}

func (i *fakeIndex) DeleteVenue(ctx context.Context, id int64) error {
	i.deleted = append(i.deleted, id)
	return nil
}

func (i *fakeIndex) SearchVenueIDs(ctx context.Context, city string, categories []string) ([]int64, error) {
	return i.ids, i.err
}

func slotStatuses(resp *models.AvailabilityResponse) map[string]string {
	out := map[string]string{}
	for _, s := range resp.Slots {
		out[s.Start] = s.Status
	}
	return out
}

func TestAvailability(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Availability.Availability(f.ctx, f.venueID, testDate)
	require.NoError(t, err)
	assert.False(t, resp.Closed)
	require.Len(t, resp.Slots, 4)
	assert.Equal(t, "08:00", resp.Slots[0].Start)
	assert.Equal(t, "09:00", resp.Slots[0].End)
	assert.Equal(t, "11:00", resp.Slots[3].Start)
	for _, s := range resp.Slots {
		assert.Equal(t, models.SlotFree, s.Status)
		assert.Nil(t, s.Player)
	}

	res := f.book(t, f.playerID, "08:00")
	resp, err = f.svc.Availability.Availability(f.ctx, f.venueID, testDate)
	require.NoError(t, err)
	assert.Equal(t, models.SlotRequested, resp.Slots[0].Status)
	require.NotNil(t, resp.Slots[0].Player)
	assert.Equal(t, f.playerID, resp.Slots[0].Player.ID)
	require.NotNil(t, resp.Slots[0].ReservationID)
	assert.Equal(t, res.ID, *resp.Slots[0].ReservationID)

	_, err = f.svc.Reservations.Confirm(f.ctx, f.ownerID, res.ID)
	require.NoError(t, err)
	resp, err = f.svc.Availability.Availability(f.ctx, f.venueID, testDate)
	require.NoError(t, err)
	assert.Equal(t, models.SlotOccupied, resp.Slots[0].Status)
	assert.Equal(t, models.SlotFree, resp.Slots[1].Status)
}

func TestAvailabilityClosedAndInvalid(t *testing.T) {
	f := newFixture(t)

	for _, date := range []string{"2024-06-02", "2024-06-04"} {
		resp, err := f.svc.Availability.Availability(f.ctx, f.venueID, date)
		require.NoError(t, err)
		assert.True(t, resp.Closed, date)
		assert.Empty(t, resp.Slots)
	}

	_, err := f.svc.Availability.Availability(f.ctx, f.venueID, "2024-13-01")
	assertKind(t, err, apperrors.KindValidation)

	_, err = f.svc.Availability.Availability(f.ctx, 999, testDate)
	assertKind(t, err, apperrors.KindNotFound)
}

func TestAvailabilityUsesCache(t *testing.T) {
	f := newFixture(t)
	cache := newFakeCache()
	f.svc = NewServices(Deps{Store: f.store, Clock: f.clock, Publisher: f.publisher, Cache: cache})

	_, err := f.svc.Availability.Availability(f.ctx, f.venueID, testDate)
	require.NoError(t, err)
	cached, _ := cache.Get(f.ctx, f.venueID, testDate)
	require.NotNil(t, cached)

	f.book(t, f.playerID, "09:00")
	assert.Contains(t, cache.invalidated, cacheKey(f.venueID, testDate))

	resp, err := f.svc.Availability.Availability(f.ctx, f.venueID, testDate)
	require.NoError(t, err)
	assert.Equal(t, models.SlotRequested, slotStatuses(resp)["09:00"])
}

func TestAvailabilityCacheSkipsResultOverlappingWrite(t *testing.T) {
	f := newFixture(t)
	cache := newFakeCache()
	writer := NewServices(Deps{Store: f.store, Clock: f.clock, Cache: cache})

	var booked *models.ReservationResponse
	racing := &interleavingStore{Store: f.store}
	racing.afterList = func() {
		res, err := writer.Reservations.Create(f.ctx, f.playerID, models.CreateReservationRequest{
			VenueID: f.venueID, Date: testDate, Start: "10:00",
		})
		require.NoError(t, err)
		booked = res
	}
	reader := NewServices(Deps{Store: racing, Clock: f.clock, Cache: cache})

	// ответ собран до записи и не должен попасть в кеш
	resp, err := reader.Availability.Availability(f.ctx, f.venueID, testDate)
	require.NoError(t, err)
	require.NotNil(t, booked)
	assert.Equal(t, models.SlotFree, slotStatuses(resp)["10:00"])
	assert.Equal(t, 1, cache.staleWrites)
	cached, _ := cache.Get(f.ctx, f.venueID, testDate)
	assert.Nil(t, cached)

	resp, err = reader.Availability.Availability(f.ctx, f.venueID, testDate)
	require.NoError(t, err)
	assert.Equal(t, models.SlotRequested, slotStatuses(resp)["10:00"])
	require.NotNil(t, resp.Slots[2].ReservationID)
	assert.Equal(t, booked.ID, *resp.Slots[2].ReservationID)

	cached, _ = cache.Get(f.ctx, f.venueID, testDate)
	require.NotNil(t, cached)
	assert.Equal(t, models.SlotRequested, slotStatuses(cached)["10:00"])
}

func TestAvailableSlotsOnly(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.playerID, "09:00")

	resp, err := f.svc.Availability.AvailableSlotsOnly(f.ctx, f.venueID, testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "10:00", "11:00"}, resp.FreeSlots)

	// today at 09:00: slots starting at or before the current minute are gone
	f.clock.Set(at("2024-06-03 09:00"))
	resp, err = f.svc.Availability.AvailableSlotsOnly(f.ctx, f.venueID, testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00"}, resp.FreeSlots)

	resp, err = f.svc.Availability.AvailableSlotsOnly(f.ctx, f.venueID, "2024-06-04")
	require.NoError(t, err)
	assert.NotNil(t, resp.FreeSlots)
	assert.Empty(t, resp.FreeSlots)
}

func TestSearchVenues(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.playerID, "08:00")

	items, err := f.svc.Availability.SearchVenues(f.ctx, models.SearchVenuesQuery{City: "paulo"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Arena Central", items[0].Name)
	assert.Empty(t, items[0].FreeSlots)

	items, err = f.svc.Availability.SearchVenues(f.ctx, models.SearchVenuesQuery{
		City: "São Paulo", Date: testDate, Periods: []string{"manha"},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, items[0].FreeSlots)

	items, err = f.svc.Availability.SearchVenues(f.ctx, models.SearchVenuesQuery{Date: testDate, Periods: []string{"noite"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].FreeSlots)

	for _, pattern := range []string{"_", "%", `S\o`} {
		items, err = f.svc.Availability.SearchVenues(f.ctx, models.SearchVenuesQuery{City: pattern})
		require.NoError(t, err)
		assert.Empty(t, items, pattern)
	}

	items, err = f.svc.Availability.SearchVenues(f.ctx, models.SearchVenuesQuery{Categories: []string{"FUTSAL"}})
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.svc.Availability.SearchVenues(f.ctx, models.SearchVenuesQuery{Date: "2024-05-31"})
	assertKind(t, err, apperrors.KindValidation)
}

func TestSearchVenuesWithIndex(t *testing.T) {
	f := newFixture(t)
	index := &fakeIndex{ids: []int64{f.venueID}}
	f.svc = NewServices(Deps{Store: f.store, Clock: f.clock, Index: index})

	// the index matched the accent-free spelling
	items, err := f.svc.Availability.SearchVenues(f.ctx, models.SearchVenuesQuery{City: "sao paulo"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	index.ids = []int64{}
	items, err = f.svc.Availability.SearchVenues(f.ctx, models.SearchVenuesQuery{City: "sao paulo"})
	require.NoError(t, err)
	assert.Empty(t, items)

	index.err = errors.New("cluster unavailable")
	items, err = f.svc.Availability.SearchVenues(f.ctx, models.SearchVenuesQuery{City: "paulo"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
