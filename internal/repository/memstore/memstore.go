// Package memstore is an in-memory repository.Store used by service and
// handler tests. Transactions are serialized on one mutex and rolled back
// by restoring a snapshot.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"futspot/internal/booking"
	"futspot/internal/models"
	"futspot/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type state struct {
	seq           int64
	users         map[int64]models.User
	venues        map[int64]models.Venue
	hours         map[int64][]models.OperatingHours
	reservations  map[int64]models.Reservation
	ratings       map[int64]models.Rating
	notifications map[string]models.Notification
	monthlyPlans  map[int64]models.MonthlyPlan
}

func newState() *state {
	return &state{
		users:         map[int64]models.User{},
		venues:        map[int64]models.Venue{},
		hours:         map[int64][]models.OperatingHours{},
		reservations:  map[int64]models.Reservation{},
		ratings:       map[int64]models.Rating{},
		notifications: map[string]models.Notification{},
		monthlyPlans:  map[int64]models.MonthlyPlan{},
	}
}

func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.venues {
		c.venues[k] = v
	}
	for k, v := range s.hours {
		c.hours[k] = append([]models.OperatingHours(nil), v...)
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.ratings {
		c.ratings[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	for k, v := range s.monthlyPlans {
		c.monthlyPlans[k] = v
	}
	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

type shared struct {
	mu sync.Mutex
	st *state
}

// Store implements repository.Store in memory.
type Store struct {
	sh   *shared
	inTx bool

	// Now stamps created_at columns.
	Now func() time.Time
	// BeforeReservationInsert, when set, runs before a reservation is stored
	// and may fail the insert.
	BeforeReservationInsert func(r *models.Reservation) error
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{sh: &shared{st: newState()}, Now: time.Now}
}

func (m *Store) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.sh.mu.Lock()
	return m.sh.mu.Unlock
}

func (m *Store) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func (m *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if m.inTx {
		return fn(m)
	}
	m.sh.mu.Lock()
	defer m.sh.mu.Unlock()

	snapshot := m.sh.st.clone()
	tx := &Store{sh: m.sh, inTx: true, Now: m.Now, BeforeReservationInsert: m.BeforeReservationInsert}
	if err := fn(tx); err != nil {
		m.sh.st = snapshot
		return err
	}
	return nil
}

func (m *Store) Users() repository.UserStore                 { return users{m} }
func (m *Store) Venues() repository.VenueStore               { return venues{m} }
func (m *Store) Hours() repository.HoursStore                { return hours{m} }
func (m *Store) Reservations() repository.ReservationStore   { return reservations{m} }
func (m *Store) Ratings() repository.RatingStore             { return ratings{m} }
func (m *Store) Notifications() repository.NotificationStore { return notifications{m} }
func (m *Store) Stats() repository.StatsStore                { return stats{m} }
func (m *Store) MonthlyPlans() repository.MonthlyPlanStore   { return monthlyPlans{m} }

func duplicate(what string) error {
	return fmt.Errorf("%w: %s", repository.ErrDuplicate, what)
}

// users

type users struct{ m *Store }

func (u users) Create(ctx context.Context, user *models.User) error {
	defer u.m.lock()()
	st := u.m.sh.st
	for _, existing := range st.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return duplicate("users_email_key")
		}
	}
	user.ID = st.nextID()
	user.CreatedAt = u.m.now()
	st.users[user.ID] = *user
	return nil
}

func (u users) GetByID(ctx context.Context, id int64) (*models.User, error) {
	defer u.m.lock()()
	if user, ok := u.m.sh.st.users[id]; ok {
		return &user, nil
	}
	return nil, nil
}

func (u users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer u.m.lock()()
	for _, user := range u.m.sh.st.users {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, nil
}

func (u users) Update(ctx context.Context, user *models.User) error {
	defer u.m.lock()()
	st := u.m.sh.st
	if existing, ok := st.users[user.ID]; ok {
		existing.Name = user.Name
		existing.Phone = user.Phone
		st.users[user.ID] = existing
	}
	return nil
}

func (u users) UpdatePhoto(ctx context.Context, id int64, url string) error {
	defer u.m.lock()()
	st := u.m.sh.st
	if existing, ok := st.users[id]; ok {
		existing.PhotoURL = &url
		st.users[id] = existing
	}
	return nil
}

// venues

type venues struct{ m *Store }

func (v venues) Create(ctx context.Context, venue *models.Venue) error {
	defer v.m.lock()()
	st := v.m.sh.st
	if venue.Photos == nil {
		venue.Photos = pq.StringArray{}
	}
	venue.ID = st.nextID()
	venue.CreatedAt = v.m.now()
	st.venues[venue.ID] = *venue
	return nil
}

func (v venues) GetByID(ctx context.Context, id int64) (*models.Venue, error) {
	defer v.m.lock()()
	if venue, ok := v.m.sh.st.venues[id]; ok {
		return &venue, nil
	}
	return nil, nil
}

func (v venues) Update(ctx context.Context, venue *models.Venue) error {
	defer v.m.lock()()
	st := v.m.sh.st
	if existing, ok := st.venues[venue.ID]; ok {
		updated := *venue
		updated.OwnerID = existing.OwnerID
		updated.CreatedAt = existing.CreatedAt
		st.venues[venue.ID] = updated
	}
	return nil
}

func (v venues) Delete(ctx context.Context, id int64) error {
	defer v.m.lock()()
	st := v.m.sh.st
	delete(st.venues, id)
	delete(st.hours, id)
	for rid, r := range st.reservations {
		if r.VenueID == id {
			delete(st.reservations, rid)
		}
	}
	for rid, r := range st.ratings {
		if r.VenueID == id {
			delete(st.ratings, rid)
		}
	}
	for pid, p := range st.monthlyPlans {
		if p.VenueID == id {
			delete(st.monthlyPlans, pid)
		}
	}
	return nil
}

func sortVenues(list []models.Venue) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}

func (v venues) ListByOwner(ctx context.Context, ownerID int64) ([]models.Venue, error) {
	defer v.m.lock()()
	out := []models.Venue{}
	for _, venue := range v.m.sh.st.venues {
		if venue.OwnerID == ownerID {
			out = append(out, venue)
		}
	}
	sortVenues(out)
	return out, nil
}

func (v venues) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	list, err := v.ListByOwner(ctx, ownerID)
	return len(list), err
}

func (v venues) Search(ctx context.Context, filter repository.VenueFilter) ([]models.Venue, error) {
	defer v.m.lock()()
	city := strings.ToLower(filter.City)
	out := []models.Venue{}
	for _, venue := range v.m.sh.st.venues {
		if city != "" && (venue.City == nil || !strings.Contains(strings.ToLower(*venue.City), city)) {
			continue
		}
		if len(filter.Categories) > 0 && !containsString(filter.Categories, venue.Category) {
			continue
		}
		if filter.IDs != nil && !containsID(filter.IDs, venue.ID) {
			continue
		}
		out = append(out, venue)
	}
	sortVenues(out)
	return out, nil
}

func (v venues) AppendPhoto(ctx context.Context, id int64, url string) error {
	defer v.m.lock()()
	st := v.m.sh.st
	if venue, ok := st.venues[id]; ok {
		photos := make(pq.StringArray, 0, len(venue.Photos)+1)
		photos = append(photos, venue.Photos...)
		venue.Photos = append(photos, url)
		st.venues[id] = venue
	}
	return nil
}

// hours

type hours struct{ m *Store }

func (h hours) Lookup(ctx context.Context, venueID int64, weekday int) (*models.OperatingHours, error) {
	defer h.m.lock()()
	for _, row := range h.m.sh.st.hours[venueID] {
		if row.Weekday == weekday {
			row := row
			return &row, nil
		}
	}
	return nil, nil
}

func (h hours) ListForVenue(ctx context.Context, venueID int64) ([]models.OperatingHours, error) {
	defer h.m.lock()()
	out := append([]models.OperatingHours{}, h.m.sh.st.hours[venueID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

func (h hours) ListForVenuesOnWeekday(ctx context.Context, venueIDs []int64, weekday int) (map[int64]models.OperatingHours, error) {
	defer h.m.lock()()
	out := map[int64]models.OperatingHours{}
	for _, id := range venueIDs {
		for _, row := range h.m.sh.st.hours[id] {
			if row.Weekday == weekday {
				out[id] = row
			}
		}
	}
	return out, nil
}

func (h hours) ReplaceForVenue(ctx context.Context, venueID int64, rows []models.OperatingHours) error {
	defer h.m.lock()()
	st := h.m.sh.st
	seen := map[int]bool{}
	stored := make([]models.OperatingHours, 0, len(rows))
	for i := range rows {
		if seen[rows[i].Weekday] {
			return duplicate("uq_horario_local_dia")
		}
		seen[rows[i].Weekday] = true
		rows[i].ID = st.nextID()
		rows[i].VenueID = venueID
		stored = append(stored, rows[i])
	}
	st.hours[venueID] = stored
	return nil
}

// reservations

type reservations struct{ m *Store }

func isActive(status string) bool {
	return booking.Status(status).Active()
}

func (r reservations) Create(ctx context.Context, res *models.Reservation) error {
	defer r.m.lock()()
	if r.m.BeforeReservationInsert != nil {
		if err := r.m.BeforeReservationInsert(res); err != nil {
			return err
		}
	}
	st := r.m.sh.st
	if isActive(res.Status) {
		for _, existing := range st.reservations {
			if existing.VenueID == res.VenueID && existing.Date == res.Date &&
				existing.Start == res.Start && isActive(existing.Status) {
				return duplicate("uq_agendamento_slot_ativo")
			}
		}
	}
	res.ID = st.nextID()
	res.CreatedAt = r.m.now()
	st.reservations[res.ID] = *res
	return nil
}

func (r reservations) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	defer r.m.lock()()
	if res, ok := r.m.sh.st.reservations[id]; ok {
		return &res, nil
	}
	return nil, nil
}

func (r reservations) GetForUpdate(ctx context.Context, id int64) (*models.Reservation, error) {
	return r.GetByID(ctx, id)
}

func (r reservations) FindActive(ctx context.Context, venueID int64, date, start string) (*models.Reservation, error) {
	defer r.m.lock()()
	for _, res := range r.m.sh.st.reservations {
		if res.VenueID == venueID && res.Date == date && res.Start == start && isActive(res.Status) {
			return &res, nil
		}
	}
	return nil, nil
}

func (r reservations) playerRef(id int64) models.PlayerRef {
	u := r.m.sh.st.users[id]
	return models.PlayerRef{ID: u.ID, Name: u.Name, Email: u.Email, PhotoURL: u.PhotoURL}
}

func (r reservations) ListActiveForVenueDate(ctx context.Context, venueID int64, date string) ([]models.ReservationWithPlayer, error) {
	defer r.m.lock()()
	out := []models.ReservationWithPlayer{}
	for _, res := range r.m.sh.st.reservations {
		if res.VenueID == venueID && res.Date == date && isActive(res.Status) {
			out = append(out, models.ReservationWithPlayer{Reservation: res, PlayerRef: r.playerRef(res.PlayerID)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (r reservations) ActiveStartsForVenuesOnDate(ctx context.Context, venueIDs []int64, date string) (map[int64][]string, error) {
	defer r.m.lock()()
	out := map[int64][]string{}
	for _, res := range r.m.sh.st.reservations {
		if containsID(venueIDs, res.VenueID) && res.Date == date && isActive(res.Status) {
			out[res.VenueID] = append(out[res.VenueID], res.Start)
		}
	}
	return out, nil
}

func (r reservations) CountConfirmedForVenuesOnDate(ctx context.Context, venueIDs []int64, date string) (map[int64]int, error) {
	defer r.m.lock()()
	out := map[int64]int{}
	for _, res := range r.m.sh.st.reservations {
		if containsID(venueIDs, res.VenueID) && res.Date == date && res.Status == string(booking.StatusConfirmed) {
			out[res.VenueID]++
		}
	}
	return out, nil
}

func (r reservations) UpdateStatus(ctx context.Context, id int64, status string, cancelledBy *string) error {
	defer r.m.lock()()
	st := r.m.sh.st
	res, ok := st.reservations[id]
	if !ok {
		return nil
	}
	if isActive(status) && !isActive(res.Status) {
		for _, other := range st.reservations {
			if other.ID != id && other.VenueID == res.VenueID && other.Date == res.Date &&
				other.Start == res.Start && isActive(other.Status) {
				return duplicate("uq_agendamento_slot_ativo")
			}
		}
	}
	res.Status = status
	res.CancelledBy = cancelledBy
	st.reservations[id] = res
	return nil
}

func (r reservations) ListByPlayer(ctx context.Context, playerID int64) ([]models.PlayerReservation, error) {
	defer r.m.lock()()
	st := r.m.sh.st
	out := []models.PlayerReservation{}
	for _, res := range st.reservations {
		if res.PlayerID != playerID {
			continue
		}
		venue := st.venues[res.VenueID]
		row := models.PlayerReservation{
			Reservation:  res,
			VenueName:    venue.Name,
			VenueAddress: venue.Address,
			VenuePhotos:  venue.Photos,
		}
		for _, rating := range st.ratings {
			if rating.ReservationID == res.ID {
				id, score := rating.ID, rating.Score
				row.RatingID = &id
				row.RatingScore = &score
				row.RatingComment = rating.Comment
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Start > out[j].Start
	})
	return out, nil
}

func (r reservations) ListByOwner(ctx context.Context, ownerID int64, filter repository.ReservationFilter) ([]models.OwnerReservation, error) {
	defer r.m.lock()()
	st := r.m.sh.st
	out := []models.OwnerReservation{}
	for _, res := range st.reservations {
		venue, ok := st.venues[res.VenueID]
		if !ok || venue.OwnerID != ownerID {
			continue
		}
		if filter.Date != "" && res.Date != filter.Date {
			continue
		}
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		out = append(out, models.OwnerReservation{Reservation: res, PlayerRef: r.playerRef(res.PlayerID), VenueName: venue.Name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Start > out[j].Start
	})
	return out, nil
}

func (r reservations) ListStaleRequests(ctx context.Context, localFrom, localUntil string, limit int) ([]models.Reservation, error) {
	defer r.m.lock()()
	out := []models.Reservation{}
	for _, res := range r.m.sh.st.reservations {
		at := res.Date + " " + res.Start
		if res.Status == string(booking.StatusRequested) && at > localFrom && at <= localUntil {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date+out[i].Start < out[j].Date+out[j].Start
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ratings

type ratings struct{ m *Store }

func (r ratings) Create(ctx context.Context, rating *models.Rating) error {
	defer r.m.lock()()
	st := r.m.sh.st
	for _, existing := range st.ratings {
		if existing.ReservationID == rating.ReservationID {
			return duplicate("avaliacoes_locais_agendamento_id_key")
		}
	}
	rating.ID = st.nextID()
	rating.CreatedAt = r.m.now()
	st.ratings[rating.ID] = *rating
	return nil
}

func (r ratings) GetByReservation(ctx context.Context, reservationID int64) (*models.Rating, error) {
	defer r.m.lock()()
	for _, rating := range r.m.sh.st.ratings {
		if rating.ReservationID == reservationID {
			return &rating, nil
		}
	}
	return nil, nil
}

func summarize(scores []float64) models.RatingSummary {
	if len(scores) == 0 {
		return models.RatingSummary{}
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))
	return models.RatingSummary{Count: len(scores), Average: &avg}
}

func (r ratings) SummaryForVenues(ctx context.Context, venueIDs []int64) (map[int64]models.RatingSummary, error) {
	defer r.m.lock()()
	scores := map[int64][]float64{}
	for _, rating := range r.m.sh.st.ratings {
		if containsID(venueIDs, rating.VenueID) {
			scores[rating.VenueID] = append(scores[rating.VenueID], rating.Score)
		}
	}
	out := map[int64]models.RatingSummary{}
	for id, s := range scores {
		out[id] = summarize(s)
	}
	return out, nil
}

func (r ratings) SummaryGivenBy(ctx context.Context, playerID, ownerID int64) (models.RatingSummary, error) {
	defer r.m.lock()()
	st := r.m.sh.st
	var scores []float64
	for _, rating := range st.ratings {
		if rating.PlayerID != playerID {
			continue
		}
		if ownerID != 0 && st.venues[rating.VenueID].OwnerID != ownerID {
			continue
		}
		scores = append(scores, rating.Score)
	}
	return summarize(scores), nil
}

func (r ratings) SummaryReceivedBy(ctx context.Context, ownerID int64) (models.RatingSummary, error) {
	defer r.m.lock()()
	st := r.m.sh.st
	var scores []float64
	for _, rating := range st.ratings {
		if st.venues[rating.VenueID].OwnerID == ownerID {
			scores = append(scores, rating.Score)
		}
	}
	return summarize(scores), nil
}

// notifications

type notifications struct{ m *Store }

func (n notifications) Create(ctx context.Context, notif *models.Notification) error {
	defer n.m.lock()()
	if notif.ID == "" {
		notif.ID = uuid.NewString()
	}
	notif.Read = false
	notif.CreatedAt = n.m.now()
	n.m.sh.st.notifications[notif.ID] = *notif
	return nil
}

func (n notifications) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	defer n.m.lock()()
	if notif, ok := n.m.sh.st.notifications[id]; ok {
		return &notif, nil
	}
	return nil, nil
}

func (n notifications) ListForUser(ctx context.Context, userID int64, read *bool) ([]models.NotificationDetail, error) {
	defer n.m.lock()()
	st := n.m.sh.st
	out := []models.NotificationDetail{}
	for _, notif := range st.notifications {
		if notif.UserID != userID || (read != nil && notif.Read != *read) {
			continue
		}
		detail := models.NotificationDetail{Notification: notif}
		if notif.ReservationID != nil {
			if res, ok := st.reservations[*notif.ReservationID]; ok {
				date, start := res.Date, res.Start
				player := st.users[res.PlayerID]
				venue := st.venues[res.VenueID]
				detail.ReservationDate = &date
				detail.ReservationStart = &start
				detail.PlayerID = &player.ID
				detail.PlayerName = &player.Name
				detail.VenueID = &venue.ID
				detail.VenueName = &venue.Name
			}
		}
		out = append(out, detail)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (n notifications) CountUnread(ctx context.Context, userID int64) (int, error) {
	defer n.m.lock()()
	count := 0
	for _, notif := range n.m.sh.st.notifications {
		if notif.UserID == userID && !notif.Read {
			count++
		}
	}
	return count, nil
}

func (n notifications) MarkRead(ctx context.Context, userID int64, ids []string) error {
	defer n.m.lock()()
	st := n.m.sh.st
	for _, id := range ids {
		if notif, ok := st.notifications[id]; ok && notif.UserID == userID {
			notif.Read = true
			st.notifications[id] = notif
		}
	}
	return nil
}

func (n notifications) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	defer n.m.lock()()
	st := n.m.sh.st
	var count int64
	for id, notif := range st.notifications {
		if notif.UserID == userID && !notif.Read {
			notif.Read = true
			st.notifications[id] = notif
			count++
		}
	}
	return count, nil
}

// stats

type stats struct{ m *Store }

func (s stats) count(match func(res models.Reservation, venue models.Venue) bool, actor booking.Actor) models.ReservationCounters {
	st := s.m.sh.st
	var c models.ReservationCounters
	venues := map[int64]bool{}
	for _, res := range st.reservations {
		venue := st.venues[res.VenueID]
		if !match(res, venue) {
			continue
		}
		switch res.Status {
		case string(booking.StatusConfirmed):
			c.Confirmed++
			c.Revenue += res.Amount
			venues[res.VenueID] = true
		case string(booking.StatusCancelled):
			if res.CancelledBy != nil && *res.CancelledBy == string(actor) {
				c.CancelledBy++
			}
		}
		if res.Status != string(booking.StatusRequested) {
			c.Decided++
		}
	}
	c.DistinctVenues = len(venues)
	return c
}

func (s stats) PlayerCounters(ctx context.Context, playerID, ownerID int64) (models.ReservationCounters, error) {
	defer s.m.lock()()
	return s.count(func(res models.Reservation, venue models.Venue) bool {
		return res.PlayerID == playerID && (ownerID == 0 || venue.OwnerID == ownerID)
	}, booking.ActorPlayer), nil
}

func (s stats) OwnerCounters(ctx context.Context, ownerID int64) (models.ReservationCounters, error) {
	defer s.m.lock()()
	return s.count(func(res models.Reservation, venue models.Venue) bool {
		return venue.OwnerID == ownerID
	}, booking.ActorOwner), nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// mensalidades

type monthlyPlans struct{ m *Store }

func (p monthlyPlans) cpfTaken(cpf string, except int64) bool {
	for _, existing := range p.m.sh.st.monthlyPlans {
		if existing.CPF == cpf && existing.ID != except {
			return true
		}
	}
	return false
}

func (p monthlyPlans) Create(ctx context.Context, plan *models.MonthlyPlan) error {
	defer p.m.lock()()
	st := p.m.sh.st
	if p.cpfTaken(plan.CPF, 0) {
		return duplicate("uq_mensalidade_cpf")
	}
	plan.ID = st.nextID()
	plan.CreatedAt = p.m.now()
	plan.UpdatedAt = plan.CreatedAt
	st.monthlyPlans[plan.ID] = *plan
	return nil
}

func (p monthlyPlans) GetByID(ctx context.Context, id int64) (*models.MonthlyPlan, error) {
	defer p.m.lock()()
	if plan, ok := p.m.sh.st.monthlyPlans[id]; ok {
		return &plan, nil
	}
	return nil, nil
}

func (p monthlyPlans) GetByCPF(ctx context.Context, cpf string) (*models.MonthlyPlan, error) {
	defer p.m.lock()()
	for _, plan := range p.m.sh.st.monthlyPlans {
		if plan.CPF == cpf {
			return &plan, nil
		}
	}
	return nil, nil
}

func (p monthlyPlans) ListByVenue(ctx context.Context, venueID int64) ([]models.MonthlyPlan, error) {
	defer p.m.lock()()
	out := []models.MonthlyPlan{}
	for _, plan := range p.m.sh.st.monthlyPlans {
		if plan.VenueID == venueID {
			out = append(out, plan)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weekday != out[j].Weekday {
			return out[i].Weekday < out[j].Weekday
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (p monthlyPlans) Update(ctx context.Context, plan *models.MonthlyPlan) error {
	defer p.m.lock()()
	st := p.m.sh.st
	existing, ok := st.monthlyPlans[plan.ID]
	if !ok {
		return nil
	}
	if p.cpfTaken(plan.CPF, plan.ID) {
		return duplicate("uq_mensalidade_cpf")
	}
	plan.VenueID = existing.VenueID
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = p.m.now()
	st.monthlyPlans[plan.ID] = *plan
	return nil
}

func (p monthlyPlans) Delete(ctx context.Context, id int64) error {
	defer p.m.lock()()
	delete(p.m.sh.st.monthlyPlans, id)
	return nil
}
