package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"futspot/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const hoursColumns = `id, local_id, dia_semana, aberto,
	to_char(inicio, 'HH24:MI') AS inicio, to_char(fim, 'HH24:MI') AS fim`

type HoursRepository struct {
	db sqlx.ExtContext
}

func NewHoursRepository(db sqlx.ExtContext) *HoursRepository {
	return &HoursRepository{db: db}
}

// Lookup returns nil when the venue has no record for that weekday.
func (r *HoursRepository) Lookup(ctx context.Context, venueID int64, weekday int) (*models.OperatingHours, error) {
	hours := &models.OperatingHours{}
	query := `SELECT ` + hoursColumns + ` FROM horarios_funcionamento WHERE local_id = $1 AND dia_semana = $2`

	err := sqlx.GetContext(ctx, r.db, hours, query, venueID, weekday)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *HoursRepository) ListForVenue(ctx context.Context, venueID int64) ([]models.OperatingHours, error) {
	hours := []models.OperatingHours{}
	query := `SELECT ` + hoursColumns + ` FROM horarios_funcionamento WHERE local_id = $1 ORDER BY dia_semana`

	if err := sqlx.SelectContext(ctx, r.db, &hours, query, venueID); err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *HoursRepository) ListForVenuesOnWeekday(ctx context.Context, venueIDs []int64, weekday int) (map[int64]models.OperatingHours, error) {
	result := make(map[int64]models.OperatingHours, len(venueIDs))
	if len(venueIDs) == 0 {
		return result, nil
	}

	var rows []models.OperatingHours
	query := `SELECT ` + hoursColumns + `
		FROM horarios_funcionamento
		WHERE local_id = ANY($1::bigint[]) AND dia_semana = $2`

	if err := sqlx.SelectContext(ctx, r.db, &rows, query, pq.Int64Array(venueIDs), weekday); err != nil {
		return nil, err
	}
	for _, h := range rows {
		result[h.VenueID] = h
	}
	return result, nil
}

// ReplaceForVenue swaps the whole weekly schedule of a venue.
func (r *HoursRepository) ReplaceForVenue(ctx context.Context, venueID int64, hours []models.OperatingHours) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM horarios_funcionamento WHERE local_id = $1`, venueID); err != nil {
		return fmt.Errorf("failed to clear hours: %w", err)
	}

	query := `
		INSERT INTO horarios_funcionamento (local_id, dia_semana, aberto, inicio, fim)
		VALUES ($1, $2, $3, $4::time, $5::time)
		RETURNING id`

	for i := range hours {
		h := &hours[i]
		h.VenueID = venueID
		if err := r.db.QueryRowxContext(ctx, query, venueID, h.Weekday, h.Open, h.Start, h.End).Scan(&h.ID); err != nil {
			return translate(err)
		}
	}
	return nil
}
