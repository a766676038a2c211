package repository

import (
	"context"
	"database/sql"
	"errors"

	"futspot/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type RatingRepository struct {
	db sqlx.ExtContext
}

func NewRatingRepository(db sqlx.ExtContext) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	query := `
		INSERT INTO avaliacoes_locais (local_id, jogador_id, agendamento_id, nota, comentario)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		rating.VenueID,
		rating.PlayerID,
		rating.ReservationID,
		rating.Score,
		rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt)

	return translate(err)
}

func (r *RatingRepository) GetByReservation(ctx context.Context, reservationID int64) (*models.Rating, error) {
	rating := &models.Rating{}
	query := `
		SELECT id, local_id, jogador_id, agendamento_id, nota::float8 AS nota, comentario, created_at
		FROM avaliacoes_locais
		WHERE agendamento_id = $1`

	err := sqlx.GetContext(ctx, r.db, rating, query, reservationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rating, nil
}

func (r *RatingRepository) SummaryForVenues(ctx context.Context, venueIDs []int64) (map[int64]models.RatingSummary, error) {
	result := make(map[int64]models.RatingSummary, len(venueIDs))
	if len(venueIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		VenueID int64 `db:"local_id"`
		models.RatingSummary
	}
	query := `
		SELECT local_id, COUNT(*) AS total, AVG(nota)::float8 AS media
		FROM avaliacoes_locais
		WHERE local_id = ANY($1::bigint[])
		GROUP BY local_id`

	if err := sqlx.SelectContext(ctx, r.db, &rows, query, pq.Int64Array(venueIDs)); err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.VenueID] = row.RatingSummary
	}
	return result, nil
}

func (r *RatingRepository) SummaryGivenBy(ctx context.Context, playerID, ownerID int64) (models.RatingSummary, error) {
	var summary models.RatingSummary
	query := `
		SELECT COUNT(*) AS total, AVG(av.nota)::float8 AS media
		FROM avaliacoes_locais av
		JOIN locais l ON l.id = av.local_id
		WHERE av.jogador_id = $1 AND ($2::bigint = 0 OR l.dono_id = $2::bigint)`

	err := sqlx.GetContext(ctx, r.db, &summary, query, playerID, ownerID)
	return summary, err
}

func (r *RatingRepository) SummaryReceivedBy(ctx context.Context, ownerID int64) (models.RatingSummary, error) {
	var summary models.RatingSummary
	query := `
		SELECT COUNT(*) AS total, AVG(av.nota)::float8 AS media
		FROM avaliacoes_locais av
		JOIN locais l ON l.id = av.local_id
		WHERE l.dono_id = $1`

	err := sqlx.GetContext(ctx, r.db, &summary, query, ownerID)
	return summary, err
}
