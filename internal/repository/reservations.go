package repository

import (
	"context"
	"database/sql"
	"errors"

	"futspot/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const reservationColumns = `a.id, a.local_id, a.jogador_id,
	to_char(a.data, 'YYYY-MM-DD') AS data, to_char(a.inicio, 'HH24:MI') AS inicio,
	a.status, a.cancelado_por, a.valor_pagar::float8 AS valor_pagar, a.created_at`

const playerRefColumns = `u.id AS jogador_uid, u.nome AS jogador_nome,
	u.email AS jogador_email, u.foto_url AS jogador_foto_url`

const activeStatuses = `('solicitado', 'confirmado')`

type ReservationRepository struct {
	db sqlx.ExtContext
}

func NewReservationRepository(db sqlx.ExtContext) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	query := `
		INSERT INTO agendamentos (local_id, jogador_id, data, inicio, status, cancelado_por, valor_pagar)
		VALUES ($1, $2, $3::date, $4::time, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		res.VenueID,
		res.PlayerID,
		res.Date,
		res.Start,
		res.Status,
		res.CancelledBy,
		res.Amount,
	).Scan(&res.ID, &res.CreatedAt)

	return translate(err)
}

func (r *ReservationRepository) get(ctx context.Context, query string, args ...any) (*models.Reservation, error) {
	res := &models.Reservation{}
	err := sqlx.GetContext(ctx, r.db, res, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	return r.get(ctx, `SELECT `+reservationColumns+` FROM agendamentos a WHERE a.id = $1`, id)
}

// GetForUpdate locks the row until the surrounding transaction ends.
func (r *ReservationRepository) GetForUpdate(ctx context.Context, id int64) (*models.Reservation, error) {
	return r.get(ctx, `SELECT `+reservationColumns+` FROM agendamentos a WHERE a.id = $1 FOR UPDATE`, id)
}

func (r *ReservationRepository) FindActive(ctx context.Context, venueID int64, date, start string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM agendamentos a
		WHERE a.local_id = $1 AND a.data = $2::date AND a.inicio = $3::time
		  AND a.status IN ` + activeStatuses
	return r.get(ctx, query, venueID, date, start)
}

func (r *ReservationRepository) ListActiveForVenueDate(ctx context.Context, venueID int64, date string) ([]models.ReservationWithPlayer, error) {
	rows := []models.ReservationWithPlayer{}
	query := `SELECT ` + reservationColumns + `, ` + playerRefColumns + `
		FROM agendamentos a
		JOIN users u ON u.id = a.jogador_id
		WHERE a.local_id = $1 AND a.data = $2::date AND a.status IN ` + activeStatuses + `
		ORDER BY a.inicio`

	if err := sqlx.SelectContext(ctx, r.db, &rows, query, venueID, date); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReservationRepository) ActiveStartsForVenuesOnDate(ctx context.Context, venueIDs []int64, date string) (map[int64][]string, error) {
	result := make(map[int64][]string, len(venueIDs))
	if len(venueIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		VenueID int64  `db:"local_id"`
		Start   string `db:"inicio"`
	}
	query := `
		SELECT a.local_id, to_char(a.inicio, 'HH24:MI') AS inicio
		FROM agendamentos a
		WHERE a.local_id = ANY($1::bigint[]) AND a.data = $2::date AND a.status IN ` + activeStatuses

	if err := sqlx.SelectContext(ctx, r.db, &rows, query, pq.Int64Array(venueIDs), date); err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.VenueID] = append(result[row.VenueID], row.Start)
	}
	return result, nil
}

func (r *ReservationRepository) CountConfirmedForVenuesOnDate(ctx context.Context, venueIDs []int64, date string) (map[int64]int, error) {
	result := make(map[int64]int, len(venueIDs))
	if len(venueIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		VenueID int64 `db:"local_id"`
		Count   int   `db:"total"`
	}
	query := `
		SELECT a.local_id, COUNT(*) AS total
		FROM agendamentos a
		WHERE a.local_id = ANY($1::bigint[]) AND a.data = $2::date AND a.status = 'confirmado'
		GROUP BY a.local_id`

	if err := sqlx.SelectContext(ctx, r.db, &rows, query, pq.Int64Array(venueIDs), date); err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.VenueID] = row.Count
	}
	return result, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, status string, cancelledBy *string) error {
	query := `UPDATE agendamentos SET status = $2, cancelado_por = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status, cancelledBy)
	return translate(err)
}

func (r *ReservationRepository) ListByPlayer(ctx context.Context, playerID int64) ([]models.PlayerReservation, error) {
	rows := []models.PlayerReservation{}
	query := `SELECT ` + reservationColumns + `,
		       l.nome AS local_nome, l.endereco AS local_endereco, l.fotos AS local_fotos,
		       av.id AS avaliacao_id, av.nota::float8 AS avaliacao_nota, av.comentario AS avaliacao_comentario
		FROM agendamentos a
		JOIN locais l ON l.id = a.local_id
		LEFT JOIN avaliacoes_locais av ON av.agendamento_id = a.id
		WHERE a.jogador_id = $1
		ORDER BY a.data DESC, a.inicio DESC`

	if err := sqlx.SelectContext(ctx, r.db, &rows, query, playerID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReservationRepository) ListByOwner(ctx context.Context, ownerID int64, filter ReservationFilter) ([]models.OwnerReservation, error) {
	rows := []models.OwnerReservation{}
	query := `SELECT ` + reservationColumns + `, ` + playerRefColumns + `, l.nome AS local_nome
		FROM agendamentos a
		JOIN locais l ON l.id = a.local_id
		JOIN users u ON u.id = a.jogador_id
		WHERE l.dono_id = $1
		  AND ($2::text = '' OR a.data = NULLIF($2::text, '')::date)
		  AND ($3::text = '' OR a.status = $3::text)
		ORDER BY a.data DESC, a.inicio DESC`

	if err := sqlx.SelectContext(ctx, r.db, &rows, query, ownerID, filter.Date, filter.Status); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReservationRepository) ListStaleRequests(ctx context.Context, localFrom, localUntil string, limit int) ([]models.Reservation, error) {
	rows := []models.Reservation{}
	query := `SELECT ` + reservationColumns + `
		FROM agendamentos a
		WHERE a.status = 'solicitado'
		  AND (a.data + a.inicio) > $1::timestamp
		  AND (a.data + a.inicio) <= $2::timestamp
		ORDER BY a.data, a.inicio
		LIMIT $3`

	if err := sqlx.SelectContext(ctx, r.db, &rows, query, localFrom, localUntil, limit); err != nil {
		return nil, err
	}
	return rows, nil
}
