package repository

import (
	"context"

	"futspot/internal/booking"
	"futspot/internal/models"

	"github.com/jmoiron/sqlx"
)

const counterColumns = `
	COUNT(*) FILTER (WHERE a.status = 'confirmado') AS confirmados,
	COUNT(DISTINCT a.local_id) FILTER (WHERE a.status = 'confirmado') AS locais_diferentes,
	COUNT(*) FILTER (WHERE a.status <> 'solicitado') AS decididos,
	COUNT(*) FILTER (WHERE a.status = 'cancelado' AND a.cancelado_por = $2) AS cancelados,
	COALESCE(SUM(a.valor_pagar) FILTER (WHERE a.status = 'confirmado'), 0)::float8 AS faturamento`

type StatsRepository struct {
	db sqlx.ExtContext
}

func NewStatsRepository(db sqlx.ExtContext) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) PlayerCounters(ctx context.Context, playerID, ownerID int64) (models.ReservationCounters, error) {
	var c models.ReservationCounters
	query := `SELECT ` + counterColumns + `
		FROM agendamentos a
		JOIN locais l ON l.id = a.local_id
		WHERE a.jogador_id = $1 AND ($3::bigint = 0 OR l.dono_id = $3::bigint)`

	err := sqlx.GetContext(ctx, r.db, &c, query, playerID, string(booking.ActorPlayer), ownerID)
	return c, err
}

func (r *StatsRepository) OwnerCounters(ctx context.Context, ownerID int64) (models.ReservationCounters, error) {
	var c models.ReservationCounters
	query := `SELECT ` + counterColumns + `
		FROM agendamentos a
		JOIN locais l ON l.id = a.local_id
		WHERE l.dono_id = $1`

	err := sqlx.GetContext(ctx, r.db, &c, query, ownerID, string(booking.ActorOwner))
	return c, err
}
