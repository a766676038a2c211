package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"futspot/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const notificationColumns = `n.id, n.usuario_id, n.agendamento_id, n.tipo, n.titulo, n.mensagem, n.lida, n.criado_em`

type NotificationRepository struct {
	db sqlx.ExtContext
}

func NewNotificationRepository(db sqlx.ExtContext) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	query := `
		INSERT INTO notificacoes (id, usuario_id, agendamento_id, tipo, titulo, mensagem)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING lida, criado_em`

	err := r.db.QueryRowxContext(ctx, query,
		n.ID,
		n.UserID,
		n.ReservationID,
		n.Type,
		n.Title,
		n.Message,
	).Scan(&n.Read, &n.CreatedAt)

	return translate(err)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	n := &models.Notification{}
	query := `SELECT ` + notificationColumns + ` FROM notificacoes n WHERE n.id = $1`

	err := sqlx.GetContext(ctx, r.db, n, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID int64, read *bool) ([]models.NotificationDetail, error) {
	rows := []models.NotificationDetail{}
	query := `SELECT ` + notificationColumns + `,
		       to_char(a.data, 'YYYY-MM-DD') AS agendamento_data,
		       to_char(a.inicio, 'HH24:MI') AS agendamento_inicio,
		       u.id AS jogador_id, u.nome AS jogador_nome,
		       l.id AS local_id, l.nome AS local_nome
		FROM notificacoes n
		LEFT JOIN agendamentos a ON a.id = n.agendamento_id
		LEFT JOIN users u ON u.id = a.jogador_id
		LEFT JOIN locais l ON l.id = a.local_id
		WHERE n.usuario_id = $1 AND ($2::boolean IS NULL OR n.lida = $2::boolean)
		ORDER BY n.criado_em DESC`

	if err := sqlx.SelectContext(ctx, r.db, &rows, query, userID, read); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notificacoes WHERE usuario_id = $1 AND lida = FALSE`
	err := sqlx.GetContext(ctx, r.db, &count, query, userID)
	return count, err
}

// MarkRead flags the given notifications of userID as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID int64, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE notificacoes SET lida = TRUE WHERE id IN (?) AND usuario_id = ?`, ids, userID)
	if err != nil {
		return fmt.Errorf("failed to build mark read query: %w", err)
	}
	query = r.db.Rebind(query)

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notificacoes SET lida = TRUE WHERE usuario_id = $1 AND lida = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
