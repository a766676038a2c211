package repository

import (
	"context"
	"database/sql"
	"errors"

	"futspot/internal/models"

	"github.com/jmoiron/sqlx"
)

const monthlyPlanColumns = `id, local_id, nome_responsavel, cpf, celular, dia_semana,
	to_char(hora_inicio, 'HH24:MI') AS hora_inicio, valor::float8 AS valor, created_at, updated_at`

type MonthlyPlanRepository struct {
	db sqlx.ExtContext
}

func NewMonthlyPlanRepository(db sqlx.ExtContext) *MonthlyPlanRepository {
	return &MonthlyPlanRepository{db: db}
}

// Create fails with ErrDuplicate when the CPF is already registered.
func (r *MonthlyPlanRepository) Create(ctx context.Context, plan *models.MonthlyPlan) error {
	query := `
		INSERT INTO mensalidades (local_id, nome_responsavel, cpf, celular, dia_semana, hora_inicio, valor)
		VALUES ($1, $2, $3, $4, $5, $6::time, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		plan.VenueID,
		plan.HolderName,
		plan.CPF,
		plan.Phone,
		plan.Weekday,
		plan.Start,
		plan.Amount,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)

	return translate(err)
}

func (r *MonthlyPlanRepository) GetByID(ctx context.Context, id int64) (*models.MonthlyPlan, error) {
	return r.getOne(ctx, `SELECT `+monthlyPlanColumns+` FROM mensalidades WHERE id = $1`, id)
}

func (r *MonthlyPlanRepository) GetByCPF(ctx context.Context, cpf string) (*models.MonthlyPlan, error) {
	return r.getOne(ctx, `SELECT `+monthlyPlanColumns+` FROM mensalidades WHERE cpf = $1`, cpf)
}

func (r *MonthlyPlanRepository) getOne(ctx context.Context, query string, arg any) (*models.MonthlyPlan, error) {
	plan := &models.MonthlyPlan{}
	err := sqlx.GetContext(ctx, r.db, plan, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// ListByVenue orders by weekday, then start.
func (r *MonthlyPlanRepository) ListByVenue(ctx context.Context, venueID int64) ([]models.MonthlyPlan, error) {
	plans := []models.MonthlyPlan{}
	query := `SELECT ` + monthlyPlanColumns + `
		FROM mensalidades
		WHERE local_id = $1
		ORDER BY dia_semana, hora_inicio, id`

	if err := sqlx.SelectContext(ctx, r.db, &plans, query, venueID); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *MonthlyPlanRepository) Update(ctx context.Context, plan *models.MonthlyPlan) error {
	query := `
		UPDATE mensalidades
		SET nome_responsavel = $2, cpf = $3, celular = $4, dia_semana = $5,
		    hora_inicio = $6::time, valor = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		plan.ID,
		plan.HolderName,
		plan.CPF,
		plan.Phone,
		plan.Weekday,
		plan.Start,
		plan.Amount,
	).Scan(&plan.UpdatedAt)

	return translate(err)
}

func (r *MonthlyPlanRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM mensalidades WHERE id = $1`, id)
	return err
}
