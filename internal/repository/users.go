package repository

import (
	"context"
	"database/sql"
	"errors"

	"futspot/internal/models"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, nome, email, telefone, senha_hash, tipo_usuario, foto_url, created_at`

type UserRepository struct {
	db sqlx.ExtContext
}

func NewUserRepository(db sqlx.ExtContext) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (nome, email, telefone, senha_hash, tipo_usuario)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.Name,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt)

	return translate(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := sqlx.GetContext(ctx, r.db, user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	err := sqlx.GetContext(ctx, r.db, user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET nome = $2, telefone = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.Phone)
	return err
}

func (r *UserRepository) UpdatePhoto(ctx context.Context, id int64, url string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET foto_url = $2 WHERE id = $1`, id, url)
	return err
}
