package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"futspot/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const venueColumns = `id, nome, descricao, cep, cidade, endereco, numero, tipo_local,
	preco_hora::float8 AS preco_hora, fotos, dono_id, created_at`

type VenueRepository struct {
	db sqlx.ExtContext
}

func NewVenueRepository(db sqlx.ExtContext) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) Create(ctx context.Context, venue *models.Venue) error {
	if venue.Photos == nil {
		venue.Photos = pq.StringArray{}
	}
	query := `
		INSERT INTO locais (nome, descricao, cep, cidade, endereco, numero, tipo_local, preco_hora, fotos, dono_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		venue.Name,
		venue.Description,
		venue.ZipCode,
		venue.City,
		venue.Address,
		venue.Number,
		venue.Category,
		venue.HourlyPrice,
		venue.Photos,
		venue.OwnerID,
	).Scan(&venue.ID, &venue.CreatedAt)

	return translate(err)
}

func (r *VenueRepository) GetByID(ctx context.Context, id int64) (*models.Venue, error) {
	venue := &models.Venue{}
	query := `SELECT ` + venueColumns + ` FROM locais WHERE id = $1`

	err := sqlx.GetContext(ctx, r.db, venue, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return venue, nil
}

func (r *VenueRepository) Update(ctx context.Context, venue *models.Venue) error {
	if venue.Photos == nil {
		venue.Photos = pq.StringArray{}
	}
	query := `
		UPDATE locais
		SET nome = $2, descricao = $3, cep = $4, cidade = $5, endereco = $6,
		    numero = $7, tipo_local = $8, preco_hora = $9, fotos = $10
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query,
		venue.ID,
		venue.Name,
		venue.Description,
		venue.ZipCode,
		venue.City,
		venue.Address,
		venue.Number,
		venue.Category,
		venue.HourlyPrice,
		venue.Photos,
	)
	return err
}

func (r *VenueRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM locais WHERE id = $1`, id)
	return err
}

func (r *VenueRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Venue, error) {
	venues := []models.Venue{}
	query := `SELECT ` + venueColumns + ` FROM locais WHERE dono_id = $1 ORDER BY created_at DESC, id DESC`

	if err := sqlx.SelectContext(ctx, r.db, &venues, query, ownerID); err != nil {
		return nil, err
	}
	return venues, nil
}

func (r *VenueRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM locais WHERE dono_id = $1`, ownerID)
	return count, err
}

// Search filters by a case-insensitive city substring and categories,
// newest venues first.
func (r *VenueRepository) Search(ctx context.Context, filter VenueFilter) ([]models.Venue, error) {
	venues := []models.Venue{}
	categories := pq.StringArray(append([]string{}, filter.Categories...))

	query := `SELECT ` + venueColumns + `
		FROM locais
		WHERE ($1::text = '' OR cidade ILIKE '%' || $1::text || '%' ESCAPE '\')
		  AND (COALESCE(cardinality($2::text[]), 0) = 0 OR tipo_local = ANY($2::text[]))`
	args := []any{escapeLike(filter.City), categories}

	if filter.IDs != nil {
		query += ` AND id = ANY($3::bigint[])`
		args = append(args, pq.Int64Array(filter.IDs))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	if err := sqlx.SelectContext(ctx, r.db, &venues, query, args...); err != nil {
		return nil, err
	}
	return venues, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует метасимволы LIKE, чтобы город искался буквально.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *VenueRepository) AppendPhoto(ctx context.Context, id int64, url string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE locais SET fotos = array_append(fotos, $2) WHERE id = $1`, id, url)
	return err
}
