package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inaiurai/commissionbot/internal/models"
)

const embedColumns = `id, title, description, author, footer, author_image, thumbnail_image, large_image, footer_image, color`

type EmbedRepo struct {
	pool *pgxpool.Pool
}

func NewEmbedRepo(pool *pgxpool.Pool) *EmbedRepo {
	return &EmbedRepo{pool: pool}
}

func scanEmbed(row pgx.Row) (*models.StoredEmbed, error) {
	var e models.StoredEmbed
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Author, &e.Footer,
		&e.AuthorImage, &e.ThumbnailImage, &e.LargeImage, &e.FooterImage, &e.Color)
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *EmbedRepo) Create(ctx context.Context, e *models.StoredEmbed) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO embeds (title, description, author, footer, author_image, thumbnail_image, large_image, footer_image, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, e.Title, e.Description, e.Author, e.Footer, e.AuthorImage, e.ThumbnailImage, e.LargeImage, e.FooterImage, e.Color).Scan(&e.ID)
}

func (r *EmbedRepo) Get(ctx context.Context, id int64) (*models.StoredEmbed, error) {
	return scanEmbed(r.pool.QueryRow(ctx, `SELECT `+embedColumns+` FROM embeds WHERE id = $1`, id))
}

func (r *EmbedRepo) List(ctx context.Context) ([]*models.StoredEmbed, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+embedColumns+` FROM embeds ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.StoredEmbed
	for rows.Next() {
		e, err := scanEmbed(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *EmbedRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM embeds WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
