package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inaiurai/commissionbot/internal/models"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Get(ctx context.Context, memberID int64) (*models.Profile, error) {
	var p models.Profile
	err := r.pool.QueryRow(ctx, `
		SELECT member_id, portfolio, timezone, storefront_link, description FROM profiles WHERE member_id = $1
	`, memberID).Scan(&p.MemberID, &p.Portfolio, &p.Timezone, &p.StorefrontLink, &p.Description)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// SetField upserts a single profile column.
func (r *ProfileRepo) SetField(ctx context.Context, memberID int64, field models.ProfileField, value string) error {
	if !field.Valid() {
		return fmt.Errorf("unknown profile field %q", field)
	}
	col := string(field)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (member_id, `+col+`) VALUES ($1, $2)
		ON CONFLICT (member_id) DO UPDATE SET `+col+` = EXCLUDED.`+col, memberID, value)
	return err
}
