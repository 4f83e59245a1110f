package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inaiurai/commissionbot/internal/models"
)

const commissionColumns = `channel_id, freelancer_channel_id, freelancer_message_id, creator_id,
	freelancer_id, department, accrued_cents, state, created_at`

type CommissionRepo struct {
	pool *pgxpool.Pool
}

func NewCommissionRepo(pool *pgxpool.Pool) *CommissionRepo {
	return &CommissionRepo{pool: pool}
}

func scanCommission(row pgx.Row) (*models.Commission, error) {
	var c models.Commission
	err := row.Scan(&c.ChannelID, &c.FreelancerChannelID, &c.FreelancerMessageID, &c.CreatorID,
		&c.FreelancerID, &c.Department, &c.AccruedCents, &c.State, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *CommissionRepo) CreateTx(ctx context.Context, tx pgx.Tx, c *models.Commission) error {
	if c.State == "" {
		c.State = models.CommissionOpen
	}
	return tx.QueryRow(ctx, `
		INSERT INTO commissions (channel_id, freelancer_channel_id, freelancer_message_id, creator_id, department, state)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, c.ChannelID, c.FreelancerChannelID, c.FreelancerMessageID, c.CreatorID, c.Department, c.State).Scan(&c.CreatedAt)
}

func (r *CommissionRepo) Get(ctx context.Context, channelID int64) (*models.Commission, error) {
	return scanCommission(r.pool.QueryRow(ctx,
		`SELECT `+commissionColumns+` FROM commissions WHERE channel_id = $1`, channelID))
}

// GetForUpdate locks the commission row for the rest of tx.
func (r *CommissionRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, channelID int64) (*models.Commission, error) {
	return scanCommission(tx.QueryRow(ctx,
		`SELECT `+commissionColumns+` FROM commissions WHERE channel_id = $1 FOR UPDATE`, channelID))
}

// AssignTx sets freelancer_id once. A row that already has a freelancer yields ErrConflict.
func (r *CommissionRepo) AssignTx(ctx context.Context, tx pgx.Tx, channelID, freelancerID int64) error {
	tag, err := tx.Exec(ctx, `
		UPDATE commissions SET freelancer_id = $2, state = 'assigned'
		WHERE channel_id = $1 AND freelancer_id IS NULL
	`, channelID, freelancerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// SetStateTx moves an unassigned commission between open and quoted.
func (r *CommissionRepo) SetStateTx(ctx context.Context, tx pgx.Tx, channelID int64, state models.CommissionState) error {
	tag, err := tx.Exec(ctx, `
		UPDATE commissions SET state = $2 WHERE channel_id = $1 AND freelancer_id IS NULL
	`, channelID, state)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// AddAccruedTx increments accrued_cents and returns the new total.
func (r *CommissionRepo) AddAccruedTx(ctx context.Context, tx pgx.Tx, channelID, cents int64) (int64, error) {
	var total int64
	err := tx.QueryRow(ctx, `
		UPDATE commissions SET accrued_cents = accrued_cents + $2
		WHERE channel_id = $1
		RETURNING accrued_cents
	`, channelID, cents).Scan(&total)
	if err != nil {
		return 0, notFound(err)
	}
	return total, nil
}

// DeleteTx removes the commission and returns the row as it was.
func (r *CommissionRepo) DeleteTx(ctx context.Context, tx pgx.Tx, channelID int64) (*models.Commission, error) {
	return scanCommission(tx.QueryRow(ctx,
		`DELETE FROM commissions WHERE channel_id = $1 RETURNING `+commissionColumns, channelID))
}

func (r *CommissionRepo) List(ctx context.Context) ([]*models.Commission, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+commissionColumns+` FROM commissions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
