package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inaiurai/commissionbot/internal/models"
)

// WalletRepo covers wallet metadata. Balance mutations go through the ledger package.
type WalletRepo struct {
	pool *pgxpool.Pool
}

func NewWalletRepo(pool *pgxpool.Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

func (r *WalletRepo) Get(ctx context.Context, memberID int64) (*models.Wallet, error) {
	var w models.Wallet
	err := r.pool.QueryRow(ctx, `
		SELECT member_id, paypal_email, balance_cents, updated_at FROM wallets WHERE member_id = $1
	`, memberID).Scan(&w.MemberID, &w.PayPalEmail, &w.BalanceCents, &w.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

// UpsertPayPal creates the wallet when missing and sets its payout email.
func (r *WalletRepo) UpsertPayPal(ctx context.Context, memberID int64, email string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO wallets (member_id, paypal_email) VALUES ($1, $2)
		ON CONFLICT (member_id) DO UPDATE SET paypal_email = EXCLUDED.paypal_email, updated_at = now()
	`, memberID, email)
	return err
}

type WithdrawalRepo struct {
	pool *pgxpool.Pool
}

func NewWithdrawalRepo(pool *pgxpool.Pool) *WithdrawalRepo {
	return &WithdrawalRepo{pool: pool}
}

func (r *WithdrawalRepo) CreateTx(ctx context.Context, tx pgx.Tx, w *models.Withdrawal) error {
	return tx.QueryRow(ctx, `
		INSERT INTO withdrawals (message_id, freelancer_id, amount_cents, paypal_email)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, w.MessageID, w.FreelancerID, w.AmountCents, w.PayPalEmail).Scan(&w.CreatedAt)
}

// DeleteTx resolves a pending withdrawal. A missing row yields ErrNotFound.
func (r *WithdrawalRepo) DeleteTx(ctx context.Context, tx pgx.Tx, messageID int64) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := tx.QueryRow(ctx, `
		DELETE FROM withdrawals WHERE message_id = $1
		RETURNING message_id, freelancer_id, amount_cents, paypal_email, created_at
	`, messageID).Scan(&w.MessageID, &w.FreelancerID, &w.AmountCents, &w.PayPalEmail, &w.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

func (r *WithdrawalRepo) List(ctx context.Context) ([]*models.Withdrawal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT message_id, freelancer_id, amount_cents, paypal_email, created_at
		FROM withdrawals ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Withdrawal
	for rows.Next() {
		var w models.Withdrawal
		if err := rows.Scan(&w.MessageID, &w.FreelancerID, &w.AmountCents, &w.PayPalEmail, &w.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
