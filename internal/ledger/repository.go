package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inaiurai/commissionbot/internal/models"
)

var (
	errInsufficientFunds = errors.New("insufficient funds")
	errWalletNotFound    = errors.New("wallet not found")
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LockWallet reads the wallet row FOR UPDATE inside tx.
func (r *Repository) LockWallet(ctx context.Context, tx pgx.Tx, memberID int64) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.QueryRow(ctx, `
		SELECT member_id, paypal_email, balance_cents, updated_at
		FROM wallets WHERE member_id = $1 FOR UPDATE
	`, memberID).Scan(&w.MemberID, &w.PayPalEmail, &w.BalanceCents, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Credit runs inside the caller's transaction. It creates the wallet when
// missing, adds amountCents and records a wallet_entries row.
func (r *Repository) Credit(ctx context.Context, tx pgx.Tx, memberID, amountCents int64, entryType, reference string) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx, `
		INSERT INTO wallets (member_id, balance_cents) VALUES ($1, $2)
		ON CONFLICT (member_id) DO UPDATE
		SET balance_cents = wallets.balance_cents + EXCLUDED.balance_cents, updated_at = now()
		RETURNING balance_cents
	`, memberID, amountCents).Scan(&balance)
	if err != nil {
		return 0, err
	}
	if err := r.insertEntry(ctx, tx, memberID, entryType, amountCents, balance, reference); err != nil {
		return 0, err
	}
	return balance, nil
}

// Debit runs inside the caller's transaction. The conditional UPDATE keeps the
// balance from going negative; a short balance yields errInsufficientFunds.
func (r *Repository) Debit(ctx context.Context, tx pgx.Tx, memberID, amountCents int64, entryType, reference string) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx, `
		UPDATE wallets SET balance_cents = balance_cents - $2, updated_at = now()
		WHERE member_id = $1 AND balance_cents >= $2
		RETURNING balance_cents
	`, memberID, amountCents).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, errInsufficientFunds
	}
	if err != nil {
		return 0, err
	}
	if err := r.insertEntry(ctx, tx, memberID, entryType, -amountCents, balance, reference); err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *Repository) insertEntry(ctx context.Context, tx pgx.Tx, memberID int64, entryType string, amountCents, balanceAfter int64, reference string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO wallet_entries (id, member_id, entry_type, amount_cents, balance_after_cents, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), memberID, entryType, amountCents, balanceAfter, reference)
	return err
}

func (r *Repository) Balance(ctx context.Context, memberID int64) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx, `SELECT balance_cents FROM wallets WHERE member_id = $1`, memberID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return balance, err
}

func (r *Repository) Entries(ctx context.Context, memberID int64, limit int) ([]*models.WalletEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, member_id, entry_type, amount_cents, balance_after_cents, reference, created_at
		FROM wallet_entries WHERE member_id = $1 ORDER BY created_at DESC LIMIT $2
	`, memberID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.WalletEntry
	for rows.Next() {
		var e models.WalletEntry
		if err := rows.Scan(&e.ID, &e.MemberID, &e.EntryType, &e.AmountCents, &e.BalanceAfterCents, &e.Reference, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
