package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/inaiurai/commissionbot/internal/models"
)

// Service is the only writer of wallet balances. Every mutation runs inside
// the caller's transaction and leaves a wallet_entries row behind.
type Service interface {
	LockWallet(ctx context.Context, tx pgx.Tx, memberID int64) (*models.Wallet, error)
	Credit(ctx context.Context, tx pgx.Tx, memberID, amountCents int64, entryType, reference string) (int64, error)
	Debit(ctx context.Context, tx pgx.Tx, memberID, amountCents int64, entryType, reference string) (int64, error)
	Balance(ctx context.Context, memberID int64) (int64, error)
	Entries(ctx context.Context, memberID int64, limit int) ([]*models.WalletEntry, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) Service {
	return &service{repo: repo}
}

var _ Service = (*service)(nil)

func (s *service) LockWallet(ctx context.Context, tx pgx.Tx, memberID int64) (*models.Wallet, error) {
	return s.repo.LockWallet(ctx, tx, memberID)
}

func (s *service) Credit(ctx context.Context, tx pgx.Tx, memberID, amountCents int64, entryType, reference string) (int64, error) {
	if amountCents < 0 {
		return 0, fmt.Errorf("credit of %d: amount must not be negative", amountCents)
	}
	return s.repo.Credit(ctx, tx, memberID, amountCents, entryType, reference)
}

func (s *service) Debit(ctx context.Context, tx pgx.Tx, memberID, amountCents int64, entryType, reference string) (int64, error) {
	if amountCents <= 0 {
		return 0, fmt.Errorf("debit of %d: amount must be positive", amountCents)
	}
	return s.repo.Debit(ctx, tx, memberID, amountCents, entryType, reference)
}

func (s *service) Balance(ctx context.Context, memberID int64) (int64, error) {
	return s.repo.Balance(ctx, memberID)
}

func (s *service) Entries(ctx context.Context, memberID int64, limit int) ([]*models.WalletEntry, error) {
	return s.repo.Entries(ctx, memberID, limit)
}

// ErrInsufficientFunds is returned when a debit exceeds the wallet balance.
var ErrInsufficientFunds = errInsufficientFunds

// ErrWalletNotFound is returned by LockWallet when the member has no wallet.
var ErrWalletNotFound = errWalletNotFound
