package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/inaiurai/commissionbot/internal/config"
)

// Error classes surfaced to users. Handlers classify with errors.Is.
var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAlreadyAssigned    = errors.New("commission already has a freelancer")
	ErrWithdrawalNotFound = errors.New("withdrawal already resolved or never existed")
	ErrAlreadyAnswered    = errors.New("question already answered")
	ErrProfileRequired    = errors.New("profile required")
	ErrNoPayoutEmail      = errors.New("no payout email on file")
	ErrExternal           = errors.New("external service failed")
)

// Actor is the member performing an operation.
type Actor struct {
	UserID  int64
	Name    string
	RoleIDs []int64
}

func (a Actor) HasAny(roles []int64) bool {
	return config.HasAnyRole(a.RoleIDs, roles)
}

// TxBeginner opens a transaction; *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Notification is a direct message delivered after the enclosing transaction commits.
type Notification struct {
	UserID int64
	Title  string
	Body   string
}

// NotifyTxFunc enqueues a notification inside tx so it is only sent if tx commits.
type NotifyTxFunc func(ctx context.Context, tx pgx.Tx, n Notification) error

func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
