package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inaiurai/commissionbot/internal/models"
)

// CommissionRepo is the commission table as the services use it.
type CommissionRepo interface {
	CreateTx(ctx context.Context, tx pgx.Tx, c *models.Commission) error
	Get(ctx context.Context, channelID int64) (*models.Commission, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, channelID int64) (*models.Commission, error)
	AssignTx(ctx context.Context, tx pgx.Tx, channelID, freelancerID int64) error
	SetStateTx(ctx context.Context, tx pgx.Tx, channelID int64, state models.CommissionState) error
	AddAccruedTx(ctx context.Context, tx pgx.Tx, channelID, cents int64) (int64, error)
	DeleteTx(ctx context.Context, tx pgx.Tx, channelID int64) (*models.Commission, error)
}

type QuoteRepo interface {
	CreateTx(ctx context.Context, tx pgx.Tx, q *models.Quote) error
	GetTx(ctx context.Context, tx pgx.Tx, messageID int64) (*models.Quote, error)
	MarkAcceptedTx(ctx context.Context, tx pgx.Tx, messageID int64) error
	DeleteTx(ctx context.Context, tx pgx.Tx, messageID int64) error
	DeleteSiblingsTx(ctx context.Context, tx pgx.Tx, channelID, keep int64) ([]int64, error)
	CountPendingTx(ctx context.Context, tx pgx.Tx, channelID int64) (int, error)
	DeleteByChannelTx(ctx context.Context, tx pgx.Tx, channelID int64) (int64, error)
}

type QuestionRepo interface {
	CreateTx(ctx context.Context, tx pgx.Tx, q *models.Question) error
	GetForUpdate(ctx context.Context, tx pgx.Tx, messageID int64) (*models.Question, error)
	AnswerTx(ctx context.Context, tx pgx.Tx, messageID int64, answer string, at time.Time) error
	DeleteByChannelTx(ctx context.Context, tx pgx.Tx, channelID int64) (int64, error)
}

type InvoiceRepo interface {
	Create(ctx context.Context, inv *models.Invoice) error
	ListPending(ctx context.Context) ([]*models.Invoice, error)
	DeleteTx(ctx context.Context, tx pgx.Tx, invoiceID string) (*models.Invoice, error)
	Delete(ctx context.Context, invoiceID string) error
	DeleteByChannelTx(ctx context.Context, tx pgx.Tx, channelID int64) (int64, error)
}

type WalletRepo interface {
	Get(ctx context.Context, memberID int64) (*models.Wallet, error)
	UpsertPayPal(ctx context.Context, memberID int64, email string) error
}

type WithdrawalRepo interface {
	CreateTx(ctx context.Context, tx pgx.Tx, w *models.Withdrawal) error
	DeleteTx(ctx context.Context, tx pgx.Tx, messageID int64) (*models.Withdrawal, error)
}

type ProfileRepo interface {
	Get(ctx context.Context, memberID int64) (*models.Profile, error)
	SetField(ctx context.Context, memberID int64, field models.ProfileField, value string) error
}

type EmbedRepo interface {
	Create(ctx context.Context, e *models.StoredEmbed) error
	Get(ctx context.Context, id int64) (*models.StoredEmbed, error)
	List(ctx context.Context) ([]*models.StoredEmbed, error)
	Delete(ctx context.Context, id int64) error
}

// WalletLedger is the subset of ledger.Service that moves balances.
type WalletLedger interface {
	LockWallet(ctx context.Context, tx pgx.Tx, memberID int64) (*models.Wallet, error)
	Credit(ctx context.Context, tx pgx.Tx, memberID, amountCents int64, entryType, reference string) (int64, error)
	Debit(ctx context.Context, tx pgx.Tx, memberID, amountCents int64, entryType, reference string) (int64, error)
}
