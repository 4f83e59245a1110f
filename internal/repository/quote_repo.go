package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inaiurai/commissionbot/internal/models"
)

type QuoteRepo struct {
	pool *pgxpool.Pool
}

func NewQuoteRepo(pool *pgxpool.Pool) *QuoteRepo {
	return &QuoteRepo{pool: pool}
}

func (r *QuoteRepo) CreateTx(ctx context.Context, tx pgx.Tx, q *models.Quote) error {
	if q.Status == "" {
		q.Status = models.QuotePending
	}
	return tx.QueryRow(ctx, `
		INSERT INTO quotes (message_id, channel_id, freelancer_id, amount_cents, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, q.MessageID, q.ChannelID, q.FreelancerID, q.AmountCents, q.Status).Scan(&q.CreatedAt)
}

func (r *QuoteRepo) GetTx(ctx context.Context, tx pgx.Tx, messageID int64) (*models.Quote, error) {
	var q models.Quote
	err := tx.QueryRow(ctx, `
		SELECT message_id, channel_id, freelancer_id, amount_cents, status, created_at
		FROM quotes WHERE message_id = $1
	`, messageID).Scan(&q.MessageID, &q.ChannelID, &q.FreelancerID, &q.AmountCents, &q.Status, &q.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

func (r *QuoteRepo) MarkAcceptedTx(ctx context.Context, tx pgx.Tx, messageID int64) error {
	tag, err := tx.Exec(ctx, `
		UPDATE quotes SET status = 'accepted' WHERE message_id = $1 AND status = 'pending'
	`, messageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (r *QuoteRepo) DeleteTx(ctx context.Context, tx pgx.Tx, messageID int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM quotes WHERE message_id = $1`, messageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSiblingsTx deletes every quote on the channel except keep and returns
// the message ids of the deleted quotes.
func (r *QuoteRepo) DeleteSiblingsTx(ctx context.Context, tx pgx.Tx, channelID, keep int64) ([]int64, error) {
	rows, err := tx.Query(ctx, `
		DELETE FROM quotes WHERE channel_id = $1 AND message_id <> $2 RETURNING message_id
	`, channelID, keep)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (r *QuoteRepo) CountPendingTx(ctx context.Context, tx pgx.Tx, channelID int64) (int, error) {
	var n int
	err := tx.QueryRow(ctx, `
		SELECT count(*) FROM quotes WHERE channel_id = $1 AND status = 'pending'
	`, channelID).Scan(&n)
	return n, err
}

func (r *QuoteRepo) DeleteByChannelTx(ctx context.Context, tx pgx.Tx, channelID int64) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM quotes WHERE channel_id = $1`, channelID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
