package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inaiurai/commissionbot/internal/models"
)

type InvoiceRepo struct {
	pool *pgxpool.Pool
}

func NewInvoiceRepo(pool *pgxpool.Pool) *InvoiceRepo {
	return &InvoiceRepo{pool: pool}
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO invoices (invoice_id, channel_id, message_id, amount_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, inv.InvoiceID, inv.ChannelID, inv.MessageID, inv.AmountCents).Scan(&inv.CreatedAt)
}

// ListPending returns every unpaid invoice, oldest first.
func (r *InvoiceRepo) ListPending(ctx context.Context) ([]*models.Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT invoice_id, channel_id, message_id, amount_cents, created_at
		FROM invoices ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.InvoiceID, &inv.ChannelID, &inv.MessageID, &inv.AmountCents, &inv.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// DeleteTx claims an invoice for settlement. A second claim sees ErrNotFound.
func (r *InvoiceRepo) DeleteTx(ctx context.Context, tx pgx.Tx, invoiceID string) (*models.Invoice, error) {
	var inv models.Invoice
	err := tx.QueryRow(ctx, `
		DELETE FROM invoices WHERE invoice_id = $1
		RETURNING invoice_id, channel_id, message_id, amount_cents, created_at
	`, invoiceID).Scan(&inv.InvoiceID, &inv.ChannelID, &inv.MessageID, &inv.AmountCents, &inv.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &inv, nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, invoiceID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1`, invoiceID)
	return err
}

func (r *InvoiceRepo) DeleteByChannelTx(ctx context.Context, tx pgx.Tx, channelID int64) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE channel_id = $1`, channelID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
