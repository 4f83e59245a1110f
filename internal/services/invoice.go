package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/keylock"
	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/money"
	"github.com/inaiurai/commissionbot/internal/paypal"
	"github.com/inaiurai/commissionbot/internal/repository"
)

// PaymentProcessor issues invoices and reports their status.
type PaymentProcessor interface {
	CreateInvoice(ctx context.Context, in paypal.InvoiceRequest) (*paypal.Invoice, error)
	InvoiceStatus(ctx context.Context, id string) (string, error)
}

// InvoiceService issues invoices into ticket channels and reconciles them
// against the payment processor.
type InvoiceService struct {
	DB          TxBeginner
	Invoices    InvoiceRepo
	Commissions CommissionRepo
	Processor   PaymentProcessor
	Chat        chat.Platform
	Locks       *keylock.Locker
	Config      *config.Config
	Logger      *slog.Logger
	Validate    *validator.Validate
}

func (s *InvoiceService) log() *slog.Logger { return loggerOr(s.Logger) }

type InvoiceRequest struct {
	ChannelID  int64
	Amount     string
	PayerEmail string `validate:"omitempty,email"`
}

type InvoiceResult struct {
	Invoice   *models.Invoice
	Breakdown money.Breakdown
	PayURL    string
}

// CreateInvoice bills amount plus the configured fee and tracks the invoice
// until it is paid.
func (s *InvoiceService) CreateInvoice(ctx context.Context, actor Actor, req InvoiceRequest) (*InvoiceResult, error) {
	if !actor.HasAny(s.Config.Permissions.InvoiceRoles) {
		return nil, fmt.Errorf("%w: you cannot issue invoices", ErrPermissionDenied)
	}
	if err := s.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: payer email is not valid", ErrValidation)
	}
	cents, err := money.ParsePositive(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	dept := "Custom"
	c, err := s.Commissions.Get(ctx, req.ChannelID)
	switch {
	case err == nil && c.Department != "":
		dept = c.Department
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	b := money.WithFee(cents, s.Config.FeePercent())
	items := []paypal.LineItem{{Name: dept + " Package", Value: money.Format(b.AmountCents)}}
	if b.FeeCents > 0 {
		items = append(items, paypal.LineItem{Name: "Fee", Value: money.Format(b.FeeCents)})
	}
	created, err := s.Processor.CreateInvoice(ctx, paypal.InvoiceRequest{
		Currency: s.Config.Invoice.Currency,
		Merchant: paypal.Merchant{
			BusinessName: s.Config.Invoice.MerchantName,
			Website:      s.Config.Invoice.Website,
			LogoURL:      s.Config.Invoice.LogoURL,
		},
		Items:      items,
		PayerEmail: req.PayerEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create invoice: %v", ErrExternal, err)
	}

	msg := newRenderer(s.Config).invoice(dept, b, s.Config.Invoice.Currency, created.PayURL)
	messageID, err := s.Chat.Send(ctx, req.ChannelID, msg)
	if err != nil {
		s.log().Warn("invoice created but not posted", "invoice_id", created.ID, "error", err)
		return nil, fmt.Errorf("%w: post invoice: %v", ErrExternal, err)
	}
	inv := &models.Invoice{
		InvoiceID:   created.ID,
		ChannelID:   req.ChannelID,
		MessageID:   messageID,
		AmountCents: cents,
	}
	if err := s.Invoices.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("record invoice %s: %w", created.ID, err)
	}
	s.log().Info("invoice created", "invoice_id", inv.InvoiceID, "channel_id", inv.ChannelID, "amount_cents", cents)
	return &InvoiceResult{Invoice: inv, Breakdown: b, PayURL: created.PayURL}, nil
}

// PollStats summarizes one reconciliation cycle.
type PollStats struct {
	Checked  int
	Paid     int
	Orphaned int
	Skipped  int
}

// PollOnce checks every pending invoice once. Callers must not run cycles concurrently.
func (s *InvoiceService) PollOnce(ctx context.Context) (PollStats, error) {
	var stats PollStats
	pending, err := s.Invoices.ListPending(ctx)
	if err != nil {
		return stats, fmt.Errorf("list pending invoices: %w", err)
	}
	for _, inv := range pending {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Checked++

		exists, err := s.Chat.MessageExists(ctx, inv.ChannelID, inv.MessageID)
		if err != nil {
			s.log().Warn("invoice message lookup failed", "invoice_id", inv.InvoiceID, "error", err)
			stats.Skipped++
			continue
		}
		if !exists {
			if err := s.Invoices.Delete(ctx, inv.InvoiceID); err != nil {
				s.log().Error("delete orphaned invoice", "invoice_id", inv.InvoiceID, "error", err)
				continue
			}
			s.log().Info("orphaned invoice removed", "invoice_id", inv.InvoiceID, "channel_id", inv.ChannelID)
			stats.Orphaned++
			continue
		}

		status, err := s.Processor.InvoiceStatus(ctx, inv.InvoiceID)
		if err != nil {
			s.log().Warn("invoice status lookup failed", "invoice_id", inv.InvoiceID, "error", err)
			stats.Skipped++
			continue
		}
		if !models.IsPaidStatus(status) {
			continue
		}
		settled, err := s.settle(ctx, inv)
		if err != nil {
			s.log().Error("settle invoice", "invoice_id", inv.InvoiceID, "error", err)
			continue
		}
		if settled {
			stats.Paid++
		}
	}
	return stats, nil
}

// settle claims the invoice row and credits the commission in one
// transaction. It reports false when another cycle already settled it.
func (s *InvoiceService) settle(ctx context.Context, inv *models.Invoice) (bool, error) {
	unlock := s.Locks.Lock(keylock.Channel(inv.ChannelID))
	defer unlock()

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	claimed, err := s.Invoices.DeleteTx(ctx, tx, inv.InvoiceID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("claim invoice: %w", err)
	}
	total, err := s.Commissions.AddAccruedTx(ctx, tx, claimed.ChannelID, claimed.AmountCents)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.log().Info("paid invoice has no commission", "invoice_id", claimed.InvoiceID, "channel_id", claimed.ChannelID)
	case err != nil:
		return false, fmt.Errorf("credit commission: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	s.log().Info("invoice paid", "invoice_id", claimed.InvoiceID, "channel_id", claimed.ChannelID,
		"amount_cents", claimed.AmountCents, "accrued_cents", total)

	r := newRenderer(s.Config)
	if err := s.Chat.Edit(ctx, claimed.ChannelID, claimed.MessageID, r.paidInvoice(claimed)); err != nil {
		s.log().Warn("update paid invoice message", "invoice_id", claimed.InvoiceID, "error", err)
	}
	if _, err := s.Chat.Send(ctx, claimed.ChannelID, r.paymentNotice(claimed)); err != nil {
		s.log().Warn("post payment notice", "invoice_id", claimed.InvoiceID, "error", err)
	}
	return true, nil
}
