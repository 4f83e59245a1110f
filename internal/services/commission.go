package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/keylock"
	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/money"
	"github.com/inaiurai/commissionbot/internal/repository"
)

// CommissionService drives a commission from open through assignment to close.
// Every mutation holds the channel's key lock and runs in one transaction.
type CommissionService struct {
	DB          TxBeginner
	Commissions CommissionRepo
	Quotes      QuoteRepo
	Questions   QuestionRepo
	Invoices    InvoiceRepo
	Profiles    ProfileRepo
	Ledger      WalletLedger
	Chat        chat.Platform
	Notify      NotifyTxFunc
	Locks       *keylock.Locker
	Config      *config.Config
	Logger      *slog.Logger
}

func (s *CommissionService) log() *slog.Logger { return loggerOr(s.Logger) }

func (s *CommissionService) render() renderer { return newRenderer(s.Config) }

// Open records a new commission in state open.
func (s *CommissionService) Open(ctx context.Context, c *models.Commission) error {
	unlock := s.Locks.Lock(keylock.Channel(c.ChannelID))
	defer unlock()

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	c.State = models.CommissionOpen
	if err := s.Commissions.CreateTx(ctx, tx, c); err != nil {
		return fmt.Errorf("create commission: %w", err)
	}
	return tx.Commit(ctx)
}

// AcceptResult reports what an acceptance changed.
type AcceptResult struct {
	Quote           *models.Quote
	RemovedSiblings []int64
}

// AcceptQuote assigns the quote's freelancer to the commission. Only the
// commission creator may accept and only while no freelancer is set.
func (s *CommissionService) AcceptQuote(ctx context.Context, actor Actor, channelID, quoteMessageID int64) (*AcceptResult, error) {
	unlock := s.Locks.Lock(keylock.Channel(channelID))
	defer unlock()

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	c, err := s.Commissions.GetForUpdate(ctx, tx, channelID)
	if err != nil {
		return nil, mapRepoErr(err, "commission")
	}
	if c.CreatorID != actor.UserID {
		return nil, fmt.Errorf("%w: only the commission creator can accept quotes", ErrPermissionDenied)
	}
	if c.Assigned() {
		return nil, ErrAlreadyAssigned
	}
	q, err := s.Quotes.GetTx(ctx, tx, quoteMessageID)
	if err != nil {
		return nil, mapRepoErr(err, "quote")
	}
	if q.ChannelID != channelID {
		return nil, fmt.Errorf("%w: quote", ErrNotFound)
	}

	if err := s.Commissions.AssignTx(ctx, tx, channelID, q.FreelancerID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyAssigned
		}
		return nil, fmt.Errorf("assign freelancer: %w", err)
	}
	if err := s.Quotes.MarkAcceptedTx(ctx, tx, quoteMessageID); err != nil {
		return nil, fmt.Errorf("mark quote accepted: %w", err)
	}
	siblings, err := s.Quotes.DeleteSiblingsTx(ctx, tx, channelID, quoteMessageID)
	if err != nil {
		return nil, fmt.Errorf("delete sibling quotes: %w", err)
	}
	if err := s.Chat.GrantAccess(ctx, channelID, q.FreelancerID); err != nil {
		return nil, fmt.Errorf("%w: grant channel access: %v", ErrExternal, err)
	}
	if err := s.Notify(ctx, tx, Notification{
		UserID: q.FreelancerID,
		Title:  "Quote accepted",
		Body:   fmt.Sprintf("Your quote of %s in <#%d> was accepted.", money.Format(q.AmountCents), channelID),
	}); err != nil {
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	for _, id := range siblings {
		if err := s.Chat.Delete(ctx, channelID, id); err != nil {
			s.log().Debug("delete sibling quote message", "channel_id", channelID, "message_id", id, "error", err)
		}
	}
	q.Status = models.QuoteAccepted
	if err := s.Chat.Edit(ctx, channelID, quoteMessageID, s.render().acceptedQuote(q)); err != nil {
		s.log().Warn("update accepted quote message", "channel_id", channelID, "error", err)
	}
	return &AcceptResult{Quote: q, RemovedSiblings: siblings}, nil
}

// DeclineQuote removes one pending quote and re-derives open/quoted.
func (s *CommissionService) DeclineQuote(ctx context.Context, actor Actor, channelID, quoteMessageID int64) (models.CommissionState, error) {
	unlock := s.Locks.Lock(keylock.Channel(channelID))
	defer unlock()

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	c, err := s.Commissions.GetForUpdate(ctx, tx, channelID)
	if err != nil {
		return "", mapRepoErr(err, "commission")
	}
	if c.CreatorID != actor.UserID {
		return "", fmt.Errorf("%w: only the commission creator can decline quotes", ErrPermissionDenied)
	}
	if c.Assigned() {
		return "", ErrAlreadyAssigned
	}
	q, err := s.Quotes.GetTx(ctx, tx, quoteMessageID)
	if err != nil {
		return "", mapRepoErr(err, "quote")
	}
	if q.ChannelID != channelID {
		return "", fmt.Errorf("%w: quote", ErrNotFound)
	}
	if err := s.Quotes.DeleteTx(ctx, tx, quoteMessageID); err != nil {
		return "", mapRepoErr(err, "quote")
	}
	pending, err := s.Quotes.CountPendingTx(ctx, tx, channelID)
	if err != nil {
		return "", err
	}
	state := models.CommissionQuoted
	if pending == 0 {
		state = models.CommissionOpen
	}
	if err := s.Commissions.SetStateTx(ctx, tx, channelID, state); err != nil {
		return "", fmt.Errorf("set state: %w", err)
	}
	if err := s.Notify(ctx, tx, Notification{
		UserID: q.FreelancerID,
		Title:  "Quote declined",
		Body:   fmt.Sprintf("Your quote of %s in <#%d> was declined.", money.Format(q.AmountCents), channelID),
	}); err != nil {
		return "", fmt.Errorf("enqueue notification: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	if err := s.Chat.Delete(ctx, channelID, quoteMessageID); err != nil {
		s.log().Debug("delete declined quote message", "channel_id", channelID, "error", err)
	}
	return state, nil
}

// CloseResult reports the effects of closing a ticket.
type CloseResult struct {
	Commission    *models.Commission
	CreditedCents int64
	BalanceCents  int64
}

// CloseTicket deletes the commission and everything referencing its channel,
// paying out accrued funds to the assigned freelancer. Closing twice credits once.
func (s *CommissionService) CloseTicket(ctx context.Context, actor Actor, channelID int64) (*CloseResult, error) {
	unlock := s.Locks.Lock(keylock.Channel(channelID))
	defer unlock()

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	staff := actor.HasAny(s.Config.Permissions.TicketRoles)
	c, err := s.Commissions.GetForUpdate(ctx, tx, channelID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if !staff {
			return nil, fmt.Errorf("%w: only ticket staff can close this ticket", ErrPermissionDenied)
		}
		c = nil
	case err != nil:
		return nil, err
	case c.CreatorID != actor.UserID && !staff:
		return nil, fmt.Errorf("%w: only the creator or ticket staff can close this ticket", ErrPermissionDenied)
	}

	res := &CloseResult{Commission: c}
	if c != nil {
		if _, err := s.Commissions.DeleteTx(ctx, tx, channelID); err != nil {
			return nil, mapRepoErr(err, "commission")
		}
	}
	if _, err := s.Quotes.DeleteByChannelTx(ctx, tx, channelID); err != nil {
		return nil, fmt.Errorf("delete quotes: %w", err)
	}
	if _, err := s.Questions.DeleteByChannelTx(ctx, tx, channelID); err != nil {
		return nil, fmt.Errorf("delete questions: %w", err)
	}
	if _, err := s.Invoices.DeleteByChannelTx(ctx, tx, channelID); err != nil {
		return nil, fmt.Errorf("delete invoices: %w", err)
	}

	if c != nil && c.FreelancerID != nil && c.AccruedCents > 0 {
		freelancer := *c.FreelancerID
		balance, err := s.Ledger.Credit(ctx, tx, freelancer, c.AccruedCents,
			models.WalletEntryCommissionPayout, fmt.Sprintf("commission:%d", channelID))
		if err != nil {
			return nil, fmt.Errorf("credit wallet: %w", err)
		}
		res.CreditedCents = c.AccruedCents
		res.BalanceCents = balance
		if err := s.Notify(ctx, tx, Notification{
			UserID: freelancer,
			Title:  "Commission closed",
			Body: fmt.Sprintf("%s was added to your wallet. Your balance is now %s.",
				money.Format(c.AccruedCents), money.Format(balance)),
		}); err != nil {
			return nil, fmt.Errorf("enqueue notification: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if c != nil {
		if err := s.Chat.Delete(ctx, c.FreelancerChannelID, c.FreelancerMessageID); err != nil {
			s.log().Debug("delete commission board message", "channel_id", channelID, "error", err)
		}
	}
	s.log().Info("ticket closed", "channel_id", channelID, "actor_id", actor.UserID, "credited_cents", res.CreditedCents)
	return res, nil
}

func mapRepoErr(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}
