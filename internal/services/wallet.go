package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/keylock"
	"github.com/inaiurai/commissionbot/internal/ledger"
	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/money"
	"github.com/inaiurai/commissionbot/internal/repository"
)

// WalletService manages payout emails, withdrawals and their admin review.
type WalletService struct {
	DB          TxBeginner
	Wallets     WalletRepo
	Withdrawals WithdrawalRepo
	Ledger      WalletLedger
	Chat        chat.Platform
	Notify      NotifyTxFunc
	Locks       *keylock.Locker
	Config      *config.Config
	Logger      *slog.Logger
	Validate    *validator.Validate
}

func (s *WalletService) log() *slog.Logger { return loggerOr(s.Logger) }

// View returns the member's wallet, or an empty one if none exists yet.
func (s *WalletService) View(ctx context.Context, memberID int64) (*models.Wallet, error) {
	w, err := s.Wallets.Get(ctx, memberID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.Wallet{MemberID: memberID}, nil
	}
	return w, err
}

// SetPayPal stores the member's payout email. Repeating it is harmless.
func (s *WalletService) SetPayPal(ctx context.Context, actor Actor, email string) error {
	if !actor.HasAny(s.Config.Permissions.FreelancerRoles) {
		return fmt.Errorf("%w: only freelancers have wallets", ErrPermissionDenied)
	}
	email = strings.TrimSpace(email)
	if err := s.Validate.Var(email, "required,email,max=254"); err != nil {
		return fmt.Errorf("%w: %q is not a valid email", ErrValidation, email)
	}
	return s.Wallets.UpsertPayPal(ctx, actor.UserID, email)
}

// RequestWithdrawal moves the whole balance into a pending withdrawal. The
// review message, the zeroed balance and the withdrawal row commit together.
func (s *WalletService) RequestWithdrawal(ctx context.Context, actor Actor) (*models.Withdrawal, error) {
	if !actor.HasAny(s.Config.Permissions.FreelancerRoles) {
		return nil, fmt.Errorf("%w: only freelancers have wallets", ErrPermissionDenied)
	}
	unlock := s.Locks.Lock(keylock.Member(actor.UserID))
	defer unlock()

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	w, err := s.Ledger.LockWallet(ctx, tx, actor.UserID)
	if errors.Is(err, ledger.ErrWalletNotFound) {
		return nil, ErrInsufficientFunds
	}
	if err != nil {
		return nil, err
	}
	if w.BalanceCents <= 0 {
		return nil, ErrInsufficientFunds
	}
	if w.PayPalEmail == nil || *w.PayPalEmail == "" {
		return nil, ErrNoPayoutEmail
	}

	review := newRenderer(s.Config).withdrawalReview(actor.UserID, w.BalanceCents, *w.PayPalEmail)
	channelID := s.Config.Tickets.WithdrawChannelID
	messageID, err := s.Chat.Send(ctx, channelID, review)
	if err != nil {
		return nil, fmt.Errorf("%w: post withdrawal review: %v", ErrExternal, err)
	}
	wd := &models.Withdrawal{
		MessageID:    messageID,
		FreelancerID: actor.UserID,
		AmountCents:  w.BalanceCents,
		PayPalEmail:  *w.PayPalEmail,
	}
	err = s.record(ctx, tx, wd)
	if err == nil {
		err = tx.Commit(ctx)
	}
	if err != nil {
		if derr := s.Chat.Delete(ctx, channelID, messageID); derr != nil {
			s.log().Warn("remove unrecorded withdrawal review", "message_id", messageID, "error", derr)
		}
		return nil, fmt.Errorf("record withdrawal: %w", err)
	}
	s.log().Info("withdrawal requested", "member_id", actor.UserID, "amount_cents", wd.AmountCents, "message_id", messageID)
	return wd, nil
}

func (s *WalletService) record(ctx context.Context, tx pgx.Tx, wd *models.Withdrawal) error {
	balance, err := s.Ledger.Debit(ctx, tx, wd.FreelancerID, wd.AmountCents,
		models.WalletEntryWithdrawal, fmt.Sprintf("withdrawal:%d", wd.MessageID))
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return ErrInsufficientFunds
		}
		return err
	}
	if balance != 0 {
		return fmt.Errorf("balance after withdrawal is %d, want 0", balance)
	}
	return s.Withdrawals.CreateTx(ctx, tx, wd)
}

// ResolveResult reports a resolved withdrawal.
type ResolveResult struct {
	Withdrawal *models.Withdrawal
	Outcome    models.WithdrawalOutcome
	Restored   bool
}

// ResolveWithdrawal accepts or denies a pending withdrawal. A withdrawal that
// was already resolved yields ErrWithdrawalNotFound.
func (s *WalletService) ResolveWithdrawal(ctx context.Context, actor Actor, messageID int64, outcome models.WithdrawalOutcome) (*ResolveResult, error) {
	if !actor.HasAny(s.Config.Permissions.WalletAdminRoles) {
		return nil, fmt.Errorf("%w: only wallet admins can resolve withdrawals", ErrPermissionDenied)
	}
	if !outcome.Valid() {
		return nil, fmt.Errorf("%w: unknown outcome %q", ErrValidation, outcome)
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	wd, err := s.Withdrawals.DeleteTx(ctx, tx, messageID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrWithdrawalNotFound
	}
	if err != nil {
		return nil, err
	}
	res := &ResolveResult{Withdrawal: wd, Outcome: outcome}

	body := fmt.Sprintf("Your withdrawal of %s to %s was accepted.", money.Format(wd.AmountCents), wd.PayPalEmail)
	if outcome == models.WithdrawalDeny {
		body = fmt.Sprintf("Your withdrawal of %s was denied.", money.Format(wd.AmountCents))
		if s.Config.Wallet.RestoreOnDeny {
			balance, err := s.Ledger.Credit(ctx, tx, wd.FreelancerID, wd.AmountCents,
				models.WalletEntryWithdrawalRefund, fmt.Sprintf("withdrawal:%d", wd.MessageID))
			if err != nil {
				return nil, fmt.Errorf("restore balance: %w", err)
			}
			res.Restored = true
			body += fmt.Sprintf(" The funds were returned to your wallet (balance %s).", money.Format(balance))
		}
	}
	if err := s.Notify(ctx, tx, Notification{UserID: wd.FreelancerID, Title: "Withdrawal " + string(outcome), Body: body}); err != nil {
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	msg := newRenderer(s.Config).resolvedWithdrawal(wd, outcome, actor.UserID)
	if err := s.Chat.Edit(ctx, s.Config.Tickets.WithdrawChannelID, messageID, msg); err != nil {
		s.log().Warn("update resolved withdrawal message", "message_id", messageID, "error", err)
	}
	s.log().Info("withdrawal resolved", "message_id", messageID, "outcome", outcome, "restored", res.Restored)
	return res, nil
}
