package handlers

import (
	"context"
	"fmt"

	"github.com/inaiurai/commissionbot/internal/actions"
	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/money"
	"github.com/inaiurai/commissionbot/internal/services"
)

// --- /wallet ---

func (h *Handler) walletCommand(ctx context.Context, i *Interaction) (*Response, error) {
	if !i.Actor.HasAny(h.Config.Permissions.FreelancerRoles) {
		return nil, fmt.Errorf("%w: only freelancers have wallets", services.ErrPermissionDenied)
	}
	w, err := h.Wallets.View(ctx, i.Actor.UserID)
	if err != nil {
		return nil, err
	}
	email := "not set"
	if w.PayPalEmail != nil && *w.PayPalEmail != "" {
		email = *w.PayPalEmail
	}
	return replyMessage(chat.Message{
		Embeds: []chat.Embed{{
			Title: "Your Wallet",
			Color: services.ParseColor(h.Config.General.EmbedColor),
			Fields: []chat.Field{
				{Name: "Balance", Value: money.Format(w.BalanceCents) + " " + h.Config.Invoice.Currency, Inline: true},
				{Name: "PayPal", Value: email, Inline: true},
			},
		}},
		Buttons: []chat.Button{
			{Label: "Set PayPal", Style: chat.ButtonSecondary, CustomID: actions.WalletPayPal.ID()},
			{Label: "Withdraw", Style: chat.ButtonSuccess, CustomID: actions.WalletWithdraw.ID(), Disabled: w.BalanceCents <= 0},
		},
	}), nil
}

func (h *Handler) walletPayPal(_ context.Context, _ *Interaction, _ actions.Parsed) (*Response, error) {
	return modal(chat.Modal{
		CustomID: actions.WalletPayPalForm.ID(),
		Title:    "PayPal Email",
		Inputs:   []chat.TextInput{{ID: inputEmail, Label: "PayPal email", Required: true, MaxLength: 254}},
	}), nil
}

func (h *Handler) walletPayPalForm(ctx context.Context, i *Interaction, _ actions.Parsed) (*Response, error) {
	email := i.Field(inputEmail)
	if err := h.Wallets.SetPayPal(ctx, i.Actor, email); err != nil {
		return nil, err
	}
	return reply(fmt.Sprintf("Payouts will be sent to %s.", email)), nil
}

func (h *Handler) walletWithdraw(ctx context.Context, i *Interaction, _ actions.Parsed) (*Response, error) {
	wd, err := h.Wallets.RequestWithdrawal(ctx, i.Actor)
	if err != nil {
		return nil, err
	}
	return reply(fmt.Sprintf("Withdrawal of %s to %s requested. You will get a message once it is reviewed.",
		money.Format(wd.AmountCents), wd.PayPalEmail)), nil
}

// --- admin_wallet:accept / admin_wallet:deny on a review message ---

func (h *Handler) withdrawalResolve(outcome models.WithdrawalOutcome) actionFunc {
	return func(ctx context.Context, i *Interaction, _ actions.Parsed) (*Response, error) {
		res, err := h.Wallets.ResolveWithdrawal(ctx, i.Actor, i.MessageID, outcome)
		if err != nil {
			return nil, err
		}
		verb := "accepted"
		if outcome == models.WithdrawalDeny {
			verb = "denied"
		}
		msg := fmt.Sprintf("Withdrawal of %s for <@%d> %s.",
			money.Format(res.Withdrawal.AmountCents), res.Withdrawal.FreelancerID, verb)
		if res.Restored {
			msg += " The funds were returned to their wallet."
		}
		return reply(msg), nil
	}
}
