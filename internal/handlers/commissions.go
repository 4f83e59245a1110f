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

// Modal input ids.
const (
	inputAmount   = "amount"
	inputMessage  = "message"
	inputQuestion = "question"
	inputAnswer   = "answer"
	inputEmail    = "email"
)

// commissionChannel reads the commission channel id a component carries.
func commissionChannel(p actions.Parsed) (int64, error) {
	id, err := p.Int64(0)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	return id, nil
}

// --- freelancer:quote:<channel> ---

func (h *Handler) quoteStart(_ context.Context, _ *Interaction, p actions.Parsed) (*Response, error) {
	channelID, err := commissionChannel(p)
	if err != nil {
		return nil, err
	}
	return modal(chat.Modal{
		CustomID: actions.QuoteForm.ID(channelID),
		Title:    "Send a Quote",
		Inputs: []chat.TextInput{
			{ID: inputAmount, Label: "Price (" + h.Config.Invoice.Currency + ")", Required: true, MaxLength: 12},
			{ID: inputMessage, Label: "Message to the client", Long: true, MaxLength: 1024},
		},
	}), nil
}

func (h *Handler) quoteForm(ctx context.Context, i *Interaction, p actions.Parsed) (*Response, error) {
	channelID, err := commissionChannel(p)
	if err != nil {
		return nil, err
	}
	res, err := h.Commissions.SubmitQuote(ctx, i.Actor, channelID, i.Field(inputAmount), i.Field(inputMessage))
	if err != nil {
		return nil, err
	}
	return reply(fmt.Sprintf("Your quote of %s (client pays %s) was sent.",
		money.Format(res.Breakdown.AmountCents), money.Format(res.Breakdown.TotalCents))), nil
}

// --- freelancer:question:<channel> ---

func (h *Handler) questionStart(_ context.Context, _ *Interaction, p actions.Parsed) (*Response, error) {
	channelID, err := commissionChannel(p)
	if err != nil {
		return nil, err
	}
	return modal(chat.Modal{
		CustomID: actions.QuestionForm.ID(channelID),
		Title:    "Ask the Client",
		Inputs:   []chat.TextInput{{ID: inputQuestion, Label: "Question", Long: true, Required: true, MaxLength: 1024}},
	}), nil
}

func (h *Handler) questionForm(ctx context.Context, i *Interaction, p actions.Parsed) (*Response, error) {
	channelID, err := commissionChannel(p)
	if err != nil {
		return nil, err
	}
	if _, err := h.Commissions.AskQuestion(ctx, i.Actor, channelID, i.Field(inputQuestion)); err != nil {
		return nil, err
	}
	return reply("Your question was sent to the client."), nil
}

// --- client:accept:<channel> / client:decline:<channel> on a quote message ---

func (h *Handler) quoteAccept(ctx context.Context, i *Interaction, p actions.Parsed) (*Response, error) {
	channelID, err := commissionChannel(p)
	if err != nil {
		return nil, err
	}
	res, err := h.Commissions.AcceptQuote(ctx, i.Actor, channelID, i.MessageID)
	if err != nil {
		return nil, err
	}
	return publicMessage(chat.Message{
		Content: fmt.Sprintf("<@%d> has been hired for %s. Welcome aboard!",
			res.Quote.FreelancerID, money.Format(res.Quote.AmountCents)),
	}), nil
}

func (h *Handler) quoteDecline(ctx context.Context, i *Interaction, p actions.Parsed) (*Response, error) {
	channelID, err := commissionChannel(p)
	if err != nil {
		return nil, err
	}
	state, err := h.Commissions.DeclineQuote(ctx, i.Actor, channelID, i.MessageID)
	if err != nil {
		return nil, err
	}
	if state == models.CommissionOpen {
		return reply("Quote declined. The commission is open for new quotes."), nil
	}
	return reply("Quote declined."), nil
}

// --- client:reply:<channel> on a question message ---

func (h *Handler) questionReply(_ context.Context, i *Interaction, p actions.Parsed) (*Response, error) {
	channelID, err := commissionChannel(p)
	if err != nil {
		return nil, err
	}
	return modal(chat.Modal{
		CustomID: actions.QuestionReplyForm.ID(channelID, i.MessageID),
		Title:    "Answer the Question",
		Inputs:   []chat.TextInput{{ID: inputAnswer, Label: "Answer", Long: true, Required: true, MaxLength: 1024}},
	}), nil
}

func (h *Handler) questionReplyForm(ctx context.Context, i *Interaction, p actions.Parsed) (*Response, error) {
	channelID, err := commissionChannel(p)
	if err != nil {
		return nil, err
	}
	messageID, err := p.Int64(1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	if _, err := h.Commissions.AnswerQuestion(ctx, i.Actor, channelID, messageID, i.Field(inputAnswer)); err != nil {
		return nil, err
	}
	return reply("Your answer was sent."), nil
}

// --- /invoice amount [email] ---

func (h *Handler) invoiceCommand(ctx context.Context, i *Interaction) (*Response, error) {
	res, err := h.Invoices.CreateInvoice(ctx, i.Actor, services.InvoiceRequest{
		ChannelID:  i.ChannelID,
		Amount:     i.Option("amount"),
		PayerEmail: i.Option("email"),
	})
	if err != nil {
		return nil, err
	}
	return reply(fmt.Sprintf("Invoice `%s` for %s created.", res.Invoice.InvoiceID, money.Format(res.Breakdown.TotalCents))), nil
}

// --- /calculate amount ---

func (h *Handler) calculateCommand(_ context.Context, i *Interaction) (*Response, error) {
	cents, err := money.ParsePositive(i.Option("amount"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	calc, err := money.Calculate(cents, h.Config.FeePercent())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	fee := h.Config.FeePercent().String() + "%"
	return replyMessage(chat.Message{Embeds: []chat.Embed{{
		Title: "Fee Calculator",
		Color: services.ParseColor(h.Config.General.EmbedColor),
		Fields: []chat.Field{
			{Name: "Fee", Value: fee, Inline: true},
			{Name: "To receive " + money.Format(calc.TargetCents), Value: "charge " + money.Format(calc.ChargeCents)},
			{Name: "If you charge " + money.Format(calc.TargetCents), Value: "you receive " + money.Format(calc.ReceivedCents)},
		},
	}}}), nil
}
