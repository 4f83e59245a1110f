package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/inaiurai/commissionbot/internal/actions"
	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/money"
)

const (
	colorSuccess = 0x57F287
	colorDanger  = 0xED4245
)

type renderer struct {
	color int
}

func newRenderer(cfg *config.Config) renderer {
	return renderer{color: ParseColor(cfg.General.EmbedColor)}
}

// ParseColor converts "#RRGGBB" to an int; malformed input yields 0.
func ParseColor(hex string) int {
	v, err := strconv.ParseInt(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return 0
	}
	return int(v)
}

func mention(userID int64) string {
	return fmt.Sprintf("<@%d>", userID)
}

func (r renderer) quote(channelID, freelancerID int64, b money.Breakdown, note string, currency string) chat.Message {
	fields := []chat.Field{
		{Name: "Freelancer", Value: mention(freelancerID), Inline: true},
		{Name: "Price", Value: money.Format(b.AmountCents) + " " + currency, Inline: true},
		{Name: "Fee", Value: money.Format(b.FeeCents) + " " + currency, Inline: true},
		{Name: "Total", Value: money.Format(b.TotalCents) + " " + currency, Inline: true},
	}
	if note != "" {
		fields = append(fields, chat.Field{Name: "Message", Value: note})
	}
	return chat.Message{
		Embeds: []chat.Embed{{Title: "New Quote", Color: r.color, Fields: fields, Timestamp: time.Now()}},
		Buttons: []chat.Button{
			{Label: "Accept", Style: chat.ButtonSuccess, CustomID: actions.QuoteAccept.ID(channelID)},
			{Label: "Decline", Style: chat.ButtonDanger, CustomID: actions.QuoteDecline.ID(channelID)},
		},
	}
}

func (r renderer) acceptedQuote(q *models.Quote) chat.Message {
	return chat.Message{
		Embeds: []chat.Embed{{
			Title:       "Quote Accepted",
			Description: fmt.Sprintf("%s was hired for %s.", mention(q.FreelancerID), money.Format(q.AmountCents)),
			Color:       colorSuccess,
		}},
	}
}

func (r renderer) question(channelID, freelancerID int64, text string) chat.Message {
	return chat.Message{
		Embeds: []chat.Embed{{
			Title:       "New Question",
			Description: text,
			Color:       r.color,
			Fields:      []chat.Field{{Name: "From", Value: mention(freelancerID)}},
		}},
		Buttons: []chat.Button{
			{Label: "Reply", Style: chat.ButtonPrimary, CustomID: actions.QuestionReply.ID(channelID)},
		},
	}
}

func (r renderer) answeredQuestion(q *models.Question, answer string) chat.Message {
	return chat.Message{
		Embeds: []chat.Embed{{
			Title:       "Question Answered",
			Description: q.Question,
			Color:       colorSuccess,
			Fields: []chat.Field{
				{Name: "From", Value: mention(q.FreelancerID)},
				{Name: "Answer", Value: answer},
			},
		}},
	}
}

// Stars renders a 1-5 rating.
func Stars(rating int) string {
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func (r renderer) vouch(freelancerID, clientID int64, rating int, comment string) chat.Message {
	return chat.Message{
		Embeds: []chat.Embed{{
			Title: "New Review!",
			Color: r.color,
			Fields: []chat.Field{
				{Name: "Freelancer", Value: mention(freelancerID), Inline: true},
				{Name: "Client", Value: mention(clientID), Inline: true},
				{Name: "Rating", Value: Stars(rating), Inline: true},
				{Name: "Comment", Value: comment},
			},
			Timestamp: time.Now(),
		}},
	}
}

func (r renderer) invoice(dept string, b money.Breakdown, currency, payURL string) chat.Message {
	return chat.Message{
		Embeds: []chat.Embed{{
			Title: "Invoice",
			Color: r.color,
			Fields: []chat.Field{
				{Name: "Service", Value: dept + " Package", Inline: true},
				{Name: "Total", Value: money.Format(b.TotalCents) + " " + currency, Inline: true},
				{Name: "Status", Value: "Unpaid", Inline: true},
			},
		}},
		Buttons: []chat.Button{{Label: "Pay", Style: chat.ButtonLink, URL: payURL}},
	}
}

func (r renderer) paidInvoice(inv *models.Invoice) chat.Message {
	return chat.Message{
		Embeds: []chat.Embed{{
			Title:       "Invoice Paid",
			Description: fmt.Sprintf("Invoice `%s` for %s has been paid.", inv.InvoiceID, money.Format(inv.AmountCents)),
			Color:       colorSuccess,
		}},
	}
}

func (r renderer) paymentNotice(inv *models.Invoice) chat.Message {
	return chat.Message{Content: fmt.Sprintf("Payment of %s received. Work can begin.", money.Format(inv.AmountCents))}
}

func (r renderer) withdrawalReview(memberID int64, amountCents int64, email string) chat.Message {
	return chat.Message{
		Embeds: []chat.Embed{{
			Title: "Withdrawal Request",
			Color: r.color,
			Fields: []chat.Field{
				{Name: "Freelancer", Value: mention(memberID), Inline: true},
				{Name: "Amount", Value: money.Format(amountCents), Inline: true},
				{Name: "PayPal", Value: email, Inline: true},
			},
		}},
		Buttons: []chat.Button{
			{Label: "Accept", Style: chat.ButtonSuccess, CustomID: actions.WithdrawalAccept.ID()},
			{Label: "Deny", Style: chat.ButtonDanger, CustomID: actions.WithdrawalDeny.ID()},
		},
	}
}

func (r renderer) resolvedWithdrawal(w *models.Withdrawal, outcome models.WithdrawalOutcome, adminID int64) chat.Message {
	title, color := "Withdrawal Accepted", colorSuccess
	if outcome == models.WithdrawalDeny {
		title, color = "Withdrawal Denied", colorDanger
	}
	msg := chat.Message{
		Embeds: []chat.Embed{{
			Title: title,
			Color: color,
			Fields: []chat.Field{
				{Name: "Freelancer", Value: mention(w.FreelancerID), Inline: true},
				{Name: "Amount", Value: money.Format(w.AmountCents), Inline: true},
				{Name: "Resolved by", Value: mention(adminID), Inline: true},
			},
		}},
	}
	msg.Buttons = chat.DisableButtons(r.withdrawalReview(w.FreelancerID, w.AmountCents, w.PayPalEmail).Buttons)
	return msg
}

func (r renderer) ticketOpened(actor Actor, category string, answers []Answer) chat.Message {
	fields := make([]chat.Field, 0, len(answers))
	for _, a := range answers {
		if a.Value == "" {
			continue
		}
		fields = append(fields, chat.Field{Name: a.Label, Value: a.Value})
	}
	return chat.Message{
		Content: mention(actor.UserID),
		Embeds: []chat.Embed{{
			Title:  strings.ToUpper(category[:1]) + category[1:] + " Ticket",
			Color:  r.color,
			Fields: fields,
		}},
		Buttons: []chat.Button{{Label: "Close", Style: chat.ButtonDanger, CustomID: actions.TicketClose.ID()}},
	}
}

func (r renderer) commissionBoard(channelID int64, dept string, answers []Answer) chat.Message {
	fields := make([]chat.Field, 0, len(answers))
	for _, a := range answers {
		if a.Value == "" {
			continue
		}
		fields = append(fields, chat.Field{Name: a.Label, Value: a.Value})
	}
	return chat.Message{
		Embeds: []chat.Embed{{Title: "New " + dept + " Commission", Color: r.color, Fields: fields}},
		Buttons: []chat.Button{
			{Label: "Quote", Style: chat.ButtonSuccess, CustomID: actions.QuoteStart.ID(channelID)},
			{Label: "Ask a question", Style: chat.ButtonSecondary, CustomID: actions.QuestionStart.ID(channelID)},
		},
	}
}

// StoredEmbed renders a saved embed template.
func StoredEmbed(e *models.StoredEmbed) chat.Message {
	return chat.Message{Embeds: []chat.Embed{{
		Title:       e.Title,
		Description: e.Description,
		Color:       ParseColor(e.Color),
		Author:      e.Author,
		AuthorIcon:  e.AuthorImage,
		Footer:      e.Footer,
		FooterIcon:  e.FooterImage,
		Thumbnail:   e.ThumbnailImage,
		Image:       e.LargeImage,
	}}}
}
