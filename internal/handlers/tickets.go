package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/inaiurai/commissionbot/internal/actions"
	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/money"
	"github.com/inaiurai/commissionbot/internal/services"
)

var categoryOrder = []string{config.CategoryQuotes, config.CategoryApply, config.CategorySupport}

var categoryLabels = map[string]string{
	config.CategoryQuotes:  "Order",
	config.CategoryApply:   "Apply",
	config.CategorySupport: "Support",
}

// --- /ticket-panel ---

func (h *Handler) ticketPanel(ctx context.Context, i *Interaction) (*Response, error) {
	perms := h.Config.Permissions
	if !i.Actor.HasAny(perms.AdminRoles) && !i.Actor.HasAny(perms.TicketRoles) {
		return nil, fmt.Errorf("%w: ticket staff only", services.ErrPermissionDenied)
	}
	var buttons []chat.Button
	for _, name := range categoryOrder {
		if _, ok := h.Config.Tickets.Categories[name]; !ok {
			continue
		}
		style := chat.ButtonSecondary
		if name == config.CategoryQuotes {
			style = chat.ButtonPrimary
		}
		buttons = append(buttons, chat.Button{Label: categoryLabels[name], Style: style, CustomID: actions.TicketOpen.ID(name)})
	}
	if len(buttons) == 0 {
		return nil, fmt.Errorf("%w: no ticket categories are configured", services.ErrValidation)
	}
	panel := chat.Message{
		Embeds: []chat.Embed{{
			Title:       "Tickets",
			Description: "Open a ticket to order a commission, apply as a freelancer or get support.",
			Color:       services.ParseColor(h.Config.General.EmbedColor),
		}},
		Buttons: buttons,
	}
	if _, err := h.Chat.Send(ctx, i.ChannelID, panel); err != nil {
		return nil, fmt.Errorf("%w: post panel: %v", services.ErrExternal, err)
	}
	return reply("Ticket panel posted."), nil
}

// --- ticket:open:<category> ---

func (h *Handler) ticketOpen(ctx context.Context, i *Interaction, p actions.Parsed) (*Response, error) {
	category := p.String(0)
	if _, err := h.Config.Category(category); err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	if category != config.CategoryQuotes {
		return h.ticketPrompt(ctx, i, category, 0)
	}
	if len(h.Config.Departments) == 0 {
		return nil, fmt.Errorf("%w: no departments are configured", services.ErrValidation)
	}
	opts := make([]chat.SelectOption, 0, len(h.Config.Departments))
	for _, d := range h.Config.Departments {
		opts = append(opts, chat.SelectOption{Label: d.Name, Value: strconv.FormatInt(d.ChannelID, 10)})
	}
	return replyMessage(chat.Message{
		Content: "Which department is this commission for?",
		Select:  &chat.Select{CustomID: actions.TicketDepartment.ID(), Placeholder: "Choose a department", Options: opts},
	}), nil
}

// --- ticket:department (select) ---

func (h *Handler) ticketDepartment(ctx context.Context, i *Interaction, _ actions.Parsed) (*Response, error) {
	if len(i.Values) == 0 {
		return nil, fmt.Errorf("%w: choose a department", services.ErrValidation)
	}
	channelID, err := strconv.ParseInt(i.Values[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown department", services.ErrValidation)
	}
	if _, ok := h.Config.DepartmentByChannel(channelID); !ok {
		return nil, fmt.Errorf("%w: unknown department", services.ErrValidation)
	}
	return h.ticketPrompt(ctx, i, config.CategoryQuotes, channelID)
}

// ticketPrompt shows the category's questions, or opens the ticket at once
// when the category has none.
func (h *Handler) ticketPrompt(ctx context.Context, i *Interaction, category string, deptChannel int64) (*Response, error) {
	cat, _ := h.Config.Category(category)
	if len(cat.Questions) == 0 {
		return h.openTicket(ctx, i, category, deptChannel, nil)
	}
	customID := actions.TicketForm.ID(category)
	if deptChannel != 0 {
		customID = actions.TicketForm.ID(category, deptChannel)
	}
	inputs := make([]chat.TextInput, 0, len(cat.Questions))
	for _, q := range cat.Questions {
		inputs = append(inputs, chat.TextInput{
			ID: q.Reference, Label: q.Label, Long: q.Long, Required: true, MaxLength: q.MaxLength,
		})
	}
	title := categoryLabels[category] + " Ticket"
	return modal(chat.Modal{CustomID: customID, Title: title, Inputs: inputs}), nil
}

// --- ticket:form:<category>[:<department channel>] (modal) ---

func (h *Handler) ticketForm(ctx context.Context, i *Interaction, p actions.Parsed) (*Response, error) {
	category := p.String(0)
	cat, err := h.Config.Category(category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	var deptChannel int64
	if len(p.Args) > 1 {
		if deptChannel, err = p.Int64(1); err != nil {
			return nil, fmt.Errorf("%w: %v", services.ErrValidation, err)
		}
	}
	answers := make([]services.Answer, 0, len(cat.Questions))
	for _, q := range cat.Questions {
		answers = append(answers, services.Answer{Reference: q.Reference, Label: q.Label, Value: i.Field(q.Reference)})
	}
	return h.openTicket(ctx, i, category, deptChannel, answers)
}

func (h *Handler) openTicket(ctx context.Context, i *Interaction, category string, deptChannel int64, answers []services.Answer) (*Response, error) {
	req := services.OpenTicketRequest{Category: category, Answers: answers}
	if deptChannel != 0 {
		d, ok := h.Config.DepartmentByChannel(deptChannel)
		if !ok {
			return nil, fmt.Errorf("%w: unknown department", services.ErrValidation)
		}
		req.Department = d.Name
	}
	res, err := h.Tickets.OpenTicket(ctx, i.Actor, req)
	if err != nil {
		return nil, err
	}
	return reply(fmt.Sprintf("Your ticket is ready: <#%d>", res.ChannelID)), nil
}

// --- /close and ticket:close ---

func (h *Handler) closeCommand(ctx context.Context, i *Interaction) (*Response, error) {
	return h.close(ctx, i)
}

func (h *Handler) closeButton(ctx context.Context, i *Interaction, _ actions.Parsed) (*Response, error) {
	return h.close(ctx, i)
}

func (h *Handler) close(ctx context.Context, i *Interaction) (*Response, error) {
	res, err := h.Commissions.CloseTicket(ctx, i.Actor, i.ChannelID)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("This ticket is closed and the channel will be deleted.")
	if c := res.Commission; c != nil && c.FreelancerID != nil {
		fmt.Fprintf(&b, "\n<@%d> was credited %s.", *c.FreelancerID, money.Format(res.CreditedCents))
	}
	resp := publicMessage(chat.Message{Content: b.String()})
	channelID := i.ChannelID
	resp.After = func(ctx context.Context) {
		h.Tickets.DeleteChannel(ctx, channelID)
	}
	return resp, nil
}

// --- /add and /remove ---

func (h *Handler) addMember(ctx context.Context, i *Interaction) (*Response, error) {
	memberID, err := i.OptionID("member")
	if err != nil {
		return nil, err
	}
	if err := h.Tickets.AddMember(ctx, i.Actor, i.ChannelID, memberID); err != nil {
		return nil, err
	}
	return reply(fmt.Sprintf("Added <@%d> to this ticket.", memberID)), nil
}

func (h *Handler) removeMember(ctx context.Context, i *Interaction) (*Response, error) {
	memberID, err := i.OptionID("member")
	if err != nil {
		return nil, err
	}
	if err := h.Tickets.RemoveMember(ctx, i.Actor, i.ChannelID, memberID); err != nil {
		return nil, err
	}
	return reply(fmt.Sprintf("Removed <@%d> from this ticket.", memberID)), nil
}
