package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/inaiurai/commissionbot/internal/actions"
	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/services"
)

const inputReview = "review"

// --- /vouch member ---

func (h *Handler) vouchCommand(ctx context.Context, i *Interaction) (*Response, error) {
	member, err := i.OptionID("member")
	if err != nil {
		return nil, err
	}
	c, err := h.Commissions.Vouch(ctx, i.Actor, i.ChannelID)
	if err != nil {
		return nil, err
	}
	opts := make([]chat.SelectOption, 0, 5)
	for r := 5; r >= 1; r-- {
		opts = append(opts, chat.SelectOption{Label: services.Stars(r), Value: strconv.Itoa(r)})
	}
	return publicMessage(chat.Message{
		Content: fmt.Sprintf("<@%d>", member),
		Embeds: []chat.Embed{{
			Title:       "Please leave a Review!",
			Description: fmt.Sprintf("How was working with <@%d>? Pick a rating below.", *c.FreelancerID),
			Color:       services.ParseColor(h.Config.General.EmbedColor),
		}},
		Select: &chat.Select{
			CustomID:    actions.VouchRating.ID(i.ChannelID, member),
			Placeholder: "Rating",
			Options:     opts,
		},
	}), nil
}

// vouchTarget reads the channel and client a vouch component carries and
// rejects anyone but that client.
func vouchTarget(i *Interaction, p actions.Parsed) (channelID, member int64, err error) {
	if channelID, err = commissionChannel(p); err != nil {
		return 0, 0, err
	}
	if member, err = p.Int64(1); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	if i.Actor.UserID != member {
		return 0, 0, fmt.Errorf("%w: this review is not for you", services.ErrPermissionDenied)
	}
	return channelID, member, nil
}

// --- vouch:rating:<channel>:<member> ---

func (h *Handler) vouchRating(_ context.Context, i *Interaction, p actions.Parsed) (*Response, error) {
	channelID, member, err := vouchTarget(i, p)
	if err != nil {
		return nil, err
	}
	if len(i.Values) == 0 {
		return nil, fmt.Errorf("%w: pick a rating", services.ErrValidation)
	}
	rating, err := strconv.Atoi(i.Values[0])
	if err != nil || rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", services.ErrValidation)
	}
	return modal(chat.Modal{
		CustomID: actions.VouchForm.ID(channelID, member, rating),
		Title:    "Submit a Vouch/Review",
		Inputs:   []chat.TextInput{{ID: inputReview, Label: "Write your vouch/review", Long: true, Required: true, MaxLength: 2000}},
	}), nil
}

// --- vouch:form:<channel>:<member>:<rating> ---

func (h *Handler) vouchForm(ctx context.Context, i *Interaction, p actions.Parsed) (*Response, error) {
	channelID, member, err := vouchTarget(i, p)
	if err != nil {
		return nil, err
	}
	rating, err := p.Int64(2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	_, err = h.Commissions.SubmitVouch(ctx, i.Actor, services.VouchRequest{
		ChannelID: channelID,
		ClientID:  member,
		Rating:    int(rating),
		Comment:   i.Field(inputReview),
	})
	if err != nil {
		return nil, err
	}
	return &Response{Kind: RespondUpdate, Message: chat.Message{Content: "Vouch Submitted"}}, nil
}
