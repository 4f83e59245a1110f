package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/inaiurai/commissionbot/internal/actions"
	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/services"
)

var profileLabels = map[models.ProfileField]string{
	models.ProfilePortfolio:      "Portfolio",
	models.ProfileTimezone:       "Timezone",
	models.ProfileStorefrontLink: "Storefront",
	models.ProfileDescription:    "About",
}

func (h *Handler) loadProfile(ctx context.Context, memberID int64) (*models.Profile, error) {
	p, err := h.Profiles.View(ctx, memberID)
	if errors.Is(err, services.ErrNotFound) {
		return &models.Profile{MemberID: memberID}, nil
	}
	return p, err
}

// --- /profile [member] ---

func (h *Handler) profileCommand(ctx context.Context, i *Interaction) (*Response, error) {
	memberID := i.Actor.UserID
	if i.Option("member") != "" {
		id, err := i.OptionID("member")
		if err != nil {
			return nil, err
		}
		memberID = id
	}
	self := memberID == i.Actor.UserID

	var p *models.Profile
	var err error
	if self {
		p, err = h.loadProfile(ctx, memberID)
	} else {
		p, err = h.Profiles.View(ctx, memberID)
	}
	if err != nil {
		return nil, err
	}

	fields := make([]chat.Field, 0, len(models.ProfileFields))
	for _, f := range models.ProfileFields {
		v := p.Get(f)
		if v == "" {
			v = "-"
		}
		fields = append(fields, chat.Field{Name: profileLabels[f], Value: v, Inline: f != models.ProfileDescription})
	}
	msg := chat.Message{Embeds: []chat.Embed{{
		Title:       "Profile",
		Description: fmt.Sprintf("<@%d>", memberID),
		Color:       services.ParseColor(h.Config.General.EmbedColor),
		Fields:      fields,
	}}}
	if self {
		msg.Buttons = []chat.Button{{Label: "Edit", Style: chat.ButtonPrimary, CustomID: actions.ProfileEdit.ID()}}
	}
	return replyMessage(msg), nil
}

func (h *Handler) profileEdit(ctx context.Context, i *Interaction, _ actions.Parsed) (*Response, error) {
	p, err := h.loadProfile(ctx, i.Actor.UserID)
	if err != nil {
		return nil, err
	}
	inputs := make([]chat.TextInput, 0, len(models.ProfileFields))
	for _, f := range models.ProfileFields {
		inputs = append(inputs, chat.TextInput{
			ID:        string(f),
			Label:     profileLabels[f],
			Long:      f == models.ProfileDescription,
			MaxLength: 1024,
			Value:     p.Get(f),
		})
	}
	return modal(chat.Modal{CustomID: actions.ProfileForm.ID(), Title: "Edit Profile", Inputs: inputs}), nil
}

func (h *Handler) profileForm(ctx context.Context, i *Interaction, _ actions.Parsed) (*Response, error) {
	var updated []string
	for _, f := range models.ProfileFields {
		v, ok := i.Fields[string(f)]
		if !ok {
			continue
		}
		if err := h.Profiles.SetField(ctx, i.Actor, f, v); err != nil {
			return nil, err
		}
		updated = append(updated, profileLabels[f])
	}
	if len(updated) == 0 {
		return reply("Nothing to update."), nil
	}
	return reply("Profile updated: " + strings.Join(updated, ", ") + "."), nil
}
