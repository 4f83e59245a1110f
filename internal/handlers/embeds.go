package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/services"
)

// /embed subcommands.
const (
	embedCreate = "create"
	embedList   = "list"
	embedPost   = "post"
	embedApply  = "apply"
	embedDelete = "delete"
)

func (h *Handler) embedCommand(ctx context.Context, i *Interaction) (*Response, error) {
	switch i.Subcommand {
	case embedCreate:
		e := &models.StoredEmbed{
			Title:          i.Option("title"),
			Description:    i.Option("description"),
			Author:         i.Option("author"),
			Footer:         i.Option("footer"),
			Color:          i.Option("color"),
			ThumbnailImage: i.Option("thumbnail"),
			LargeImage:     i.Option("image"),
		}
		if err := h.Embeds.Create(ctx, i.Actor, e); err != nil {
			return nil, err
		}
		return reply(fmt.Sprintf("Embed #%d saved.", e.ID)), nil

	case embedList:
		list, err := h.Embeds.List(ctx, i.Actor)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return reply("No embeds saved yet."), nil
		}
		var b strings.Builder
		for _, e := range list {
			name := e.Title
			if name == "" {
				name = "(untitled)"
			}
			fmt.Fprintf(&b, "#%d %s\n", e.ID, name)
		}
		return reply(b.String()), nil

	case embedPost:
		id, err := i.OptionID("id")
		if err != nil {
			return nil, err
		}
		channelID := i.ChannelID
		if i.Option("channel") != "" {
			if channelID, err = i.OptionID("channel"); err != nil {
				return nil, err
			}
		}
		if _, err := h.Embeds.Post(ctx, i.Actor, id, channelID); err != nil {
			return nil, err
		}
		return reply(fmt.Sprintf("Embed #%d posted in <#%d>.", id, channelID)), nil

	case embedApply:
		id, err := i.OptionID("id")
		if err != nil {
			return nil, err
		}
		messageID, err := i.OptionID("message")
		if err != nil {
			return nil, err
		}
		if err := h.Embeds.Apply(ctx, i.Actor, id, i.ChannelID, messageID); err != nil {
			return nil, err
		}
		return reply(fmt.Sprintf("Embed #%d applied.", id)), nil

	case embedDelete:
		id, err := i.OptionID("id")
		if err != nil {
			return nil, err
		}
		if err := h.Embeds.Delete(ctx, i.Actor, id); err != nil {
			return nil, err
		}
		return reply(fmt.Sprintf("Embed #%d deleted.", id)), nil
	}
	return nil, fmt.Errorf("%w: unknown subcommand %q", services.ErrValidation, i.Subcommand)
}

// --- /refreshtable table ---

func (h *Handler) refreshTableCommand(ctx context.Context, i *Interaction) (*Response, error) {
	t, err := h.Admin.RefreshTable(ctx, i.Actor, i.Option("table"))
	if err != nil {
		return nil, err
	}
	return reply(fmt.Sprintf("Table `%s` was refreshed.", t)), nil
}
