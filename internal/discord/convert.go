package discord

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/inaiurai/commissionbot/internal/handlers"
	"github.com/inaiurai/commissionbot/internal/services"
)

func parseID(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// toInteraction converts a gateway interaction into the handlers' form.
func toInteraction(in *discordgo.Interaction) (*handlers.Interaction, error) {
	out := &handlers.Interaction{
		ID:        in.ID,
		GuildID:   parseID(in.GuildID),
		ChannelID: parseID(in.ChannelID),
	}
	switch {
	case in.Member != nil && in.Member.User != nil:
		out.Actor = services.Actor{UserID: parseID(in.Member.User.ID), Name: in.Member.User.Username}
		for _, r := range in.Member.Roles {
			out.Actor.RoleIDs = append(out.Actor.RoleIDs, parseID(r))
		}
	case in.User != nil:
		out.Actor = services.Actor{UserID: parseID(in.User.ID), Name: in.User.Username}
	default:
		return nil, fmt.Errorf("interaction %s has no user", in.ID)
	}
	if in.Message != nil {
		out.MessageID = parseID(in.Message.ID)
	}

	switch in.Type {
	case discordgo.InteractionApplicationCommand:
		data := in.ApplicationCommandData()
		out.Kind = handlers.KindCommand
		out.Command = data.Name
		out.Options = map[string]string{}
		opts := data.Options
		if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
			out.Subcommand = opts[0].Name
			opts = opts[0].Options
		}
		for _, o := range opts {
			out.Options[o.Name] = optionString(o)
		}
	case discordgo.InteractionMessageComponent:
		data := in.MessageComponentData()
		out.Kind = handlers.KindComponent
		out.CustomID = data.CustomID
		out.Values = data.Values
	case discordgo.InteractionModalSubmit:
		data := in.ModalSubmitData()
		out.Kind = handlers.KindModal
		out.CustomID = data.CustomID
		out.Fields = map[string]string{}
		collectInputs(data.Components, out.Fields)
	default:
		return nil, fmt.Errorf("unsupported interaction type %v", in.Type)
	}
	return out, nil
}

func optionString(o *discordgo.ApplicationCommandInteractionDataOption) string {
	switch v := o.Value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func collectInputs(components []discordgo.MessageComponent, into map[string]string) {
	for _, c := range components {
		switch v := c.(type) {
		case *discordgo.ActionsRow:
			collectInputs(v.Components, into)
		case discordgo.ActionsRow:
			collectInputs(v.Components, into)
		case *discordgo.TextInput:
			into[v.CustomID] = v.Value
		case discordgo.TextInput:
			into[v.CustomID] = v.Value
		}
	}
}
