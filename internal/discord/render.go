package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/handlers"
)

var buttonStyles = map[chat.ButtonStyle]discordgo.ButtonStyle{
	chat.ButtonPrimary:   discordgo.PrimaryButton,
	chat.ButtonSecondary: discordgo.SecondaryButton,
	chat.ButtonSuccess:   discordgo.SuccessButton,
	chat.ButtonDanger:    discordgo.DangerButton,
	chat.ButtonLink:      discordgo.LinkButton,
}

func renderEmbeds(embeds []chat.Embed) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, e := range embeds {
		me := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			URL:         e.URL,
			Color:       e.Color,
		}
		for _, f := range e.Fields {
			me.Fields = append(me.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		if e.Author != "" {
			me.Author = &discordgo.MessageEmbedAuthor{Name: e.Author, IconURL: e.AuthorIcon}
		}
		if e.Footer != "" {
			me.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer, IconURL: e.FooterIcon}
		}
		if e.Thumbnail != "" {
			me.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Thumbnail}
		}
		if e.Image != "" {
			me.Image = &discordgo.MessageEmbedImage{URL: e.Image}
		}
		if !e.Timestamp.IsZero() {
			me.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
		}
		out = append(out, me)
	}
	return out
}

// renderComponents puts the buttons in one row and the select in its own row.
func renderComponents(msg chat.Message) []discordgo.MessageComponent {
	out := []discordgo.MessageComponent{}
	if len(msg.Buttons) > 0 {
		row := discordgo.ActionsRow{}
		for _, b := range msg.Buttons {
			btn := discordgo.Button{Label: b.Label, Style: buttonStyles[b.Style], Disabled: b.Disabled}
			if b.Style == chat.ButtonLink {
				btn.URL = b.URL
			} else {
				btn.CustomID = b.CustomID
			}
			row.Components = append(row.Components, btn)
		}
		out = append(out, row)
	}
	if s := msg.Select; s != nil {
		menu := discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    s.CustomID,
			Placeholder: s.Placeholder,
		}
		for _, o := range s.Options {
			menu.Options = append(menu.Options, discordgo.SelectMenuOption{Label: o.Label, Value: o.Value, Description: o.Description})
		}
		out = append(out, discordgo.ActionsRow{Components: []discordgo.MessageComponent{menu}})
	}
	return out
}

func renderSend(msg chat.Message) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:    msg.Content,
		Embeds:     renderEmbeds(msg.Embeds),
		Components: renderComponents(msg),
	}
}

func renderModal(m *chat.Modal) *discordgo.InteractionResponseData {
	rows := make([]discordgo.MessageComponent, 0, len(m.Inputs))
	for _, in := range m.Inputs {
		style := discordgo.TextInputShort
		if in.Long {
			style = discordgo.TextInputParagraph
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:  in.ID,
				Label:     in.Label,
				Style:     style,
				Required:  in.Required,
				MaxLength: in.MaxLength,
				Value:     in.Value,
			},
		}})
	}
	return &discordgo.InteractionResponseData{CustomID: m.CustomID, Title: m.Title, Components: rows}
}

// renderResponse converts a handler response into an interaction callback.
func renderResponse(r *handlers.Response) *discordgo.InteractionResponse {
	if r.Kind == handlers.RespondModal && r.Modal != nil {
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseModal, Data: renderModal(r.Modal)}
	}
	data := &discordgo.InteractionResponseData{
		Content:    r.Message.Content,
		Embeds:     renderEmbeds(r.Message.Embeds),
		Components: renderComponents(r.Message),
	}
	if r.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	typ := discordgo.InteractionResponseChannelMessageWithSource
	if r.Kind == handlers.RespondUpdate {
		typ = discordgo.InteractionResponseUpdateMessage
	}
	return &discordgo.InteractionResponse{Type: typ, Data: data}
}

// renderWebhookEdit fills in a deferred response.
func renderWebhookEdit(r *handlers.Response) *discordgo.WebhookEdit {
	content := r.Message.Content
	embeds := renderEmbeds(r.Message.Embeds)
	components := renderComponents(r.Message)
	return &discordgo.WebhookEdit{Content: &content, Embeds: &embeds, Components: &components}
}
