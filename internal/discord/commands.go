package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/inaiurai/commissionbot/internal/handlers"
	"github.com/inaiurai/commissionbot/internal/repository"
)

func stringOpt(name, desc string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionString, Name: name, Description: desc, Required: required}
}

func intOpt(name, desc string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionInteger, Name: name, Description: desc, Required: required}
}

func userOpt(name, desc string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionUser, Name: name, Description: desc, Required: required}
}

func subcommand(name, desc string, opts ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionSubCommand, Name: name, Description: desc, Options: opts}
}

func tableChoices() []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(repository.Tables))
	for _, t := range repository.Tables {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: string(t), Value: string(t)})
	}
	return out
}

// ApplicationCommands returns the definition of every slash command.
func ApplicationCommands() []*discordgo.ApplicationCommand {
	table := stringOpt("table", "Table to drop and recreate", true)
	table.Choices = tableChoices()
	channel := &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "channel",
		Description:  "Channel to post in (defaults to this one)",
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}

	return []*discordgo.ApplicationCommand{
		{Name: handlers.CmdTicketPanel, Description: "Post the ticket panel in this channel"},
		{Name: handlers.CmdClose, Description: "Close this ticket"},
		{Name: handlers.CmdAdd, Description: "Add a member to this ticket", Options: []*discordgo.ApplicationCommandOption{
			userOpt("member", "Member to add", true),
		}},
		{Name: handlers.CmdRemove, Description: "Remove a member from this ticket", Options: []*discordgo.ApplicationCommandOption{
			userOpt("member", "Member to remove", true),
		}},
		{Name: handlers.CmdProfile, Description: "Show a freelancer profile", Options: []*discordgo.ApplicationCommandOption{
			userOpt("member", "Whose profile (defaults to yours)", false),
		}},
		{Name: handlers.CmdWallet, Description: "Show your wallet"},
		{Name: handlers.CmdInvoice, Description: "Send an invoice for this commission", Options: []*discordgo.ApplicationCommandOption{
			stringOpt("amount", "Amount before fees, e.g. 100.00", true),
			stringOpt("email", "Client PayPal email", true),
		}},
		{Name: handlers.CmdCalculate, Description: "Work out the fee on an amount", Options: []*discordgo.ApplicationCommandOption{
			stringOpt("amount", "Amount, e.g. 95.00", true),
		}},
		{Name: handlers.CmdEmbed, Description: "Manage saved embeds", Options: []*discordgo.ApplicationCommandOption{
			subcommand("create", "Save a new embed",
				stringOpt("title", "Title", false),
				stringOpt("description", "Description", false),
				stringOpt("author", "Author line", false),
				stringOpt("footer", "Footer line", false),
				stringOpt("color", "Hex color, e.g. #112233", false),
				stringOpt("thumbnail", "Thumbnail URL", false),
				stringOpt("image", "Image URL", false),
			),
			subcommand("list", "List saved embeds"),
			subcommand("post", "Post a saved embed", intOpt("id", "Embed id", true), channel),
			subcommand("apply", "Replace a bot message's embed", intOpt("id", "Embed id", true),
				stringOpt("message", "Message id in this channel", true)),
			subcommand("delete", "Delete a saved embed", intOpt("id", "Embed id", true)),
		}},
		{Name: handlers.CmdRefreshTable, Description: "Drop and recreate a table", Options: []*discordgo.ApplicationCommandOption{table}},
		{Name: handlers.CmdVouch, Description: "Ask the client to review this commission's freelancer", Options: []*discordgo.ApplicationCommandOption{
			userOpt("member", "Client who leaves the review", true),
		}},
	}
}

// RegisterCommands overwrites the guild's slash commands.
func RegisterCommands(s *discordgo.Session, guildID int64) error {
	if s.State == nil || s.State.User == nil {
		return fmt.Errorf("register commands: session is not ready")
	}
	if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, formatID(guildID), ApplicationCommands()); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	return nil
}
