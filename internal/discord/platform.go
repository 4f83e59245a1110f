// Package discord adapts the bot to Discord through discordgo.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/inaiurai/commissionbot/internal/chat"
)

const ticketPermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory

// Platform implements chat.Platform on a discordgo session.
type Platform struct {
	Session *discordgo.Session
	GuildID int64
}

var _ chat.Platform = (*Platform)(nil)

// isNotFound reports whether err means the referenced message or channel is gone.
func isNotFound(err error) bool {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return false
	}
	if rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			return true
		}
	}
	return rest.Response != nil && rest.Response.StatusCode == http.StatusNotFound
}

func (p *Platform) Send(ctx context.Context, channelID int64, msg chat.Message) (int64, error) {
	m, err := p.Session.ChannelMessageSendComplex(formatID(channelID), renderSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("send to %d: %w", channelID, err)
	}
	return parseID(m.ID), nil
}

func (p *Platform) Edit(ctx context.Context, channelID, messageID int64, msg chat.Message) error {
	content := msg.Content
	embeds := renderEmbeds(msg.Embeds)
	components := renderComponents(msg)
	edit := &discordgo.MessageEdit{
		ID:         formatID(messageID),
		Channel:    formatID(channelID),
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}
	if _, err := p.Session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		if isNotFound(err) {
			return chat.ErrMessageNotFound
		}
		return fmt.Errorf("edit message %d: %w", messageID, err)
	}
	return nil
}

func (p *Platform) Delete(ctx context.Context, channelID, messageID int64) error {
	err := p.Session.ChannelMessageDelete(formatID(channelID), formatID(messageID), discordgo.WithContext(ctx))
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete message %d: %w", messageID, err)
	}
	return nil
}

func (p *Platform) MessageExists(ctx context.Context, channelID, messageID int64) (bool, error) {
	_, err := p.Session.ChannelMessage(formatID(channelID), formatID(messageID), discordgo.WithContext(ctx))
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("fetch message %d: %w", messageID, err)
	}
}

func (p *Platform) SendDirect(ctx context.Context, userID int64, msg chat.Message) error {
	ch, err := p.Session.UserChannelCreate(formatID(userID), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open dm with %d: %w", userID, err)
	}
	if _, err := p.Session.ChannelMessageSendComplex(ch.ID, renderSend(msg), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("dm %d: %w", userID, err)
	}
	return nil
}

// CreateTicketChannel creates a text channel hidden from @everyone and visible
// to the listed members, roles and the bot itself.
func (p *Platform) CreateTicketChannel(ctx context.Context, tc chat.TicketChannel) (int64, error) {
	guild := formatID(p.GuildID)
	overwrites := []*discordgo.PermissionOverwrite{
		{ID: guild, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
	}
	if p.Session.State != nil && p.Session.State.User != nil {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID: p.Session.State.User.ID, Type: discordgo.PermissionOverwriteTypeMember, Allow: ticketPermissions,
		})
	}
	for _, id := range tc.MemberIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID: formatID(id), Type: discordgo.PermissionOverwriteTypeMember, Allow: ticketPermissions,
		})
	}
	for _, id := range tc.RoleIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID: formatID(id), Type: discordgo.PermissionOverwriteTypeRole, Allow: ticketPermissions,
		})
	}
	data := discordgo.GuildChannelCreateData{
		Name:                 tc.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		PermissionOverwrites: overwrites,
	}
	if tc.CategoryID != 0 {
		data.ParentID = formatID(tc.CategoryID)
	}
	ch, err := p.Session.GuildChannelCreateComplex(guild, data, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("create channel %q: %w", tc.Name, err)
	}
	return parseID(ch.ID), nil
}

func (p *Platform) DeleteChannel(ctx context.Context, channelID int64) error {
	if _, err := p.Session.ChannelDelete(formatID(channelID), discordgo.WithContext(ctx)); err != nil && !isNotFound(err) {
		return fmt.Errorf("delete channel %d: %w", channelID, err)
	}
	return nil
}

func (p *Platform) GrantAccess(ctx context.Context, channelID, userID int64) error {
	err := p.Session.ChannelPermissionSet(formatID(channelID), formatID(userID),
		discordgo.PermissionOverwriteTypeMember, ticketPermissions, 0, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("grant %d on %d: %w", userID, channelID, err)
	}
	return nil
}

func (p *Platform) RevokeAccess(ctx context.Context, channelID, userID int64) error {
	err := p.Session.ChannelPermissionDelete(formatID(channelID), formatID(userID), discordgo.WithContext(ctx))
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("revoke %d on %d: %w", userID, channelID, err)
	}
	return nil
}

func (p *Platform) AddRole(ctx context.Context, userID, roleID int64) error {
	err := p.Session.GuildMemberRoleAdd(formatID(p.GuildID), formatID(userID), formatID(roleID), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("add role %d to %d: %w", roleID, userID, err)
	}
	return nil
}
