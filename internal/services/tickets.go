package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/models"
)

// Answer is one response to a ticket prompt.
type Answer struct {
	Reference string
	Label     string
	Value     string
}

// TicketService opens ticket channels and manages who can see them.
type TicketService struct {
	Commissions *CommissionService
	Chat        chat.Platform
	Config      *config.Config
	Logger      *slog.Logger
}

func (s *TicketService) log() *slog.Logger { return loggerOr(s.Logger) }

type OpenTicketRequest struct {
	Category   string
	Department string
	Answers    []Answer
}

type TicketResult struct {
	ChannelID  int64
	Commission *models.Commission
}

var channelNameRe = regexp.MustCompile(`[^a-z0-9-]+`)

func ticketChannelName(category, user string) string {
	name := channelNameRe.ReplaceAllString(strings.ToLower(user), "")
	if name == "" {
		name = "member"
	}
	return category + "-" + name
}

// OpenTicket creates a private ticket channel. Quote tickets also post a
// board message for the department and open a commission.
func (s *TicketService) OpenTicket(ctx context.Context, actor Actor, req OpenTicketRequest) (*TicketResult, error) {
	cat, err := s.Config.Category(req.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	var dept config.Department
	if req.Category == config.CategoryQuotes {
		found := false
		for _, d := range s.Config.Departments {
			if strings.EqualFold(d.Name, req.Department) {
				dept, found = d, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: unknown department %q", ErrValidation, req.Department)
		}
	}

	channelID, err := s.Chat.CreateTicketChannel(ctx, chat.TicketChannel{
		Name:       ticketChannelName(req.Category, actor.Name),
		CategoryID: cat.CategoryID,
		MemberIDs:  []int64{actor.UserID},
		RoleIDs:    cat.AddedRoles,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create ticket channel: %v", ErrExternal, err)
	}
	r := newRenderer(s.Config)
	if _, err := s.Chat.Send(ctx, channelID, r.ticketOpened(actor, req.Category, req.Answers)); err != nil {
		s.log().Warn("post ticket summary", "channel_id", channelID, "error", err)
	}
	res := &TicketResult{ChannelID: channelID}
	if req.Category != config.CategoryQuotes {
		return res, nil
	}

	boardID, err := s.Chat.Send(ctx, dept.ChannelID, r.commissionBoard(channelID, dept.Name, req.Answers))
	if err != nil {
		s.cleanup(ctx, channelID)
		return nil, fmt.Errorf("%w: post commission board: %v", ErrExternal, err)
	}
	c := &models.Commission{
		ChannelID:           channelID,
		FreelancerChannelID: dept.ChannelID,
		FreelancerMessageID: boardID,
		CreatorID:           actor.UserID,
		Department:          dept.Name,
	}
	if err := s.Commissions.Open(ctx, c); err != nil {
		if derr := s.Chat.Delete(ctx, dept.ChannelID, boardID); derr != nil {
			s.log().Warn("remove commission board message", "channel_id", channelID, "error", derr)
		}
		s.cleanup(ctx, channelID)
		return nil, err
	}
	res.Commission = c
	s.log().Info("commission opened", "channel_id", channelID, "creator_id", actor.UserID, "department", dept.Name)
	return res, nil
}

func (s *TicketService) cleanup(ctx context.Context, channelID int64) {
	if err := s.Chat.DeleteChannel(ctx, channelID); err != nil {
		s.log().Warn("remove ticket channel", "channel_id", channelID, "error", err)
	}
}

// AddMember lets a member see and write in the ticket.
func (s *TicketService) AddMember(ctx context.Context, actor Actor, channelID, memberID int64) error {
	if !actor.HasAny(s.Config.Permissions.TicketRoles) {
		return fmt.Errorf("%w: only ticket staff can add members", ErrPermissionDenied)
	}
	if err := s.Chat.GrantAccess(ctx, channelID, memberID); err != nil {
		return fmt.Errorf("%w: %v", ErrExternal, err)
	}
	return nil
}

// RemoveMember revokes a member's access to the ticket.
func (s *TicketService) RemoveMember(ctx context.Context, actor Actor, channelID, memberID int64) error {
	if !actor.HasAny(s.Config.Permissions.TicketRoles) {
		return fmt.Errorf("%w: only ticket staff can remove members", ErrPermissionDenied)
	}
	if err := s.Chat.RevokeAccess(ctx, channelID, memberID); err != nil {
		return fmt.Errorf("%w: %v", ErrExternal, err)
	}
	return nil
}

// DeleteChannel removes a closed ticket's channel.
func (s *TicketService) DeleteChannel(ctx context.Context, channelID int64) {
	s.cleanup(ctx, channelID)
}

// WelcomeMember assigns the join roles and posts the welcome message.
func (s *TicketService) WelcomeMember(ctx context.Context, memberID int64) {
	for _, role := range s.Config.Join.Roles {
		if err := s.Chat.AddRole(ctx, memberID, role); err != nil {
			s.log().Warn("assign join role", "member_id", memberID, "role_id", role, "error", err)
		}
	}
	if s.Config.Join.WelcomeChannelID == 0 {
		return
	}
	msg := chat.Message{Content: fmt.Sprintf("Welcome %s!", mention(memberID))}
	if _, err := s.Chat.Send(ctx, s.Config.Join.WelcomeChannelID, msg); err != nil {
		s.log().Warn("post welcome message", "member_id", memberID, "error", err)
	}
}
