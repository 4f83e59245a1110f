package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/repository"
)

const maxVouchLen = 2000

// VouchRequest is a client's review of the freelancer hired in a commission.
type VouchRequest struct {
	ChannelID int64
	ClientID  int64
	Rating    int
	Comment   string
}

// Vouch checks that channelID holds a commission with a hired freelancer, so
// a review can be requested there.
func (s *CommissionService) Vouch(ctx context.Context, actor Actor, channelID int64) (*models.Commission, error) {
	if !actor.HasAny(s.Config.Permissions.VouchRoles) {
		return nil, fmt.Errorf("%w: you cannot request vouches", ErrPermissionDenied)
	}
	return s.vouchable(ctx, channelID)
}

func (s *CommissionService) vouchable(ctx context.Context, channelID int64) (*models.Commission, error) {
	c, err := s.Commissions.Get(ctx, channelID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("%w: vouches can only be requested in a commission channel", ErrValidation)
	case err != nil:
		return nil, err
	case !c.Assigned():
		return nil, fmt.Errorf("%w: this commission has no freelancer", ErrValidation)
	}
	return c, nil
}

// SubmitVouch posts the client's review in the commission channel and, when
// one is configured, in the vouch channel.
func (s *CommissionService) SubmitVouch(ctx context.Context, actor Actor, req VouchRequest) (*models.Commission, error) {
	if actor.UserID != req.ClientID {
		return nil, fmt.Errorf("%w: this review is not for you", ErrPermissionDenied)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" || utf8.RuneCountInString(comment) > maxVouchLen {
		return nil, fmt.Errorf("%w: review must be between 1 and %d characters", ErrValidation, maxVouchLen)
	}
	c, err := s.vouchable(ctx, req.ChannelID)
	if err != nil {
		return nil, err
	}

	msg := s.render().vouch(*c.FreelancerID, req.ClientID, req.Rating, comment)
	if ch := s.Config.Tickets.VouchChannelID; ch != 0 {
		if _, err := s.Chat.Send(ctx, ch, msg); err != nil {
			return nil, fmt.Errorf("%w: post vouch: %v", ErrExternal, err)
		}
	}
	if _, err := s.Chat.Send(ctx, req.ChannelID, msg); err != nil {
		return nil, fmt.Errorf("%w: post vouch in ticket: %v", ErrExternal, err)
	}
	s.log().Info("vouch submitted", "channel_id", req.ChannelID, "freelancer_id", *c.FreelancerID,
		"client_id", req.ClientID, "rating", req.Rating)
	return c, nil
}
