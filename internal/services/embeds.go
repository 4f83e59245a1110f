package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/models"
)

// EmbedService stores embed templates that staff can post or apply to messages.
type EmbedService struct {
	Embeds    EmbedRepo
	Validator *EmbedValidator
	Chat      chat.Platform
	Config    *config.Config
}

func (s *EmbedService) allowed(actor Actor) error {
	if !actor.HasAny(s.Config.Permissions.EmbedRoles) {
		return fmt.Errorf("%w: you cannot manage embeds", ErrPermissionDenied)
	}
	return nil
}

func (s *EmbedService) Create(ctx context.Context, actor Actor, e *models.StoredEmbed) error {
	if err := s.allowed(actor); err != nil {
		return err
	}
	e.ID = 0
	e.Color = strings.TrimSpace(e.Color)
	if e.Color == "" {
		e.Color = s.Config.General.EmbedColor
	}
	if err := s.Validator.Validate(e); err != nil {
		return err
	}
	return s.Embeds.Create(ctx, e)
}

func (s *EmbedService) View(ctx context.Context, actor Actor, id int64) (*models.StoredEmbed, error) {
	if err := s.allowed(actor); err != nil {
		return nil, err
	}
	e, err := s.Embeds.Get(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "embed")
	}
	return e, nil
}

func (s *EmbedService) List(ctx context.Context, actor Actor) ([]*models.StoredEmbed, error) {
	if err := s.allowed(actor); err != nil {
		return nil, err
	}
	return s.Embeds.List(ctx)
}

// Post sends a stored embed to channelID and returns the new message id.
func (s *EmbedService) Post(ctx context.Context, actor Actor, id, channelID int64) (int64, error) {
	e, err := s.View(ctx, actor, id)
	if err != nil {
		return 0, err
	}
	messageID, err := s.Chat.Send(ctx, channelID, StoredEmbed(e))
	if err != nil {
		return 0, fmt.Errorf("%w: post embed: %v", ErrExternal, err)
	}
	return messageID, nil
}

// Apply replaces an existing message's content with a stored embed.
func (s *EmbedService) Apply(ctx context.Context, actor Actor, id, channelID, messageID int64) error {
	e, err := s.View(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.Chat.Edit(ctx, channelID, messageID, StoredEmbed(e)); err != nil {
		return fmt.Errorf("%w: edit message: %v", ErrExternal, err)
	}
	return nil
}

func (s *EmbedService) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := s.allowed(actor); err != nil {
		return err
	}
	if err := s.Embeds.Delete(ctx, id); err != nil {
		return mapRepoErr(err, "embed")
	}
	return nil
}
