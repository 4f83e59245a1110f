package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/repository"
)

type ProfileService struct {
	Profiles ProfileRepo
	Validate *validator.Validate
}

func (s *ProfileService) SetField(ctx context.Context, actor Actor, field models.ProfileField, value string) error {
	if !field.Valid() {
		return fmt.Errorf("%w: unknown profile field %q", ErrValidation, field)
	}
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > maxTextLen {
		return fmt.Errorf("%w: %s is too long", ErrValidation, field)
	}
	if field == models.ProfilePortfolio || field == models.ProfileStorefrontLink {
		if err := s.Validate.Var(value, "omitempty,url"); err != nil {
			return fmt.Errorf("%w: %s must be a link", ErrValidation, field)
		}
	}
	return s.Profiles.SetField(ctx, actor.UserID, field, value)
}

func (s *ProfileService) View(ctx context.Context, memberID int64) (*models.Profile, error) {
	p, err := s.Profiles.Get(ctx, memberID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: profile", ErrNotFound)
	}
	return p, err
}
