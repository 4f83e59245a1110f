package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/repository"
)

// TableRefresher drops and recreates one table.
type TableRefresher func(ctx context.Context, t repository.Table) error

type AdminService struct {
	Refresh TableRefresher
	Config  *config.Config
	Logger  *slog.Logger
}

// RefreshTable empties a named table by dropping and recreating it.
func (s *AdminService) RefreshTable(ctx context.Context, actor Actor, name string) (repository.Table, error) {
	if !actor.HasAny(s.Config.Permissions.AdminRoles) {
		return "", fmt.Errorf("%w: admin only", ErrPermissionDenied)
	}
	t, err := repository.ParseTable(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.Refresh(ctx, t); err != nil {
		return "", fmt.Errorf("refresh %s: %w", t, err)
	}
	loggerOr(s.Logger).Warn("table refreshed", "table", t, "actor_id", actor.UserID)
	return t, nil
}
