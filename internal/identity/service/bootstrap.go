package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/northfit/installops/internal/identity/domain"
	"github.com/northfit/installops/internal/identity/store"
	"github.com/northfit/installops/pkg/cryptox"
	"github.com/northfit/installops/pkg/idx"
	"github.com/northfit/installops/pkg/rbac"
)

var ErrBootstrapMisconfigured = errors.New("bootstrap admin email and password must both be set")

// BootstrapService seeds the first admin account on an empty database so a
// fresh deployment is usable without out-of-band SQL.
type BootstrapService struct {
	Store         store.Store
	Logger        *slog.Logger
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Seed creates the configured admin user if and only if no users exist yet.
// It is safe to call on every startup.
func (s *BootstrapService) Seed(ctx context.Context) error {
	if s.AdminEmail == "" && s.AdminPassword == "" {
		s.Logger.Debug("bootstrap admin not configured, skipping seed")
		return nil
	}
	if s.AdminEmail == "" || s.AdminPassword == "" {
		return ErrBootstrapMisconfigured
	}

	hash, err := cryptox.HashPassword(s.AdminPassword)
	if err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return nil
		}

		now := time.Now().UTC()
		u := domain.User{
			ID:           idx.New().String(),
			Name:         s.AdminName,
			Email:        s.AdminEmail,
			Role:         rbac.RoleAdmin,
			Status:       domain.UserStatusActive,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}

		s.Logger.Info("seeded bootstrap admin",
			slog.String("user_id", u.ID),
			slog.String("email", u.Email),
		)
		return nil
	})
}
