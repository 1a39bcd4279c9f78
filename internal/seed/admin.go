package seed

import (
	"context"
	"errors"
	"log/slog"

	"github.com/geocoder89/mealhub/internal/config"
	"github.com/geocoder89/mealhub/internal/domain/user"
	"github.com/geocoder89/mealhub/internal/security"
)

type UserStore interface {
	Save(ctx context.Context, p user.Profile) error
	GetByUsername(ctx context.Context, username string) (user.Profile, error)
}

// EnsureAdminUser registers the configured admin account. It is a no-op when no
// admin credentials are configured or the username is already taken.
func EnsureAdminUser(ctx context.Context, users UserStore, cfg config.Config, log *slog.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	_, err := users.GetByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrUserNotFound) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	p := user.NewFromSignUp(user.SignUpRequest{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Role:     user.RoleAdmin,
	}, hash)

	err = users.Save(ctx, p)
	if errors.Is(err, user.ErrUsernameTaken) {
		return nil
	}
	if err != nil {
		return err
	}

	if log != nil {
		log.InfoContext(ctx, "admin user seeded", "username", p.Username)
	}
	return nil
}
