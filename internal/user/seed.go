// AngelaMos | 2026
// seed.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/event-backend/internal/config"
	"github.com/carterperez-dev/templates/event-backend/internal/core"
)

// EnsureAdmin creates the configured administrator if no account with that
// email exists yet. An existing account is left untouched, whatever its
// role. Reports whether a row was inserted.
func EnsureAdmin(
	ctx context.Context,
	db *sqlx.DB,
	cfg config.AdminConfig,
) (bool, error) {
	if cfg.Email == "" || cfg.Password == "" {
		return false, nil
	}

	hash, err := core.HashPassword(cfg.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	created := false
	err = core.InTx(ctx, db, func(tx *sqlx.Tx) error {
		svc := NewService(NewRepository(tx))

		existing, getErr := svc.GetByEmail(ctx, cfg.Email)
		if getErr == nil {
			if !existing.IsAdmin() {
				slog.Warn("bootstrap admin email belongs to a non-admin account",
					"user_id", existing.ID,
				)
			}
			return nil
		}
		if !errors.Is(getErr, core.ErrNotFound) {
			return getErr
		}

		if _, createErr := svc.Create(ctx, cfg.Name, cfg.Email, hash, RoleAdmin); createErr != nil {
			return createErr
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	return created, nil
}
