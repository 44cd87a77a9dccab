// AngelaMos | 2026
// gate.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/templates/event-backend/internal/core"
	"github.com/carterperez-dev/templates/event-backend/internal/middleware"
	"github.com/carterperez-dev/templates/event-backend/internal/user"
)

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// Gate resolves bearer tokens to stored accounts and enforces roles.
type Gate struct {
	tokens *TokenManager
	users  UserLookup
	clock  func() time.Time
}

var _ middleware.Gate = (*Gate)(nil)

func NewGate(tokens *TokenManager, users UserLookup, clock func() time.Time) *Gate {
	if clock == nil {
		clock = time.Now
	}

	return &Gate{
		tokens: tokens,
		users:  users,
		clock:  clock,
	}
}

func (g *Gate) CurrentUser(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, fmt.Errorf("current user: missing token: %w", core.ErrUnauthorized)
	}

	claims, err := g.tokens.Validate(token, g.clock())
	if err != nil {
		return nil, fmt.Errorf("current user: %w: %w", core.ErrUnauthorized, err)
	}

	u, err := g.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf(
				"current user: subject %d no longer exists: %w",
				claims.Subject,
				core.ErrUnauthorized,
			)
		}
		return nil, fmt.Errorf("current user: %w", err)
	}

	return u, nil
}

// RequireRole returns u unchanged when it holds role.
func (g *Gate) RequireRole(u *user.User, role user.Role) (*user.User, error) {
	if u == nil {
		return nil, fmt.Errorf("require role: %w", core.ErrUnauthorized)
	}

	if u.Role != role {
		return nil, fmt.Errorf("require role %s: %w", role, core.ErrForbidden)
	}

	return u, nil
}
