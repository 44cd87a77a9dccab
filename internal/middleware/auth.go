// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/carterperez-dev/templates/event-backend/internal/core"
	"github.com/carterperez-dev/templates/event-backend/internal/user"
)

// Gate resolves a bearer token to the stored account and checks roles.
type Gate interface {
	CurrentUser(ctx context.Context, token string) (*user.User, error)
	RequireRole(u *user.User, role user.Role) (*user.User, error)
}

// Authenticator rejects requests without a valid bearer token and stores
// the resolved account in the request context.
func Authenticator(gate Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			u, err := gate.CurrentUser(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// RequireRole must run after Authenticator.
func RequireRole(gate Gate, role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := gate.RequireRole(GetUser(r.Context()), role); err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(gate Gate) func(http.Handler) http.Handler {
	return RequireRole(gate, user.RoleAdmin)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	case errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.UnauthorizedError(""))
	case errors.Is(err, core.ErrForbidden):
		core.JSONError(w, core.ForbiddenError(""))
	default:
		slog.Error("authorization gate failure", "error", err)
		core.InternalServerError(w, err)
	}
}

func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, UserKey, u)
}

func GetUser(ctx context.Context) *user.User {
	if u, ok := ctx.Value(UserKey).(*user.User); ok {
		return u
	}
	return nil
}

func GetUserID(ctx context.Context) int64 {
	if u := GetUser(ctx); u != nil {
		return u.ID
	}
	return 0
}
