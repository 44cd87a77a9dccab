// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/templates/event-backend/internal/core"
	"github.com/carterperez-dev/templates/event-backend/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = fmt.Errorf("email already registered: %w", core.ErrDuplicateKey)
	ErrAdminSignupClosed  = fmt.Errorf("admin signup is disabled: %w", core.ErrForbidden)
)

const tokenTypeBearer = "bearer"

type UserProvider interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(
		ctx context.Context,
		name, email, passwordHash string,
		role user.Role,
	) (*user.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

var _ UserProvider = (*user.Service)(nil)

type Service struct {
	tokens           *TokenManager
	users            UserProvider
	allowAdminSignup bool
	clock            func() time.Time
}

func NewService(
	tokens *TokenManager,
	users UserProvider,
	allowAdminSignup bool,
) *Service {
	return &Service{
		tokens:           tokens,
		users:            users,
		allowAdminSignup: allowAdminSignup,
		clock:            time.Now,
	}
}

// Signup registers a new account. The requested role defaults to normal.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*user.User, error) {
	role, err := user.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	if role == user.RoleAdmin && !s.allowAdminSignup {
		return nil, ErrAdminSignupClosed
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, req.Name, req.Email, passwordHash, role)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (s *Service) Login(
	ctx context.Context,
	email, password string,
) (*TokenResponse, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.VerifyPasswordTimingSafe(password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !core.VerifyPasswordTimingSafe(password, &u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if core.NeedsRehash(u.PasswordHash) {
		s.upgradeHash(ctx, u.ID, password)
	}

	now := s.clock()
	token, expiresAt, err := s.tokens.Issue(u.ID, u.Role, now)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *Service) upgradeHash(ctx context.Context, id int64, password string) {
	newHash, err := core.HashPassword(password)
	if err == nil {
		err = s.users.UpdatePassword(ctx, id, newHash)
	}
	if err != nil {
		slog.Warn("password rehash failed", "user_id", id, "error", err)
	}
}
