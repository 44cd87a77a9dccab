// AngelaMos | 2026
// jwt.go

package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/templates/event-backend/internal/config"
	"github.com/carterperez-dev/templates/event-backend/internal/core"
	"github.com/carterperez-dev/templates/event-backend/internal/user"
)

var (
	ErrExpiredToken   = fmt.Errorf("expired token: %w", core.ErrTokenExpired)
	ErrMalformedToken = fmt.Errorf("malformed token: %w", core.ErrTokenInvalid)
)

const roleClaim = "role"

// exp is carried in whole seconds. jwx rejects now == exp, so its own
// check gets one second of slack and Validate decides the boundary.
const expiryGrace = time.Second

// TokenManager issues and validates HS256 access tokens signed with the
// process-wide secret.
type TokenManager struct {
	key    jwk.Key
	config config.JWTConfig
}

type Claims struct {
	Subject   int64
	Role      user.Role
	ExpiresAt time.Time
}

func NewTokenManager(cfg config.JWTConfig) (*TokenManager, error) {
	if len(cfg.Secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 bytes")
	}

	if cfg.AccessTokenExpire <= 0 {
		return nil, fmt.Errorf("jwt access token expiry must be positive")
	}

	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import signing key: %w", err)
	}

	if setErr := key.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return &TokenManager{
		key:    key,
		config: cfg,
	}, nil
}

func (m *TokenManager) TTL() time.Duration {
	return m.config.AccessTokenExpire
}

// Issue signs a token for subjectID that expires TTL after now.
func (m *TokenManager) Issue(
	subjectID int64,
	role user.Role,
	now time.Time,
) (string, time.Time, error) {
	if !role.Valid() {
		return "", time.Time{}, fmt.Errorf("issue token: invalid role %q", role)
	}

	now = now.Truncate(time.Second)
	expiresAt := now.Add(m.config.AccessTokenExpire)

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(strconv.FormatInt(subjectID, 10)).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim(roleClaim, role.String()).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return string(signed), expiresAt, nil
}

// Validate verifies the signature and claims of tokenString as of now.
// A token is still valid at its exp instant and expired strictly after it.
func (m *TokenManager) Validate(tokenString string, now time.Time) (*Claims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(false),
	)
	if err != nil {
		return nil, fmt.Errorf("validate token: %w", ErrMalformedToken)
	}

	expiresAt, ok := token.Expiration()
	if !ok {
		return nil, fmt.Errorf("validate token: missing exp: %w", ErrMalformedToken)
	}

	if now.After(expiresAt) {
		return nil, fmt.Errorf("validate token: %w", ErrExpiredToken)
	}

	err = jwt.Validate(token,
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
		jwt.WithAcceptableSkew(expiryGrace),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		return nil, fmt.Errorf("validate token: %w", ErrMalformedToken)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("validate token: missing subject: %w", ErrMalformedToken)
	}

	subjectID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || subjectID < 1 {
		return nil, fmt.Errorf("validate token: bad subject: %w", ErrMalformedToken)
	}

	var roleStr string
	if err := token.Get(roleClaim, &roleStr); err != nil {
		return nil, fmt.Errorf("validate token: missing role claim: %w", ErrMalformedToken)
	}

	role := user.Role(roleStr)
	if !role.Valid() {
		return nil, fmt.Errorf("validate token: unknown role: %w", ErrMalformedToken)
	}

	return &Claims{
		Subject:   subjectID,
		Role:      role,
		ExpiresAt: expiresAt,
	}, nil
}
