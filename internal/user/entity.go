// AngelaMos | 2026
// entity.go

package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/event-backend/internal/core"
)

type Role string

const (
	RoleNormal Role = "normal"
	RoleAdmin  Role = "admin"
)

// ParseRole accepts only the two known roles. An empty string maps to
// RoleNormal.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleNormal:
		return RoleNormal, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("parse role %q: %w", s, core.ErrInvalidInput)
	}
}

func (r Role) Valid() bool {
	return r == RoleNormal || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail is applied before every store and lookup so that email
// uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
