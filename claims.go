package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims is the session token payload: registered claims plus the two
// application claims the API contracts on, uid and role.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid"`
	UserRole string `json:"role"`
}

// UserID returns the uid claim.
func (c *JWTClaims) UserID() string {
	return c.UID
}

// Role returns the role claim.
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// HasAnyRole reports whether the claim's role is in the given allow list.
// An empty list allows any authenticated principal.
func (c *JWTClaims) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if c.UserRole == role {
			return true
		}
	}
	return false
}

// IsAdmin is a convenience for the most common gate.
func (c *JWTClaims) IsAdmin() bool {
	return c.UserRole == RoleAdmin.String()
}

// Expiration returns the exp claim, zero when absent.
func (c *JWTClaims) Expiration() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Expired reports whether the token is past its expiry at the given time.
func (c *JWTClaims) Expired(now time.Time) bool {
	exp := c.Expiration()
	return !exp.IsZero() && now.After(exp)
}
