package auth

import "time"

// Session is the decoded view of a validated session token.
type Session interface {
	GetUserID() string
	GetRole() string
	GetIssuer() string
	GetAudience() []string
	GetIssuedAt() *time.Time
	GetExpiration() *time.Time
}

// SessionObject is the concrete Session built from JWTClaims.
type SessionObject struct {
	UserID     string     `json:"user_id"`
	Role       string     `json:"role"`
	Issuer     string     `json:"issuer,omitempty"`
	Audience   []string   `json:"audience,omitempty"`
	IssuedAt   *time.Time `json:"issued_at,omitempty"`
	Expiration *time.Time `json:"expiration,omitempty"`
}

func (s SessionObject) GetUserID() string          { return s.UserID }
func (s SessionObject) GetRole() string            { return s.Role }
func (s SessionObject) GetIssuer() string          { return s.Issuer }
func (s SessionObject) GetAudience() []string      { return s.Audience }
func (s SessionObject) GetIssuedAt() *time.Time    { return s.IssuedAt }
func (s SessionObject) GetExpiration() *time.Time { return s.Expiration }

func sessionFromClaims(claims *JWTClaims) Session {
	s := SessionObject{
		UserID:   claims.UID,
		Role:     claims.UserRole,
		Issuer:   claims.Issuer,
		Audience: claims.Audience,
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = &claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.Expiration = &claims.ExpiresAt.Time
	}
	return s
}
