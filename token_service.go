package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenExpirationHours keeps sessions alive for seven days.
const DefaultTokenExpirationHours = 168

// TokenService mints and validates HS256 session tokens.
type TokenService interface {
	Generate(identity Identity) (string, error)
	Validate(raw string) (*JWTClaims, error)
}

type tokenService struct {
	signingKey []byte
	expiration time.Duration
	issuer     string
	audience   []string
	logger     Logger
}

// NewTokenService builds a TokenService over a shared HMAC key. A non
// positive expirationHours falls back to DefaultTokenExpirationHours.
func NewTokenService(signingKey string, expirationHours int, issuer string, audience []string, logger Logger) TokenService {
	if expirationHours <= 0 {
		expirationHours = DefaultTokenExpirationHours
	}
	return &tokenService{
		signingKey: []byte(signingKey),
		expiration: time.Duration(expirationHours) * time.Hour,
		issuer:     issuer,
		audience:   audience,
		logger:     normalizeLogger(logger),
	}
}

// NewTokenServiceFromConfig builds the token service from a Config.
func NewTokenServiceFromConfig(cfg Config, logger Logger) TokenService {
	return NewTokenService(
		cfg.GetSigningKey(),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		logger,
	)
}

func (s *tokenService) Generate(identity Identity) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings(s.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
		UID:      identity.ID(),
		UserRole: identity.Role(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		s.logger.Error("token signing failed: %v", err)
		return "", wrapInternal(err, "unable to sign session token")
	}
	return signed, nil
}

func (s *tokenService) Validate(raw string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		s.logger.Debug("token validation failed: %v", err)
		return nil, ErrTokenMalformed
	}

	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
