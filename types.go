package auth

import (
	"context"
	"log"
)

// Logger is the minimal logging surface the package needs. Adapters for
// structured loggers live with the host application.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type defLogger struct{}

func (l defLogger) Debug(format string, args ...any) { log.Printf("[DBG] "+format, args...) }
func (l defLogger) Info(format string, args ...any)  { log.Printf("[INF] "+format, args...) }
func (l defLogger) Warn(format string, args ...any)  { log.Printf("[WRN] "+format, args...) }
func (l defLogger) Error(format string, args ...any) { log.Printf("[ERR] "+format, args...) }

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}

// Identity is the authenticated principal a session token is minted for.
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// Config carries the token and middleware settings. Getters rather than
// fields so hosts can back it with whatever config layer they use.
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
}

// IdentityProvider resolves and verifies accounts for the authenticator.
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// Authenticator is the login surface exposed to transports.
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (string, *User, error)
	SessionFromToken(token string) (Session, error)
	IdentityFromSession(ctx context.Context, session Session) (*User, error)
}

// Dispatcher delivers lifecycle notifications. Implementations must treat
// the context deadline as the delivery budget.
type Dispatcher interface {
	SendVerificationEmail(ctx context.Context, to, name, link string) error
	SendPasswordResetEmail(ctx context.Context, to, name, link string) error
}

// LinkBuilder renders the frontend URLs embedded in lifecycle emails.
type LinkBuilder struct {
	BaseURL string
}

func (b LinkBuilder) VerifyEmail(token string) string {
	return b.BaseURL + "/verify-email/" + token
}

func (b LinkBuilder) ResetPassword(token string) string {
	return b.BaseURL + "/reset-password/" + token
}
