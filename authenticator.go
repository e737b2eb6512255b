package auth

import (
	"context"
)

// Auther is the default Authenticator: it verifies credentials through an
// IdentityProvider and mints session tokens through a TokenService.
type Auther struct {
	provider IdentityProvider
	tokens   TokenService
	logger   Logger
	activity ActivitySink
}

type AutherOption func(*Auther)

func WithAutherLogger(logger Logger) AutherOption {
	return func(a *Auther) {
		a.logger = normalizeLogger(logger)
	}
}

func WithAutherActivitySink(sink ActivitySink) AutherOption {
	return func(a *Auther) {
		a.activity = normalizeActivitySink(sink)
	}
}

func NewAuthenticator(provider IdentityProvider, tokens TokenService, opts ...AutherOption) *Auther {
	auther := &Auther{
		provider: provider,
		tokens:   tokens,
		logger:   defLogger{},
		activity: noopActivitySink{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(auther)
		}
	}
	return auther
}

// Login verifies credentials and returns a signed session token plus the
// account it belongs to.
func (a *Auther) Login(ctx context.Context, identifier, password string) (string, *User, error) {
	user, err := a.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		a.logger.Debug("login rejected for %q: %v", identifier, err)
		event := ActivityEvent{Type: ActivityLoginFailed, Email: identifier}
		a.activity.RecordActivity(ctx, event)
		return "", nil, err
	}

	token, err := a.tokens.Generate(NewIdentityFromUser(user))
	if err != nil {
		a.logger.Error("unable to mint session token for %s: %v", user.ID, err)
		return "", nil, err
	}

	a.activity.RecordActivity(ctx, newActivityEvent(ActivityLoginSucceeded, user))

	return token, user, nil
}

// SessionFromToken validates a raw session token and returns its session
// view.
func (a *Auther) SessionFromToken(token string) (Session, error) {
	claims, err := a.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return sessionFromClaims(claims), nil
}

// IdentityFromSession resolves the account a session belongs to.
func (a *Auther) IdentityFromSession(ctx context.Context, session Session) (*User, error) {
	return a.provider.FindByID(ctx, session.GetUserID())
}
