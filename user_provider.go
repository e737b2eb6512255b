package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
)

// Login throttling: after MaxLoginAttempts consecutive failures the
// account is locked out for LoginAttemptCooldown.
const (
	MaxLoginAttempts     = 5
	LoginAttemptCooldown = 24 * time.Hour
)

// UserProvider verifies credentials against the store and enforces the
// login throttle. Failure ordering is part of the API contract: unknown
// identifier, then throttle, then password, then verification state.
type UserProvider struct {
	repo     RepositoryManager
	logger   Logger
	maxTries int
	cooldown time.Duration
}

type UserProviderOption func(*UserProvider)

func WithLoginThrottle(maxTries int, cooldown time.Duration) UserProviderOption {
	return func(p *UserProvider) {
		p.maxTries = maxTries
		p.cooldown = cooldown
	}
}

func NewUserProvider(repo RepositoryManager, logger Logger, opts ...UserProviderOption) *UserProvider {
	provider := &UserProvider{
		repo:     repo,
		logger:   normalizeLogger(logger),
		maxTries: MaxLoginAttempts,
		cooldown: LoginAttemptCooldown,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(provider)
		}
	}
	return provider
}

// VerifyIdentity resolves the account for identifier and checks password
// and verification state, tracking attempts for the throttle.
func (p *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (*User, error) {
	user, err := p.repo.Users().GetByEmail(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, wrapInternal(err, "unable to load account")
	}

	if p.isThrottled(user) {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(user.PasswordHash, password); err != nil {
		if terr := p.repo.Users().TrackAttemptedLogin(ctx, user); terr != nil {
			p.logger.Error("unable to track login attempt for %s: %v", user.ID, terr)
		}
		return nil, ErrMismatchedHashAndPassword
	}

	if !user.IsVerified {
		return nil, ErrAccountNotVerified
	}

	if err := p.repo.Users().TrackSuccessfulLogin(ctx, user); err != nil {
		p.logger.Error("unable to track login for %s: %v", user.ID, err)
	}

	return user, nil
}

// FindByID loads an account by its id.
func (p *UserProvider) FindByID(ctx context.Context, id string) (*User, error) {
	user, err := p.repo.Users().GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, wrapInternal(err, "unable to load account")
	}
	return user, nil
}

func (p *UserProvider) isThrottled(user *User) bool {
	if user.LoginAttempts < p.maxTries {
		return false
	}
	if user.LoginAttemptAt == nil {
		return false
	}
	return IsWithinThresholdPeriod(*user.LoginAttemptAt, p.cooldown)
}
