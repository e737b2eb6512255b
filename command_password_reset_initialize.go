package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

type InitializePasswordResetMessage struct {
	Email string `json:"email"`
}

func (e InitializePasswordResetMessage) Type() string { return "user.password_reset_init" }

// InitializePasswordResetHandler issues a reset token and emails the
// reset link. Unlike registration the email is load bearing here: if
// delivery fails the token is cleared and the caller gets an error, so
// no unreachable reset token is left dangling on the account.
type InitializePasswordResetHandler struct {
	repo            RepositoryManager
	mailer          Dispatcher
	links           LinkBuilder
	logger          Logger
	activity        ActivitySink
	dispatchTimeout time.Duration
}

func NewInitializePasswordResetHandler(repo RepositoryManager, mailer Dispatcher, links LinkBuilder, logger Logger, activity ActivitySink) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		repo:            repo,
		mailer:          mailer,
		links:           links,
		logger:          normalizeLogger(logger),
		activity:        normalizeActivitySink(activity),
		dispatchTimeout: 10 * time.Second,
	}
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	token, err := NewSideToken()
	if err != nil {
		return err
	}
	expiry := SideTokenExpiry(PasswordResetTokenTTL)

	if err := h.repo.Users().SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store reset token")
	}

	if err := h.sendResetEmail(ctx, user, token); err != nil {
		h.logger.Error("reset email to %s failed: %v", user.Email, err)
		if cerr := h.repo.Users().ClearResetToken(ctx, user.ID); cerr != nil {
			h.logger.Error("unable to clear reset token for %s: %v", user.ID, cerr)
		}
		return ErrEmailDispatchFailed
	}

	h.activity.RecordActivity(ctx, newActivityEvent(ActivityPasswordResetRequested, user))

	return nil
}

func (h *InitializePasswordResetHandler) sendResetEmail(ctx context.Context, user *User, token string) error {
	if h.mailer == nil {
		return goerrors.New("no mailer configured", goerrors.CategoryOperation)
	}

	ctx, cancel := context.WithTimeout(ctx, h.dispatchTimeout)
	defer cancel()

	return h.mailer.SendPasswordResetEmail(ctx, user.Email, user.Name, h.links.ResetPassword(token))
}
