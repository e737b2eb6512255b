package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type VerifyEmailMessage struct {
	Token      string `json:"token"`
	OnResponse func(user *User)
}

func (e VerifyEmailMessage) Type() string { return "user.verify_email" }

// VerifyEmailHandler redeems a verification token: equality and expiry
// are checked at lookup, then the token is cleared so it cannot be
// replayed.
type VerifyEmailHandler struct {
	repo     RepositoryManager
	logger   Logger
	activity ActivitySink
}

func NewVerifyEmailHandler(repo RepositoryManager, logger Logger, activity ActivitySink) *VerifyEmailHandler {
	return &VerifyEmailHandler{
		repo:     repo,
		logger:   normalizeLogger(logger),
		activity: normalizeActivitySink(activity),
	}
}

func (h *VerifyEmailHandler) Execute(ctx context.Context, event VerifyEmailMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during email verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyEmailHandler) execute(ctx context.Context, event VerifyEmailMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByVerificationToken(ctx, event.Token)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrSideTokenInvalid
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up verification token")
	}

	if SideTokenExpired(user.VerificationTokenExpire, time.Now()) {
		return ErrSideTokenInvalid
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return h.repo.Users().MarkVerifiedTx(ctx, tx, user.ID)
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark account verified")
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.VerificationTokenExpire = nil

	h.activity.RecordActivity(ctx, newActivityEvent(ActivityEmailVerified, user))

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}
