package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type FinalizePasswordResetMessage struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (e FinalizePasswordResetMessage) Type() string { return "user.password_reset_finalize" }

// FinalizePasswordResetHandler redeems a reset token and installs the
// new password hash. The token columns are cleared in the same statement
// so the token is single use. Existing session tokens stay valid.
type FinalizePasswordResetHandler struct {
	repo     RepositoryManager
	logger   Logger
	activity ActivitySink
}

func NewFinalizePasswordResetHandler(repo RepositoryManager, logger Logger, activity ActivitySink) *FinalizePasswordResetHandler {
	return &FinalizePasswordResetHandler{
		repo:     repo,
		logger:   normalizeLogger(logger),
		activity: normalizeActivitySink(activity),
	}
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByResetToken(ctx, event.Token)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrSideTokenInvalid
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up reset token")
	}

	if SideTokenExpired(user.ResetPasswordExpire, time.Now()) {
		return ErrSideTokenInvalid
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		return err
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return h.repo.Users().ResetPasswordTx(ctx, tx, user.ID, hash)
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reset password")
	}

	h.activity.RecordActivity(ctx, newActivityEvent(ActivityPasswordResetCompleted, user))

	return nil
}
