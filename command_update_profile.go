package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

type UpdateProfileMessage struct {
	UserID     uuid.UUID
	Patch      ProfilePatch
	OnResponse func(user *User)
}

func (e UpdateProfileMessage) Type() string { return "user.update_profile" }

// UpdateProfileHandler applies the allow listed profile fields and marks
// onboarding complete. An empty patch still completes onboarding, that
// is how the product records "nothing to add".
type UpdateProfileHandler struct {
	repo     RepositoryManager
	logger   Logger
	activity ActivitySink
}

func NewUpdateProfileHandler(repo RepositoryManager, logger Logger, activity ActivitySink) *UpdateProfileHandler {
	return &UpdateProfileHandler{
		repo:     repo,
		logger:   normalizeLogger(logger),
		activity: normalizeActivitySink(activity),
	}
}

func (h *UpdateProfileHandler) Execute(ctx context.Context, event UpdateProfileMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during profile update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdateProfileHandler) execute(ctx context.Context, event UpdateProfileMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().UpdateProfile(ctx, event.UserID, event.Patch)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update profile")
	}

	h.activity.RecordActivity(ctx, newActivityEvent(ActivityProfileUpdated, user))

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}
