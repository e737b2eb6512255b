package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`

	// Dermatologist extras, ignored for other roles.
	Degree    string `json:"degree"`
	Specialty string `json:"specialty"`
	Location  string `json:"location"`

	// UseHashid derives the account id deterministically from the email
	// instead of a random uuid.
	UseHashid bool `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler creates the account, issues a verification token,
// and dispatches the verification email. Email delivery is fire and
// forget: a failed send is logged, never surfaced to the caller.
type RegisterUserHandler struct {
	repo            RepositoryManager
	mailer          Dispatcher
	links           LinkBuilder
	logger          Logger
	activity        ActivitySink
	dispatchTimeout time.Duration
}

func NewRegisterUserHandler(repo RepositoryManager, mailer Dispatcher, links LinkBuilder, logger Logger, activity ActivitySink) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:            repo,
		mailer:          mailer,
		links:           links,
		logger:          normalizeLogger(logger),
		activity:        normalizeActivitySink(activity),
		dispatchTimeout: 10 * time.Second,
	}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	role, err := ParseRole(event.Role)
	if err != nil {
		return err
	}

	if _, err := h.repo.Users().GetByEmail(ctx, event.Email); err == nil {
		return ErrDuplicateEmail
	} else if !repository.IsRecordNotFound(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		return err
	}

	token, err := NewSideToken()
	if err != nil {
		return err
	}
	expiry := SideTokenExpiry(VerificationTokenTTL)

	user := &User{
		Name:                    event.Name,
		Email:                   event.Email,
		PasswordHash:            hash,
		Role:                    role,
		Degree:                  event.Degree,
		Specialty:               event.Specialty,
		Location:                event.Location,
		VerificationToken:       token,
		VerificationTokenExpire: &expiry,
	}
	if event.UseHashid {
		if id, err := hashid.NewUUID(event.Email); err == nil {
			user.ID = id
		}
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "User already exists")
		}
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	h.dispatchVerificationEmail(user, token)
	h.activity.RecordActivity(ctx, newActivityEvent(ActivityUserRegistered, user))

	return nil
}

func (h *RegisterUserHandler) dispatchVerificationEmail(user *User, token string) {
	if h.mailer == nil {
		h.logger.Warn("no mailer configured, skipping verification email for %s", user.Email)
		return
	}

	link := h.links.VerifyEmail(token)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.dispatchTimeout)
		defer cancel()

		if err := h.mailer.SendVerificationEmail(ctx, user.Email, user.Name, link); err != nil {
			h.logger.Error("verification email to %s failed: %v", user.Email, err)
		}
	}()
}
